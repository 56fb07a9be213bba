package rules

import "github.com/yaklabco/thesismd/pkg/thesislint"

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *thesislint.Registry) {
	registry.Register(NewFrontMatterRule())          // TM001
	registry.Register(NewCitationKeysRule())         // TM002
	registry.Register(NewFootnotePairsRule())        // TM003
	registry.Register(NewImageAltTextRule())         // TM004
	registry.Register(NewImageExistsRule())          // TM005
	registry.Register(NewTableCaptionRule())         // TM006
	registry.Register(NewListingAttributesRule())    // TM007
	registry.Register(NewListingLanguageRule())      // TM008
	registry.Register(NewPlaceholderFormatRule())    // TM009
	registry.Register(NewCrossrefResolutionRule())   // TM010
	registry.Register(NewIDHygieneRule())            // TM011
	registry.Register(NewHeadingSpacingRule())       // TM012
	registry.Register(NewFullwidthPunctuationRule()) // TM013
	registry.Register(NewRequiredSectionsRule())     // TM014
	registry.Register(NewDuplicateLabelRule())       // TM015
	registry.Register(NewHeadingNumberingRule())     // TM016
	registry.Register(NewUnnumberedMarkerRule())     // TM017
	registry.Register(NewAbstractSectionsRule())     // TM018
	registry.Register(NewKeywordFormatRule())        // TM019
	registry.Register(NewAbstractHeadingCaseRule())  // TM020
	registry.Register(NewChapterCountRule())         // TM021
	registry.Register(NewImageLocationRule())        // TM022
	registry.Register(NewCitationFormatRule())       // TM023
	registry.Register(NewParagraphIndentRule())      // TM024
	registry.Register(NewOrderedListSpacingRule())   // TM025
	registry.Register(NewEmphasisPairingRule())      // TM026
}

//nolint:gochecknoinits // Rules self-register into the default registry.
func init() {
	RegisterAll(thesislint.DefaultRegistry)
}
