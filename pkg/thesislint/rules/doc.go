// Package rules provides the built-in thesis lint rules.
//
// # Rule Domains
//
//   - Metadata and bibliography:
//
//   - TM001: front-matter - YAML header, CSL location, bibliography files
//
//   - TM002: citation-keys - [@key] citations exist in the bibliography
//
//   - TM003: footnote-pairs - Footnotes are both used and defined
//
//   - Figures and tables:
//
//   - TM004: image-alt-text - Images carry a caption
//
//   - TM005: image-exists - Local image files exist
//
//   - TM006: table-caption - "Table: name" captions are well formed
//
//   - Listings:
//
//   - TM007: listing-attributes - Listing attribute blocks are well formed
//
//   - TM008: listing-language - Fences carry a language tag
//
//   - Cross-references:
//
//   - TM009: placeholder-format - {{kind:name}} placeholders are well formed
//
//   - TM010: crossref-resolution - Every placeholder resolves to a definition
//
//   - TM011: id-hygiene - Explicit identifiers are unique and prefixed
//
//   - TM015: duplicate-label - Several definitions share a name
//
//   - Structure and typography:
//
//   - TM012: heading-spacing - Headings are surrounded by blank lines
//
//   - TM013: fullwidth-punctuation - Markdown syntax uses ASCII punctuation
//
//   - TM014: required-sections - References section and refs anchor exist
//
//   - TM016: heading-numbering - Manual heading numbers match the level
//
// # Registration
//
// Rules are registered with thesislint.DefaultRegistry during init.
package rules
