package thesislint

import "github.com/yaklabco/thesismd/pkg/config"

// BaseRule provides a default implementation of the Rule interface.
// Embed this in rule implementations and override methods as needed.
type BaseRule struct {
	id       string
	name     string
	desc     string
	tags     []string
	severity config.Severity
	enabled  bool
}

// NewBaseRule creates an enabled BaseRule with the given properties.
func NewBaseRule(id, name, desc string, severity config.Severity, tags ...string) BaseRule {
	return BaseRule{
		id:       id,
		name:     name,
		desc:     desc,
		tags:     tags,
		severity: severity,
		enabled:  true,
	}
}

// DisabledByDefault returns a copy of the rule that must be enabled explicitly.
func (r BaseRule) DisabledByDefault() BaseRule {
	r.enabled = false
	return r
}

func (r *BaseRule) ID() string                       { return r.id }
func (r *BaseRule) Name() string                     { return r.name }
func (r *BaseRule) Description() string              { return r.desc }
func (r *BaseRule) DefaultEnabled() bool             { return r.enabled }
func (r *BaseRule) DefaultSeverity() config.Severity { return r.severity }
func (r *BaseRule) Tags() []string                   { return r.tags }

// Apply must be overridden by concrete rule implementations.
func (r *BaseRule) Apply(_ *RuleContext) ([]Diagnostic, error) {
	return nil, nil
}

// Diag starts a diagnostic attributed to this rule.
func (r *BaseRule) Diag(line int, message string) *DiagnosticBuilder {
	return NewDiagnostic(r.id, line, message)
}
