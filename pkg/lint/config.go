package lint

import "time"

// DefaultLocale is the spell-check locale used when none is configured.
const DefaultLocale = "en_US"

// Config controls which rules are enabled, their severity, and how the Analyzer runs them.
type Config struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]Severity

	// RuleOptions contains rule-specific options keyed by rule ID
	RuleOptions map[string]map[string]any

	// Locale selects the spell-check dictionary, e.g. "en_US"
	Locale string

	// Parallel runs rules concurrently; the report is identical to a sequential run
	Parallel bool

	// RuleTimeout bounds a single rule's run time; zero means no limit
	RuleTimeout time.Duration
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]Severity),
		RuleOptions:       make(map[string]map[string]any),
		Locale:            DefaultLocale,
	}
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[ruleID]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(ruleID string, defaultSeverity Severity) Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[ruleID]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// GetRuleOptions returns the options configured for a rule, or nil.
func (c *Config) GetRuleOptions(ruleID string) map[string]any {
	if c == nil {
		return nil
	}
	return c.RuleOptions[ruleID]
}

// GetLocale returns the configured locale, falling back to DefaultLocale.
func (c *Config) GetLocale() string {
	if c == nil || c.Locale == "" {
		return DefaultLocale
	}
	return c.Locale
}

// Disable disables a rule by ID.
func (c *Config) Disable(ruleID string) *Config {
	c.DisabledRules[ruleID] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(ruleID string, severity Severity) *Config {
	c.SeverityOverrides[ruleID] = severity
	return c
}

// SetRuleOptions sets rule-specific options.
func (c *Config) SetRuleOptions(ruleID string, opts map[string]any) *Config {
	c.RuleOptions[ruleID] = opts
	return c
}
