package lint

// Rule groups, in execution order.
const (
	GroupStructure   = "structure"
	GroupPunctuation = "punctuation"
	GroupSpelling    = "spelling"
	GroupPlaceholder = "placeholder"
)

// groupOrder fixes the order in which groups run. Unknown groups run last.
var groupOrder = []string{GroupStructure, GroupPunctuation, GroupSpelling, GroupPlaceholder}

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the Check function parameters.
type RuleDef struct {
	ID          string    // Unique identifier, e.g., "ST01"
	Name        string    // Human-readable name, e.g., "api-presence"
	Group       string    // Category, e.g., "structure", "spelling"
	Description string    // Human-readable description
	Severity    Severity  // Default severity
	Advisory    bool      // Findings may never be escalated to FAIL
	ConfigKeys  []string  // Configuration keys this rule accepts
	Check       CheckFunc // The check function

	// Documentation fields
	Rationale   string // Why this rule exists
	BadExample  string // YAML showing the anti-pattern
	GoodExample string // YAML showing the correct pattern
}

// CheckFunc inspects a document and returns findings.
// The opts parameter contains rule-specific options from configuration.
// A non-nil error means the rule could not run; the Analyzer records it as
// a single FAIL finding for the rule.
type CheckFunc func(ctx *Context, opts map[string]any) ([]Finding, error)

// RuleInfo provides metadata about a rule for documentation/tooling.
type RuleInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Group           string   `json:"group"`
	Description     string   `json:"description"`
	DefaultSeverity Severity `json:"default_severity"`
	Advisory        bool     `json:"advisory,omitempty"`
	ConfigKeys      []string `json:"config_keys,omitempty"`

	Rationale   string `json:"rationale,omitempty"`
	BadExample  string `json:"bad_example,omitempty"`
	GoodExample string `json:"good_example,omitempty"`
}

// Info extracts metadata from a rule for documentation/tooling.
func (r RuleDef) Info() RuleInfo {
	return RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		Advisory:        r.Advisory,
		ConfigKeys:      r.ConfigKeys,
		Rationale:       r.Rationale,
		BadExample:      r.BadExample,
		GoodExample:     r.GoodExample,
	}
}

func groupRank(group string) int {
	for i, g := range groupOrder {
		if g == group {
			return i
		}
	}
	return len(groupOrder)
}
