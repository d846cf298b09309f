package lint

import (
	"fmt"
	"strings"
)

// =============================================================================
// Document Interface
// =============================================================================

// Document is the read-only view of a loaded module metadata document.
// Implemented by modulemd.Document; defined here so rules never import the loader.
type Document interface {
	// Name returns the module name, if the document declares one.
	Name() string

	// Summary returns the one-line summary.
	Summary() string

	// Description returns the free-text description.
	Description() string

	// API returns the declared public surface; false when the api section is absent.
	API() (APIInfo, bool)

	// RPMComponents returns rpm components in document order.
	RPMComponents() []ComponentInfo

	// ModuleComponents returns module components in document order.
	ModuleComponents() []ComponentInfo

	// Requires returns runtime module dependencies in document order.
	Requires() []DependencyInfo

	// BuildRequires returns build-time module dependencies in document order.
	BuildRequires() []DependencyInfo

	// Dump returns a debuggable text serialization of the whole document.
	Dump() (string, error)
}

// APIInfo is the declared public surface of a module.
type APIInfo struct {
	RPMs []string `json:"rpms"` // Binary package names, duplicates removed
}

// ComponentKind distinguishes rpm components from module components.
type ComponentKind string

// Component kinds.
const (
	ComponentRPM    ComponentKind = "rpm"
	ComponentModule ComponentKind = "module"
)

// Label returns the human-readable kind used in messages.
func (k ComponentKind) Label() string {
	switch k {
	case ComponentRPM:
		return "component RPM"
	case ComponentModule:
		return "component module"
	default:
		return "component"
	}
}

// ComponentInfo describes one entry under components.rpms or components.modules.
type ComponentInfo struct {
	Name       string        `json:"name"`
	Kind       ComponentKind `json:"kind"`
	Rationale  string        `json:"rationale"`
	Repository string        `json:"repository,omitempty"` // Empty means the default dist-git repository
	Ref        string        `json:"ref,omitempty"`        // Empty means the default branch head
	BuildOrder int           `json:"buildorder,omitempty"`
}

// DependencyInfo is one module/stream pair from requires or buildrequires.
type DependencyInfo struct {
	Module string `json:"module"`
	Stream string `json:"stream"`
}

// =============================================================================
// Spell Checking
// =============================================================================

// Misspelling is a single word flagged by a SpellChecker.
type Misspelling struct {
	Word       string
	Suggestion string // Optional
}

// SpellChecker flags words in free text.
// Implementations must be safe for concurrent use and must not retain state between calls.
type SpellChecker interface {
	Check(text string) []Misspelling
}

// SpellCheckerFactory builds a SpellChecker for a locale such as "en_US".
// It fails when no dictionary is available for the locale.
type SpellCheckerFactory func(locale string) (SpellChecker, error)

// =============================================================================
// Findings
// =============================================================================

// Finding is a single rule outcome. Findings are values; nothing in them
// refers back to the document or the report.
type Finding struct {
	RuleID     string   `json:"rule_id"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Subject    string   `json:"subject,omitempty"`    // e.g. component or module name
	Word       string   `json:"word,omitempty"`       // Spelling payload
	Suggestion string   `json:"suggestion,omitempty"` // Spelling correction, when known
}

// String renders the finding as a single human-readable line.
func (f Finding) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", f.Severity, f.RuleID)
	if f.Subject != "" {
		fmt.Fprintf(&b, " [%s]", f.Subject)
	}
	b.WriteString(": ")
	b.WriteString(f.Message)
	return b.String()
}
