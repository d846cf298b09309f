package lint

import (
	"fmt"
	"strings"
)

// Severity indicates the importance of a finding.
type Severity int

// Severity levels for findings. Lower values are more severe.
const (
	// SeverityFail blocks acceptance of the document.
	SeverityFail Severity = iota
	// SeverityWarn surfaces an issue for human review without blocking.
	SeverityWarn
	// SeverityInfo is purely informational.
	SeverityInfo
)

// String returns the report label of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityFail:
		return "FAIL"
	case SeverityWarn:
		return "WARN"
	case SeverityInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarn and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fail", "error":
		return SeverityFail, true
	case "warn", "warning":
		return SeverityWarn, true
	case "info":
		return SeverityInfo, true
	default:
		return SeverityWarn, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	sev, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("unknown severity %q", string(text))
	}
	*s = sev
	return nil
}
