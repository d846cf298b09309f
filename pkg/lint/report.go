package lint

import "fmt"

// LoadRuleID tags the finding produced when a document cannot be loaded at all.
const LoadRuleID = "LOAD"

// Report is the ordered result of validating one document.
// The Analyzer appends to it while rules run; once returned it is final.
type Report struct {
	Source   string
	findings []Finding
}

// Summary counts findings by severity.
type Summary struct {
	Total int `json:"total"`
	Fail  int `json:"fail"`
	Warn  int `json:"warn"`
	Info  int `json:"info"`
}

// NewLoadFailureReport builds the report for a document that could not be loaded.
// No rule runs for such a document.
func NewLoadFailureReport(source string, err error) *Report {
	return &Report{
		Source: source,
		findings: []Finding{{
			RuleID:   LoadRuleID,
			Severity: SeverityFail,
			Message:  fmt.Sprintf("could not load modulemd file %s: %v", source, err),
		}},
	}
}

func (r *Report) add(findings ...Finding) {
	r.findings = append(r.findings, findings...)
}

// Findings returns a copy of all findings in rule order.
func (r *Report) Findings() []Finding {
	out := make([]Finding, len(r.findings))
	copy(out, r.findings)
	return out
}

// BySeverity returns findings with exactly the given severity.
func (r *Report) BySeverity(sev Severity) []Finding {
	var out []Finding
	for _, f := range r.findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

// ByRule returns findings emitted by one rule, in emission order.
func (r *Report) ByRule(ruleID string) []Finding {
	var out []Finding
	for _, f := range r.findings {
		if f.RuleID == ruleID {
			out = append(out, f)
		}
	}
	return out
}

// AtOrAbove returns findings at least as severe as threshold.
func (r *Report) AtOrAbove(threshold Severity) []Finding {
	var out []Finding
	for _, f := range r.findings {
		if f.Severity <= threshold {
			out = append(out, f)
		}
	}
	return out
}

// Counts summarizes the report by severity.
func (r *Report) Counts() Summary {
	s := Summary{Total: len(r.findings)}
	for _, f := range r.findings {
		switch f.Severity {
		case SeverityFail:
			s.Fail++
		case SeverityWarn:
			s.Warn++
		case SeverityInfo:
			s.Info++
		}
	}
	return s
}

// Failed reports whether any FAIL finding exists. WARN and INFO never fail a run.
func (r *Report) Failed() bool {
	for _, f := range r.findings {
		if f.Severity == SeverityFail {
			return true
		}
	}
	return false
}
