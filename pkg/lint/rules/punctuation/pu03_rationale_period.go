package punctuation

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/modcheck/pkg/lint"
)

func init() {
	lint.Register(RationalePeriod)
}

// RationalePeriod requires every component rationale to be present and end with a period.
var RationalePeriod = lint.RuleDef{
	ID:          "PU03",
	Name:        "rationale-period",
	Group:       lint.GroupPunctuation,
	Description: "Each component rationale must be present and end with a period.",
	Severity:    lint.SeverityFail,
	Check:       checkRationalePeriod,

	Rationale: `Every component has to justify its place in the module. Each
offending component is reported on its own.`,

	BadExample: `components:
  rpms:
    apr:
      rationale: Runtime dependency`,

	GoodExample: `components:
  rpms:
    apr:
      rationale: Runtime dependency.`,
}

// checkRationalePeriod walks rpm components, then module components, in document order.
func checkRationalePeriod(ctx *lint.Context, _ map[string]any) ([]lint.Finding, error) {
	ctx.Logger().Info("checking for presence of component rationales that are properly punctuated")

	doc := ctx.Document()
	var findings []lint.Finding
	for _, list := range [][]lint.ComponentInfo{doc.RPMComponents(), doc.ModuleComponents()} {
		for _, c := range list {
			if f, ok := rationaleFinding(c); ok {
				findings = append(findings, f)
			}
		}
	}
	return findings, nil
}

func rationaleFinding(c lint.ComponentInfo) (lint.Finding, bool) {
	switch {
	case c.Rationale == "":
		return lint.Finding{
			RuleID:   "PU03",
			Severity: lint.SeverityFail,
			Subject:  c.Name,
			Message:  fmt.Sprintf("No rationale for %s %s", c.Kind.Label(), c.Name),
		}, true
	case !strings.HasSuffix(c.Rationale, "."):
		return lint.Finding{
			RuleID:   "PU03",
			Severity: lint.SeverityFail,
			Subject:  c.Name,
			Message:  fmt.Sprintf("Rationale for %s %s should end with a period: %s", c.Kind.Label(), c.Name, c.Rationale),
		}, true
	default:
		return lint.Finding{}, false
	}
}
