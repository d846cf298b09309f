package placeholder

import (
	"fmt"

	"github.com/leapstack-labs/modcheck/pkg/lint"
)

func init() {
	lint.Register(DependencySanity)
}

// DependencySanity reports every module dependency as unverified.
var DependencySanity = lint.RuleDef{
	ID:          "PH01",
	Name:        "dependency-sanity",
	Group:       lint.GroupPlaceholder,
	Description: "Module dependencies have not been checked against the module registry.",
	Severity:    lint.SeverityWarn,
	Check:       checkDependencySanity,

	Rationale: `Every referenced module and stream should exist in the registry.
That lookup is not implemented, so each dependency is listed for a human to verify.`,
}

func checkDependencySanity(ctx *lint.Context, _ map[string]any) ([]lint.Finding, error) {
	ctx.Logger().Debug("dependency registry lookup not implemented")

	doc := ctx.Document()
	requires, buildRequires := doc.Requires(), doc.BuildRequires()

	if len(requires) == 0 && len(buildRequires) == 0 {
		return []lint.Finding{info("No dependencies or build dependencies to sanity check")}, nil
	}

	var findings []lint.Finding
	if len(requires) == 0 {
		findings = append(findings, info("No dependencies to sanity check"))
	}
	for _, dep := range requires {
		findings = append(findings, lint.Finding{
			RuleID:   "PH01",
			Severity: lint.SeverityWarn,
			Subject:  dep.Module,
			Message:  fmt.Sprintf("Need to sanity check requires %s (stream: %s)", dep.Module, dep.Stream),
		})
	}

	if len(buildRequires) == 0 {
		findings = append(findings, info("No build dependencies to sanity check"))
	}
	for _, dep := range buildRequires {
		findings = append(findings, lint.Finding{
			RuleID:   "PH01",
			Severity: lint.SeverityWarn,
			Subject:  dep.Module,
			Message:  fmt.Sprintf("Need to sanity check build requires %s (stream: %s)", dep.Module, dep.Stream),
		})
	}
	return findings, nil
}

func info(msg string) lint.Finding {
	return lint.Finding{RuleID: "PH01", Severity: lint.SeverityInfo, Message: msg}
}
