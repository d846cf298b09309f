package placeholder

import (
	"fmt"

	"github.com/leapstack-labs/modcheck/pkg/lint"
)

// Where a component is fetched from when it does not say otherwise.
const (
	DefaultRepository = "dist-git"
	DefaultRef        = "master"
)

func init() {
	lint.Register(ComponentAvailability)
}

// ComponentAvailability reports every component as unverified against its source.
var ComponentAvailability = lint.RuleDef{
	ID:          "PH02",
	Name:        "component-availability",
	Group:       lint.GroupPlaceholder,
	Description: "Component availability in the source repository has not been verified.",
	Severity:    lint.SeverityWarn,
	Check:       checkComponentAvailability,
}

func checkComponentAvailability(ctx *lint.Context, _ map[string]any) ([]lint.Finding, error) {
	ctx.Logger().Debug("component availability lookup not implemented")

	doc := ctx.Document()
	var findings []lint.Finding
	for _, list := range [][]lint.ComponentInfo{doc.RPMComponents(), doc.ModuleComponents()} {
		for _, c := range list {
			repo, ref := c.Repository, c.Ref
			if repo == "" {
				repo = DefaultRepository
			}
			if ref == "" {
				ref = DefaultRef
			}
			findings = append(findings, lint.Finding{
				RuleID:   "PH02",
				Severity: lint.SeverityWarn,
				Subject:  c.Name,
				Message: fmt.Sprintf("Need to check availability of %s %s (repository: %s, ref: %s)",
					c.Kind.Label(), c.Name, repo, ref),
			})
		}
	}
	return findings, nil
}
