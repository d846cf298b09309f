package structure

import (
	"github.com/leapstack-labs/modcheck/pkg/lint"
)

func init() {
	lint.Register(ComponentsPresence)
}

// ComponentsPresence requires at least one component of either kind.
var ComponentsPresence = lint.RuleDef{
	ID:          "ST02",
	Name:        "components-presence",
	Group:       lint.GroupStructure,
	Description: "The module must include at least one rpm or module component.",
	Severity:    lint.SeverityFail,
	Check:       checkComponentsPresence,

	Rationale: `A module is a collection of components. With neither rpms nor
modules listed there is nothing to build.`,

	BadExample: `components: {}`,

	GoodExample: `components:
  rpms:
    httpd:
      rationale: The web server itself.`,
}

func checkComponentsPresence(ctx *lint.Context, _ map[string]any) ([]lint.Finding, error) {
	ctx.Logger().Info("checking for presence of components")

	doc := ctx.Document()
	if len(doc.RPMComponents())+len(doc.ModuleComponents()) > 0 {
		return nil, nil
	}
	return []lint.Finding{{
		RuleID:   "ST02",
		Severity: lint.SeverityFail,
		Message:  "no rpm or module components",
	}}, nil
}
