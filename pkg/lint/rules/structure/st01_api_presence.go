package structure

import (
	"github.com/leapstack-labs/modcheck/pkg/lint"
)

func init() {
	lint.Register(APIPresence)
}

// APIPresence requires a non-empty api.rpms set.
var APIPresence = lint.RuleDef{
	ID:          "ST01",
	Name:        "api-presence",
	Group:       lint.GroupStructure,
	Description: "The module must declare a public API with at least one RPM.",
	Severity:    lint.SeverityFail,
	Check:       checkAPIPresence,

	Rationale: `The api section names the binary packages consumers may rely on.
A module without one gives no stability promise at all, so it is rejected.`,

	BadExample: `api:
  rpms: []`,

	GoodExample: `api:
  rpms:
    - httpd`,
}

func checkAPIPresence(ctx *lint.Context, _ map[string]any) ([]lint.Finding, error) {
	ctx.Logger().Info("checking for presence of proper API definition")

	api, ok := ctx.Document().API()
	if !ok {
		return []lint.Finding{{
			RuleID:   "ST01",
			Severity: lint.SeverityFail,
			Message:  "no api section",
		}}, nil
	}
	if len(api.RPMs) == 0 {
		return []lint.Finding{{
			RuleID:   "ST01",
			Severity: lint.SeverityFail,
			Message:  "api section lists no RPMs",
		}}, nil
	}
	return nil, nil
}
