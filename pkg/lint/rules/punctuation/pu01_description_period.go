package punctuation

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/modcheck/pkg/lint"
)

func init() {
	lint.Register(DescriptionPeriod)
}

// DescriptionPeriod requires a description that ends with a period.
var DescriptionPeriod = lint.RuleDef{
	ID:          "PU01",
	Name:        "description-period",
	Group:       lint.GroupPunctuation,
	Description: "The description must be present and end with a period.",
	Severity:    lint.SeverityFail,
	Check:       checkDescriptionPeriod,

	BadExample:  `description: The Apache HTTP server`,
	GoodExample: `description: The Apache HTTP server.`,
}

func checkDescriptionPeriod(ctx *lint.Context, _ map[string]any) ([]lint.Finding, error) {
	ctx.Logger().Info("checking for presence of description that is properly punctuated")

	desc := ctx.Document().Description()
	if desc == "" {
		return []lint.Finding{{
			RuleID:   "PU01",
			Severity: lint.SeverityFail,
			Message:  "No description",
		}}, nil
	}
	if !strings.HasSuffix(desc, ".") {
		return []lint.Finding{{
			RuleID:   "PU01",
			Severity: lint.SeverityFail,
			Message:  fmt.Sprintf("Description should end with a period: %s", desc),
		}}, nil
	}
	return nil, nil
}
