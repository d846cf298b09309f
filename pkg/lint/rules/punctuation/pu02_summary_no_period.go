package punctuation

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/modcheck/pkg/lint"
)

func init() {
	lint.Register(SummaryNoPeriod)
}

// SummaryNoPeriod requires a summary that does not end with a period.
var SummaryNoPeriod = lint.RuleDef{
	ID:          "PU02",
	Name:        "summary-no-period",
	Group:       lint.GroupPunctuation,
	Description: "The summary must be present and must not end with a period.",
	Severity:    lint.SeverityFail,
	Check:       checkSummaryNoPeriod,

	Rationale: `Summaries are shown in one-line listings next to the module name
and read as phrases, not sentences.`,

	BadExample:  `summary: Apache HTTP server.`,
	GoodExample: `summary: Apache HTTP server`,
}

func checkSummaryNoPeriod(ctx *lint.Context, _ map[string]any) ([]lint.Finding, error) {
	ctx.Logger().Info("checking for presence of summary that is properly punctuated")

	summary := ctx.Document().Summary()
	if summary == "" {
		return []lint.Finding{{
			RuleID:   "PU02",
			Severity: lint.SeverityFail,
			Message:  "No summary",
		}}, nil
	}
	if strings.HasSuffix(summary, ".") {
		return []lint.Finding{{
			RuleID:   "PU02",
			Severity: lint.SeverityFail,
			Message:  fmt.Sprintf("Summary should not end with a period: %s", summary),
		}}, nil
	}
	return nil, nil
}
