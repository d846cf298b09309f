package spelling

import (
	"github.com/leapstack-labs/modcheck/pkg/lint"
)

func init() {
	lint.Register(SummarySpelling)
}

// SummarySpelling flags potential misspellings in the summary.
var SummarySpelling = lint.RuleDef{
	ID:          "SP02",
	Name:        "summary-spelling",
	Group:       lint.GroupSpelling,
	Description: "Potential spelling problems in the summary.",
	Severity:    lint.SeverityWarn,
	Advisory:    true,
	ConfigKeys:  []string{optIgnoreWords},
	Check:       checkSummarySpelling,
}

func checkSummarySpelling(ctx *lint.Context, opts map[string]any) ([]lint.Finding, error) {
	ctx.Logger().Info("checking for spelling errors in summary")

	checker, err := ctx.SpellChecker()
	if err != nil {
		return nil, err
	}
	ignore := lint.GetStringSliceOption(opts, optIgnoreWords, nil)
	return checkText("SP02", checker, ctx.Document().Summary(), "summary", "", ignore), nil
}
