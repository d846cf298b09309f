package spelling

import (
	"github.com/leapstack-labs/modcheck/pkg/lint"
)

func init() {
	lint.Register(DescriptionSpelling)
}

// DescriptionSpelling flags potential misspellings in the description.
var DescriptionSpelling = lint.RuleDef{
	ID:          "SP01",
	Name:        "description-spelling",
	Group:       lint.GroupSpelling,
	Description: "Potential spelling problems in the description.",
	Severity:    lint.SeverityWarn,
	Advisory:    true,
	ConfigKeys:  []string{optIgnoreWords},
	Check:       checkDescriptionSpelling,

	BadExample:  `description: The Apache HTTP server with it's core modlues.`,
	GoodExample: `description: The Apache HTTP server with its core modules.`,
}

func checkDescriptionSpelling(ctx *lint.Context, opts map[string]any) ([]lint.Finding, error) {
	ctx.Logger().Info("checking for spelling errors in description")

	checker, err := ctx.SpellChecker()
	if err != nil {
		return nil, err
	}
	ignore := lint.GetStringSliceOption(opts, optIgnoreWords, nil)
	return checkText("SP01", checker, ctx.Document().Description(), "description", "", ignore), nil
}
