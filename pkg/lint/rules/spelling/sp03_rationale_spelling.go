package spelling

import (
	"fmt"

	"github.com/leapstack-labs/modcheck/pkg/lint"
)

func init() {
	lint.Register(RationaleSpelling)
}

// RationaleSpelling flags potential misspellings in component rationales.
var RationaleSpelling = lint.RuleDef{
	ID:          "SP03",
	Name:        "rationale-spelling",
	Group:       lint.GroupSpelling,
	Description: "Potential spelling problems in component rationales.",
	Severity:    lint.SeverityWarn,
	Advisory:    true,
	ConfigKeys:  []string{optIgnoreWords},
	Check:       checkRationaleSpelling,

	Rationale: `Rationales are read by reviewers deciding whether a component
belongs in the module. Findings name the component they came from.`,
}

func checkRationaleSpelling(ctx *lint.Context, opts map[string]any) ([]lint.Finding, error) {
	ctx.Logger().Info("checking for spelling errors in component rationales")

	checker, err := ctx.SpellChecker()
	if err != nil {
		return nil, err
	}
	ignore := lint.GetStringSliceOption(opts, optIgnoreWords, nil)

	doc := ctx.Document()
	var findings []lint.Finding
	for _, list := range [][]lint.ComponentInfo{doc.RPMComponents(), doc.ModuleComponents()} {
		for _, c := range list {
			where := fmt.Sprintf("%s %s rationale", c.Kind.Label(), c.Name)
			findings = append(findings, checkText("SP03", checker, c.Rationale, where, c.Name, ignore)...)
		}
	}
	return findings, nil
}
