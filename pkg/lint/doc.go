// Package lint provides the validation rule engine for module metadata documents.
//
// # Architecture
//
// The lint package follows a layered layout:
//
//  1. Root package (pkg/lint/): shared contracts, the rule registry, the Analyzer
//     that runs rules, and the Report it produces
//  2. Rule packages (pkg/lint/rules/<group>/): one file per rule, registered from init()
//  3. Collaborators (pkg/modulemd, pkg/spell): concrete implementations of the
//     Document and SpellChecker contracts defined here
//
// # Rule Registration
//
// Rules are registered via init() functions when their packages are imported:
//
//	import _ "github.com/leapstack-labs/modcheck/pkg/lint/rules"
//
// # Rule Groups
//
// Rules run in a fixed order: by group, then by ID.
//   - ST (structure): required sections are present
//   - PU (punctuation): summary, description and rationale punctuation conventions
//   - SP (spelling): misspellings in free-text fields, always advisory
//   - PH (placeholder): checks that are not implemented yet and say so
//
// # Running the Analyzer
//
//	config := lint.NewConfig()
//	config.Disable("PH02")
//	analyzer := lint.NewAnalyzer(config, lint.WithSpellCheckerFactory(spell.Factory()))
//	report := analyzer.Analyze(ctx, "module.yaml", doc)
//	if report.Failed() {
//		// at least one FAIL finding
//	}
//
// # Creating Custom Rules
//
//	func init() {
//		lint.Register(lint.RuleDef{
//			ID:          "MY01",
//			Name:        "my-rule",
//			Group:       "structure",
//			Description: "My custom rule description",
//			Severity:    lint.SeverityFail,
//			Check:       checkMyRule,
//		})
//	}
//
// A Check function returns an error only when it cannot run at all; the Analyzer
// turns that error into a single FAIL finding for the rule and keeps going.
package lint
