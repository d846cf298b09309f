// Package rules registers every modulemd lint rule.
//
// Rules are registered via init() functions when this package is imported:
//
//	import _ "github.com/leapstack-labs/modcheck/pkg/lint/rules"
//
// Rule groups, in execution order:
//   - ST (structure): required sections are present
//   - PU (punctuation): period conventions for free text
//   - SP (spelling): advisory spell-check of free text
//   - PH (placeholder): checks that always report an unverified state
package rules

import (
	// Register rule groups.
	_ "github.com/leapstack-labs/modcheck/pkg/lint/rules/placeholder"
	_ "github.com/leapstack-labs/modcheck/pkg/lint/rules/punctuation"
	_ "github.com/leapstack-labs/modcheck/pkg/lint/rules/spelling"
	_ "github.com/leapstack-labs/modcheck/pkg/lint/rules/structure"
)
