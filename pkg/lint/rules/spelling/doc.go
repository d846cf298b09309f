// Package spelling provides advisory spell-check rules for free-text fields.
//
// All spelling rules share the run's single spell checker, obtained from
// lint.Context. If the checker cannot be built each rule reports one FAIL;
// otherwise every flagged word becomes one WARN finding.
//
//   - SP01: Description Spelling
//   - SP02: Summary Spelling
//   - SP03: Rationale Spelling - per component, Subject is the component name
//
// Each rule accepts an "ignore_words" option listing words never reported.
package spelling
