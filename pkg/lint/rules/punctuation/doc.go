// Package punctuation provides rules for the punctuation conventions of
// free-text fields.
//
// Descriptions and rationales are sentences and must end with a period.
// Summaries are phrases and must not.
//
//   - PU01: Description Period - description present and ends with '.'
//   - PU02: Summary No Period - summary present and does not end with '.'
//   - PU03: Rationale Period - every component rationale present and ends with '.'
package punctuation
