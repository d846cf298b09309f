package spelling

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/modcheck/pkg/lint"
)

const optIgnoreWords = "ignore_words"

// checkText runs checker over text and returns one WARN per flagged word.
// where describes the field in the message, e.g. "description".
func checkText(ruleID string, checker lint.SpellChecker, text, where, subject string, ignore []string) []lint.Finding {
	if text == "" {
		return nil
	}
	var findings []lint.Finding
	for _, m := range checker.Check(text) {
		if ignored(m.Word, ignore) {
			continue
		}
		findings = append(findings, lint.Finding{
			RuleID:     ruleID,
			Severity:   lint.SeverityWarn,
			Message:    fmt.Sprintf("Potential spelling problem in %s: %s", where, m.Word),
			Subject:    subject,
			Word:       m.Word,
			Suggestion: m.Suggestion,
		})
	}
	return findings
}

func ignored(word string, ignore []string) bool {
	for _, w := range ignore {
		if strings.EqualFold(w, word) {
			return true
		}
	}
	return false
}
