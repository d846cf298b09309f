package spelling

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/modcheck/pkg/lint"
	"github.com/leapstack-labs/modcheck/pkg/lint/linttest"
)

func newContext(doc lint.Document, words ...string) *lint.Context {
	return lint.NewContext(doc, "en_US", linttest.Factory(linttest.WordList(words)), nil)
}

func TestSP01_TwoFlaggedWords(t *testing.T) {
	doc := linttest.Valid()
	doc.DescText = "Ths is a tst."

	findings, err := checkDescriptionSpelling(newContext(doc, "Ths", "tst"), nil)
	require.NoError(t, err)

	require.Len(t, findings, 2)
	assert.Equal(t, "Ths", findings[0].Word)
	assert.Equal(t, "tst", findings[1].Word)
	for _, f := range findings {
		assert.Equal(t, lint.SeverityWarn, f.Severity)
		assert.Equal(t, "SP01", f.RuleID)
		assert.Empty(t, f.Subject)
	}
	assert.Equal(t, "Potential spelling problem in description: Ths", findings[0].Message)
}

func TestSpelling_EmptyTextYieldsNothing(t *testing.T) {
	doc := linttest.Valid()
	doc.DescText = ""
	doc.SummaryText = ""
	doc.RPMs = []lint.ComponentInfo{linttest.RPM("httpd", "")}

	ctx := newContext(doc, "Ths")
	for _, check := range []lint.CheckFunc{checkDescriptionSpelling, checkSummarySpelling, checkRationaleSpelling} {
		findings, err := check(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, findings)
	}
}

func TestSP02_SummarySpelling(t *testing.T) {
	doc := linttest.Valid()
	doc.SummaryText = "Apache HTTP servr"

	findings, err := checkSummarySpelling(newContext(doc, "servr"), nil)
	require.NoError(t, err)

	require.Len(t, findings, 1)
	assert.Equal(t, "SP02", findings[0].RuleID)
	assert.Equal(t, "servr", findings[0].Word)
}

func TestSP03_RationaleSubjects(t *testing.T) {
	doc := linttest.Valid()
	doc.RPMs = []lint.ComponentInfo{
		linttest.RPM("httpd", "The web servr."),
		linttest.RPM("apr", "Portable runtime."),
	}
	doc.Modules = []lint.ComponentInfo{
		linttest.Module("perl", "Needed by servr scripts."),
	}

	findings, err := checkRationaleSpelling(newContext(doc, "servr"), nil)
	require.NoError(t, err)

	require.Len(t, findings, 2)
	assert.Equal(t, "httpd", findings[0].Subject)
	assert.Equal(t, "Potential spelling problem in component RPM httpd rationale: servr", findings[0].Message)
	assert.Equal(t, "perl", findings[1].Subject)
	assert.Equal(t, "Potential spelling problem in component module perl rationale: servr", findings[1].Message)
}

func TestSpelling_IgnoreWords(t *testing.T) {
	doc := linttest.Valid()
	doc.DescText = "Ths is a tst."

	opts := map[string]any{"ignore_words": []any{"ths"}}
	findings, err := checkDescriptionSpelling(newContext(doc, "Ths", "tst"), opts)
	require.NoError(t, err)

	require.Len(t, findings, 1)
	assert.Equal(t, "tst", findings[0].Word)
}

func TestSpelling_CheckerUnavailable(t *testing.T) {
	ctx := lint.NewContext(linttest.Valid(), "xx_XX", linttest.FailingFactory(errors.New("no such dictionary")), nil)

	for _, check := range []lint.CheckFunc{checkDescriptionSpelling, checkSummarySpelling, checkRationaleSpelling} {
		findings, err := check(ctx, nil)
		assert.Nil(t, findings)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dictionary xx_XX")
	}
}

func TestSpellingRulesAreAdvisory(t *testing.T) {
	for _, rule := range lint.GetByGroup(lint.GroupSpelling) {
		assert.True(t, rule.Advisory, rule.ID)
		assert.Equal(t, lint.SeverityWarn, rule.Severity, rule.ID)
	}
	assert.Len(t, lint.GetByGroup(lint.GroupSpelling), 3)
}
