package lint_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	itestutil "github.com/leapstack-labs/modcheck/internal/testutil"
	"github.com/leapstack-labs/modcheck/pkg/lint"
	"github.com/leapstack-labs/modcheck/pkg/lint/linttest"
	"github.com/leapstack-labs/modcheck/pkg/modulemd"
)

func emit(id string, sev lint.Severity, msgs ...string) lint.CheckFunc {
	return func(_ *lint.Context, _ map[string]any) ([]lint.Finding, error) {
		var out []lint.Finding
		for _, m := range msgs {
			out = append(out, lint.Finding{RuleID: id, Severity: sev, Message: m})
		}
		return out, nil
	}
}

func ruleIDs(findings []lint.Finding) []string {
	ids := make([]string, 0, len(findings))
	for _, f := range findings {
		ids = append(ids, f.RuleID)
	}
	return ids
}

func TestAnalyzer_RunsRulesInGroupOrder(t *testing.T) {
	rules := []lint.RuleDef{
		{ID: "PH01", Group: lint.GroupPlaceholder, Check: emit("PH01", lint.SeverityWarn, "p")},
		{ID: "SP01", Group: lint.GroupSpelling, Check: emit("SP01", lint.SeverityWarn, "s")},
		{ID: "ST02", Group: lint.GroupStructure, Check: emit("ST02", lint.SeverityFail, "b")},
		{ID: "ST01", Group: lint.GroupStructure, Check: emit("ST01", lint.SeverityFail, "a")},
		{ID: "PU01", Group: lint.GroupPunctuation, Check: emit("PU01", lint.SeverityFail, "d")},
	}

	analyzer := lint.NewAnalyzer(nil, lint.WithRules(rules))
	report := analyzer.Analyze(context.Background(), "test.yaml", linttest.Valid())

	assert.Equal(t, []string{"ST01", "ST02", "PU01", "SP01", "PH01"}, ruleIDs(report.Findings()))
	assert.Equal(t, "test.yaml", report.Source)
}

func TestAnalyzer_SetupErrorDoesNotStopOtherRules(t *testing.T) {
	rules := []lint.RuleDef{
		{
			ID:    "SP01",
			Group: lint.GroupSpelling,
			Check: func(ctx *lint.Context, _ map[string]any) ([]lint.Finding, error) {
				if _, err := ctx.SpellChecker(); err != nil {
					return nil, err
				}
				return nil, nil
			},
		},
		{ID: "PU01", Group: lint.GroupPunctuation, Check: emit("PU01", lint.SeverityFail, "no period")},
		{ID: "PH01", Group: lint.GroupPlaceholder, Check: emit("PH01", lint.SeverityInfo, "nothing to check")},
	}

	analyzer := lint.NewAnalyzer(nil,
		lint.WithRules(rules),
		lint.WithSpellCheckerFactory(linttest.FailingFactory(errors.New("dictionary en_US not found"))),
	)
	report := analyzer.Analyze(context.Background(), "doc", linttest.Valid())

	sp := report.ByRule("SP01")
	require.Len(t, sp, 1)
	assert.Equal(t, lint.SeverityFail, sp[0].Severity)
	assert.Contains(t, sp[0].Message, "dictionary en_US not found")

	assert.Len(t, report.ByRule("PU01"), 1)
	assert.Len(t, report.ByRule("PH01"), 1)
	assert.True(t, report.Failed())
}

func TestAnalyzer_PanicBecomesFinding(t *testing.T) {
	rules := []lint.RuleDef{
		{
			ID:    "ST01",
			Group: lint.GroupStructure,
			Check: func(_ *lint.Context, _ map[string]any) ([]lint.Finding, error) {
				var components map[string]lint.ComponentInfo
				components["x"] = lint.ComponentInfo{}
				return nil, nil
			},
		},
		{ID: "ST02", Group: lint.GroupStructure, Check: emit("ST02", lint.SeverityWarn, "still runs")},
	}

	report := lint.NewAnalyzer(nil, lint.WithRules(rules)).Analyze(context.Background(), "doc", linttest.Valid())

	st01 := report.ByRule("ST01")
	require.Len(t, st01, 1)
	assert.Equal(t, lint.SeverityFail, st01[0].Severity)
	assert.Contains(t, st01[0].Message, "rule panicked")
	assert.Len(t, report.ByRule("ST02"), 1)
}

func TestAnalyzer_MissingCheckFunc(t *testing.T) {
	rules := []lint.RuleDef{{ID: "ST09", Group: lint.GroupStructure}}

	report := lint.NewAnalyzer(nil, lint.WithRules(rules)).Analyze(context.Background(), "doc", linttest.Valid())

	require.Len(t, report.Findings(), 1)
	assert.Equal(t, lint.SeverityFail, report.Findings()[0].Severity)
}

func TestAnalyzer_DisableRule(t *testing.T) {
	rules := []lint.RuleDef{
		{ID: "TEST01", Group: lint.GroupStructure, Check: emit("TEST01", lint.SeverityWarn, "test message")},
	}

	report := lint.NewAnalyzer(nil, lint.WithRules(rules)).Analyze(context.Background(), "doc", linttest.Valid())
	require.Len(t, report.Findings(), 1)

	cfg := lint.NewConfig()
	cfg.Disable("TEST01")
	analyzer := lint.NewAnalyzer(cfg, lint.WithRules(rules))
	report = analyzer.Analyze(context.Background(), "doc", linttest.Valid())

	assert.Empty(t, report.Findings())
	assert.Empty(t, analyzer.Rules())
}

func TestAnalyzer_SeverityOverride(t *testing.T) {
	rules := []lint.RuleDef{
		{ID: "PH02", Group: lint.GroupPlaceholder, Check: emit("PH02", lint.SeverityWarn, "unverified")},
		{ID: "SP01", Group: lint.GroupSpelling, Advisory: true, Check: emit("SP01", lint.SeverityWarn, "typo")},
	}

	cfg := lint.NewConfig()
	cfg.SetSeverity("PH02", lint.SeverityFail)
	cfg.SetSeverity("SP01", lint.SeverityFail)

	report := lint.NewAnalyzer(cfg, lint.WithRules(rules)).Analyze(context.Background(), "doc", linttest.Valid())

	require.Len(t, report.ByRule("PH02"), 1)
	assert.Equal(t, lint.SeverityFail, report.ByRule("PH02")[0].Severity)

	require.Len(t, report.ByRule("SP01"), 1)
	assert.Equal(t, lint.SeverityWarn, report.ByRule("SP01")[0].Severity, "advisory rules are never escalated")

	cfg.SetSeverity("SP01", lint.SeverityInfo)
	report = lint.NewAnalyzer(cfg, lint.WithRules(rules)).Analyze(context.Background(), "doc", linttest.Valid())
	assert.Equal(t, lint.SeverityInfo, report.ByRule("SP01")[0].Severity, "advisory rules may be downgraded")
}

func TestAnalyzer_SetupFailureIgnoresSeverityOverride(t *testing.T) {
	rules := []lint.RuleDef{
		{
			ID:    "SP02",
			Group: lint.GroupSpelling,
			Check: func(_ *lint.Context, _ map[string]any) ([]lint.Finding, error) {
				return nil, errors.New("boom")
			},
		},
	}
	cfg := lint.NewConfig()
	cfg.SetSeverity("SP02", lint.SeverityInfo)

	report := lint.NewAnalyzer(cfg, lint.WithRules(rules)).Analyze(context.Background(), "doc", linttest.Valid())

	require.Len(t, report.Findings(), 1)
	assert.Equal(t, lint.SeverityFail, report.Findings()[0].Severity)
}

func TestAnalyzer_RuleOptionsPassedThrough(t *testing.T) {
	var got map[string]any
	rules := []lint.RuleDef{{
		ID:    "SP03",
		Group: lint.GroupSpelling,
		Check: func(_ *lint.Context, opts map[string]any) ([]lint.Finding, error) {
			got = opts
			return nil, nil
		},
	}}
	cfg := lint.NewConfig()
	cfg.SetRuleOptions("SP03", map[string]any{"ignore_words": []any{"httpd"}})

	lint.NewAnalyzer(cfg, lint.WithRules(rules)).Analyze(context.Background(), "doc", linttest.Valid())

	assert.Equal(t, []string{"httpd"}, lint.GetStringSliceOption(got, "ignore_words", nil))
}

func TestAnalyzer_Idempotent(t *testing.T) {
	rules := []lint.RuleDef{
		{ID: "ST01", Group: lint.GroupStructure, Check: emit("ST01", lint.SeverityFail, "a", "b")},
		{ID: "PH02", Group: lint.GroupPlaceholder, Check: emit("PH02", lint.SeverityWarn, "c")},
	}
	doc := linttest.Valid()
	analyzer := lint.NewAnalyzer(nil, lint.WithRules(rules))

	first := analyzer.Analyze(context.Background(), "doc", doc)
	second := analyzer.Analyze(context.Background(), "doc", doc)

	assert.Equal(t, first.Findings(), second.Findings())
}

func TestAnalyzer_ParallelMatchesSequential(t *testing.T) {
	groups := map[string]string{
		"ST": lint.GroupStructure,
		"PU": lint.GroupPunctuation,
		"SP": lint.GroupSpelling,
		"PH": lint.GroupPlaceholder,
	}
	var rules []lint.RuleDef
	for _, id := range []string{"PH02", "ST01", "SP02", "PU03", "ST02", "PU01", "PU02", "SP01", "PH01"} {
		rules = append(rules, lint.RuleDef{ID: id, Group: groups[id[:2]], Check: emit(id, lint.SeverityWarn, id+"-1", id+"-2")})
	}

	sequential := lint.NewAnalyzer(nil, lint.WithRules(rules)).Analyze(context.Background(), "doc", linttest.Valid())

	cfg := lint.NewConfig()
	cfg.Parallel = true
	parallel := lint.NewAnalyzer(cfg, lint.WithRules(rules)).Analyze(context.Background(), "doc", linttest.Valid())

	assert.Equal(t, sequential.Findings(), parallel.Findings())
	assert.Len(t, parallel.Findings(), 18)
}

func TestAnalyzer_RuleTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	rules := []lint.RuleDef{
		{
			ID:    "SP01",
			Group: lint.GroupSpelling,
			Check: func(_ *lint.Context, _ map[string]any) ([]lint.Finding, error) {
				<-release
				return nil, nil
			},
		},
		{ID: "PH01", Group: lint.GroupPlaceholder, Check: emit("PH01", lint.SeverityInfo, "ok")},
	}
	cfg := lint.NewConfig()
	cfg.RuleTimeout = 20 * time.Millisecond

	report := lint.NewAnalyzer(cfg, lint.WithRules(rules)).Analyze(context.Background(), "doc", linttest.Valid())

	sp := report.ByRule("SP01")
	require.Len(t, sp, 1)
	assert.Equal(t, lint.SeverityFail, sp[0].Severity)
	assert.Contains(t, sp[0].Message, "rule timed out")
	assert.Len(t, report.ByRule("PH01"), 1)
}

func TestAnalyzer_CancelledContext(t *testing.T) {
	rules := []lint.RuleDef{
		{ID: "ST01", Group: lint.GroupStructure, Check: emit("ST01", lint.SeverityInfo, "ran")},
		{ID: "ST02", Group: lint.GroupStructure, Check: emit("ST02", lint.SeverityInfo, "ran")},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := lint.NewAnalyzer(nil, lint.WithRules(rules)).Analyze(ctx, "doc", linttest.Valid())

	require.Len(t, report.Findings(), 2)
	for _, f := range report.Findings() {
		assert.Equal(t, lint.SeverityFail, f.Severity)
		assert.Contains(t, f.Message, "not run")
	}
}

func TestAnalyzer_SpellCheckerConstructedOnce(t *testing.T) {
	calls := 0
	useChecker := func(id string) lint.CheckFunc {
		return func(ctx *lint.Context, _ map[string]any) ([]lint.Finding, error) {
			checker, err := ctx.SpellChecker()
			if err != nil {
				return nil, err
			}
			var out []lint.Finding
			for _, m := range checker.Check(ctx.Document().Summary()) {
				out = append(out, lint.Finding{RuleID: id, Severity: lint.SeverityWarn, Word: m.Word})
			}
			return out, nil
		}
	}
	rules := []lint.RuleDef{
		{ID: "SP01", Group: lint.GroupSpelling, Check: useChecker("SP01")},
		{ID: "SP02", Group: lint.GroupSpelling, Check: useChecker("SP02")},
		{ID: "SP03", Group: lint.GroupSpelling, Check: useChecker("SP03")},
	}
	doc := linttest.Valid()
	doc.SummaryText = "Apache HTTP servr"

	analyzer := lint.NewAnalyzer(nil,
		lint.WithRules(rules),
		lint.WithSpellCheckerFactory(linttest.CountingFactory(linttest.Factory(linttest.WordList{"servr"}), &calls)),
	)
	report := analyzer.Analyze(context.Background(), "doc", doc)

	assert.Equal(t, 1, calls)
	assert.Len(t, report.Findings(), 3)

	analyzer.Analyze(context.Background(), "doc", doc)
	assert.Equal(t, 2, calls, "a fresh checker is built for each run")
}

func TestAnalyzer_NilDocument(t *testing.T) {
	report := lint.NewAnalyzer(nil, lint.WithRules(nil)).Analyze(context.Background(), "missing.yaml", nil)

	require.Len(t, report.Findings(), 1)
	assert.Equal(t, lint.LoadRuleID, report.Findings()[0].RuleID)
	assert.True(t, report.Failed())
}

func TestAnalyzer_TypedNilDocument(t *testing.T) {
	var doc *modulemd.Document

	analyzer := lint.NewAnalyzer(nil, lint.WithLogger(itestutil.NewTestLogger(t)))

	var report *lint.Report
	require.NotPanics(t, func() {
		report = analyzer.Analyze(context.Background(), "missing.yaml", doc)
	})
	require.Len(t, report.Findings(), 1)
	assert.Equal(t, lint.LoadRuleID, report.Findings()[0].RuleID)
	assert.Contains(t, report.Findings()[0].Message, "no metadata loaded for missing.yaml")
}

func TestAnalyzer_DumpPanicIsLogged(t *testing.T) {
	var doc *linttest.Document

	logger, logs := itestutil.NewCaptureLogger(slog.LevelDebug)
	analyzer := lint.NewAnalyzer(nil, lint.WithRules(nil), lint.WithLogger(logger))

	var report *lint.Report
	require.NotPanics(t, func() {
		report = analyzer.Analyze(context.Background(), "doc", doc)
	})
	assert.Empty(t, report.Findings())
	assert.Contains(t, logs.String(), "could not dump metadata")
	assert.Contains(t, logs.String(), "panic=")
}

func TestAnalyzer_EmptyDump(t *testing.T) {
	doc := linttest.Valid()
	doc.DumpEmpty = true

	logger, logs := itestutil.NewCaptureLogger(slog.LevelDebug)
	lint.NewAnalyzer(nil, lint.WithRules(nil), lint.WithLogger(logger)).Analyze(context.Background(), "doc", doc)

	assert.Contains(t, logs.String(), "metadata dump is empty")
	assert.NotContains(t, logs.String(), "could not dump metadata")
	assert.NotContains(t, logs.String(), "error=<nil>")
}

func TestAnalyzer_DumpLoggedAtDebug(t *testing.T) {
	calls := 0
	doc := linttest.Valid()
	doc.DumpCalls = &calls

	logger, logs := itestutil.NewCaptureLogger(slog.LevelDebug)
	analyzer := lint.NewAnalyzer(nil, lint.WithRules(nil), lint.WithLogger(logger))
	analyzer.Analyze(context.Background(), "doc", doc)
	assert.Equal(t, 1, calls)
	assert.Contains(t, logs.String(), "metadata dump")
	assert.Contains(t, logs.String(), "name: httpd")

	analyzer = lint.NewAnalyzer(nil, lint.WithRules(nil))
	analyzer.Analyze(context.Background(), "doc", doc)
	assert.Equal(t, 1, calls, "dump is skipped when debug logging is off")
}

func TestAnalyzer_DumpFailureIsNotAFinding(t *testing.T) {
	doc := linttest.Valid()
	doc.DumpErr = errors.New("cannot encode")

	logger, logs := itestutil.NewCaptureLogger(slog.LevelDebug)
	analyzer := lint.NewAnalyzer(nil, lint.WithRules(nil), lint.WithLogger(logger))
	report := analyzer.Analyze(context.Background(), "doc", doc)

	assert.Empty(t, report.Findings())
	assert.Contains(t, logs.String(), "could not dump metadata")
	assert.Contains(t, logs.String(), "cannot encode")
}

func TestAnalyzer_Metrics(t *testing.T) {
	rules := []lint.RuleDef{
		{ID: "ST01", Group: lint.GroupStructure, Check: emit("ST01", lint.SeverityFail, "a", "b")},
		{
			ID:    "SP01",
			Group: lint.GroupSpelling,
			Check: func(_ *lint.Context, _ map[string]any) ([]lint.Finding, error) {
				return nil, errors.New("no dictionary")
			},
		},
	}
	metrics := lint.NewMetrics()
	analyzer := lint.NewAnalyzer(nil, lint.WithRules(rules), lint.WithMetrics(metrics))

	analyzer.Analyze(context.Background(), "doc", linttest.Valid())

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["modcheck_findings_total"])
	assert.True(t, names["modcheck_rule_setup_errors_total"])
	assert.True(t, names["modcheck_rule_duration_seconds"])
	assert.True(t, names["modcheck_documents_total"])

	expected := `
# HELP modcheck_documents_total The total number of documents validated, by outcome
# TYPE modcheck_documents_total counter
modcheck_documents_total{outcome="fail"} 1
`
	require.NoError(t, testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(expected), "modcheck_documents_total"))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *lint.Metrics
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteToTextfile("ignored"))
	m.ObserveReport(nil)
}
