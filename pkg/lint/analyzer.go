package lint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Analyzer runs lint rules against a module metadata document.
type Analyzer struct {
	config  *Config
	logger  *slog.Logger
	factory SpellCheckerFactory
	metrics *Metrics
	rules   []RuleDef // nil means the global registry
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for run diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithSpellCheckerFactory sets how spelling rules obtain their checker.
func WithSpellCheckerFactory(factory SpellCheckerFactory) Option {
	return func(a *Analyzer) {
		a.factory = factory
	}
}

// WithMetrics records rule activity into m.
func WithMetrics(m *Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// WithRules replaces the registry rules with an explicit list.
// The list is run in the same group/ID order as registry rules.
func WithRules(rules []RuleDef) Option {
	return func(a *Analyzer) {
		a.rules = make([]RuleDef, len(rules))
		copy(a.rules, rules)
		sortRules(a.rules)
	}
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config, opts ...Option) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	a := &Analyzer{
		config: config,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Rules returns the enabled rules in execution order.
func (a *Analyzer) Rules() []RuleDef {
	all := a.rules
	if all == nil {
		all = GetAll()
	}
	enabled := make([]RuleDef, 0, len(all))
	for _, rule := range all {
		if a.config.IsDisabled(rule.ID) {
			continue
		}
		enabled = append(enabled, rule)
	}
	return enabled
}

// Analyze runs every enabled rule exactly once against doc and returns the final report.
// Rule failures never escape: each becomes a FAIL finding tagged with the rule's ID.
func (a *Analyzer) Analyze(ctx context.Context, source string, doc Document) *Report {
	report := &Report{Source: source}
	if isNilDocument(doc) {
		report.add(Finding{
			RuleID:   LoadRuleID,
			Severity: SeverityFail,
			Message:  fmt.Sprintf("no metadata loaded for %s", source),
		})
		a.metrics.ObserveReport(report)
		return report
	}

	logger := a.logger.With("source", source)
	a.logDump(logger, doc)

	rc := NewContext(doc, a.config.GetLocale(), a.factory, logger)
	rules := a.Rules()
	results := make([][]Finding, len(rules))

	if a.config.Parallel {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, rule := range rules {
			g.Go(func() error {
				results[i] = a.runRule(ctx, rc, rule)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, rule := range rules {
			results[i] = a.runRule(ctx, rc, rule)
		}
	}

	for _, findings := range results {
		report.add(findings...)
	}

	counts := report.Counts()
	logger.Info("validation complete",
		"rules", len(rules),
		"fail", counts.Fail,
		"warn", counts.Warn,
		"info", counts.Info,
	)
	a.metrics.ObserveReport(report)
	return report
}

// runRule executes one rule and converts any setup error into a finding.
func (a *Analyzer) runRule(ctx context.Context, rc *Context, rule RuleDef) []Finding {
	if err := ctx.Err(); err != nil {
		return []Finding{setupFailure(rule.ID, fmt.Errorf("not run: %w", err))}
	}

	start := time.Now()
	findings, err := a.invoke(ctx, rc, rule)
	elapsed := time.Since(start)

	if err != nil {
		rc.Logger().Warn("rule setup failed", "rule", rule.ID, "error", err)
		failed := []Finding{setupFailure(rule.ID, err)}
		a.metrics.observeRule(rule.ID, elapsed, failed, true)
		return failed
	}

	for i := range findings {
		findings[i] = a.applySeverity(rule, findings[i])
	}
	rc.Logger().Debug("rule finished", "rule", rule.ID, "findings", len(findings), "elapsed", elapsed)
	a.metrics.observeRule(rule.ID, elapsed, findings, false)
	return findings
}

// invoke runs the rule's Check, bounded by Config.RuleTimeout when set.
// A timed-out rule keeps running in the background; its result is discarded.
func (a *Analyzer) invoke(ctx context.Context, rc *Context, rule RuleDef) ([]Finding, error) {
	opts := a.config.GetRuleOptions(rule.ID)
	timeout := a.config.RuleTimeout
	if timeout <= 0 {
		return safeCheck(rc, rule, opts)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		findings []Finding
		err      error
	}
	done := make(chan result, 1)
	go func() {
		findings, err := safeCheck(rc, rule, opts)
		done <- result{findings: findings, err: err}
	}()

	select {
	case r := <-done:
		return r.findings, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrRuleTimeout, timeout)
		}
		return nil, ctx.Err()
	}
}

// safeCheck calls the rule and recovers a panic into an error.
func safeCheck(rc *Context, rule RuleDef, opts map[string]any) (findings []Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			findings = nil
			err = fmt.Errorf("%w: %v", ErrRulePanic, r)
		}
	}()
	if rule.Check == nil {
		return nil, fmt.Errorf("rule %s has no check function", rule.ID)
	}
	return rule.Check(rc, opts)
}

// applySeverity applies configured overrides. Advisory rules are never escalated to FAIL.
func (a *Analyzer) applySeverity(rule RuleDef, f Finding) Finding {
	sev := a.config.GetSeverity(rule.ID, f.Severity)
	if rule.Advisory && sev == SeverityFail {
		return f
	}
	f.Severity = sev
	return f
}

// isNilDocument also catches a nil pointer stored in the interface, for
// documents that report it through IsZero.
func isNilDocument(doc Document) bool {
	if doc == nil {
		return true
	}
	z, ok := doc.(interface{ IsZero() bool })
	return ok && z.IsZero()
}

func (a *Analyzer) logDump(logger *slog.Logger, doc Document) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("could not dump metadata", "panic", r)
		}
	}()

	data, err := doc.Dump()
	switch {
	case err != nil:
		logger.Warn("could not dump metadata", "error", err)
	case data == "":
		logger.Debug("metadata dump is empty")
	default:
		logger.Debug("metadata dump", "dump", data)
	}
}

func setupFailure(ruleID string, err error) Finding {
	return Finding{
		RuleID:   ruleID,
		Severity: SeverityFail,
		Message:  fmt.Sprintf("rule could not run: %v", err),
	}
}
