package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/leapstack-labs/modcheck/internal/cli/config"
	"github.com/leapstack-labs/modcheck/internal/cli/output"
	"github.com/leapstack-labs/modcheck/internal/watch"
	"github.com/leapstack-labs/modcheck/pkg/lint"
	_ "github.com/leapstack-labs/modcheck/pkg/lint/rules" // register all rule groups
	"github.com/leapstack-labs/modcheck/pkg/modulemd"
	"github.com/leapstack-labs/modcheck/pkg/spell"
	"github.com/spf13/cobra"
)

// ErrValidationFailed is returned when at least one document has a FAIL finding.
var ErrValidationFailed = errors.New("validation failed")

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Format      string   // Output format: auto, text, markdown, json
	Disable     []string // Rule IDs to disable
	Severity    string   // Display threshold: fail, warn, info
	Rules       []string // Run only specific rules
	MetricsFile string   // Prometheus textfile written after each run
	Watch       bool     // Re-validate on change
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <file|dir|glob>...",
		Short: "Validate modulemd documents",
		Long: `Load each modulemd document and run every enabled rule against it.

Rules run in a fixed order: structure, punctuation, spelling, placeholder.
Findings are FAIL (blocks acceptance), WARN (needs review) or INFO.
The command exits non-zero when any document has a FAIL finding; --severity
only hides lower findings from the output and never changes the outcome.

Arguments may be files, directories (searched for *.yaml and *.yml) or
doublestar globs such as 'modules/**/*.yaml'.`,
		Example: `  # Validate one document
  modcheck validate httpd.yaml

  # Validate a tree of documents
  modcheck validate 'modules/**/*.yaml'

  # Only show failures, as JSON
  modcheck validate --severity fail --format json modules/

  # Skip the placeholder checks
  modcheck validate --disable PH01,PH02 httpd.yaml

  # British spelling, re-run on every save
  modcheck validate --locale en_GB --watch httpd.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: auto, text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "info", "Lowest severity to display: fail, warn, info")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-validate when matching files change")

	// Loaded through the config layer
	cmd.Flags().String("locale", "", "Spell-check locale (default en_US)")
	cmd.Flags().Bool("parallel", false, "Run rules concurrently")
	cmd.Flags().Duration("timeout", 0, "Per-rule time limit (0 disables)")

	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"fail", "warn", "info"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Modes, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runValidate(cmd *cobra.Command, args []string, opts *ValidateOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r, err := cmdCtx.rendererFor(cmd, opts.Format)
	if err != nil {
		return err
	}

	threshold, ok := lint.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("invalid severity %q (want fail, warn or info)", opts.Severity)
	}
	for _, id := range opts.Rules {
		if _, ok := lint.GetByID(normalizeRuleID(id)); !ok {
			return fmt.Errorf("unknown rule %q", id)
		}
	}

	patterns, err := toPatterns(args)
	if err != nil {
		return err
	}

	v := newValidator(cmdCtx, opts)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	failed, err := v.runOnce(ctx, r, patterns, threshold)
	if err != nil {
		return err
	}

	if opts.Watch {
		return v.watch(ctx, r, patterns, threshold)
	}
	if failed {
		return ErrValidationFailed
	}
	return nil
}

// validator runs the analyzer over a set of files.
type validator struct {
	cmdCtx      *CommandContext
	analyzer    *lint.Analyzer
	metrics     *lint.Metrics
	metricsFile string
}

func newValidator(cmdCtx *CommandContext, opts *ValidateOptions) *validator {
	cfg := cmdCtx.Cfg
	v := &validator{cmdCtx: cmdCtx, metricsFile: opts.MetricsFile}
	if opts.MetricsFile != "" {
		v.metrics = lint.NewMetrics()
	}

	factory := spell.Factory(
		spell.WithWords(cfg.Spelling.Words),
		spell.WithIgnore(cfg.Spelling.Ignore...),
		spell.WithDictionaryDirs(cfg.Spelling.DictionaryDirs...),
	)
	v.analyzer = lint.NewAnalyzer(buildLintConfig(cfg, opts),
		lint.WithLogger(cmdCtx.Logger),
		lint.WithSpellCheckerFactory(factory),
		lint.WithMetrics(v.metrics),
	)
	return v
}

// runOnce expands the patterns, validates every file and renders the result.
// It reports whether any document failed.
func (v *validator) runOnce(ctx context.Context, r *output.Renderer, patterns []string, threshold lint.Severity) (bool, error) {
	files, err := expandPatterns(patterns)
	if err != nil {
		return false, err
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no modulemd files matched %s", strings.Join(patterns, ", "))
	}

	reports := v.validateFiles(ctx, files)

	if v.metricsFile != "" {
		if err := v.metrics.WriteToTextfile(v.metricsFile); err != nil {
			return false, fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if err := renderValidation(r, reports, threshold); err != nil {
		return false, err
	}

	for _, rep := range reports {
		if rep.Failed() {
			return true, nil
		}
	}
	return false, nil
}

// validateFiles produces one report per file, in input order. A file that
// cannot be loaded gets a single LOAD finding and no rule runs for it.
func (v *validator) validateFiles(ctx context.Context, files []string) []*lint.Report {
	reports := make([]*lint.Report, 0, len(files))
	for _, file := range files {
		doc, err := modulemd.Load(file)
		if err != nil {
			v.cmdCtx.Logger.Warn("could not load document", "file", file, "error", err)
			rep := lint.NewLoadFailureReport(file, err)
			v.metrics.ObserveReport(rep)
			reports = append(reports, rep)
			continue
		}
		reports = append(reports, v.analyzer.Analyze(ctx, file, doc))
	}
	return reports
}

// watch re-validates on every change until ctx is cancelled.
func (v *validator) watch(ctx context.Context, r *output.Renderer, patterns []string, threshold lint.Severity) error {
	w, err := watch.New(watch.Config{
		Patterns: patterns,
		Logger:   v.cmdCtx.Logger,
		OnChange: func(ctx context.Context, changed []string) error {
			r.Errorf("\nChanged: %s\n\n", strings.Join(changed, ", "))
			_, err := v.runOnce(ctx, r, patterns, threshold)
			return err
		},
	})
	if err != nil {
		return err
	}
	r.Errorf("Watching %d director%s for changes (Ctrl+C to stop)\n", len(w.Dirs()), plural(len(w.Dirs()), "y", "ies"))
	return w.Run(ctx)
}

func buildLintConfig(cfg *config.Config, opts *ValidateOptions) *lint.Config {
	lintCfg := lint.NewConfig()

	// Apply file/env config first (lower precedence)
	if cfg != nil {
		for _, id := range cfg.Lint.Disabled {
			lintCfg.Disable(normalizeRuleID(id))
		}
		for id, sev := range cfg.Lint.Severity {
			lintCfg.SetSeverity(normalizeRuleID(id), sev)
		}
		for id, ruleOpts := range cfg.Lint.Rules {
			lintCfg.SetRuleOptions(normalizeRuleID(id), ruleOpts)
		}
		if cfg.Spelling.Locale != "" {
			lintCfg.Locale = cfg.Spelling.Locale
		}
		lintCfg.Parallel = cfg.Parallel
		lintCfg.RuleTimeout = cfg.Timeout
	}

	if opts == nil {
		return lintCfg
	}

	// Apply CLI flags (higher precedence)
	for _, id := range opts.Disable {
		lintCfg.Disable(normalizeRuleID(id))
	}

	// If specific rules requested, disable all others
	if len(opts.Rules) > 0 {
		enabled := make(map[string]bool, len(opts.Rules))
		for _, id := range opts.Rules {
			enabled[normalizeRuleID(id)] = true
		}
		for _, rule := range lint.GetAll() {
			if !enabled[rule.ID] {
				lintCfg.Disable(rule.ID)
			}
		}
	}

	return lintCfg
}

func normalizeRuleID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// toPatterns turns directory arguments into recursive YAML globs.
func toPatterns(args []string) ([]string, error) {
	patterns := make([]string, 0, len(args))
	for _, arg := range args {
		if !hasMeta(arg) {
			if info, err := os.Stat(arg); err == nil && info.IsDir() {
				patterns = append(patterns, filepath.Join(arg, "**", "*.{yaml,yml}"))
				continue
			}
			patterns = append(patterns, arg)
			continue
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(arg)) {
			return nil, fmt.Errorf("invalid pattern %q", arg)
		}
		patterns = append(patterns, arg)
	}
	return patterns, nil
}

// expandPatterns resolves globs to files. Literal paths are kept even when
// missing so the loader can report them.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(f string) {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}

	for _, p := range patterns {
		if !hasMeta(p) {
			add(p)
			continue
		}
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return files, nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// =============================================================================
// Rendering
// =============================================================================

// ValidateJSONOutput is the JSON output structure for validation results.
type ValidateJSONOutput struct {
	Files   []FileResult    `json:"files"`
	Summary ValidateSummary `json:"summary"`
}

// FileResult is the outcome for one document.
type FileResult struct {
	Source   string         `json:"source"`
	Passed   bool           `json:"passed"`
	Counts   lint.Summary   `json:"counts"`
	Findings []lint.Finding `json:"findings"`
}

// ValidateSummary totals a validation run.
type ValidateSummary struct {
	Files  int `json:"files"`
	Failed int `json:"failed"`
	lint.Summary
}

func summarize(reports []*lint.Report) ValidateSummary {
	s := ValidateSummary{Files: len(reports)}
	for _, rep := range reports {
		c := rep.Counts()
		s.Total += c.Total
		s.Fail += c.Fail
		s.Warn += c.Warn
		s.Info += c.Info
		if rep.Failed() {
			s.Failed++
		}
	}
	return s
}

func renderValidation(r *output.Renderer, reports []*lint.Report, threshold lint.Severity) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return renderValidationJSON(r, reports, threshold)
	case output.ModeMarkdown:
		renderValidationMarkdown(r, reports, threshold)
	default:
		renderValidationText(r, reports, threshold)
	}
	return nil
}

func renderValidationJSON(r *output.Renderer, reports []*lint.Report, threshold lint.Severity) error {
	out := ValidateJSONOutput{
		Files:   make([]FileResult, 0, len(reports)),
		Summary: summarize(reports),
	}
	for _, rep := range reports {
		findings := rep.AtOrAbove(threshold)
		if findings == nil {
			findings = []lint.Finding{}
		}
		out.Files = append(out.Files, FileResult{
			Source:   rep.Source,
			Passed:   !rep.Failed(),
			Counts:   rep.Counts(),
			Findings: findings,
		})
	}

	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func renderValidationText(r *output.Renderer, reports []*lint.Report, threshold lint.Severity) {
	styles := r.Styles()

	for _, rep := range reports {
		status := styles.Success.Render("PASS")
		if rep.Failed() {
			status = styles.Error.Render("FAIL")
		}
		r.Printf("%s %s\n", status, styles.Bold.Render(rep.Source))

		for _, f := range rep.AtOrAbove(threshold) {
			sevStyle := getSeverityStyle(styles, f.Severity)
			subject := ""
			if f.Subject != "" {
				subject = styles.Muted.Render("["+f.Subject+"] ")
			}
			r.Printf("  %s %s %s%s\n",
				sevStyle.Render(fmt.Sprintf("%-4s", f.Severity)),
				styles.Muted.Render(f.RuleID),
				subject,
				f.Message,
			)
		}
	}

	s := summarize(reports)
	r.Println("")
	line := fmt.Sprintf("%d file%s, %d failed: %d FAIL, %d WARN, %d INFO",
		s.Files, plural(s.Files, "", "s"), s.Failed, s.Fail, s.Warn, s.Info)
	if s.Failed > 0 {
		r.Println(styles.Error.Render(line))
	} else {
		r.Println(styles.Success.Render(line))
	}
}

func renderValidationMarkdown(r *output.Renderer, reports []*lint.Report, threshold lint.Severity) {
	r.Println("# Validation Results")
	r.Println("")

	for _, rep := range reports {
		status := "PASS"
		if rep.Failed() {
			status = "FAIL"
		}
		r.Printf("## %s (%s)\n\n", rep.Source, status)

		findings := rep.AtOrAbove(threshold)
		if len(findings) == 0 {
			r.Println("No findings.")
			r.Println("")
			continue
		}

		r.Println("| Severity | Rule | Subject | Message |")
		r.Println("| --- | --- | --- | --- |")
		for _, f := range findings {
			r.Printf("| %s | %s | %s | %s |\n",
				f.Severity, f.RuleID, escapeCell(f.Subject), escapeCell(f.Message))
		}
		r.Println("")
	}

	s := summarize(reports)
	r.Printf("**Summary:** %d file%s, %d failed: %d FAIL, %d WARN, %d INFO\n",
		s.Files, plural(s.Files, "", "s"), s.Failed, s.Fail, s.Warn, s.Info)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
