package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/modcheck/internal/cli/config"
	"github.com/leapstack-labs/modcheck/internal/cli/testutil"
	"github.com/leapstack-labs/modcheck/pkg/lint"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SilenceUsage = true
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func validateJSON(t *testing.T, args ...string) (ValidateJSONOutput, error) {
	t.Helper()
	out, err := execute(t, NewValidateCommand(), append([]string{"--format", "json"}, args...)...)
	var result ValidateJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result), "output: %s", out)
	return result, err
}

func findingRules(findings []lint.Finding) []string {
	ids := make([]string, 0, len(findings))
	for _, f := range findings {
		ids = append(ids, f.RuleID)
	}
	return ids
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	assert.Equal(t, "validate <file|dir|glob>...", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"format", "disable", "severity", "rule", "metrics-file", "watch", "locale", "parallel", "timeout"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestBuildLintConfig(t *testing.T) {
	t.Run("empty options", func(t *testing.T) {
		cfg := buildLintConfig(nil, &ValidateOptions{})

		require.NotNil(t, cfg)
		assert.False(t, cfg.IsDisabled("ST01"))
		assert.Equal(t, lint.DefaultLocale, cfg.GetLocale())
	})

	t.Run("config file values", func(t *testing.T) {
		c := config.Default()
		c.Parallel = true
		c.Timeout = time.Second
		c.Spelling.Locale = "en_GB"
		c.Lint.Disabled = []string{" ph01 "}
		c.Lint.Severity = map[string]lint.Severity{"st01": lint.SeverityWarn}
		c.Lint.Rules = map[string]config.RuleOptions{"SP01": {"ignore_words": []any{"httpd"}}}

		cfg := buildLintConfig(c, &ValidateOptions{})

		assert.True(t, cfg.IsDisabled("PH01"))
		assert.Equal(t, lint.SeverityWarn, cfg.GetSeverity("ST01", lint.SeverityFail))
		assert.Equal(t, []any{"httpd"}, cfg.GetRuleOptions("SP01")["ignore_words"])
		assert.Equal(t, "en_GB", cfg.GetLocale())
		assert.True(t, cfg.Parallel)
		assert.Equal(t, time.Second, cfg.RuleTimeout)
	})

	t.Run("disable rules", func(t *testing.T) {
		cfg := buildLintConfig(nil, &ValidateOptions{Disable: []string{"PH01", "ph02"}})

		assert.True(t, cfg.IsDisabled("PH01"))
		assert.True(t, cfg.IsDisabled("PH02"))
		assert.False(t, cfg.IsDisabled("ST01"))
	})

	t.Run("enable only specific rules", func(t *testing.T) {
		cfg := buildLintConfig(nil, &ValidateOptions{Rules: []string{"PU01", "PU02"}})

		assert.False(t, cfg.IsDisabled("PU01"))
		assert.False(t, cfg.IsDisabled("PU02"))
		assert.True(t, cfg.IsDisabled("ST01"))
		assert.True(t, cfg.IsDisabled("SP03"))
	})
}

func TestValidateCommand_Pass(t *testing.T) {
	dir := testutil.SetupModules(t, map[string]string{"httpd.yaml": testutil.ValidModule})
	path := filepath.Join(dir, "httpd.yaml")

	out, err := execute(t, NewValidateCommand(), path)
	require.NoError(t, err)

	assert.Contains(t, out, "# Validation Results")
	assert.Contains(t, out, "## "+path+" (PASS)")
	assert.Contains(t, out, "| WARN | PH01 | platform |")
	assert.Contains(t, out, "**Summary:** 1 file, 0 failed: 0 FAIL, 3 WARN, 0 INFO")
	testutil.AssertValidMarkdown(t, out)
}

func TestValidateCommand_Fail(t *testing.T) {
	dir := testutil.SetupModules(t, map[string]string{"nginx.yaml": testutil.FailingModule})

	out, err := execute(t, NewValidateCommand(), filepath.Join(dir, "nginx.yaml"))
	require.ErrorIs(t, err, ErrValidationFailed)

	assert.Contains(t, out, "(FAIL)")
	assert.Contains(t, out, "Summary should not end with a period: Nginx web server.")
	assert.Contains(t, out, "No dependencies or build dependencies to sanity check")
}

func TestValidateCommand_SeverityIsDisplayOnly(t *testing.T) {
	dir := testutil.SetupModules(t, map[string]string{
		"httpd.yaml": testutil.ValidModule,
		"nginx.yaml": testutil.FailingModule,
	})

	t.Run("hidden warnings do not change a pass", func(t *testing.T) {
		result, err := validateJSON(t, "--severity", "fail", filepath.Join(dir, "httpd.yaml"))
		require.NoError(t, err)
		require.Len(t, result.Files, 1)
		assert.Empty(t, result.Files[0].Findings)
		assert.Equal(t, 3, result.Files[0].Counts.Warn, "counts cover every finding")
	})

	t.Run("failures stay visible and still fail", func(t *testing.T) {
		result, err := validateJSON(t, "--severity", "fail", filepath.Join(dir, "nginx.yaml"))
		require.ErrorIs(t, err, ErrValidationFailed)
		require.Len(t, result.Files, 1)
		assert.Equal(t, []string{"PU02"}, findingRules(result.Files[0].Findings))
	})

	t.Run("invalid threshold", func(t *testing.T) {
		_, err := execute(t, NewValidateCommand(), "--severity", "loud", filepath.Join(dir, "httpd.yaml"))
		require.ErrorContains(t, err, "invalid severity")
	})
}

func TestValidateCommand_LoadFailureDoesNotStopOthers(t *testing.T) {
	dir := testutil.SetupModules(t, map[string]string{"httpd.yaml": testutil.ValidModule})
	missing := filepath.Join(dir, "missing.yaml")

	result, err := validateJSON(t, missing, filepath.Join(dir, "httpd.yaml"))
	require.ErrorIs(t, err, ErrValidationFailed)

	require.Len(t, result.Files, 2)
	assert.Equal(t, missing, result.Files[0].Source)
	assert.False(t, result.Files[0].Passed)
	assert.Equal(t, []string{lint.LoadRuleID}, findingRules(result.Files[0].Findings))
	assert.True(t, result.Files[1].Passed)
	assert.Equal(t, 2, result.Summary.Files)
	assert.Equal(t, 1, result.Summary.Failed)
}

func TestValidateCommand_DirectoriesAndGlobs(t *testing.T) {
	dir := testutil.SetupModules(t, map[string]string{
		"a/httpd.yaml": testutil.ValidModule,
		"b/c/perl.yml": testutil.ValidModule,
		"b/notes.txt":  "not yaml",
	})

	t.Run("directory", func(t *testing.T) {
		result, err := validateJSON(t, dir)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Summary.Files)
	})

	t.Run("glob", func(t *testing.T) {
		result, err := validateJSON(t, filepath.Join(dir, "**", "*.yaml"))
		require.NoError(t, err)
		require.Equal(t, 1, result.Summary.Files)
		assert.Equal(t, filepath.Join(dir, "a", "httpd.yaml"), result.Files[0].Source)
	})

	t.Run("no matches", func(t *testing.T) {
		_, err := execute(t, NewValidateCommand(), filepath.Join(dir, "**", "*.json"))
		require.ErrorContains(t, err, "no modulemd files matched")
	})
}

func TestValidateCommand_RuleSelection(t *testing.T) {
	dir := testutil.SetupModules(t, map[string]string{"nginx.yaml": testutil.FailingModule})
	path := filepath.Join(dir, "nginx.yaml")

	t.Run("only selected rules run", func(t *testing.T) {
		result, err := validateJSON(t, "--rule", "PH02", path)
		require.NoError(t, err, "PU02 is not selected, so nothing fails")
		assert.Equal(t, []string{"PH02"}, findingRules(result.Files[0].Findings))
	})

	t.Run("disabled rules produce nothing", func(t *testing.T) {
		result, err := validateJSON(t, "--disable", "PU02,PH01,PH02", path)
		require.NoError(t, err)
		assert.Empty(t, result.Files[0].Findings)
	})

	t.Run("unknown rule", func(t *testing.T) {
		_, err := execute(t, NewValidateCommand(), "--rule", "XX99", path)
		require.ErrorContains(t, err, `unknown rule "XX99"`)
	})
}

func TestValidateCommand_TextFormat(t *testing.T) {
	dir := testutil.SetupModules(t, map[string]string{"nginx.yaml": testutil.FailingModule})
	path := filepath.Join(dir, "nginx.yaml")

	out, err := execute(t, NewValidateCommand(), "--format", "text", path)
	require.ErrorIs(t, err, ErrValidationFailed)

	testutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "FAIL "+path)
	assert.Contains(t, out, "FAIL PU02 Summary should not end with a period")
	assert.Contains(t, out, "WARN PH02 [nginx] Need to check availability of component RPM nginx")
	assert.Contains(t, out, "1 file, 1 failed: 1 FAIL, 1 WARN, 1 INFO")
}

func TestValidateCommand_MetricsFile(t *testing.T) {
	dir := testutil.SetupModules(t, map[string]string{
		"httpd.yaml": testutil.ValidModule,
		"nginx.yaml": testutil.FailingModule,
	})
	metricsPath := filepath.Join(dir, "modcheck.prom")

	_, err := execute(t, NewValidateCommand(), "--format", "json", "--metrics-file", metricsPath,
		filepath.Join(dir, "httpd.yaml"), filepath.Join(dir, "nginx.yaml"), filepath.Join(dir, "gone.yaml"))
	require.ErrorIs(t, err, ErrValidationFailed)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `modcheck_documents_total{outcome="pass"} 1`)
	assert.Contains(t, text, `modcheck_documents_total{outcome="fail"} 2`)
	assert.Contains(t, text, `modcheck_findings_total{rule="PU02",severity="FAIL"} 1`)
}

func TestExpandPatterns_KeepsOrderAndDedupes(t *testing.T) {
	dir := testutil.SetupModules(t, map[string]string{
		"a.yaml": testutil.ValidModule,
		"b.yaml": testutil.ValidModule,
	})
	a := filepath.Join(dir, "a.yaml")

	files, err := expandPatterns([]string{a, filepath.Join(dir, "*.yaml"), "missing.yaml"})
	require.NoError(t, err)
	assert.Equal(t, []string{a, filepath.Join(dir, "b.yaml"), "missing.yaml"}, files)
}
