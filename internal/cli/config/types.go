// Package config provides configuration management for the modcheck CLI.
//
// Values come from four layers, lowest to highest precedence: built-in
// defaults, a modcheck.yaml file, MODCHECK_* environment variables and
// explicitly set command-line flags.
package config

import (
	"time"

	"github.com/leapstack-labs/modcheck/pkg/lint"
)

// Default configuration values.
const (
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel = "warn"
	DefaultLocale   = lint.DefaultLocale
)

// Config holds all CLI configuration options.
type Config struct {
	Verbose  bool           `koanf:"verbose"`
	LogLevel string         `koanf:"log_level"`
	Output   string         `koanf:"output"`
	Parallel bool           `koanf:"parallel"`
	Timeout  time.Duration  `koanf:"timeout"`
	Lint     LintConfig     `koanf:"lint"`
	Spelling SpellingConfig `koanf:"spelling"`
}

// LintConfig selects and tunes rules.
type LintConfig struct {
	Disabled []string                 `koanf:"disabled"`
	Severity map[string]lint.Severity `koanf:"severity"`
	Rules    map[string]RuleOptions   `koanf:"rules"`
}

// RuleOptions holds the free-form options of a single rule, keyed by option name.
type RuleOptions map[string]any

// SpellingConfig configures the spell-check capability.
type SpellingConfig struct {
	Locale string            `koanf:"locale"`
	Words  map[string]string `koanf:"words"`  // misspelling -> correction
	Ignore []string          `koanf:"ignore"` // never reported, in any text

	// DictionaryDirs are searched for <locale>.aff/.dic before DICPATH.
	DictionaryDirs []string `koanf:"dictionary_dirs"`
}

// Default returns the configuration used when nothing has been loaded.
func Default() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Output:   DefaultOutput,
		Spelling: SpellingConfig{Locale: DefaultLocale},
	}
}
