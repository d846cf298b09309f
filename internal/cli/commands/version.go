package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/modcheck/pkg/lint"
	"github.com/leapstack-labs/modcheck/pkg/spell"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display modcheck version information, the registered rules per group,
the spell-check locale and the dictionary it resolves to.`,
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := getConfig()
			out := cmd.OutOrStdout()

			_, _ = fmt.Fprintf(out, "modcheck v%s\n", version)
			_, _ = fmt.Fprintln(out, "Module metadata validator")
			_, _ = fmt.Fprintf(out, "Rules: %d (%s)\n", lint.Count(), ruleGroupCounts())

			locale := cfg.Spelling.Locale
			if locale == "" {
				locale = lint.DefaultLocale
			}
			_, _ = fmt.Fprintf(out, "Locale: %s\n", locale)
			_, _ = fmt.Fprintf(out, "Dictionary: %s\n", dictionaryFor(locale, cfg.Spelling.DictionaryDirs))
		},
	}
}

func ruleGroupCounts() string {
	groups := []string{lint.GroupStructure, lint.GroupPunctuation, lint.GroupSpelling, lint.GroupPlaceholder}
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, fmt.Sprintf("%s %d", g, len(lint.GetByGroup(g))))
	}
	return strings.Join(parts, ", ")
}

func dictionaryFor(locale string, dirs []string) string {
	name, err := spell.DictionaryName(locale)
	if err != nil {
		return "invalid locale"
	}
	_, dic, err := spell.FindDictionary(name, dirs...)
	if err != nil {
		return fmt.Sprintf("not found (%s)", name)
	}
	return dic
}
