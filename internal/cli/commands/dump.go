package commands

import (
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/modcheck/internal/cli/output"
	"github.com/leapstack-labs/modcheck/pkg/lint"
	"github.com/leapstack-labs/modcheck/pkg/modulemd"
	"github.com/spf13/cobra"
)

// NewDumpCommand creates the dump command.
func NewDumpCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the parsed form of a modulemd document",
		Long: `Load a modulemd document and print it as the validator sees it.

Text and markdown output re-encode the parsed YAML; JSON output lists the
fields the rules inspect.`,
		Example: `  modcheck dump httpd.yaml
  modcheck dump --format json httpd.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args[0], format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, markdown")
	return cmd
}

// DumpJSONOutput lists the document fields the rules inspect.
type DumpJSONOutput struct {
	Source        string                `json:"source"`
	MDVersion     int                   `json:"mdversion"`
	Name          string                `json:"name"`
	Stream        string                `json:"stream,omitempty"`
	Summary       string                `json:"summary"`
	Description   string                `json:"description"`
	API           *lint.APIInfo         `json:"api,omitempty"`
	RPMs          []lint.ComponentInfo  `json:"rpm_components,omitempty"`
	Modules       []lint.ComponentInfo  `json:"module_components,omitempty"`
	Requires      []lint.DependencyInfo `json:"requires,omitempty"`
	BuildRequires []lint.DependencyInfo `json:"buildrequires,omitempty"`
}

func runDump(cmd *cobra.Command, path, format string) error {
	cmdCtx := NewCommandContext(cmd)
	r, err := cmdCtx.rendererFor(cmd, format)
	if err != nil {
		return err
	}

	doc, err := modulemd.Load(path)
	if err != nil {
		return fmt.Errorf("could not load modulemd file %s: %w", path, err)
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := DumpJSONOutput{
			Source:        path,
			MDVersion:     doc.MDVersion(),
			Name:          doc.Name(),
			Stream:        doc.Stream(),
			Summary:       doc.Summary(),
			Description:   doc.Description(),
			RPMs:          doc.RPMComponents(),
			Modules:       doc.ModuleComponents(),
			Requires:      doc.Requires(),
			BuildRequires: doc.BuildRequires(),
		}
		if api, ok := doc.API(); ok {
			out.API = &api
		}
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	dump, err := doc.Dump()
	if err != nil {
		return fmt.Errorf("failed to dump %s: %w", path, err)
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Printf("# %s\n\n```yaml\n%s```\n", path, dump)
		return nil
	}
	r.Printf("%s", dump)
	return nil
}
