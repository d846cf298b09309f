package modulemd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/modcheck/pkg/lint"
)

// DocumentType is the value of the top-level document key.
const DocumentType = "modulemd"

// AnyStream stands for an empty v2 stream list.
const AnyStream = "*"

// Errors returned by Parse and Load.
var (
	ErrNotModulemd        = errors.New("not a modulemd document")
	ErrUnsupportedVersion = errors.New("unsupported modulemd version")
	ErrEmptyDocument      = errors.New("empty document")
)

// Document is a parsed modulemd file.
type Document struct {
	mdversion int
	data      rawData
	deps      dependencies
	root      *yaml.Node
}

var _ lint.Document = (*Document)(nil)

// Load reads and parses the modulemd file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Parse parses a modulemd document from YAML bytes.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, ErrEmptyDocument
	}

	var raw rawDocument
	if err := root.Decode(&raw); err != nil {
		return nil, err
	}
	if raw.Document != DocumentType {
		return nil, fmt.Errorf("%w: document is %q", ErrNotModulemd, raw.Document)
	}

	doc := &Document{mdversion: raw.Version, data: raw.Data, root: &root}
	var err error
	switch raw.Version {
	case 1:
		doc.deps, err = decodeV1Dependencies(raw.Data.Dependencies)
	case 2:
		doc.deps, err = decodeV2Dependencies(raw.Data.Dependencies)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, raw.Version)
	}
	if err != nil {
		return nil, fmt.Errorf("dependencies: %w", err)
	}
	return doc, nil
}

// MDVersion returns the modulemd format version, 1 or 2.
func (d *Document) MDVersion() int { return d.mdversion }

// Stream returns the module stream name.
func (d *Document) Stream() string { return d.data.Stream }

func (d *Document) Name() string { return d.data.Name }

// Summary and Description drop the trailing newline that folded (>) and
// literal (|) block scalars keep.
func (d *Document) Summary() string     { return trimText(d.data.Summary) }
func (d *Document) Description() string { return trimText(d.data.Description) }

// IsZero reports whether d is nil, including a nil *Document stored in an
// interface.
func (d *Document) IsZero() bool { return d == nil }

// API returns the declared api rpms with duplicates removed.
func (d *Document) API() (lint.APIInfo, bool) {
	if d.data.API == nil {
		return lint.APIInfo{}, false
	}
	seen := make(map[string]bool, len(d.data.API.RPMs))
	rpms := make([]string, 0, len(d.data.API.RPMs))
	for _, name := range d.data.API.RPMs {
		if seen[name] {
			continue
		}
		seen[name] = true
		rpms = append(rpms, name)
	}
	return lint.APIInfo{RPMs: rpms}, true
}

func (d *Document) RPMComponents() []lint.ComponentInfo {
	return d.data.Components.RPMs.infos(lint.ComponentRPM)
}

func (d *Document) ModuleComponents() []lint.ComponentInfo {
	return d.data.Components.Modules.infos(lint.ComponentModule)
}

func (d *Document) Requires() []lint.DependencyInfo      { return d.deps.requires }
func (d *Document) BuildRequires() []lint.DependencyInfo { return d.deps.buildRequires }

// Dump re-encodes the parsed YAML tree.
func (d *Document) Dump() (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return "", fmt.Errorf("encoding modulemd: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding modulemd: %w", err)
	}
	return buf.String(), nil
}

func trimText(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
