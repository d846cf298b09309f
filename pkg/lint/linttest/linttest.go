// Package linttest provides in-memory lint.Document and lint.SpellChecker
// implementations for rule tests.
package linttest

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/modcheck/pkg/lint"
)

// Document is a plain-struct lint.Document.
type Document struct {
	ModuleName  string
	SummaryText string
	DescText    string
	APIInfo     *lint.APIInfo // nil means the api section is absent
	RPMs        []lint.ComponentInfo
	Modules     []lint.ComponentInfo
	Deps        []lint.DependencyInfo
	BuildDeps   []lint.DependencyInfo
	DumpErr     error
	DumpEmpty   bool // Dump returns "" without an error
	DumpCalls   *int // Counts Dump calls when non-nil
}

var _ lint.Document = (*Document)(nil)

// Valid returns a document that passes every structural and punctuation rule.
func Valid() *Document {
	return &Document{
		ModuleName:  "httpd",
		SummaryText: "Apache HTTP server",
		DescText:    "The Apache HTTP server with its core modules.",
		APIInfo:     &lint.APIInfo{RPMs: []string{"httpd"}},
		RPMs: []lint.ComponentInfo{
			RPM("httpd", "The web server itself."),
		},
		Deps:      []lint.DependencyInfo{{Module: "platform", Stream: "f26"}},
		BuildDeps: []lint.DependencyInfo{{Module: "platform", Stream: "f26"}},
	}
}

// RPM builds an rpm component.
func RPM(name, rationale string) lint.ComponentInfo {
	return lint.ComponentInfo{Name: name, Kind: lint.ComponentRPM, Rationale: rationale}
}

// Module builds a module component.
func Module(name, rationale string) lint.ComponentInfo {
	return lint.ComponentInfo{Name: name, Kind: lint.ComponentModule, Rationale: rationale}
}

func (d *Document) Name() string        { return d.ModuleName }
func (d *Document) Summary() string     { return d.SummaryText }
func (d *Document) Description() string { return d.DescText }

func (d *Document) API() (lint.APIInfo, bool) {
	if d.APIInfo == nil {
		return lint.APIInfo{}, false
	}
	return *d.APIInfo, true
}

func (d *Document) RPMComponents() []lint.ComponentInfo    { return d.RPMs }
func (d *Document) ModuleComponents() []lint.ComponentInfo { return d.Modules }
func (d *Document) Requires() []lint.DependencyInfo        { return d.Deps }
func (d *Document) BuildRequires() []lint.DependencyInfo   { return d.BuildDeps }

func (d *Document) Dump() (string, error) {
	if d.DumpCalls != nil {
		*d.DumpCalls++
	}
	if d.DumpErr != nil {
		return "", d.DumpErr
	}
	if d.DumpEmpty {
		return "", nil
	}
	return fmt.Sprintf("name: %s\nsummary: %s\n", d.ModuleName, d.SummaryText), nil
}

// WordList is a SpellChecker that flags every occurrence of the listed words.
// Matching strips surrounding punctuation and is case-sensitive.
type WordList []string

// Check implements lint.SpellChecker.
func (w WordList) Check(text string) []lint.Misspelling {
	var out []lint.Misspelling
	for _, field := range strings.Fields(text) {
		word := strings.Trim(field, ".,;:!?\"'()")
		for _, bad := range w {
			if word == bad {
				out = append(out, lint.Misspelling{Word: word})
				break
			}
		}
	}
	return out
}

// Factory returns a factory that always yields checker.
func Factory(checker lint.SpellChecker) lint.SpellCheckerFactory {
	return func(string) (lint.SpellChecker, error) {
		return checker, nil
	}
}

// FailingFactory returns a factory whose construction always fails with err.
func FailingFactory(err error) lint.SpellCheckerFactory {
	return func(string) (lint.SpellChecker, error) {
		return nil, err
	}
}

// CountingFactory wraps factory and counts constructions in *calls.
func CountingFactory(factory lint.SpellCheckerFactory, calls *int) lint.SpellCheckerFactory {
	return func(locale string) (lint.SpellChecker, error) {
		*calls++
		return factory(locale)
	}
}
