// Package spell provides the spell checker used by the spelling rules.
//
// Words are looked up in the hunspell dictionary for the locale. The misspell
// list of common English misspellings supplies corrections, and its variant
// lists flag the spellings of the other English variant.
package spell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/client9/gospell"
	"github.com/golangci/misspell"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/modcheck/pkg/lint"
)

var (
	// ErrUnsupportedLocale is returned for locales that cannot be parsed.
	ErrUnsupportedLocale = errors.New("unsupported locale")
	// ErrDictionaryUnavailable is returned when no usable dictionary exists for the locale.
	ErrDictionaryUnavailable = errors.New("dictionary unavailable")
)

// DefaultDictionaryDirs are searched after configured directories and DICPATH.
var DefaultDictionaryDirs = []string{
	"/usr/share/hunspell",
	"/usr/share/myspell",
	"/usr/share/myspell/dicts",
	"/usr/local/share/hunspell",
	"/Library/Spelling",
}

// Regions spelled the British way.
var britishRegions = map[string]bool{
	"GB": true, "IE": true, "AU": true, "NZ": true, "ZA": true, "IN": true,
}

// Checker flags words that are missing from the dictionary or listed as
// common misspellings. It is safe for concurrent use.
type Checker struct {
	locale   string
	british  bool
	dictPath string
	dict     *gospell.GoSpell
	replacer *misspell.Replacer
	ignore   map[string]bool
}

var _ lint.SpellChecker = (*Checker)(nil)

type options struct {
	words  map[string]string
	ignore []string
	dirs   []string
}

// Option configures a Checker.
type Option func(*options)

// WithWords adds misspelling to correction pairs on top of the built-in list.
func WithWords(words map[string]string) Option {
	return func(o *options) {
		if o.words == nil {
			o.words = make(map[string]string, len(words))
		}
		for k, v := range words {
			o.words[strings.ToLower(k)] = v
		}
	}
}

// WithIgnore accepts the given words, matched case-insensitively.
func WithIgnore(words ...string) Option {
	return func(o *options) {
		o.ignore = append(o.ignore, words...)
	}
}

// WithDictionaryDirs searches dirs for dictionaries before DICPATH and the defaults.
func WithDictionaryDirs(dirs ...string) Option {
	return func(o *options) {
		o.dirs = append(o.dirs, dirs...)
	}
}

// New builds a Checker for locale, e.g. "en_US", "en-GB" or "en".
// It fails when the locale cannot be parsed or its dictionary is missing.
func New(locale string, opts ...Option) (*Checker, error) {
	tag, err := parseLocale(locale)
	if err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	base, _ := tag.Base()
	region, _ := tag.Region()
	english, _ := language.English.Base()
	isEnglish := base == english
	british := isEnglish && britishRegions[region.String()]

	affPath, dicPath, err := FindDictionary(dictionaryName(tag), o.dirs...)
	if err != nil {
		return nil, err
	}
	dict, err := loadDictionary(affPath, dicPath)
	if err != nil {
		return nil, err
	}

	// misspell appends to Replacements, so never hand it the package-level slice.
	var rules []string
	if isEnglish {
		rules = make([]string, 0, len(misspell.DictMain)+len(misspell.DictBritish)+2*len(o.words))
		rules = append(rules, misspell.DictMain...)
	}
	r := &misspell.Replacer{Replacements: rules}
	switch {
	case british:
		r.AddRuleList(misspell.DictBritish)
	case isEnglish:
		r.AddRuleList(misspell.DictAmerican)
	}
	if len(o.words) > 0 {
		r.AddRuleList(wordPairs(o.words))
	}
	if len(r.Replacements) == 0 {
		r = nil
	} else {
		r.Compile()
	}

	ignore := make(map[string]bool, len(o.ignore))
	for _, w := range o.ignore {
		ignore[strings.ToLower(w)] = true
	}

	return &Checker{
		locale:   locale,
		british:  british,
		dictPath: dicPath,
		dict:     dict,
		replacer: r,
		ignore:   ignore,
	}, nil
}

// Locale returns the locale the checker was built for.
func (c *Checker) Locale() string { return c.locale }

// British reports whether British spellings are preferred.
func (c *Checker) British() bool { return c.british }

// Dictionary returns the path of the loaded .dic file.
func (c *Checker) Dictionary() string { return c.dictPath }

// Check implements lint.SpellChecker. Words are reported in text order, once
// per occurrence. Only listed misspellings carry a suggestion.
func (c *Checker) Check(text string) []lint.Misspelling {
	if text == "" {
		return nil
	}

	corrections := make(map[string]string)
	if c.replacer != nil {
		_, diffs := c.replacer.Replace(text)
		for _, d := range diffs {
			corrections[d.Original] = d.Corrected
		}
	}

	var out []lint.Misspelling
	for _, word := range tokenize(text) {
		if c.ignore[strings.ToLower(word)] {
			continue
		}
		if fix, ok := corrections[word]; ok {
			out = append(out, lint.Misspelling{Word: word, Suggestion: fix})
			continue
		}
		if !c.known(word) {
			out = append(out, lint.Misspelling{Word: word})
		}
	}
	return out
}

func (c *Checker) known(word string) bool {
	return c.dict.Spell(word) || c.dict.Spell(strings.ToLower(word))
}

// Factory returns a lint.SpellCheckerFactory that builds Checkers with opts.
func Factory(opts ...Option) lint.SpellCheckerFactory {
	return func(locale string) (lint.SpellChecker, error) {
		c, err := New(locale, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// DictionaryName returns the hunspell dictionary name for locale: "en_GB" for
// "en-GB", "en_US" for "en".
func DictionaryName(locale string) (string, error) {
	tag, err := parseLocale(locale)
	if err != nil {
		return "", err
	}
	return dictionaryName(tag), nil
}

func dictionaryName(tag language.Tag) string {
	base, _ := tag.Base()
	region, _ := tag.Region()
	return base.String() + "_" + region.String()
}

// FindDictionary locates name.aff and name.dic (name like "en_US"). It looks in
// dirs, then each DICPATH entry, then DefaultDictionaryDirs.
func FindDictionary(name string, dirs ...string) (affPath, dicPath string, err error) {
	search := append([]string{}, dirs...)
	if env := os.Getenv("DICPATH"); env != "" {
		search = append(search, filepath.SplitList(env)...)
	}
	search = append(search, DefaultDictionaryDirs...)

	for _, dir := range search {
		if dir == "" {
			continue
		}
		aff := filepath.Join(dir, name+".aff")
		dic := filepath.Join(dir, name+".dic")
		if fileExists(aff) && fileExists(dic) {
			return aff, dic, nil
		}
	}
	return "", "", fmt.Errorf("%w: no %s.aff/%s.dic in %s",
		ErrDictionaryUnavailable, name, name, strings.Join(search, string(filepath.ListSeparator)))
}

func loadDictionary(affPath, dicPath string) (*gospell.GoSpell, error) {
	aff, err := os.Open(affPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDictionaryUnavailable, err)
	}
	defer aff.Close()

	dic, err := os.Open(dicPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDictionaryUnavailable, err)
	}
	defer dic.Close()

	dict, err := gospell.NewGoSpellReader(aff, dic)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrDictionaryUnavailable, dicPath, err)
	}
	if dict == nil {
		return nil, fmt.Errorf("%w: %s is empty", ErrDictionaryUnavailable, dicPath)
	}
	return dict, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// parseLocale accepts POSIX forms such as en_US.UTF-8.
func parseLocale(locale string) (language.Tag, error) {
	name, _, _ := strings.Cut(locale, ".")
	name = strings.ReplaceAll(strings.TrimSpace(name), "_", "-")

	tag, err := language.Parse(name)
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q: %v", ErrUnsupportedLocale, locale, err)
	}
	return tag, nil
}

// tokenize splits text into words. Tokens that look like identifiers,
// versions or paths are skipped; hyphenated words are checked per part.
func tokenize(text string) []string {
	var words []string
	for _, field := range strings.Fields(text) {
		field = strings.TrimFunc(field, func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) })
		if field == "" || strings.ContainsFunc(field, isCodeRune) {
			continue
		}
		for _, part := range strings.Split(field, "-") {
			if part = strings.Trim(part, "'"); part != "" {
				words = append(words, part)
			}
		}
	}
	return words
}

func isCodeRune(r rune) bool {
	return unicode.IsDigit(r) || strings.ContainsRune("_/.@:=<>()[]{}", r)
}

// wordPairs flattens words into misspell's old/new rule list in a stable order.
func wordPairs(words map[string]string) []string {
	keys := make([]string, 0, len(words))
	for k := range words {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, words[k])
	}
	return pairs
}
