// Package spelltest writes small hunspell dictionaries for tests.
package spelltest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Words is the vocabulary of every test dictionary.
var Words = []string{
	"a", "adds", "and", "Apache", "but", "core", "efficient", "extensible",
	"fast", "handles", "high", "HTTP", "is", "it", "its", "itself", "language",
	"library", "minimal", "module", "modules", "name", "Nginx", "nothing",
	"output", "performance", "Perl", "powerful", "requests", "runtime",
	"server", "servers", "the", "them", "this", "test", "web", "with",
}

// Spellings that differ between the American and British dictionaries.
var (
	american = []string{"color"}
	british  = []string{"colour"}
)

// WriteDictionaries writes an .aff/.dic pair for each locale, such as
// "en_US" or "en_GB", into dir.
func WriteDictionaries(dir string, locales ...string) error {
	for _, locale := range locales {
		words := append([]string{}, Words...)
		if isBritish(locale) {
			words = append(words, british...)
		} else {
			words = append(words, american...)
		}

		dic := fmt.Sprintf("%d\n%s\n", len(words), strings.Join(words, "\n"))
		if err := os.WriteFile(filepath.Join(dir, locale+".dic"), []byte(dic), 0o600); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, locale+".aff"), []byte("SET UTF-8\n"), 0o600); err != nil {
			return err
		}
	}
	return nil
}

// Setup writes dictionaries for locales into a fresh temp directory and returns it.
func Setup(t testing.TB, locales ...string) string {
	t.Helper()
	dir := t.TempDir()
	if err := WriteDictionaries(dir, locales...); err != nil {
		t.Fatalf("writing test dictionaries: %v", err)
	}
	return dir
}

// RunWithDICPATH writes en_US and en_GB dictionaries to a temp directory,
// points DICPATH at it and runs the tests. It is meant for TestMain.
func RunWithDICPATH(m *testing.M) int {
	dir, err := os.MkdirTemp("", "modcheck-dict-")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer os.RemoveAll(dir)

	if err := WriteDictionaries(dir, "en_US", "en_GB"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := os.Setenv("DICPATH", dir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return m.Run()
}

func isBritish(locale string) bool {
	for _, region := range []string{"GB", "IE", "AU", "NZ", "ZA", "IN"} {
		if strings.HasSuffix(locale, "_"+region) {
			return true
		}
	}
	return false
}
