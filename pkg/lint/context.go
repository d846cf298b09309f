package lint

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Errors surfaced as setup failures.
var (
	// ErrNoSpellChecker is returned when no spell checker factory is configured.
	ErrNoSpellChecker = errors.New("no spell checker configured")
	// ErrRuleTimeout is returned when a rule exceeds Config.RuleTimeout.
	ErrRuleTimeout = errors.New("rule timed out")
	// ErrRulePanic wraps a panic recovered from a rule's Check function.
	ErrRulePanic = errors.New("rule panicked")
)

// Context provides everything a rule may read during one validation run.
// The document is borrowed read-only. The spell checker is built at most once
// per Context and shared by every rule that asks for it.
type Context struct {
	doc     Document
	locale  string
	factory SpellCheckerFactory
	logger  *slog.Logger

	spellOnce sync.Once
	spell     SpellChecker
	spellErr  error
}

// NewContext creates a rule context for one document.
// A nil factory makes SpellChecker return ErrNoSpellChecker; a nil logger discards.
func NewContext(doc Document, locale string, factory SpellCheckerFactory, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if locale == "" {
		locale = DefaultLocale
	}
	return &Context{
		doc:     doc,
		locale:  locale,
		factory: factory,
		logger:  logger,
	}
}

// Document returns the document under validation.
func (c *Context) Document() Document {
	return c.doc
}

// Locale returns the spell-check locale for this run.
func (c *Context) Locale() string {
	return c.locale
}

// Logger returns the run logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// SpellChecker returns the run's spell checker, constructing it on first use.
// Construction happens once; later calls return the same checker or error.
func (c *Context) SpellChecker() (SpellChecker, error) {
	c.spellOnce.Do(func() {
		if c.factory == nil {
			c.spellErr = ErrNoSpellChecker
			return
		}
		checker, err := c.factory(c.locale)
		if err != nil {
			c.spellErr = fmt.Errorf("could not initialize spell checker with dictionary %s: %w", c.locale, err)
			return
		}
		c.spell = checker
		c.logger.Debug("spell checker ready", "locale", c.locale)
	})
	return c.spell, c.spellErr
}
