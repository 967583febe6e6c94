// Package i18n provides the UI message catalogs. Generated question
// explanations are not localized here; their language is fixed at prompt
// time.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Supported lists the UI languages with a catalog.
var Supported = []string{"en", "ja"}

// Translator resolves message IDs for one UI language, falling back to
// English for missing messages.
type Translator struct {
	lang string
	loc  *i18n.Localizer
}

// newBundle loads every embedded locale file with English as the default.
func newBundle() (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		slog.Debug("loaded locale file", "file", e.Name())
	}
	return bundle, nil
}

// New creates a Translator for lang ("en", "ja", "ja-JP", ...).
func New(lang string) (*Translator, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("parse language %q: %w", lang, err)
	}
	bundle, err := newBundle()
	if err != nil {
		return nil, err
	}
	return &Translator{
		lang: tag.String(),
		loc:  i18n.NewLocalizer(bundle, tag.String(), "en"),
	}, nil
}

// MustNew is New that falls back to English on an unparseable tag.
func MustNew(lang string) *Translator {
	t, err := New(lang)
	if err == nil {
		return t
	}
	slog.Warn("unknown UI language, using English", "lang", lang, "error", err)
	t, err = New("en")
	if err != nil {
		panic(err)
	}
	return t
}

// Lang returns the requested language tag.
func (t *Translator) Lang() string { return t.lang }

// T translates a message by ID.
func (t *Translator) T(msgID string) string {
	s, err := t.loc.Localize(&i18n.LocalizeConfig{MessageID: msgID})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}

// Td translates a message by ID with template data.
func (t *Translator) Td(msgID string, data map[string]any) string {
	s, err := t.loc.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}

// Tp translates a pluralized message by ID.
func (t *Translator) Tp(msgID string, count int) string {
	s, err := t.loc.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}
