package ui

import (
	"embed"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tartampluch/life-in-weeks/internal/config"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator holds the message bundle built from the embedded locale files.
type Translator struct {
	bundle    *i18n.Bundle
	languages []string
	matcher   language.Matcher
}

// NewTranslator loads every locales/active.<lang>.json file. Files that fail
// to load are logged and skipped; the default language always comes first.
func NewTranslator() *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	t := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
		t.languages = append(t.languages, langCode)
	}

	// The matcher falls back to its first tag.
	slices.SortStableFunc(t.languages, func(a, b string) int {
		switch {
		case a == config.DefaultLanguage:
			return -1
		case b == config.DefaultLanguage:
			return 1
		}
		return strings.Compare(a, b)
	})
	if !slices.Contains(t.languages, config.DefaultLanguage) {
		t.languages = append([]string{config.DefaultLanguage}, t.languages...)
	}
	for _, l := range config.SupportedLanguages {
		if !slices.Contains(t.languages, l) {
			slog.Warn(config.MsgLocaleMissing,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyLang, l,
			)
		}
	}

	tags := make([]language.Tag, 0, len(t.languages))
	for _, l := range t.languages {
		tags = append(tags, language.Make(l))
	}
	t.matcher = language.NewMatcher(tags)

	return t
}

// Languages lists the loaded language codes, default first.
func (t *Translator) Languages() []string {
	return slices.Clone(t.languages)
}

// Match picks the best loaded language for the given preferences. Each
// entry may be a plain code or a full Accept-Language header value.
func (t *Translator) Match(langs ...string) language.Tag {
	tag, _ := language.MatchStrings(t.matcher, langs...)
	base, _ := tag.Base()
	return language.Make(base.String())
}

// Locale bundles the localizer and number printer for one request.
func (t *Translator) Locale(langs ...string) *Locale {
	tag := t.Match(langs...)
	return &Locale{
		Tag:       tag,
		localizer: i18n.NewLocalizer(t.bundle, tag.String(), config.DefaultLanguage),
		printer:   message.NewPrinter(tag),
	}
}

// Locale translates labels and formats numbers for a single language.
type Locale struct {
	Tag       language.Tag
	localizer *i18n.Localizer
	printer   *message.Printer
}

// Msg translates key with the locale's localizer.
func (l *Locale) Msg(key string, data map[string]any) string {
	if l == nil {
		return key
	}
	return Msg(l.localizer, key, data)
}

// Number formats n with the locale's digit grouping ("4,160" in English).
func (l *Locale) Number(n int) string {
	if l == nil || l.printer == nil {
		return message.NewPrinter(language.English).Sprintf("%d", n)
	}
	return l.printer.Sprintf("%d", n)
}

// Msg is a helper to translate a key safely. A missing key or localizer
// yields the key itself.
func Msg(loc *i18n.Localizer, key string, data map[string]any) string {
	if loc == nil {
		return key
	}
	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}
