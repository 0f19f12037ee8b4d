package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/ui"
)

func TestTranslator_Languages(t *testing.T) {
	tr := ui.NewTranslator()
	langs := tr.Languages()

	assert.Equal(t, config.DefaultLanguage, langs[0])
	assert.ElementsMatch(t, config.SupportedLanguages, langs)
}

func TestTranslator_Match(t *testing.T) {
	tr := ui.NewTranslator()

	tests := []struct {
		name  string
		langs []string
		want  string
	}{
		{"No preference", nil, "en"},
		{"Plain code", []string{"fr"}, "fr"},
		{"Regional variant", []string{"fr-CA"}, "fr"},
		{"Accept-Language header", []string{"de-DE,fr;q=0.8,en;q=0.5"}, "fr"},
		{"Unsupported", []string{"ja"}, "en"},
		{"First usable wins", []string{"", "fr"}, "fr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Match(tt.langs...).String())
		})
	}
}

func TestLocale_Msg(t *testing.T) {
	tr := ui.NewTranslator()

	en := tr.Locale("en")
	fr := tr.Locale("fr")

	assert.Equal(t, "Life week 42", en.Msg(config.TKeyTipLifeWeek, map[string]any{"Week": 42}))
	assert.Equal(t, "Semaine de vie 42", fr.Msg(config.TKeyTipLifeWeek, map[string]any{"Week": 42}))
	assert.Equal(t, "2024 • Week 3", en.Msg(config.TKeyTipYearWeek, map[string]any{"Year": 2024, "Week": 3}))
	assert.Equal(t, "no_such_key", en.Msg("no_such_key", nil), "missing keys fall back to the key")
}

func TestMsg_NilLocalizer(t *testing.T) {
	assert.Equal(t, config.TKeyPageTitle, ui.Msg(nil, config.TKeyPageTitle, nil))

	var l *ui.Locale
	assert.Equal(t, config.TKeyPageTitle, l.Msg(config.TKeyPageTitle, nil))
	assert.Equal(t, "4,160", l.Number(4160))
}

func TestTranslator_LocaleFallback(t *testing.T) {
	tr := ui.NewTranslator()
	assert.Equal(t, "Une vie en semaines", tr.Locale("fr-FR").Msg(config.TKeyPageTitle, nil))
	assert.Equal(t, "Life in Weeks", tr.Locale().Msg(config.TKeyPageTitle, nil))
}

func TestLocale_Number(t *testing.T) {
	tr := ui.NewTranslator()

	assert.Equal(t, "4,160", tr.Locale("en").Number(4160))
	assert.Equal(t, "52", tr.Locale("en").Number(52))

	fr := tr.Locale("fr").Number(4160)
	assert.NotEqual(t, "4,160", fr, "French groups digits differently")
	assert.Contains(t, fr, "160")
}
