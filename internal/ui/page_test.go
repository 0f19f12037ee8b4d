package ui_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
	"github.com/tartampluch/life-in-weeks/internal/ui"
)

type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func referenceCalendar(t *testing.T) *engine.LifeCalendar {
	t.Helper()
	calc := engine.NewCalculator(MockClock{CurrentTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	lc, err := calc.Calculate(engine.Input{
		Birthdate:     time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		LifespanYears: 80,
		PastColor:     "#FF0000",
	})
	require.NoError(t, err)
	return lc
}

func TestNewPageView_WithCalendar(t *testing.T) {
	en := ui.NewTranslator().Locale("en")
	view := ui.NewPageView(referenceCalendar(t), en, ui.PageForm{PastColor: "#FF0000"})

	assert.Equal(t, "en", view.Lang)
	assert.Equal(t, "Life in Weeks", view.Title)
	assert.Equal(t, "#ff0000", view.PastColor)
	assert.Equal(t, ui.PageForm{Birthdate: "2000-01-01", Lifespan: "80", PastColor: "#ff0000"}, view.Form)

	require.Len(t, view.Stats, 4)
	assert.Equal(t, ui.PageStat{Label: "Total weeks", Value: "4,160"}, view.Stats[0])
	assert.Equal(t, "1,252", view.Stats[1].Value)
	assert.Equal(t, "2,908", view.Stats[2].Value)
	assert.Equal(t, "24", view.Stats[3].Value)

	require.Len(t, view.Rows, 80)
	assert.Equal(t, "2000", view.Rows[0].Label)
	assert.Empty(t, view.Rows[1].Label)
	assert.Len(t, view.Rows[0].Cells, config.WeeksPerYear)
	assert.Equal(t, ui.PageCell{Class: config.ClassLived, Key: engine.CellKey{YearIndex: 24, Column: 4}}, view.Rows[24].Cells[3])
	assert.Equal(t, config.ClassFuture, view.Rows[24].Cells[4].Class)

	assert.Equal(t, "/export/png?birthdate=2000-01-01&color=%23ff0000&lang=en&lifespan=80", string(view.PNGLink))
	assert.True(t, strings.HasPrefix(string(view.ICSLink), "/export/ics?"))
	assert.True(t, strings.HasPrefix(string(view.CellLink), "/api/cell?"))
}

func TestNewPageView_FormOnly(t *testing.T) {
	fr := ui.NewTranslator().Locale("fr")
	view := ui.NewPageView(nil, fr, ui.PageForm{Birthdate: "1990-01-01", Lifespan: "200", PastColor: "bogus"})

	assert.Equal(t, "fr", view.Lang)
	assert.Equal(t, "1990-01-01", view.Form.Birthdate)
	assert.Equal(t, "200", view.Form.Lifespan)
	assert.Equal(t, config.DefaultPastColor, view.Form.PastColor)
	assert.Empty(t, view.Rows)
	assert.Empty(t, view.Stats)
}

func TestRenderPage(t *testing.T) {
	en := ui.NewTranslator().Locale("en")
	view := ui.NewPageView(referenceCalendar(t), en, ui.PageForm{})
	view.Mobile = true

	var buf bytes.Buffer
	require.NoError(t, ui.RenderPage(&buf, view))
	html := buf.String()

	assert.Contains(t, html, `<html lang="en">`)
	assert.Contains(t, html, "4,160")
	assert.Equal(t, 80*config.WeeksPerYear, strings.Count(html, `class="week-circle `))
	assert.Equal(t, 1252, strings.Count(html, `class="week-circle past"`))
	assert.Equal(t, 16, strings.Count(html, `class="year-label"`))
	assert.Equal(t, 64, strings.Count(html, `class="year-spacer"`))
	assert.Contains(t, html, `data-year_index="24" data-column="4"`)
	assert.Contains(t, html, "For the best quality, please export on a desktop browser.")
	assert.Contains(t, html, `href="/export/png?birthdate=2000-01-01&amp;color=%23ff0000&amp;lang=en&amp;lifespan=80"`)
}

func TestNewPageView_CalendarColorWins(t *testing.T) {
	en := ui.NewTranslator().Locale("en")
	view := ui.NewPageView(referenceCalendar(t), en, ui.PageForm{PastColor: "#4a5568"})

	assert.Equal(t, "#ff0000", view.PastColor)
	assert.Equal(t, "#ff0000", view.Form.PastColor)
	for _, link := range []string{string(view.PNGLink), string(view.ICSLink), string(view.CellLink)} {
		assert.Contains(t, link, "color=%23ff0000")
	}

	// Without a grid the form value is kept.
	form := ui.NewPageView(nil, en, ui.PageForm{PastColor: "#00FF00"})
	assert.Equal(t, "#00ff00", form.PastColor)
}

func TestRenderPage_ErrorWithoutGrid(t *testing.T) {
	en := ui.NewTranslator().Locale("en")
	view := ui.NewPageView(nil, en, ui.PageForm{})
	view.Error = "Please fill in your birthdate and expected lifespan."

	var buf bytes.Buffer
	require.NoError(t, ui.RenderPage(&buf, view))

	assert.Contains(t, buf.String(), `role="alert"`)
	assert.Contains(t, buf.String(), view.Error)
	assert.NotContains(t, buf.String(), `class="week-circle`)
	assert.NotContains(t, buf.String(), "For the best quality")
}
