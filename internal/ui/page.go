package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"

	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
	"github.com/tartampluch/life-in-weeks/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, config.TemplateIndex))

// PageForm echoes the submitted form values.
type PageForm struct {
	Birthdate string
	Lifespan  string
	PastColor string
}

// PageLabels are the translated static texts of the page.
type PageLabels struct {
	Birthdate string
	Lifespan  string
	PastColor string
	Generate  string
	Download  string
	Calendar  string
}

type PageStat struct {
	Label string
	Value string
}

// PageCell is a drawn cell. Its key is written as data attributes and sent
// back to the cell endpoint on click.
type PageCell struct {
	Class string
	Key   engine.CellKey
}

// PageRow holds a label, or an empty placeholder of the same width.
type PageRow struct {
	Label string
	Cells []PageCell
}

// PageView is everything the index template needs.
type PageView struct {
	Lang     string
	Title    string
	Subtitle string
	Labels   PageLabels
	Form     PageForm

	MinLifespan int
	MaxLifespan int

	Error     string
	PastColor string
	Stats     []PageStat
	Rows      []PageRow

	PNGLink  template.URL
	ICSLink  template.URL
	CellLink template.URL

	// Mobile shows the export hint next to the download button.
	Mobile bool
	Hint   string
}

var statusClasses = map[engine.Status]string{
	engine.StatusBeforeBirth: config.ClassBeforeBirth,
	engine.StatusLived:       config.ClassLived,
	engine.StatusFuture:      config.ClassFuture,
}

// NewPageView builds the page model. A nil calendar renders the form only.
func NewPageView(lc *engine.LifeCalendar, l *Locale, form PageForm) PageView {
	view := PageView{
		Lang:     l.Tag.String(),
		Title:    l.Msg(config.TKeyPageTitle, nil),
		Subtitle: l.Msg(config.TKeyPageSubtitle, nil),
		Labels: PageLabels{
			Birthdate: l.Msg(config.TKeyLblBirthdate, nil),
			Lifespan:  l.Msg(config.TKeyLblLifespan, nil),
			PastColor: l.Msg(config.TKeyLblPastColor, nil),
			Generate:  l.Msg(config.TKeyBtnGenerate, nil),
			Download:  l.Msg(config.TKeyBtnDownload, nil),
			Calendar:  l.Msg(config.TKeyBtnCalendar, nil),
		},
		Form:        form,
		MinLifespan: config.MinLifespanYears,
		MaxLifespan: config.MaxLifespanYears,
		PastColor:   config.DefaultPastColor,
		Hint:        l.Msg(config.TKeyHintMobile, nil),
	}

	if hex, err := render.HexColor(form.PastColor); err == nil {
		view.PastColor = hex
	}
	view.Form.PastColor = view.PastColor

	if lc == nil {
		return view
	}

	if hex, err := render.HexColor(lc.PastColor); err == nil {
		view.PastColor = hex
	}
	view.Form = PageForm{
		Birthdate: lc.Birthdate.Format(config.DateFormatFullDash),
		Lifespan:  strconv.Itoa(lc.LifespanYears),
		PastColor: view.PastColor,
	}

	query := url.Values{
		config.QueryBirthdate: {view.Form.Birthdate},
		config.QueryLifespan:  {view.Form.Lifespan},
		config.QueryColor:     {view.PastColor},
		config.QueryLang:      {view.Lang},
	}.Encode()
	view.PNGLink = template.URL(config.RouteExport + config.RoutePNG + "?" + query)
	view.ICSLink = template.URL(config.RouteExport + config.RouteICS + "?" + query)
	view.CellLink = template.URL(config.RouteCell + "?" + query)

	view.Stats = []PageStat{
		{Label: l.Msg(config.TKeyStatTotal, nil), Value: l.Number(lc.Stats.TotalWeeks)},
		{Label: l.Msg(config.TKeyStatLived, nil), Value: l.Number(lc.Stats.WeeksLived)},
		{Label: l.Msg(config.TKeyStatRemaining, nil), Value: l.Number(lc.Stats.WeeksRemaining)},
		{Label: l.Msg(config.TKeyStatAge, nil), Value: strconv.Itoa(lc.Stats.CurrentAge)},
	}

	view.Rows = make([]PageRow, len(lc.Grid.Rows))
	for i, row := range lc.Grid.Rows {
		cells := make([]PageCell, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = PageCell{Class: statusClasses[cell.Status], Key: cell.Key()}
		}
		view.Rows[i] = PageRow{Label: row.Label, Cells: cells}
	}

	return view
}

// RenderPage executes the index template.
func RenderPage(w io.Writer, view PageView) error {
	if err := pageTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("%s: %w", config.ErrTemplateRender, err)
	}
	return nil
}
