package desktop

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
	"github.com/tartampluch/life-in-weeks/internal/render"
	"github.com/tartampluch/life-in-weeks/internal/ui"
)

// App is the desktop window: the input form, the stats and the week grid.
// Every method runs on the fyne event goroutine.
type App struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	Calc        *engine.Calculator
	Translator  *ui.Translator

	locale   *ui.Locale
	form     ui.PageForm
	calendar *engine.LifeCalendar

	birthEntry    *widget.Entry
	lifespanEntry *NumericalEntry
	colorEntry    *widget.Entry
	langSelect    *widget.Select
	errorLabel    *widget.Label
	statsBox      *fyne.Container
	gridBox       *fyne.Container
	cells         map[engine.CellKey]*weekCell
	tooltip       *widget.PopUp
}

// NewApp restores the last inputs from the preferences, falling back to the
// same defaults as the web form.
func NewApp(a fyne.App, calc *engine.Calculator, tr *ui.Translator) *App {
	prefs := a.Preferences()
	birth := engine.DefaultBirthdate(calc.Clock.Now()).Format(config.DateFormatFullDash)

	return &App{
		App:         a,
		Preferences: prefs,
		Calc:        calc,
		Translator:  tr,
		locale:      tr.Locale(prefs.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)),
		form: ui.PageForm{
			Birthdate: prefs.StringWithFallback(config.PrefBirthdate, birth),
			Lifespan:  strconv.Itoa(prefs.IntWithFallback(config.PrefLifespan, config.DefaultLifespanYears)),
			PastColor: prefs.StringWithFallback(config.PrefPastColor, config.DefaultPastColor),
		},
	}
}

// Run shows the window and blocks until it is closed or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	a.Show()

	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompDesk)
		fyne.Do(a.App.Quit)
	}()

	a.App.Run()
}

// Show builds the window and generates the calendar for the restored inputs.
func (a *App) Show() {
	slog.Info(config.MsgWindowOpen,
		config.LogKeyComponent, config.CompDesk,
		config.LogKeyLang, a.locale.Tag.String())

	a.Window = a.App.NewWindow(a.locale.Msg(config.TKeyPageTitle, nil))
	a.Window.SetMaster()
	a.Window.Resize(fyne.NewSize(config.WindowWidth, config.WindowHeight))
	a.Window.SetContent(a.buildContent())
	_ = a.Generate()
	a.Window.Show()
}

// Generate validates the form and redraws stats and grid. Invalid input is
// shown under the buttons in the window language and returned.
func (a *App) Generate() error {
	a.form = ui.PageForm{
		Birthdate: a.birthEntry.Text,
		Lifespan:  a.lifespanEntry.Text,
		PastColor: a.colorEntry.Text,
	}

	lc, err := a.calculate(a.form)
	if err != nil {
		a.errorLabel.SetText(ui.ErrorMessage(a.locale, err))
		a.errorLabel.Show()
		return err
	}

	a.errorLabel.Hide()
	a.calendar = lc
	a.Preferences.SetString(config.PrefBirthdate, lc.Birthdate.Format(config.DateFormatFullDash))
	a.Preferences.SetInt(config.PrefLifespan, lc.LifespanYears)
	a.Preferences.SetString(config.PrefPastColor, lc.PastColor)
	a.refreshCalendar()
	return nil
}

func (a *App) calculate(form ui.PageForm) (*engine.LifeCalendar, error) {
	in, err := engine.ParseInput(form.Birthdate, form.Lifespan, form.PastColor)
	if err != nil {
		return nil, err
	}
	if in.PastColor, err = render.HexColor(in.PastColor); err != nil {
		return nil, err
	}
	return a.Calc.Calculate(in)
}

// SetLanguage switches every label, keeping the typed values.
func (a *App) SetLanguage(lang string) {
	a.form = ui.PageForm{
		Birthdate: a.birthEntry.Text,
		Lifespan:  a.lifespanEntry.Text,
		PastColor: a.colorEntry.Text,
	}
	a.Preferences.SetString(config.PrefLanguage, lang)
	a.locale = a.Translator.Locale(lang)

	a.Window.SetTitle(a.locale.Msg(config.TKeyPageTitle, nil))
	a.Window.SetContent(a.buildContent())
	_ = a.Generate()
}

// ShowCell resolves a tapped cell and shows its tooltip next to it for
// TooltipDuration.
func (a *App) ShowCell(key engine.CellKey) (ui.Tooltip, error) {
	if a.calendar == nil {
		return ui.Tooltip{}, fmt.Errorf("%w: %w", engine.ErrInvalidInput, engine.ErrCellOutOfGrid)
	}
	info, err := a.calendar.Cell(key)
	if err != nil {
		return ui.Tooltip{}, err
	}
	tip := ui.CellTooltip(a.locale, info)

	slog.Debug(config.MsgCellTapped,
		config.LogKeyComponent, config.CompDesk,
		config.LogKeyYearIndex, key.YearIndex,
		config.LogKeyColumn, key.Column)

	if a.tooltip != nil {
		a.tooltip.Hide()
	}
	a.tooltip = widget.NewPopUp(container.NewVBox(
		widget.NewLabelWithStyle(tip.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel(tip.Details),
		widget.NewLabel(tip.Status),
	), a.Window.Canvas())

	pos := fyne.NewPos(0, 0)
	if cell, ok := a.cells[key]; ok {
		pos = a.App.Driver().AbsolutePositionForObject(cell).AddXY(config.GUICellSize, config.GUICellSize)
	}
	a.tooltip.ShowAtPosition(pos)

	popup := a.tooltip
	time.AfterFunc(config.TooltipDuration, func() { fyne.Do(popup.Hide) })
	return tip, nil
}

// WriteExport writes the current calendar as PNG or iCalendar.
func (a *App) WriteExport(w io.Writer, format string) error {
	if a.calendar == nil {
		return fmt.Errorf("%w: %w", engine.ErrInvalidInput, engine.ErrBirthdateMissing)
	}
	switch format {
	case config.ExtPNG:
		return render.WritePNG(w, a.calendar, render.PNGOptions{})
	case config.ExtICS:
		return render.WriteICS(w, a.calendar, ui.ICSOptions(a.locale, ""))
	}
	return fmt.Errorf("%s: %q", config.ErrFormatUnsupport, format)
}

// SetPastColor applies a color chosen in the picker.
func (a *App) SetPastColor(c color.Color) {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return
	}
	a.colorEntry.SetText(cf.Hex())
	_ = a.Generate()
}

func (a *App) buildContent() fyne.CanvasObject {
	l := a.locale

	a.birthEntry = widget.NewEntry()
	a.birthEntry.SetPlaceHolder(config.DateFormatFullDash)
	a.birthEntry.SetText(a.form.Birthdate)
	a.birthEntry.OnSubmitted = func(string) { _ = a.Generate() }

	a.lifespanEntry = NewNumericalEntry(maxDigits(config.MaxLifespanYears))
	a.lifespanEntry.SetText(a.form.Lifespan)
	a.lifespanEntry.OnSubmitted = func(string) { _ = a.Generate() }

	a.colorEntry = widget.NewEntry()
	a.colorEntry.SetText(a.form.PastColor)
	a.colorEntry.OnSubmitted = func(string) { _ = a.Generate() }
	pick := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), a.pickColor)

	// OnChanged is set after the initial selection so it does not fire.
	a.langSelect = widget.NewSelect(a.Translator.Languages(), nil)
	a.langSelect.SetSelected(l.Tag.String())
	a.langSelect.OnChanged = a.SetLanguage

	form := widget.NewForm(
		widget.NewFormItem(l.Msg(config.TKeyLblBirthdate, nil), a.birthEntry),
		widget.NewFormItem(l.Msg(config.TKeyLblLifespan, nil), a.lifespanEntry),
		widget.NewFormItem(l.Msg(config.TKeyLblPastColor, nil), container.NewBorder(nil, nil, nil, pick, a.colorEntry)),
		widget.NewFormItem(l.Msg(config.TKeyLblLanguage, nil), a.langSelect),
	)

	generate := widget.NewButtonWithIcon(l.Msg(config.TKeyBtnGenerate, nil), theme.ConfirmIcon(), func() { _ = a.Generate() })
	generate.Importance = widget.HighImportance
	download := widget.NewButtonWithIcon(l.Msg(config.TKeyBtnDownload, nil), theme.DownloadIcon(), func() { a.saveAs(config.ExtPNG) })
	feed := widget.NewButtonWithIcon(l.Msg(config.TKeyBtnCalendar, nil), theme.DocumentIcon(), func() { a.saveAs(config.ExtICS) })

	a.errorLabel = widget.NewLabel("")
	a.errorLabel.Importance = widget.DangerImportance
	a.errorLabel.Wrapping = fyne.TextWrapWord
	a.errorLabel.Hide()

	a.statsBox = container.NewGridWithColumns(4)
	a.gridBox = container.NewVBox()

	header := container.NewVBox(
		widget.NewLabelWithStyle(l.Msg(config.TKeyPageTitle, nil), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle(l.Msg(config.TKeyPageSubtitle, nil), fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		form,
		container.NewGridWithColumns(3, generate, download, feed),
		a.errorLabel,
		a.statsBox,
	)
	return container.NewBorder(container.NewPadded(header), nil, nil, nil,
		container.NewVScroll(container.NewPadded(a.gridBox)))
}

// refreshCalendar redraws stats and grid from a.calendar.
func (a *App) refreshCalendar() {
	lc := a.calendar
	l := a.locale

	stats := []struct {
		key   string
		value int
	}{
		{config.TKeyStatTotal, lc.Stats.TotalWeeks},
		{config.TKeyStatLived, lc.Stats.WeeksLived},
		{config.TKeyStatRemaining, lc.Stats.WeeksRemaining},
		{config.TKeyStatAge, lc.Stats.CurrentAge},
	}
	a.statsBox.Objects = a.statsBox.Objects[:0]
	for _, s := range stats {
		a.statsBox.Objects = append(a.statsBox.Objects, container.NewVBox(
			widget.NewLabelWithStyle(l.Number(s.value), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle(l.Msg(s.key, nil), fyne.TextAlignCenter, fyne.TextStyle{}),
		))
	}
	a.statsBox.Refresh()

	var past color.Color = paletteColor(config.DefaultPastColor)
	if c, err := render.ParseColor(lc.PastColor); err == nil {
		past = c
	}

	labelSize := fyne.NewSize(config.GUILabelWidth, config.GUICellSize)
	a.cells = make(map[engine.CellKey]*weekCell, len(lc.Grid.Rows)*config.WeeksPerYear)
	rows := make([]fyne.CanvasObject, 0, len(lc.Grid.Rows))
	for _, row := range lc.Grid.Rows {
		label := canvas.NewText(row.Label, colorLabel)
		label.TextSize = config.GUICellSize
		label.Alignment = fyne.TextAlignTrailing

		cells := make([]fyne.CanvasObject, 0, config.WeeksPerYear)
		for _, cell := range row.Cells {
			wc := newWeekCell(cell, past, a.onCellTapped)
			a.cells[wc.key] = wc
			cells = append(cells, wc)
		}

		rows = append(rows, container.NewBorder(nil, nil,
			container.New(layout.NewGridWrapLayout(labelSize), label), nil,
			container.NewGridWithColumns(config.WeeksPerYear, cells...)))
	}
	a.gridBox.Objects = rows
	a.gridBox.Refresh()
}

func (a *App) onCellTapped(key engine.CellKey) {
	if _, err := a.ShowCell(key); err != nil {
		slog.Warn(config.MsgBadRequest,
			config.LogKeyComponent, config.CompDesk,
			config.LogKeyError, err)
	}
}

func (a *App) pickColor() {
	d := dialog.NewColorPicker(a.locale.Msg(config.TKeyLblPastColor, nil), "", a.SetPastColor, a.Window)
	d.Advanced = true
	if c, err := render.ParseColor(a.colorEntry.Text); err == nil {
		d.SetColor(c)
	}
	d.Show()
}

// saveAs asks for a destination and writes the export there.
func (a *App) saveAs(format string) {
	if a.calendar == nil {
		return
	}
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.Window)
			return
		}
		if wc == nil {
			return
		}
		defer func() { _ = wc.Close() }()

		if err := a.WriteExport(wc, format); err != nil {
			dialog.ShowError(errors.New(ui.ErrorMessage(a.locale, err)), a.Window)
			return
		}
		slog.Info(config.MsgExportDone,
			config.LogKeyComponent, config.CompDesk,
			config.LogKeyFormat, format,
			config.LogKeyFile, wc.URI().Name())
		dialog.ShowInformation(config.AppName,
			a.locale.Msg(config.TKeyMsgSaved, map[string]any{"File": wc.URI().Name()}), a.Window)
	}, a.Window)
	d.SetFileName(render.ExportFilename(a.calendar.LifespanYears, format))
	d.SetFilter(storage.NewExtensionFileFilter([]string{"." + format}))
	d.Show()
}
