package desktop

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
	"github.com/tartampluch/life-in-weeks/internal/render"
)

var (
	colorBeforeBirth = paletteColor(config.ExportBeforeBirth)
	colorFutureRing  = paletteColor(config.ExportFutureRing)
	colorBackground  = paletteColor(config.ExportBackground)
	colorLabel       = paletteColor(config.ExportLabelColor)
)

// weekCell draws one circle of the grid and reports taps by key.
type weekCell struct {
	widget.BaseWidget

	key    engine.CellKey
	status engine.Status
	circle *canvas.Circle
	onTap  func(engine.CellKey)
}

func newWeekCell(cell engine.WeekCell, past color.Color, onTap func(engine.CellKey)) *weekCell {
	c := &weekCell{
		key:    cell.Key(),
		status: cell.Status,
		circle: &canvas.Circle{},
		onTap:  onTap,
	}

	switch cell.Status {
	case engine.StatusLived:
		c.circle.FillColor = past
	case engine.StatusBeforeBirth:
		c.circle.FillColor = colorBeforeBirth
	default:
		c.circle.FillColor = colorBackground
		c.circle.StrokeColor = colorFutureRing
		c.circle.StrokeWidth = config.GUIRingWidth
	}

	c.ExtendBaseWidget(c)
	return c
}

func (c *weekCell) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.circle)
}

func (c *weekCell) MinSize() fyne.Size {
	return fyne.NewSquareSize(config.GUICellSize)
}

// Tapped implements fyne.Tappable.
func (c *weekCell) Tapped(*fyne.PointEvent) {
	if c.onTap != nil {
		c.onTap(c.key)
	}
}

// paletteColor parses one of the fixed palette constants.
func paletteColor(hex string) color.Color {
	c, err := render.ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}
