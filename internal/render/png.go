package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"log/slog"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

var (
	colorBackground  = mustColor(config.ExportBackground)
	colorFutureRing  = mustColor(config.ExportFutureRing)
	colorBeforeBirth = mustColor(config.ExportBeforeBirth)
	colorLabel       = mustColor(config.ExportLabelColor)
)

// PNGOptions tunes the exported image.
type PNGOptions struct {
	// PastColor fills lived weeks. Empty means the calendar color, then
	// config.DefaultPastColor.
	PastColor string
	// PixelRatio multiplies every length. Zero means config.ExportPixelRatio.
	PixelRatio int
}

// Layout holds the unscaled geometry of an exported grid.
type Layout struct {
	Rows int
}

// Size returns the unscaled image size.
func (l Layout) Size() (int, int) {
	w := config.ExportPaddingLeft + config.ExportLabelWidth +
		config.WeeksPerYear*config.ExportCellSize + (config.WeeksPerYear-1)*config.ExportCellGap +
		config.ExportPaddingRight
	h := config.ExportPaddingTop + l.Rows*config.ExportCellSize + (l.Rows-1)*config.ExportCellGap +
		config.ExportPaddingBot
	return w, h
}

// CellOrigin returns the unscaled top-left corner of a cell.
func (l Layout) CellOrigin(key engine.CellKey) image.Point {
	pitch := config.ExportCellSize + config.ExportCellGap
	return image.Pt(
		config.ExportPaddingLeft+config.ExportLabelWidth+(key.Column-1)*pitch,
		config.ExportPaddingTop+key.YearIndex*pitch,
	)
}

// ExportFilename names a download: life-in-weeks_<lifespan>y.<ext>.
func ExportFilename(lifespanYears int, ext string) string {
	return fmt.Sprintf(config.FormatExportName, config.ExportFilePrefix, lifespanYears, ext)
}

// PNG renders lc and returns the encoded image.
func PNG(lc *engine.LifeCalendar, opts PNGOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, lc, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG draws the grid on a white background with room above and to the
// right, labels every fifth row and encodes the result as PNG.
func WritePNG(w io.Writer, lc *engine.LifeCalendar, opts PNGOptions) error {
	opts.PastColor = pastColor(opts.PastColor, lc)
	if opts.PixelRatio <= 0 {
		opts.PixelRatio = config.ExportPixelRatio
	}
	past, err := ParseColor(opts.PastColor)
	if err != nil {
		return err
	}

	layout := Layout{Rows: len(lc.Grid.Rows)}
	baseW, baseH := layout.Size()
	scale := opts.PixelRatio

	img := image.NewRGBA(image.Rect(0, 0, baseW*scale, baseH*scale))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)

	d := &cellDrawer{
		dst:   img,
		size:  config.ExportCellSize * scale,
		ring:  float32(config.ExportRingWidth * scale),
		z:     vector.NewRasterizer(config.ExportCellSize*scale, config.ExportCellSize*scale),
		past:  image.NewUniform(past),
		empty: image.NewUniform(colorBackground),
		outer: image.NewUniform(colorFutureRing),
		faded: image.NewUniform(colorBeforeBirth),
	}

	for _, row := range lc.Grid.Rows {
		for _, cell := range row.Cells {
			origin := layout.CellOrigin(cell.Key()).Mul(scale)
			d.draw(origin, cell.Status)
		}
	}

	drawLabels(img, lc.Grid.Rows, layout)

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("%s: %w", config.ErrPNGEncode, err)
	}

	slog.Debug(config.MsgExportDone,
		config.LogKeyComponent, config.CompRender,
		config.LogKeyFormat, config.ExtPNG,
		config.LogKeyWidth, img.Bounds().Dx(),
	)
	return nil
}

// cellDrawer rasterizes one cell at a time into a reusable square mask.
type cellDrawer struct {
	dst  draw.Image
	size int
	ring float32
	z    *vector.Rasterizer

	past, empty, outer, faded image.Image
}

func (d *cellDrawer) draw(origin image.Point, status engine.Status) {
	r := float32(d.size) / 2
	switch status {
	case engine.StatusLived:
		d.circle(origin, r, d.past)
	case engine.StatusFuture:
		d.circle(origin, r, d.outer)
		d.circle(origin, r-d.ring, d.empty)
	default:
		d.circle(origin, r, d.faded)
	}
}

func (d *cellDrawer) circle(origin image.Point, radius float32, src image.Image) {
	c := float32(d.size) / 2
	k := radius * kappa

	d.z.Reset(d.size, d.size)
	d.z.MoveTo(c+radius, c)
	d.z.CubeTo(c+radius, c+k, c+k, c+radius, c, c+radius)
	d.z.CubeTo(c-k, c+radius, c-radius, c+k, c-radius, c)
	d.z.CubeTo(c-radius, c-k, c-k, c-radius, c, c-radius)
	d.z.CubeTo(c+k, c-radius, c+radius, c-k, c+radius, c)
	d.z.ClosePath()

	d.z.Draw(d.dst, image.Rectangle{Min: origin, Max: origin.Add(image.Pt(d.size, d.size))}, src, image.Point{})
}

// drawLabels writes the year labels at 1x with the bitmap face and scales
// the layer up, so the text keeps hard pixel edges at any ratio.
func drawLabels(dst draw.Image, rows []engine.WeekRow, layout Layout) {
	baseW, baseH := layout.Size()
	layer := image.NewRGBA(image.Rect(0, 0, baseW, baseH))

	drawer := &font.Drawer{
		Dst:  layer,
		Src:  image.NewUniform(colorLabel),
		Face: basicfont.Face7x13,
	}

	// Baseline sits on the bottom edge of the cell; digits have no descent.
	for _, row := range rows {
		if row.Label == "" {
			continue
		}
		origin := layout.CellOrigin(engine.CellKey{YearIndex: row.YearIndex, Column: 1})
		width := drawer.MeasureString(row.Label).Ceil()
		x := origin.X - config.ExportCellGap*2 - width
		y := origin.Y + config.ExportCellSize
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(row.Label)
	}

	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), layer, layer.Bounds(), xdraw.Over, nil)
}
