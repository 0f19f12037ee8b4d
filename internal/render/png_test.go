package render_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
	"github.com/tartampluch/life-in-weeks/internal/render"
)

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

// cellCenter returns the scaled center pixel of a cell.
func cellCenter(layout render.Layout, key engine.CellKey, scale int) image.Point {
	half := config.ExportCellSize / 2
	return layout.CellOrigin(key).Add(image.Pt(half, half)).Mul(scale)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "life-in-weeks_80y.png", render.ExportFilename(80, config.ExtPNG))
	assert.Equal(t, "life-in-weeks_1y.ics", render.ExportFilename(1, config.ExtICS))
}

func TestLayout_Size(t *testing.T) {
	w, h := render.Layout{Rows: 80}.Size()
	assert.Equal(t, 741, w)
	assert.Equal(t, 1069, h)

	origin := render.Layout{Rows: 80}.CellOrigin(engine.CellKey{YearIndex: 1, Column: 2})
	assert.Equal(t, image.Pt(8+36+13, 24+13), origin)
}

func TestPNG_SizeFollowsPixelRatio(t *testing.T) {
	lc := calendar(utcDate(2000, 1, 1), utcDate(2024, 1, 1), 80, "")
	baseW, baseH := render.Layout{Rows: 80}.Size()

	for _, ratio := range []int{1, 2, 3} {
		data, err := render.PNG(lc, render.PNGOptions{PixelRatio: ratio})
		require.NoError(t, err)

		bounds := decodePNG(t, data).Bounds()
		assert.Equal(t, baseW*ratio, bounds.Dx(), "ratio %d", ratio)
		assert.Equal(t, baseH*ratio, bounds.Dy(), "ratio %d", ratio)
	}
}

func TestPNG_DefaultPixelRatio(t *testing.T) {
	lc := calendar(utcDate(2000, 1, 1), utcDate(2024, 1, 1), 5, "")
	baseW, _ := render.Layout{Rows: 5}.Size()

	data, err := render.PNG(lc, render.PNGOptions{})
	require.NoError(t, err)
	assert.Equal(t, baseW*config.ExportPixelRatio, decodePNG(t, data).Bounds().Dx())
}

func TestPNG_CellColors(t *testing.T) {
	// Born mid March: row 0 starts with ten cells before birth.
	lc := calendar(utcDate(2024, 3, 15), utcDate(2025, 3, 15), 3, "")
	layout := render.Layout{Rows: 3}
	scale := 2

	data, err := render.PNG(lc, render.PNGOptions{PastColor: "#ff0000", PixelRatio: scale})
	require.NoError(t, err)
	img := decodePNG(t, data)

	at := func(key engine.CellKey) color.RGBA {
		p := cellCenter(layout, key, scale)
		return rgba(img.At(p.X, p.Y))
	}

	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, at(engine.CellKey{YearIndex: 0, Column: 11}), "lived")
	assert.Equal(t, color.RGBA{R: 0xe2, G: 0xe8, B: 0xf0, A: 0xff}, at(engine.CellKey{YearIndex: 0, Column: 1}), "before birth")
	assert.Equal(t, white, at(engine.CellKey{YearIndex: 2, Column: 52}), "future cells are hollow")

	// The ring of a future cell is drawn on its left edge.
	origin := layout.CellOrigin(engine.CellKey{YearIndex: 2, Column: 52}).Mul(scale)
	edge := rgba(img.At(origin.X, origin.Y+config.ExportCellSize*scale/2))
	assert.NotEqual(t, white, edge)

	// The top padding stays background.
	assert.Equal(t, white, rgba(img.At(img.Bounds().Dx()/2, 1)))
}

func TestPNG_DrawsLabels(t *testing.T) {
	lc := calendar(utcDate(2000, 1, 1), utcDate(2024, 1, 1), 6, "")
	layout := render.Layout{Rows: 6}

	data, err := render.PNG(lc, render.PNGOptions{PixelRatio: 1})
	require.NoError(t, err)
	img := decodePNG(t, data)

	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	inked := func(yearIndex int) int {
		origin := layout.CellOrigin(engine.CellKey{YearIndex: yearIndex, Column: 1})
		n := 0
		for y := origin.Y; y < origin.Y+config.ExportCellSize; y++ {
			for x := config.ExportPaddingLeft; x < origin.X; x++ {
				if rgba(img.At(x, y)) != white {
					n++
				}
			}
		}
		return n
	}

	assert.Positive(t, inked(0), "row 0 carries the birth year")
	assert.Positive(t, inked(5), "row 5 carries a label")
	assert.Zero(t, inked(3), "row 3 is unlabeled")
}

func TestPNG_RejectsBadColor(t *testing.T) {
	lc := calendar(utcDate(2000, 1, 1), utcDate(2024, 1, 1), 1, "")

	_, err := render.PNG(lc, render.PNGOptions{PastColor: "nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestPNG_PastColorFallback(t *testing.T) {
	lived := engine.CellKey{YearIndex: 0, Column: 1}
	layout := render.Layout{Rows: 2}

	tests := []struct {
		name     string
		calColor string
		optColor string
		want     color.RGBA
	}{
		{"CalendarColor", "#00ff00", "", color.RGBA{G: 0xff, A: 0xff}},
		{"OptionWins", "#00ff00", "#0000ff", color.RGBA{B: 0xff, A: 0xff}},
		{"Default", "", "", mustRGBA(t, config.DefaultPastColor)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := calendar(utcDate(2000, 1, 1), utcDate(2001, 6, 1), 2, tt.calColor)

			data, err := render.PNG(lc, render.PNGOptions{PastColor: tt.optColor, PixelRatio: 2})
			require.NoError(t, err)

			p := cellCenter(layout, lived, 2)
			assert.Equal(t, tt.want, rgba(decodePNG(t, data).At(p.X, p.Y)))
		})
	}
}

func mustRGBA(t *testing.T, hex string) color.RGBA {
	t.Helper()
	c, err := render.ParseColor(hex)
	require.NoError(t, err)
	return c
}
