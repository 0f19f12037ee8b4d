package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
)

// ParseColor accepts #rgb and #rrggbb hex colors.
func ParseColor(value string) (color.RGBA, error) {
	c, err := colorful.Hex(strings.TrimSpace(value))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %w: %q", engine.ErrInvalidInput, engine.ErrColorFormat, value)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// HexColor normalizes value to lowercase #rrggbb.
func HexColor(value string) (string, error) {
	c, err := colorful.Hex(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: %w: %q", engine.ErrInvalidInput, engine.ErrColorFormat, value)
	}
	return c.Hex(), nil
}

// mustColor is for the package's own palette constants.
func mustColor(hex string) color.RGBA {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// pastColor picks the lived-week color: the explicit option, then the
// calendar's own color, then the default.
func pastColor(opt string, lc *engine.LifeCalendar) string {
	switch {
	case opt != "":
		return opt
	case lc.PastColor != "":
		return lc.PastColor
	default:
		return config.DefaultPastColor
	}
}
