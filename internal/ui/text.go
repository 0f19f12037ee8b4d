package ui

import (
	"errors"

	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
	"github.com/tartampluch/life-in-weeks/internal/render"
)

// Tooltip is the localized text shown when a cell is clicked.
type Tooltip struct {
	Title       string `json:"title"`
	Details     string `json:"details"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

var statusKeys = map[engine.Status]string{
	engine.StatusBeforeBirth: config.TKeyStatusBefore,
	engine.StatusLived:       config.TKeyStatusLived,
	engine.StatusFuture:      config.TKeyStatusFuture,
}

// StatusText names a cell status in the locale's language.
func StatusText(l *Locale, s engine.Status) string {
	return l.Msg(statusKeys[s], nil)
}

// CellTooltip builds the tooltip for a resolved cell. Cells before birth
// have no life week, so their title is the status itself.
func CellTooltip(l *Locale, info engine.CellInfo) Tooltip {
	tip := Tooltip{
		Details: l.Msg(config.TKeyTipYearWeek, map[string]any{"Year": info.Year, "Week": info.WeekOfYear}),
		Status:  StatusText(l, info.Status),
	}

	if info.LifeWeek == nil {
		tip.Title = tip.Status
		tip.Description = l.Msg(config.TKeyDescBeforeBirth, map[string]any{"Year": info.Year, "Week": info.WeekOfYear})
		return tip
	}

	week := map[string]any{"Week": *info.LifeWeek}
	tip.Title = l.Msg(config.TKeyTipLifeWeek, week)
	if info.Status == engine.StatusLived {
		tip.Description = l.Msg(config.TKeyDescLived, week)
	} else {
		tip.Description = l.Msg(config.TKeyDescFuture, week)
	}
	return tip
}

// ErrorMessage maps a validation failure to the message shown to the user.
// Errors that are not validation failures keep their own text.
func ErrorMessage(l *Locale, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, engine.ErrBirthdateMissing), errors.Is(err, engine.ErrLifespanMissing):
		return l.Msg(config.TKeyErrMissing, nil)
	case errors.Is(err, engine.ErrLifespanNumber), errors.Is(err, engine.ErrLifespanRange):
		return l.Msg(config.TKeyErrLifespan, map[string]any{
			"Min": config.MinLifespanYears,
			"Max": config.MaxLifespanYears,
		})
	case errors.Is(err, engine.ErrBirthdateFormat), errors.Is(err, engine.ErrBirthdateNoYear):
		return l.Msg(config.TKeyErrBirthdate, nil)
	case errors.Is(err, engine.ErrColorFormat):
		return l.Msg(config.TKeyErrColor, nil)
	}
	return err.Error()
}

// Captions returns the translated stats labels for the terminal renderer.
func Captions(l *Locale) render.Captions {
	return render.Captions{
		TotalWeeks:     l.Msg(config.TKeyStatTotal, nil),
		WeeksLived:     l.Msg(config.TKeyStatLived, nil),
		WeeksRemaining: l.Msg(config.TKeyStatRemaining, nil),
		Age:            l.Msg(config.TKeyStatAge, nil),
		Number:         l.Number,
	}
}

// ICSOptions localizes the birthday feed. An empty name uses the locale's
// fallback name.
func ICSOptions(l *Locale, name string) render.ICSOptions {
	if name == "" {
		name = l.Msg(config.TKeyFallbackName, nil)
	}
	return render.ICSOptions{
		Name: name,
		Summary: func(name string, age int) string {
			if age == 0 {
				return l.Msg(config.TKeyEvtBirth, map[string]any{"Name": name})
			}
			return l.Msg(config.TKeyEvtBirthday, map[string]any{"Name": name, "Age": age})
		},
	}
}
