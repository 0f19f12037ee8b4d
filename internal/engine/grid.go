package engine

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/tartampluch/life-in-weeks/internal/config"
)

// Status classifies a week cell.
type Status int

const (
	StatusBeforeBirth Status = iota
	StatusLived
	StatusFuture
)

var statusNames = map[Status]string{
	StatusBeforeBirth: "before_birth",
	StatusLived:       "lived",
	StatusFuture:      "future",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the status by name so JSON payloads stay readable.
func (s Status) MarshalText() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown status %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText is the inverse of MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", string(text))
}

// WeekCell is one slot of the grid.
type WeekCell struct {
	YearIndex int `json:"year_index"`
	// Column is the 1-based position within the 52-slot row.
	Column int `json:"column"`
	// LifeWeek is the 1-based sequential week counted from birth.
	// Zero means the cell is before birth and has no number.
	LifeWeek int    `json:"life_week,omitempty"`
	Status   Status `json:"status"`
}

// HasLifeWeek reports whether the cell carries a life week number.
func (c WeekCell) HasLifeWeek() bool {
	return c.LifeWeek > 0
}

// WeekRow is one year of the grid.
type WeekRow struct {
	YearIndex int `json:"year_index"`
	// Year is the absolute calendar year (birth year + YearIndex).
	Year int `json:"year"`
	// Label is the year text for every fifth row and empty otherwise.
	// Renderers keep an empty placeholder of equal width for unlabeled rows.
	Label string                       `json:"label"`
	Cells [config.WeeksPerYear]WeekCell `json:"cells"`
}

// WeekGrid holds one row per year of the lifespan.
type WeekGrid struct {
	Rows []WeekRow `json:"rows"`
}

// Stats summarizes a generated calendar.
type Stats struct {
	TotalWeeks     int `json:"total_weeks"`
	WeeksLived     int `json:"weeks_lived"`
	WeeksRemaining int `json:"weeks_remaining"`
	CurrentAge     int `json:"current_age"`
}

// Input carries the validated collector values.
type Input struct {
	Birthdate     time.Time
	LifespanYears int
	// PastColor is display-only and never influences the grid.
	PastColor string
}

// LifeCalendar is the immutable result of one generation. Regenerating
// produces a new value; nothing mutates an existing one.
type LifeCalendar struct {
	Birthdate     time.Time `json:"birthdate"`
	LifespanYears int       `json:"lifespan_years"`
	PastColor     string    `json:"past_color"`
	Now           time.Time `json:"now"`
	Stats         Stats     `json:"stats"`
	Grid          WeekGrid  `json:"grid"`
}

// Calculator generates life calendars using an injected clock.
type Calculator struct {
	Clock Clock
}

// NewCalculator returns a Calculator reading the time from clock.
// A nil clock falls back to RealClock.
func NewCalculator(clock Clock) *Calculator {
	if clock == nil {
		clock = RealClock{}
	}
	return &Calculator{Clock: clock}
}

// Calculate validates in, samples the clock once and builds the calendar.
func (c *Calculator) Calculate(in Input) (*LifeCalendar, error) {
	start := time.Now()
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	now := c.Clock.Now()
	lived := WeeksLived(in.Birthdate, now)

	grid, err := GenerateGrid(in.Birthdate, in.LifespanYears, lived)
	if err != nil {
		return nil, err
	}

	stats := NewStats(in.LifespanYears, lived, CalculateAge(in.Birthdate, now))

	slog.Debug(config.MsgGridGenerated,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyDOB, in.Birthdate.Format(config.DateFormatFullDash),
		config.LogKeyLifespan, in.LifespanYears,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.TotalWeeks),
			slog.Int(config.LogKeyLived, stats.WeeksLived),
			slog.Int(config.LogKeyRemaining, stats.WeeksRemaining),
			slog.Int(config.LogKeyAge, stats.CurrentAge),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)

	return &LifeCalendar{
		Birthdate:     in.Birthdate,
		LifespanYears: in.LifespanYears,
		PastColor:     in.PastColor,
		Now:           now,
		Stats:         stats,
		Grid:          grid,
	}, nil
}

// NewStats derives the summary numbers. WeeksRemaining never goes negative.
func NewStats(lifespanYears, weeksLived, age int) Stats {
	total := lifespanYears * config.WeeksPerYear
	return Stats{
		TotalWeeks:     total,
		WeeksLived:     weeksLived,
		WeeksRemaining: max(0, total-weeksLived),
		CurrentAge:     age,
	}
}

// GenerateGrid maps (birth, lifespan, weeksLived) to the week grid.
//
// Cells of year 0 whose column is before WeekOfYear(birth) are before birth.
// Every other cell takes the next life week number, starting at 1, and is
// lived when that number is at most weeksLived.
func GenerateGrid(birth time.Time, lifespanYears, weeksLived int) (WeekGrid, error) {
	if birth.IsZero() {
		return WeekGrid{}, fmt.Errorf("%w: %w", ErrInvalidInput, ErrBirthdateMissing)
	}
	if err := validateLifespan(lifespanYears); err != nil {
		return WeekGrid{}, err
	}

	birthWeek := WeekOfYear(birth)
	rows := make([]WeekRow, lifespanYears)
	lifeWeek := 1

	for yearIndex := range rows {
		label, _ := RowLabel(birth, yearIndex)
		row := WeekRow{
			YearIndex: yearIndex,
			Year:      birth.Year() + yearIndex,
			Label:     label,
		}

		for column := 1; column <= config.WeeksPerYear; column++ {
			cell := WeekCell{YearIndex: yearIndex, Column: column}

			if yearIndex == 0 && column < birthWeek {
				cell.Status = StatusBeforeBirth
			} else {
				cell.LifeWeek = lifeWeek
				if lifeWeek <= weeksLived {
					cell.Status = StatusLived
				} else {
					cell.Status = StatusFuture
				}
				lifeWeek++
			}

			row.Cells[column-1] = cell
		}
		rows[yearIndex] = row
	}

	return WeekGrid{Rows: rows}, nil
}

// RowLabel returns the absolute year for rows whose index is a multiple of
// five. Other rows get an empty label and ok == false.
func RowLabel(birth time.Time, yearIndex int) (string, bool) {
	if yearIndex%config.LabelPeriod != 0 {
		return "", false
	}
	return strconv.Itoa(birth.Year() + yearIndex), true
}

// ValidateInput checks the bounds the calculator relies on.
func ValidateInput(in Input) error {
	if in.Birthdate.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrBirthdateMissing)
	}
	return validateLifespan(in.LifespanYears)
}

// validateLifespan treats zero as not filled in, the way the form does.
func validateLifespan(years int) error {
	if years == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrLifespanMissing)
	}
	if years < config.MinLifespanYears || years > config.MaxLifespanYears {
		return fmt.Errorf("%w: %w: %d", ErrInvalidInput, ErrLifespanRange, years)
	}
	return nil
}
