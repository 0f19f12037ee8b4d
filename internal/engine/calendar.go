package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tartampluch/life-in-weeks/internal/config"
)

const millisPerWeek = config.DaysPerWeek * config.SecondsPerDay * 1000

// WeeksLived returns the elapsed time between birth and now in whole weeks.
// The difference is taken in absolute value, so a birthdate in the future
// yields a positive count rather than a negative one.
func WeeksLived(birth, now time.Time) int {
	diff := now.UnixMilli() - birth.UnixMilli()
	if diff < 0 {
		diff = -diff
	}
	return int(diff / millisPerWeek)
}

// CalculateAge returns the calendar age in whole years: the year difference,
// minus one when now's (month, day) is still before the birthday.
func CalculateAge(birth, now time.Time) int {
	by, bm, bd := birth.Date()
	ny, nm, nd := now.Date()

	age := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	return age
}

// WeekOfYear returns the column of date within its calendar year:
//
//	ceil((daysSinceJan1 + weekdayOfJan1 + 1) / 7)
//
// with Sunday as weekday 0. This is not ISO-8601 numbering; it can exceed 52
// late in the year, which puts every cell of the birth row before birth.
func WeekOfYear(date time.Time) int {
	jan1 := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, date.Location())
	pastDays := date.Sub(jan1).Hours() / 24
	return int(math.Ceil((pastDays + float64(jan1.Weekday()) + 1) / config.DaysPerWeek))
}

// ParseBirthdate parses a calendar date and returns it at UTC midnight.
// Year-less vCard dates (--MM-DD) are rejected: the grid needs a birth year.
func ParseBirthdate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidInput, ErrBirthdateMissing)
	}

	layouts := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return civilDate(t), nil
		}
	}

	for _, layout := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if _, err := time.Parse(layout, value); err == nil {
			return time.Time{}, fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrBirthdateNoYear, value)
		}
	}

	return time.Time{}, fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrBirthdateFormat, value)
}

// DefaultBirthdate is the form default: the same day, 25 years before now.
func DefaultBirthdate(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y-config.DefaultBirthdateYearsAgo, m, d, 0, 0, 0, 0, time.UTC)
}

// civilDate drops the time of day and location, keeping the date as written.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
