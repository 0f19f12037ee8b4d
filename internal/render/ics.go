package render

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
)

// ICSOptions tunes the birthday feed.
type ICSOptions struct {
	// Name is the person the feed is about. Empty means config.DefaultName.
	Name string
	// Summary formats an event title; age 0 is the day of birth.
	// Nil uses the English fallbacks.
	Summary func(name string, age int) string
}

// WriteICS writes one all-day event per birthday within the lifespan, from
// the day of birth to the last year of the grid. UIDs are name-based UUIDs
// of (birthdate, year) and DTSTAMP is the calendar's "now", so regenerating
// with the same inputs yields the same bytes.
func WriteICS(w io.Writer, lc *engine.LifeCalendar, opts ICSOptions) error {
	if opts.Name == "" {
		opts.Name = config.DefaultName
	}
	if opts.Summary == nil {
		opts.Summary = fallbackSummary
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refresh := ical.NewProp(config.PropRefresh)
	refresh.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refresh)

	stamp := ical.NewProp(config.PropDTStamp)
	stamp.SetDateTime(lc.Now.UTC())

	birth := lc.Birthdate
	for _, row := range lc.Grid.Rows {
		age := row.Year - birth.Year()

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, EventUID(birth, row.Year))
		event.Props.Set(stamp)
		event.Props.SetText(config.PropSummary, opts.Summary(opts.Name, age))

		// time.Date moves Feb 29 to Mar 1 in common years.
		start := ical.NewProp(config.PropDTStart)
		start.SetDate(time.Date(row.Year, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC))
		event.Props.Set(start)

		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return nil
}

// EventUID is stable for a given birthdate and year.
func EventUID(birth time.Time, year int) string {
	name := fmt.Sprintf(config.FormatUIDName, birth.Format(config.DateFormatFullDash), year)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func fallbackSummary(name string, age int) string {
	if age == 0 {
		return fmt.Sprintf(config.FallbackBirth, name)
	}
	return fmt.Sprintf(config.FallbackBirthday, name, age)
}
