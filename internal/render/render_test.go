package render_test

import (
	"time"

	"github.com/tartampluch/life-in-weeks/internal/engine"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// calendar builds a calendar the way the handlers do, failing loudly on bad
// fixtures.
func calendar(birth, now time.Time, lifespan int, color string) *engine.LifeCalendar {
	calc := engine.NewCalculator(MockClock{CurrentTime: now})
	lc, err := calc.Calculate(engine.Input{Birthdate: birth, LifespanYears: lifespan, PastColor: color})
	if err != nil {
		panic(err)
	}
	return lc
}
