// Package holiday flags dates that fall on an observed public holiday.
package holiday

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var ErrUnknownCalendar = errors.New("unknown holiday calendar")

const (
	CalendarNone = "none"
	CalendarUS   = "us"
)

// Calendar is a named set of holidays checked against their observed dates
type Calendar struct {
	Name     string
	holidays []*cal.Holiday
}

// NewCalendar creates a calendar from an arbitrary set of holidays
func NewCalendar(name string, holidays ...*cal.Holiday) *Calendar {
	return &Calendar{
		Name:     name,
		holidays: holidays,
	}
}

// New looks up a built in calendar by name. An empty name or "none" returns a nil calendar
// which reports no holidays.
func New(name string) (*Calendar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CalendarNone:
		return nil, nil
	case CalendarUS:
		return NewCalendar(
			CalendarUS,
			us.NewYear,
			us.MlkDay,
			us.PresidentsDay,
			us.MemorialDay,
			us.IndependenceDay,
			us.LaborDay,
			us.ColumbusDay,
			us.VeteransDay,
			us.ThanksgivingDay,
			us.ChristmasDay,
		), nil
	}
	return nil, fmt.Errorf("%q, %w", name, ErrUnknownCalendar)
}

// IsHoliday returns true if the date of t is the observed date of any holiday in the calendar.
// Observed dates may spill into the previous year, e.g. New Year's Day on a Saturday is
// observed on December 31st.
func (c *Calendar) IsHoliday(t time.Time) bool {
	_, ok := c.Lookup(t)
	return ok
}

// Lookup returns the holiday observed on the date of t
func (c *Calendar) Lookup(t time.Time) (*cal.Holiday, bool) {
	if c == nil {
		return nil, false
	}
	year, month, day := t.Date()
	for _, hol := range c.holidays {
		for _, y := range []int{year, year + 1} {
			_, observed := hol.Calc(y)
			if observed.IsZero() {
				continue
			}
			oy, om, od := observed.Date()
			if oy == year && om == month && od == day {
				return hol, true
			}
		}
	}
	return nil, false
}

// Observed lists each holiday observed between start and end inclusive, keyed by date
func (c *Calendar) Observed(start, end time.Time) map[string]string {
	res := make(map[string]string)
	if c == nil {
		return res
	}
	for i := start.Year(); i <= end.Year()+1; i++ {
		for _, hol := range c.holidays {
			_, observed := hol.Calc(i)
			if observed.IsZero() {
				continue
			}
			day := time.Date(observed.Year(), observed.Month(), observed.Day(), 0, 0, 0, 0, start.Location())
			if day.Before(truncateDay(start)) || day.After(end) {
				continue
			}
			res[day.Format(time.DateOnly)] = hol.Name
		}
	}
	return res
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
