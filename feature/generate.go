package feature

import "time"

// DefaultHour is the hour of day assigned to every forecasted day
const DefaultHour = 12

// Season indexes the meteorological season of a month
const (
	SeasonWinter = iota
	SeasonSpring
	SeasonSummer
	SeasonFall
)

// HolidayChecker reports whether a timestamp falls on a holiday
type HolidayChecker interface {
	IsHoliday(t time.Time) bool
}

// Options configures how calendar features are derived
type Options struct {
	// FixedHour assigns Hour to every observation instead of the timestamp's own hour
	FixedHour bool
	Hour      int

	// Holidays sources is_holiday. When nil every observation is a non-holiday.
	Holidays HolidayChecker
}

// NewDefaultOptions returns options for daily forecasts evaluated at noon
func NewDefaultOptions() *Options {
	return &Options{
		FixedHour: true,
		Hour:      DefaultHour,
	}
}

// NewHistoricalOptions returns options that keep the timestamp's own hour
func NewHistoricalOptions() *Options {
	return &Options{}
}

func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if o.FixedHour && (o.Hour < 0 || o.Hour > 23) {
		return nil, ErrInvalidHour
	}
	return o, nil
}

// SeasonOf maps December through February to winter, March through May to spring, June
// through August to summer and September through November to fall.
func SeasonOf(month time.Month) int {
	switch month {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	}
	return SeasonFall
}

// Weekday returns the day of week with Monday as 0 and Sunday as 6
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// IsWeekend returns 1 for Saturday (5) and Sunday (6), otherwise 0
func IsWeekend(weekday int) int {
	if weekday >= 5 {
		return 1
	}
	return 0
}

// Generate derives every calendar feature for each time point
func Generate(t []time.Time, opt *Options) (Set, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	n := len(t)
	cols := make(map[string][]float64)
	for _, label := range CalendarLabels() {
		cols[label] = make([]float64, n)
	}

	for i, tPnt := range t {
		hour := tPnt.Hour()
		if opt.FixedHour {
			hour = opt.Hour
		}
		weekday := Weekday(tPnt)

		cols[LabelHour][i] = float64(hour)
		cols[LabelDay][i] = float64(tPnt.Day())
		cols[LabelMonth][i] = float64(tPnt.Month())
		cols[LabelYear][i] = float64(tPnt.Year())
		cols[LabelWeekday][i] = float64(weekday)
		cols[LabelSeason][i] = float64(SeasonOf(tPnt.Month()))
		cols[LabelIsWeekend][i] = float64(IsWeekend(weekday))
		if opt.Holidays != nil && opt.Holidays.IsHoliday(tPnt) {
			cols[LabelIsHoliday][i] = 1.0
		}
	}

	set := make(Set)
	for label, data := range cols {
		set.Add(NewCalendar(label), data)
	}
	return set, nil
}
