package feature

// Names of the calendar features, matching the column names the regressor was trained on.
const (
	LabelHour      = "hour"
	LabelDay       = "day"
	LabelMonth     = "month"
	LabelYear      = "year"
	LabelWeekday   = "weekday"
	LabelSeason    = "season"
	LabelIsWeekend = "is_weekend"
	LabelIsHoliday = "is_holiday"
)

var calendarFeatures = NewLabels([]Feature{
	NewCalendar(LabelHour),
	NewCalendar(LabelDay),
	NewCalendar(LabelMonth),
	NewCalendar(LabelYear),
	NewCalendar(LabelWeekday),
	NewCalendar(LabelSeason),
	NewCalendar(LabelIsWeekend),
	NewCalendar(LabelIsHoliday),
})

// CalendarFeatures returns every calendar feature in the order they are generated
func CalendarFeatures() *Labels {
	return calendarFeatures
}

// CalendarLabels returns every calendar feature name in the order they are generated.
func CalendarLabels() []string {
	return calendarFeatures.Strings()
}

// Calendar is a feature derived from a single timestamp such as its month or weekday.
type Calendar struct {
	Name string
}

func NewCalendar(name string) *Calendar {
	return &Calendar{name}
}

// String returns the bare feature name so it lines up with the regressor's column names
func (c Calendar) String() string {
	return c.Name
}
