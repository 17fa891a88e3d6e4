package timedataset

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// timeLayouts are tried in order for timestamps stored as text
var timeLayouts = []string{
	time.DateTime,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseTime parses a timestamp cell. Text is matched against the supported layouts in loc.
// When serialDates is set, a numeric cell is read as an Excel serial date.
func ParseTime(s string, loc *time.Location, serialDates bool) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if s == "" {
		return time.Time{}, fmt.Errorf("empty cell, %w", ErrUnparseableTime)
	}

	for _, layout := range timeLayouts {
		if tPnt, err := time.ParseInLocation(layout, s, loc); err == nil {
			return tPnt, nil
		}
	}

	if serialDates {
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			tPnt, err := excelize.ExcelDateToTime(serial, false)
			if err != nil {
				return time.Time{}, fmt.Errorf("%q, %w", s, ErrUnparseableTime)
			}
			// serial dates carry floating point error below a second
			tPnt = tPnt.Round(time.Second)
			return time.Date(
				tPnt.Year(), tPnt.Month(), tPnt.Day(),
				tPnt.Hour(), tPnt.Minute(), tPnt.Second(), 0,
				loc,
			), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q, %w", s, ErrUnparseableTime)
}
