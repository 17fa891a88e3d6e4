package forecast

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"
)

const (
	CSVHeaderDate      = "Date"
	CSVHeaderPredicted = "Predicted"
)

// Row is a single forecasted day along with the features it was predicted from
type Row struct {
	Date      time.Time `json:"date"`
	Hour      int       `json:"hour"`
	Day       int       `json:"day"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Weekday   int       `json:"weekday"`
	Season    int       `json:"season"`
	IsWeekend int       `json:"is_weekend"`
	IsHoliday int       `json:"is_holiday"`
	Predicted float64   `json:"predicted"`
}

// DateString formats the date without its time of day
func (r Row) DateString() string {
	return r.Date.Format(time.DateOnly)
}

// Results holds one row per forecasted day in date order
type Results struct {
	LastTime     time.Time `json:"last_time"`
	FeatureNames []string  `json:"feature_names"`
	Rows         []Row     `json:"rows"`
}

func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Dates returns the forecasted dates
func (r *Results) Dates() []time.Time {
	t := make([]time.Time, 0, r.Len())
	for _, row := range r.Rows {
		t = append(t, row.Date)
	}
	return t
}

// Predicted returns the forecasted values
func (r *Results) Predicted() []float64 {
	y := make([]float64, 0, r.Len())
	for _, row := range r.Rows {
		y = append(y, row.Predicted)
	}
	return y
}

// FormatPredicted formats a value with the fewest digits that read back to the same float
func FormatPredicted(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes a Date,Predicted header followed by one line per forecasted day
func (r *Results) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{CSVHeaderDate, CSVHeaderPredicted}); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if err := cw.Write([]string{row.DateString(), FormatPredicted(row.Predicted)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// TablePrint writes the tabular forecast
func (r *Results) TablePrint(w io.Writer) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s\t%s\t\n", CSVHeaderDate, CSVHeaderPredicted); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if _, err := fmt.Fprintf(tbl, "%s\t%.3f\t\n", row.DateString(), row.Predicted); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
