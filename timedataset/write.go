package timedataset

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"time"
)

// WriteCSV writes the dataset with a header of the option's time and value columns. Times use
// the "2006-01-02 15:04:05" layout of the PJM export and missing values are left empty.
func (td *TimeDataset) WriteCSV(w io.Writer, opt *Options) error {
	opt, err := opt.Validate()
	if err != nil {
		return err
	}
	valueCol := opt.ValueColumn
	if valueCol == "" {
		valueCol = DefaultValueColumn
	}

	cw := csv.NewWriter(w)
	header := []string{opt.TimeColumn}
	if td.HasValues() {
		header = append(header, valueCol)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, tPnt := range td.T {
		record := []string{tPnt.In(opt.Location).Format(time.DateTime)}
		if td.HasValues() {
			val := ""
			if !math.IsNaN(td.Y[i]) {
				val = strconv.FormatFloat(td.Y[i], 'f', -1, 64)
			}
			record = append(record, val)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
