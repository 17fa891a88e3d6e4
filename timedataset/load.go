package timedataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	DefaultTimeColumn  = "Datetime"
	DefaultValueColumn = "PJMW_MW"
)

// Options configures how a dataset file is read
type Options struct {
	// Sheet selects the worksheet of a spreadsheet. Defaults to the first sheet.
	Sheet string `json:"sheet" yaml:"sheet"`

	TimeColumn string `json:"time_column" yaml:"time_column"`

	// ValueColumn is only read when set. Forecasting needs timestamps only.
	ValueColumn string `json:"value_column" yaml:"value_column"`

	// Location interprets timestamps without an explicit offset. Defaults to UTC.
	Location *time.Location `json:"-" yaml:"-"`
}

// NewDefaultOptions reads timestamps from the Datetime column
func NewDefaultOptions() *Options {
	return &Options{
		TimeColumn: DefaultTimeColumn,
	}
}

func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if o.TimeColumn == "" {
		o.TimeColumn = DefaultTimeColumn
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o, nil
}

// LoadFile reads a dataset from an .xlsx or .csv file
func LoadFile(path string, opt *Options) (*TimeDataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to open spreadsheet %s, %w", path, err)
		}
		defer f.Close()
		return loadWorkbook(f, opt)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("unable to open csv %s, %w", path, err)
		}
		defer f.Close()
		return LoadCSV(f, opt)
	}
	return nil, fmt.Errorf("%s, %w", path, ErrUnsupportedFormat)
}

// LoadXLSX reads a dataset from a spreadsheet stream
func LoadXLSX(r io.Reader, opt *Options) (*TimeDataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read spreadsheet, %w", err)
	}
	defer f.Close()
	return loadWorkbook(f, opt)
}

func loadWorkbook(f *excelize.File, opt *Options) (*TimeDataset, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	sheet := opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoRows
		}
		sheet = sheets[0]
	}

	// raw values keep date cells as serial numbers instead of their display format
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet %q, %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return parseTable(rows[0], rows[1:], opt, true)
}

// LoadCSV reads a dataset from comma separated values with a header row
func LoadCSV(r io.Reader, opt *Options) (*TimeDataset, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header, %w", err)
	}

	var rows [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d, %w", len(rows)+2, err)
		}
		rows = append(rows, record)
	}
	return parseTable(header, rows, opt, false)
}

func columnIndex(header []string, name string) (int, error) {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%q, %w", name, ErrMissingColumn)
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseTable converts the data rows under header into a dataset. Row numbers in errors are
// 1-based and count the header.
func parseTable(header []string, rows [][]string, opt *Options, serialDates bool) (*TimeDataset, error) {
	tIdx, err := columnIndex(header, opt.TimeColumn)
	if err != nil {
		return nil, err
	}

	yIdx := -1
	if opt.ValueColumn != "" {
		yIdx, err = columnIndex(header, opt.ValueColumn)
		if err != nil {
			return nil, err
		}
	}

	t := make([]time.Time, 0, len(rows))
	var y []float64
	if yIdx >= 0 {
		y = make([]float64, 0, len(rows))
	}

	for i, row := range rows {
		rowNum := i + 2
		if blank(row) {
			continue
		}

		tPnt, err := ParseTime(cell(row, tIdx), opt.Location, serialDates)
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", rowNum, err)
		}
		t = append(t, tPnt)

		if yIdx < 0 {
			continue
		}
		raw := cell(row, yIdx)
		if raw == "" {
			y = append(y, math.NaN())
			continue
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d value %q, %w", rowNum, raw, ErrUnparseableValue)
		}
		y = append(y, val)
	}

	return NewDataset(t, y)
}
