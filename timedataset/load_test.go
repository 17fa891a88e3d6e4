package timedataset

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadCSV(t *testing.T) {
	testData := map[string]struct {
		input    string
		opt      *Options
		expected *TimeDataset
		err      error
	}{
		"empty": {
			input: "",
			err:   ErrNoRows,
		},
		"header only": {
			input: "Datetime,PJMW_MW\n",
			err:   ErrNoRows,
		},
		"missing time column": {
			input: "Timestamp,PJMW_MW\n2018-01-01 00:00:00,1\n",
			err:   ErrMissingColumn,
		},
		"missing value column": {
			input: "Datetime\n2018-01-01 00:00:00\n",
			opt:   &Options{ValueColumn: "PJMW_MW"},
			err:   ErrMissingColumn,
		},
		"bad timestamp": {
			input: "Datetime\nyesterday\n",
			err:   ErrUnparseableTime,
		},
		"bad value": {
			input: "Datetime,PJMW_MW\n2018-01-01 00:00:00,lots\n",
			opt:   &Options{ValueColumn: "PJMW_MW"},
			err:   ErrUnparseableValue,
		},
		"times only": {
			input: "Datetime,PJMW_MW\n2018-08-02 23:00:00,5000\n2018-08-03 00:00:00,5100\n\n",
			expected: &TimeDataset{
				T: []time.Time{
					time.Date(2018, 8, 2, 23, 0, 0, 0, time.UTC),
					time.Date(2018, 8, 3, 0, 0, 0, 0, time.UTC),
				},
			},
		},
		"with values case insensitive header": {
			input: "datetime, pjmw_mw\n2018-08-02 23:00:00,5000.5\n2018-08-03,5100\n",
			opt:   &Options{ValueColumn: "PJMW_MW"},
			expected: &TimeDataset{
				T: []time.Time{
					time.Date(2018, 8, 2, 23, 0, 0, 0, time.UTC),
					time.Date(2018, 8, 3, 0, 0, 0, 0, time.UTC),
				},
				Y: []float64{5000.5, 5100},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds, err := LoadCSV(strings.NewReader(td.input), td.opt)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, ds)
		})
	}
}

func TestLoadCSVMissingValue(t *testing.T) {
	input := "Datetime,PJMW_MW\n2018-08-02 23:00:00,\n"
	ds, err := LoadCSV(strings.NewReader(input), &Options{ValueColumn: "PJMW_MW"})
	require.NoError(t, err)
	require.Len(t, ds.Y, 1)
	assert.True(t, math.IsNaN(ds.Y[0]))
}

func writeWorkbook(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, val := range row {
			cellName, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cellName, val))
		}
	}
	return f
}

func TestLoadXLSX(t *testing.T) {
	f := writeWorkbook(t, [][]interface{}{
		{"Datetime", "PJMW_MW"},
		{time.Date(2018, 1, 1, 1, 0, 0, 0, time.UTC), 5000.0},
		{"2018-08-03 00:00:00", 5100.0},
		{time.Date(2018, 8, 2, 23, 0, 0, 0, time.UTC), 5200.0},
	})
	defer f.Close()

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	ds, err := LoadXLSX(bytes.NewReader(buf.Bytes()), &Options{ValueColumn: "PJMW_MW"})
	require.NoError(t, err)

	expectedT := []time.Time{
		time.Date(2018, 1, 1, 1, 0, 0, 0, time.UTC),
		time.Date(2018, 8, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2018, 8, 2, 23, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, expectedT, ds.T)
	assert.Equal(t, []float64{5000, 5100, 5200}, ds.Y)
	assert.Equal(t, time.Date(2018, 8, 3, 0, 0, 0, 0, time.UTC), ds.LastTime())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "history.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Datetime\n2018-08-03 00:00:00\n"), 0o644))
	ds, err := LoadFile(csvPath, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 8, 3, 0, 0, 0, 0, time.UTC), ds.LastTime())

	xlsxPath := filepath.Join(dir, "history.xlsx")
	f := writeWorkbook(t, [][]interface{}{
		{"Datetime"},
		{"2018-08-03 00:00:00"},
	})
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	ds, err = LoadFile(xlsxPath, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 8, 3, 0, 0, 0, 0, time.UTC), ds.LastTime())

	_, err = LoadFile(filepath.Join(dir, "history.parquet"), nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadFile(filepath.Join(dir, "missing.csv"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadXLSXMissingSheet(t *testing.T) {
	f := writeWorkbook(t, [][]interface{}{{"Datetime"}, {"2018-08-03"}})
	defer f.Close()

	_, err := loadWorkbook(f, &Options{Sheet: "NotASheet"})
	assert.Error(t, err)
}
