package forecast

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultsWriteCSV(t *testing.T) {
	f, err := New(newTestRegressor(t), nil)
	require.NoError(t, err)

	last := time.Date(2018, 8, 3, 0, 0, 0, 0, time.UTC)
	res, err := f.Predict(last, 10)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, res.WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 11)
	assert.Equal(t, []string{"Date", "Predicted"}, records[0])

	for i, rec := range records[1:] {
		require.Len(t, rec, 2)
		assert.Equal(t, res.Rows[i].Date.Format("2006-01-02"), rec[0])

		val, err := strconv.ParseFloat(rec[1], 64)
		require.NoError(t, err)
		assert.Equal(t, res.Rows[i].Predicted, val)
	}
}

func TestResultsWriteCSVPrecision(t *testing.T) {
	res := &Results{
		Rows: []Row{
			{Date: time.Date(2018, 8, 4, 12, 0, 0, 0, time.UTC), Predicted: 5523.123456789},
			{Date: time.Date(2018, 8, 5, 12, 0, 0, 0, time.UTC), Predicted: 6000},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, res.WriteCSV(&buf))
	expected := "Date,Predicted\n2018-08-04,5523.123456789\n2018-08-05,6000\n"
	assert.Equal(t, expected, buf.String())
}

func TestResultsAccessors(t *testing.T) {
	var empty *Results
	assert.Equal(t, 0, empty.Len())

	res := &Results{
		Rows: []Row{
			{Date: time.Date(2018, 8, 4, 0, 0, 0, 0, time.UTC), Predicted: 1},
			{Date: time.Date(2018, 8, 5, 0, 0, 0, 0, time.UTC), Predicted: 2},
		},
	}
	assert.Equal(t, []float64{1, 2}, res.Predicted())
	assert.Equal(t, []time.Time{
		time.Date(2018, 8, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2018, 8, 5, 0, 0, 0, 0, time.UTC),
	}, res.Dates())
}

func TestResultsTablePrint(t *testing.T) {
	res := &Results{
		Rows: []Row{
			{Date: time.Date(2018, 8, 4, 0, 0, 0, 0, time.UTC), Predicted: 5140},
			{Date: time.Date(2018, 8, 5, 0, 0, 0, 0, time.UTC), Predicted: 5150.25},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, res.TablePrint(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Date")
	assert.Contains(t, lines[0], "Predicted")
	assert.Contains(t, lines[1], "2018-08-04")
	assert.Contains(t, lines[1], "5140.000")
	assert.Contains(t, lines[2], "5150.250")
}
