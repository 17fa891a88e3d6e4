package feature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSetRows(t *testing.T) {
	set := make(Set)
	m, err := set.Rows()
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	set.Add(NewCalendar("day"), []float64{1, 2})
	set.Add(NewCalendar("month"), []float64{1, 2})
	m, err = set.Rows()
	require.NoError(t, err)
	assert.Equal(t, 2, m)

	set.Add(NewCalendar("year"), []float64{1})
	_, err = set.Rows()
	assert.ErrorIs(t, err, ErrInconsistentSet)
}

func TestSetMatrix(t *testing.T) {
	tSeries := []time.Time{
		time.Date(2018, 8, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2018, 8, 5, 0, 0, 0, 0, time.UTC),
	}
	set, err := Generate(tSeries, nil)
	require.NoError(t, err)

	testData := map[string]struct {
		names    []string
		expected *mat.Dense
		err      error
	}{
		"model order": {
			names: []string{LabelYear, LabelDay, LabelIsWeekend},
			expected: mat.NewDense(2, 3, []float64{
				2018, 4, 1,
				2018, 5, 1,
			}),
		},
		"subset": {
			names:    []string{LabelWeekday},
			expected: mat.NewDense(2, 1, []float64{5, 6}),
		},
		"unknown feature": {
			names: []string{LabelDay, "temperature"},
			err:   ErrUnknownFeature,
		},
		"no features": {
			err: ErrInconsistentSet,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x, err := set.Matrix(td.names)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.True(t, mat.Equal(td.expected, x))
		})
	}
}
