package regressor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aouyang1/go-powercast/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const linearArtifact = `{
  "type": "linear",
  "feature_names": ["hour", "day", "month"],
  "intercept": 5000,
  "coefficients": [1, 2, 3]
}`

const forestArtifact = `{
  "type": "random_forest",
  "feature_names": ["weekday", "is_weekend"],
  "trees": [
    {
      "children_left": [1, -1, -1],
      "children_right": [2, -1, -1],
      "feature": [1, -2, -2],
      "threshold": [0.5, -2, -2],
      "value": [0, 5200, 4800]
    }
  ]
}`

func TestLoad(t *testing.T) {
	testData := map[string]struct {
		input    string
		names    []string
		x        mat.Matrix
		expected []float64
		err      error
	}{
		"linear": {
			input:    linearArtifact,
			names:    []string{"hour", "day", "month"},
			x:        mat.NewDense(1, 3, []float64{12, 4, 8}),
			expected: []float64{5000 + 12 + 8 + 24},
		},
		"random forest": {
			input:    forestArtifact,
			names:    []string{"weekday", "is_weekend"},
			x:        mat.NewDense(2, 2, []float64{4, 0, 5, 1}),
			expected: []float64{5200, 4800},
		},
		"unknown type": {
			input: `{"type": "gradient_boosting", "feature_names": ["day"]}`,
			err:   ErrUnknownModelType,
		},
		"no feature names": {
			input: `{"type": "linear"}`,
			err:   ErrNoFeatureNames,
		},
		"malformed json": {
			input: `{"type": `,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			reg, err := Load(strings.NewReader(td.input))
			if td.expected == nil {
				require.Error(t, err)
				if td.err != nil {
					assert.ErrorIs(t, err, td.err)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.names, reg.FeatureNames())

			res, err := reg.Predict(td.x)
			require.NoError(t, err)
			assert.InDeltaSlice(t, td.expected, res, 1e-9)
		})
	}
}

func TestSaveLoadFile(t *testing.T) {
	a := &Artifact{
		Type:         TypeLinear,
		FeatureNames: []string{"day", "month"},
		TrainEndTime: time.Date(2018, 8, 3, 0, 0, 0, 0, time.UTC),
		Intercept:    10,
		Coefficients: []float64{1, 2},
		Scores:       &stats.Scores{MSE: 1, MAPE: 0.1, R2: 0.9},
	}

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, SaveFile(path, a))

	reg, err := LoadFile(path)
	require.NoError(t, err)
	res, err := reg.Predict(mat.NewDense(1, 2, []float64{3, 4}))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{21}, res, 1e-9)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := Decode(f)
	require.NoError(t, err)
	assert.True(t, a.TrainEndTime.Equal(decoded.TrainEndTime))
	assert.Equal(t, a.Scores, decoded.Scores)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestArtifactTablePrint(t *testing.T) {
	a := &Artifact{
		Type:         TypeLinear,
		FeatureNames: []string{"day", "is_holiday"},
		Intercept:    10,
		Coefficients: []float64{1.5, 0},
		Scores:       &stats.Scores{MSE: 1.2345, MAPE: 0.1234, R2: 0.9876},
	}

	var buf bytes.Buffer
	require.NoError(t, a.TablePrint(&buf))
	expected := `Model: linear
  Scores:
    MAPE: 0.123    MSE: 1.234    R2: 0.988
  Weights:
        Feature  Value
      intercept 10.000
            day  1.500
     is_holiday    ...
`
	assert.Equal(t, expected, buf.String())

	buf.Reset()
	forest := &Artifact{
		Type:         TypeRandomForest,
		FeatureNames: []string{"day"},
		Trees:        []Tree{{}, {}},
	}
	require.NoError(t, forest.TablePrint(&buf))
	assert.Equal(t, "Model: random_forest\n  Trees: 2\n  Features: [day]\n", buf.String())
}
