// Package regressor loads the pre-trained model a forecast runs inference with. A model is
// stored as a JSON artifact listing the feature names it expects, in column order, and the
// parameters of either a linear model or a random forest of regression trees.
package regressor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-powercast/stats"
	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrUnknownModelType   = errors.New("unknown model type")
	ErrNoFeatureNames     = errors.New("model has no feature names")
	ErrDuplicateFeature   = errors.New("duplicate feature name")
	ErrFeatureLenMismatch = errors.New("number of features does not match the model")
	ErrMalformedTree      = errors.New("malformed decision tree")
	ErrNoTrees            = errors.New("random forest has no trees")
)

// Type discriminates the model family stored in an artifact
type Type string

const (
	TypeLinear       Type = "linear"
	TypeRandomForest Type = "random_forest"
)

// Regressor predicts one value per row of a feature matrix whose columns follow FeatureNames
type Regressor interface {
	FeatureNames() []string
	Predict(x mat.Matrix) ([]float64, error)
}

// Artifact is the serializeable form of a regressor
type Artifact struct {
	Type         Type      `json:"type"`
	FeatureNames []string  `json:"feature_names"`
	TrainEndTime time.Time `json:"train_end_time"`

	// linear
	Intercept    float64   `json:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`

	// random_forest
	Trees []Tree `json:"trees,omitempty"`

	Scores *stats.Scores `json:"scores,omitempty"`
}

// Regressor builds the model described by the artifact
func (a *Artifact) Regressor() (Regressor, error) {
	if err := validateNames(a.FeatureNames); err != nil {
		return nil, err
	}
	switch a.Type {
	case TypeLinear:
		return NewLinear(a.FeatureNames, a.Intercept, a.Coefficients)
	case TypeRandomForest:
		return NewForest(a.FeatureNames, a.Trees)
	}
	return nil, fmt.Errorf("%q, %w", a.Type, ErrUnknownModelType)
}

// TablePrint writes a human readable summary of the artifact
func (a *Artifact) TablePrint(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Model: %s\n", a.Type); err != nil {
		return err
	}
	if !a.TrainEndTime.IsZero() {
		if _, err := fmt.Fprintf(w, "  Training End Time: %s\n", a.TrainEndTime); err != nil {
			return err
		}
	}
	if a.Scores != nil {
		if _, err := fmt.Fprintf(w, "  Scores:\n    MAPE: %.3f    MSE: %.3f    R2: %.3f\n",
			a.Scores.MAPE, a.Scores.MSE, a.Scores.R2); err != nil {
			return err
		}
	}

	switch a.Type {
	case TypeRandomForest:
		_, err := fmt.Fprintf(w, "  Trees: %d\n  Features: %v\n", len(a.Trees), a.FeatureNames)
		return err
	case TypeLinear:
	default:
		_, err := fmt.Fprintf(w, "  Features: %v\n", a.FeatureNames)
		return err
	}

	if _, err := fmt.Fprintf(w, "  Weights:\n"); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "    Feature\tValue\t\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tbl, "    intercept\t%.3f\t\n", a.Intercept); err != nil {
		return err
	}
	for i, name := range a.FeatureNames {
		val := "..."
		if i < len(a.Coefficients) && a.Coefficients[i] != 0 {
			val = fmt.Sprintf("%.3f", a.Coefficients[i])
		}
		if _, err := fmt.Fprintf(tbl, "    %s\t%s\t\n", name, val); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

func validateNames(names []string) error {
	if len(names) == 0 {
		return ErrNoFeatureNames
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, exists := seen[name]; exists {
			return fmt.Errorf("%q, %w", name, ErrDuplicateFeature)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Decode reads an artifact from r
func Decode(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("unable to decode model artifact, %w", err)
	}
	return &a, nil
}

// Load reads an artifact from r and builds its regressor
func Load(r io.Reader) (Regressor, error) {
	a, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return a.Regressor()
}

// LoadFile reads the artifact stored at path and builds its regressor
func LoadFile(path string) (Regressor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open model %s, %w", path, err)
	}
	defer f.Close()

	reg, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("unable to load model %s, %w", path, err)
	}
	return reg, nil
}

// Save writes the artifact as indented JSON
func Save(w io.Writer, a *Artifact) error {
	out, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

// SaveFile writes the artifact to path
func SaveFile(path string, a *Artifact) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Save(f, a); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func checkCols(x mat.Matrix, names []string) (int, error) {
	if x == nil {
		return 0, fmt.Errorf("no feature matrix, %w", ErrFeatureLenMismatch)
	}
	m, n := x.Dims()
	if n != len(names) {
		return 0, fmt.Errorf("got %d features, but model expects %d %v, %w", n, len(names), names, ErrFeatureLenMismatch)
	}
	return m, nil
}
