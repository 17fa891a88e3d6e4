package timedataset

import (
	"math"
	"math/rand/v2"
	"time"
)

// GenerateT returns n time points spaced by interval starting at start
func GenerateT(start time.Time, n int, interval time.Duration) []time.Time {
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, start.Add(interval*time.Duration(i)))
	}
	return t
}

// LoadProfile describes a synthetic consumption series with a daily cycle, a weekend
// drop, a summer peak and a linear yearly trend.
type LoadProfile struct {
	Base        float64
	DailyAmp    float64
	WeekendDrop float64
	SummerAmp   float64
	YearlyTrend float64
	Noise       float64
}

// Generate evaluates the profile at every time point. Noise is drawn from rng and skipped
// when rng is nil or Noise is zero.
func (p LoadProfile) Generate(t []time.Time, rng *rand.Rand) []float64 {
	y := make([]float64, len(t))
	if len(t) == 0 {
		return y
	}
	start := t[0]
	for i, tPnt := range t {
		val := p.Base
		val += p.DailyAmp * math.Sin(2.0*math.Pi*float64(tPnt.Hour())/24.0)
		switch tPnt.Weekday() {
		case time.Saturday, time.Sunday:
			val -= p.WeekendDrop
		}
		val += p.SummerAmp * math.Sin(math.Pi*float64(tPnt.YearDay())/366.0)
		val += p.YearlyTrend * tPnt.Sub(start).Hours() / (24.0 * 365.0)
		if rng != nil && p.Noise != 0 {
			val += rng.NormFloat64() * p.Noise
		}
		y[i] = val
	}
	return y
}

// Simulate builds a dataset from the profile
func (p LoadProfile) Simulate(start time.Time, n int, interval time.Duration, rng *rand.Rand) (*TimeDataset, error) {
	t := GenerateT(start, n, interval)
	return NewDataset(t, p.Generate(t, rng))
}
