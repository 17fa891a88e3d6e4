package forecast

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinHorizon     = 1
	MaxHorizon     = 30
	DefaultHorizon = 30
)

// ValidateHorizon checks that days lies within [MinHorizon, MaxHorizon]
func ValidateHorizon(days int) error {
	if days < MinHorizon || days > MaxHorizon {
		return fmt.Errorf("got %d days, expected between %d and %d, %w", days, MinHorizon, MaxHorizon, ErrHorizonOutOfRange)
	}
	return nil
}

// ParseHorizon reads a horizon in days from user input. Empty input selects DefaultHorizon.
func ParseHorizon(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultHorizon, nil
	}
	days, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q, %w", s, ErrInvalidHorizon)
	}
	if err := ValidateHorizon(days); err != nil {
		return 0, err
	}
	return days, nil
}

// NewHorizon returns the days consecutive dates following last. The time of day of last
// is kept.
func NewHorizon(last time.Time, days int) ([]time.Time, error) {
	if err := ValidateHorizon(days); err != nil {
		return nil, err
	}
	if last.IsZero() {
		return nil, ErrNoLastTime
	}

	t := make([]time.Time, 0, days)
	for i := 1; i <= days; i++ {
		t = append(t, last.AddDate(0, 0, i))
	}
	return t, nil
}
