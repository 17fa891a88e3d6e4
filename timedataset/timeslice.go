package timedataset

import "time"

type TimeSlice []time.Time

// Max returns the latest time point or the zero time for an empty slice
func (t TimeSlice) Max() time.Time {
	var maxTime time.Time
	for i, tPnt := range t {
		if i == 0 || tPnt.After(maxTime) {
			maxTime = tPnt
		}
	}
	return maxTime
}

// Min returns the earliest time point or the zero time for an empty slice
func (t TimeSlice) Min() time.Time {
	var minTime time.Time
	for i, tPnt := range t {
		if i == 0 || tPnt.Before(minTime) {
			minTime = tPnt
		}
	}
	return minTime
}
