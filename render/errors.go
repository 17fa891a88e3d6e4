package render

import "errors"

var ErrSeriesLenMismatch = errors.New("series length does not match timestamps")
