// Package timeconv converts TCCON year / day-of-year / decimal hour triples
// into timestamps.
package timeconv

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrLengthMismatch is returned when the input sequences differ in length.
var ErrLengthMismatch = errors.New("year, day-of-year and hour lengths differ")

// ErrInvalidTime is returned when a year, day-of-year or hour is not a finite
// number.
var ErrInvalidTime = errors.New("invalid time value")

const day = 24 * time.Hour

// Convert returns, for each index, midnight of January 1 of year plus
// (doy-1) days plus hour/24 days. Day 1 is January 1. Results are naive UTC
// and rounded to the microsecond. A NaN or infinite component fails the whole
// conversion with ErrInvalidTime.
func Convert(years, doys, hours []float64) ([]time.Time, error) {
	if len(years) != len(doys) || len(doys) != len(hours) {
		return nil, fmt.Errorf("%w: %d, %d, %d", ErrLengthMismatch, len(years), len(doys), len(hours))
	}

	out := make([]time.Time, len(years))
	for i := range years {
		if !finite(years[i]) || !finite(doys[i]) || !finite(hours[i]) {
			return nil, fmt.Errorf("%w at index %d: year %v, doy %v, hour %v",
				ErrInvalidTime, i, years[i], doys[i], hours[i])
		}
		out[i] = At(years[i], doys[i], hours[i])
	}
	return out, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// At converts a single triple. The year is truncated to an integer. Inputs
// must be finite.
func At(year, doy, hour float64) time.Time {
	jan1 := time.Date(int(year), time.January, 1, 0, 0, 0, 0, time.UTC)
	return jan1.Add(Days(doy - 1 + hour/24))
}

// Days converts fractional days to a duration rounded to the microsecond.
func Days(d float64) time.Duration {
	us := math.Round(d * float64(day/time.Microsecond))
	return time.Duration(us) * time.Microsecond
}

// Minutes converts fractional minutes to a duration rounded to the microsecond.
func Minutes(m float64) time.Duration {
	us := math.Round(m * float64(time.Minute/time.Microsecond))
	return time.Duration(us) * time.Microsecond
}

// Midnight truncates t to the start of its date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

var epoch = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateNum returns t as fractional days since 0001-01-01 plus one, the axis
// unit plotting code uses for bar widths.
func DateNum(t time.Time) float64 {
	// time.Duration cannot span two millennia, so work in Unix seconds.
	secs := t.Unix() - epoch.Unix()
	return (float64(secs)+float64(t.Nanosecond())/1e9)/86400 + 1
}
