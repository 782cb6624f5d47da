// Package bucket sorts irregularly sampled values into fixed width time
// windows and aggregates each window.
package bucket

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/i474232898/tccon-diagnostics/internal/timeconv"
)

var (
	ErrLengthMismatch = errors.New("times and values lengths differ")
	ErrNoSamples      = errors.New("no samples")
	ErrInvalidWindow  = errors.New("invalid window geometry")
)

// TimeSorter holds samples assigned to the half-open windows
// [Borders[i], Borders[i+1]) tiling RangeMinutes from midnight of the first
// sample's date.
type TimeSorter struct {
	Origin       time.Time
	Minutes      float64
	RangeMinutes float64
	Count        int

	Borders []time.Time
	Centers []time.Time

	// Values and Times hold each window's samples in input order.
	Values [][]float64
	Times  [][]time.Time

	dropped int
}

// New builds the windows and assigns every sample to the window containing
// it. Samples outside all windows are dropped.
func New(times []time.Time, values []float64, minutes, rangeMinutes float64) (*TimeSorter, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("%w: %d times, %d values", ErrLengthMismatch, len(times), len(values))
	}
	if len(times) == 0 {
		return nil, ErrNoSamples
	}
	if !(minutes > 0) || timeconv.Minutes(minutes) <= 0 {
		return nil, fmt.Errorf("%w: window of %v minutes", ErrInvalidWindow, minutes)
	}
	count := int(math.Floor(rangeMinutes / minutes))
	if count < 1 {
		return nil, fmt.Errorf("%w: range of %v minutes holds no %v minute window", ErrInvalidWindow, rangeMinutes, minutes)
	}

	s := &TimeSorter{
		Origin:       timeconv.Midnight(times[0]),
		Minutes:      minutes,
		RangeMinutes: rangeMinutes,
		Count:        count,
		Borders:      make([]time.Time, count+1),
		Centers:      make([]time.Time, count),
		Values:       make([][]float64, count),
		Times:        make([][]time.Time, count),
	}
	for i := 0; i <= count; i++ {
		s.Borders[i] = s.Origin.Add(timeconv.Minutes(float64(i) * minutes))
	}
	for i := 0; i < count; i++ {
		s.Centers[i] = s.Origin.Add(timeconv.Minutes((float64(i) + 0.5) * minutes))
	}

	for i, t := range times {
		idx, ok := s.windowOf(t)
		if !ok {
			s.dropped++
			continue
		}
		s.Values[idx] = append(s.Values[idx], values[i])
		s.Times[idx] = append(s.Times[idx], t)
	}
	return s, nil
}

// windowOf returns the index i with Borders[i] <= t < Borders[i+1].
func (s *TimeSorter) windowOf(t time.Time) (int, bool) {
	if t.Before(s.Borders[0]) || !t.Before(s.Borders[s.Count]) {
		return 0, false
	}

	width := timeconv.Minutes(s.Minutes)
	idx := int(t.Sub(s.Origin) / width)
	if idx >= s.Count {
		idx = s.Count - 1
	}
	// Borders are rounded individually, so the estimate may be one off.
	for idx > 0 && t.Before(s.Borders[idx]) {
		idx--
	}
	for idx < s.Count-1 && !t.Before(s.Borders[idx+1]) {
		idx++
	}
	return idx, true
}

// WindowWidth is the width of one window in date-number days.
func (s *TimeSorter) WindowWidth() float64 {
	return timeconv.DateNum(s.Borders[1]) - timeconv.DateNum(s.Borders[0])
}

// Dropped reports how many samples fell outside every window.
func (s *TimeSorter) Dropped() int { return s.dropped }

// Counts returns the number of samples per window.
func (s *TimeSorter) Counts() []int {
	out := make([]int, s.Count)
	for i, w := range s.Values {
		out[i] = len(w)
	}
	return out
}

// MeanWindowValues returns the arithmetic mean of each window, NaN for empty
// windows.
func (s *TimeSorter) MeanWindowValues() []float64 {
	out := make([]float64, s.Count)
	for i, w := range s.Values {
		if len(w) == 0 {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		out[i] = sum / float64(len(w))
	}
	return out
}

// LastWindowValues returns the last sample of each window, NaN for empty
// windows.
func (s *TimeSorter) LastWindowValues() []float64 {
	out := make([]float64, s.Count)
	for i, w := range s.Values {
		if len(w) == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = w[len(w)-1]
	}
	return out
}

// SameGeometry reports whether two sorters share origin and window borders.
func (s *TimeSorter) SameGeometry(o *TimeSorter) bool {
	if s.Count != o.Count || !s.Origin.Equal(o.Origin) {
		return false
	}
	for i := range s.Borders {
		if !s.Borders[i].Equal(o.Borders[i]) {
			return false
		}
	}
	return true
}
