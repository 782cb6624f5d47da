package bucket

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2020, time.February, 29, 0, 0, 0, 0, time.UTC)

func at(h, m, s int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
}

func TestHourlyWindowsCoverOneDay(t *testing.T) {
	var times []time.Time
	var values []float64
	for m := 0; m < 24*60; m += 7 {
		times = append(times, day.Add(time.Duration(m)*time.Minute))
		values = append(values, float64(m))
	}

	s, err := New(times, values, 60, 1440)
	require.NoError(t, err)

	assert.Equal(t, 24, s.Count)
	require.Len(t, s.Borders, 25)
	require.Len(t, s.Centers, 24)
	assert.Equal(t, day, s.Borders[0])
	assert.Equal(t, 24*time.Hour, s.Borders[24].Sub(s.Borders[0]))
	assert.Equal(t, day.Add(30*time.Minute), s.Centers[0])

	total := 0
	for _, c := range s.Counts() {
		total += c
	}
	assert.Equal(t, len(times), total)
	assert.Zero(t, s.Dropped())

	for i, w := range s.Times {
		for _, ts := range w {
			assert.False(t, ts.Before(s.Borders[i]))
			assert.True(t, ts.Before(s.Borders[i+1]))
		}
	}
}

func TestBorderBelongsToWindowItOpens(t *testing.T) {
	s, err := New([]time.Time{at(0, 0, 0), at(1, 0, 0), at(0, 59, 59)}, []float64{1, 2, 3}, 60, 1440)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 3}, s.Values[0])
	assert.Equal(t, []float64{2}, s.Values[1])
}

func TestOutOfRangeSamplesAreDropped(t *testing.T) {
	times := []time.Time{
		at(12, 0, 0),
		// Next day's midnight closes the last window.
		day.Add(24 * time.Hour),
		day.Add(25 * time.Hour),
		day.Add(-time.Minute),
	}
	s, err := New(times, []float64{1, 2, 3, 4}, 30, 1440)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Dropped())
	assert.Equal(t, []float64{1}, s.Values[24])
}

func TestOriginIsMidnightOfFirstSample(t *testing.T) {
	s, err := New([]time.Time{at(13, 17, 0)}, []float64{1}, 10, 1440)
	require.NoError(t, err)
	assert.Equal(t, day, s.Origin)
	assert.Equal(t, 144, s.Count)
	assert.Equal(t, []float64{1}, s.Values[79])
}

func TestMeanWindowValues(t *testing.T) {
	times := []time.Time{
		at(0, 5, 0), at(0, 20, 0), at(0, 55, 0),
		at(2, 0, 0), at(2, 59, 0),
		at(3, 30, 0),
	}
	values := []float64{1, 2, 6, 10, 20, 7}

	s, err := New(times, values, 60, 4*60)
	require.NoError(t, err)

	means := s.MeanWindowValues()
	require.Len(t, means, 4)
	assert.InDelta(t, 3.0, means[0], 1e-12)
	assert.True(t, math.IsNaN(means[1]), "empty window must be NaN, not zero")
	assert.InDelta(t, 15.0, means[2], 1e-12)
	assert.InDelta(t, 7.0, means[3], 1e-12)

	last := s.LastWindowValues()
	assert.Equal(t, 6.0, last[0])
	assert.True(t, math.IsNaN(last[1]))
	assert.Equal(t, 20.0, last[2])

	assert.Equal(t, []int{3, 0, 2, 1}, s.Counts())
}

func TestPartialRangeFloorsWindowCount(t *testing.T) {
	s, err := New([]time.Time{at(0, 0, 0)}, []float64{1}, 45, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, day.Add(90*time.Minute), s.Borders[2])
}

func TestFractionalMinutes(t *testing.T) {
	s, err := New([]time.Time{at(0, 0, 20), at(0, 0, 30)}, []float64{1, 2}, 0.5, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, s.Values[0])
	assert.Equal(t, []float64{2}, s.Values[1])
}

func TestWindowWidth(t *testing.T) {
	s, err := New([]time.Time{at(0, 0, 0)}, []float64{1}, 30, 1440)
	require.NoError(t, err)
	assert.InDelta(t, 30.0/1440, s.WindowWidth(), 1e-9)
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name          string
		times         []time.Time
		values        []float64
		minutes, span float64
		want          error
	}{
		{"length mismatch", []time.Time{at(0, 0, 0)}, []float64{1, 2}, 10, 60, ErrLengthMismatch},
		{"no samples", nil, nil, 10, 60, ErrNoSamples},
		{"zero width", []time.Time{at(0, 0, 0)}, []float64{1}, 0, 60, ErrInvalidWindow},
		{"negative width", []time.Time{at(0, 0, 0)}, []float64{1}, -5, 60, ErrInvalidWindow},
		{"range below width", []time.Time{at(0, 0, 0)}, []float64{1}, 60, 30, ErrInvalidWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.times, tt.values, tt.minutes, tt.span)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestSameGeometry(t *testing.T) {
	a, err := New([]time.Time{at(1, 0, 0)}, []float64{1}, 10, 1440)
	require.NoError(t, err)
	b, err := New([]time.Time{at(5, 0, 0)}, []float64{2}, 10, 1440)
	require.NoError(t, err)
	c, err := New([]time.Time{at(5, 0, 0)}, []float64{2}, 30, 1440)
	require.NoError(t, err)

	assert.True(t, a.SameGeometry(b))
	assert.False(t, a.SameGeometry(c))
}
