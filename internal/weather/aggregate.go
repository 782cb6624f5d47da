package weather

import (
	"errors"
	"math"

	"github.com/i474232898/tccon-diagnostics/internal/bucket"
)

// ErrGeometryMismatch is returned when two sorters do not share windows.
var ErrGeometryMismatch = errors.New("window geometry differs")

// RainIncrements turns the last reading of each window of a cumulative
// counter into the amount added during that window. The first window is
// measured against baseline. Empty windows yield NaN and do not move the
// running reference.
func RainIncrements(s *bucket.TimeSorter, baseline float64) []float64 {
	last := s.LastWindowValues()
	out := make([]float64, len(last))
	prev := baseline
	for i, v := range last {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = v - prev
		prev = v
	}
	return out
}

// WindField combines per-window mean speed and mean direction into vectors
// placed at the window centres. Directions are averaged arithmetically.
func WindField(speed, direction *bucket.TimeSorter) ([]WindVector, error) {
	if !speed.SameGeometry(direction) {
		return nil, ErrGeometryMismatch
	}

	spd := speed.MeanWindowValues()
	dir := direction.MeanWindowValues()

	out := make([]WindVector, len(spd))
	for i := range spd {
		a := -dir[i] * math.Pi / 180
		out[i] = WindVector{
			Center:    direction.Centers[i],
			Speed:     spd[i],
			Direction: dir[i],
			U:         math.Sin(a),
			V:         math.Cos(a),
		}
	}
	return out, nil
}

// RainWindows buckets the rain counter into 30 minute windows over the day.
func (d *MeteoDay) RainWindows() (*bucket.TimeSorter, error) {
	return bucket.New(d.Time, d.Rain, RainWindowMinutes, DayMinutes)
}

// Wind buckets speed and direction into 10 minute windows and returns the
// resulting vectors.
func (d *MeteoDay) Wind() ([]WindVector, error) {
	spd, err := bucket.New(d.Time, d.WindSpd, WindWindowMinutes, DayMinutes)
	if err != nil {
		return nil, err
	}
	dir, err := bucket.New(d.Time, d.WindDir, WindWindowMinutes, DayMinutes)
	if err != nil {
		return nil, err
	}
	return WindField(spd, dir)
}
