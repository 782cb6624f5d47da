package weather

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/tccon-diagnostics/internal/bucket"
	"github.com/i474232898/tccon-diagnostics/internal/tabular"
	"github.com/i474232898/tccon-diagnostics/internal/timeconv"
)

var day = time.Date(2015, time.March, 2, 0, 0, 0, 0, time.UTC)

func minutes(m ...int) []time.Time {
	out := make([]time.Time, len(m))
	for i, v := range m {
		out[i] = day.Add(time.Duration(v) * time.Minute)
	}
	return out
}

func TestRainIncrements(t *testing.T) {
	// Cumulative counter sampled in windows 0, 1 and 3; window 2 is empty.
	s, err := bucket.New(minutes(5, 25, 35, 50, 100), []float64{1, 4, 4, 9, 15}, 30, 120)
	require.NoError(t, err)

	got := RainIncrements(s, 0)
	require.Len(t, got, 4)
	assert.Equal(t, 4.0, got[0])
	assert.Equal(t, 5.0, got[1])
	assert.True(t, math.IsNaN(got[2]))
	assert.Equal(t, 6.0, got[3])
}

func TestRainIncrementsBaseline(t *testing.T) {
	s, err := bucket.New(minutes(5), []float64{10}, 30, 60)
	require.NoError(t, err)

	got := RainIncrements(s, 7)
	assert.Equal(t, 3.0, got[0])
	assert.True(t, math.IsNaN(got[1]))
}

func TestWindField(t *testing.T) {
	times := minutes(1, 5, 12)
	spd, err := bucket.New(times, []float64{2, 4, 5}, 10, 30)
	require.NoError(t, err)
	dir, err := bucket.New(times, []float64{80, 100, 180}, 10, 30)
	require.NoError(t, err)

	field, err := WindField(spd, dir)
	require.NoError(t, err)
	require.Len(t, field, 3)

	assert.Equal(t, day.Add(5*time.Minute), field[0].Center)
	assert.Equal(t, 3.0, field[0].Speed)
	assert.Equal(t, 90.0, field[0].Direction)
	assert.InDelta(t, -1.0, field[0].U, 1e-12)
	assert.InDelta(t, 0.0, field[0].V, 1e-12)

	assert.InDelta(t, 0.0, field[1].U, 1e-12)
	assert.InDelta(t, -1.0, field[1].V, 1e-12)

	assert.True(t, math.IsNaN(field[2].Speed))
	assert.True(t, math.IsNaN(field[2].U))
}

func TestWindFieldGeometryMismatch(t *testing.T) {
	a, err := bucket.New(minutes(1), []float64{1}, 10, 60)
	require.NoError(t, err)
	b, err := bucket.New(minutes(1), []float64{1}, 20, 60)
	require.NoError(t, err)

	_, err = WindField(a, b)
	assert.True(t, errors.Is(err, ErrGeometryMismatch))
}

const meteoFile = `2 12 3
year doy hour sdif sdir tout pout rain hout wspd wdir other
2015 61 0.25 0 0 21.5 1012.1 0 80 2.5 90 x
2015 61 0.5 0 0 21.4 1012.0 12 81 3.5 110 y
2015 61 12.0 120 800 27.0 1010.3 12 60 6 270 z
`

func TestLoadMeteoDay(t *testing.T) {
	ds, err := tabular.Read(strings.NewReader(meteoFile), " ")
	require.NoError(t, err)

	d, err := LoadMeteoDay(ds)
	require.NoError(t, err)
	require.Equal(t, 3, d.Len())
	assert.Equal(t, day.Add(15*time.Minute), d.Time[0])
	assert.Equal(t, day.Add(12*time.Hour), d.Time[2])
	assert.Equal(t, []float64{0, 12, 12}, d.Rain)

	rain, err := d.RainWindows()
	require.NoError(t, err)
	assert.Equal(t, 48, rain.Count)
	assert.Equal(t, []float64{0}, rain.Values[0])
	assert.Equal(t, []float64{12}, rain.Values[1])

	wind, err := d.Wind()
	require.NoError(t, err)
	assert.Len(t, wind, 144)
	assert.Equal(t, 2.5, wind[1].Speed)
}

func TestLoadMeteoDayMissingColumn(t *testing.T) {
	ds, err := tabular.Read(strings.NewReader("2 3\nyear doy hour\n2015 61 1\n"), " ")
	require.NoError(t, err)

	_, err = LoadMeteoDay(ds)
	assert.True(t, errors.Is(err, tabular.ErrUnknownColumn))
}

func TestLoadMeteoDayUnreadableHour(t *testing.T) {
	bad := strings.Replace(meteoFile, "2015 61 0.5 ", "2015 61 n/a ", 1)
	ds, err := tabular.Read(strings.NewReader(bad), " ")
	require.NoError(t, err)

	d, err := LoadMeteoDay(ds)
	assert.True(t, errors.Is(err, timeconv.ErrInvalidTime))
	assert.ErrorContains(t, err, "index 1")
	assert.Nil(t, d)
}
