package chart

import (
	"fmt"
	"io"
	"math"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"go.uber.org/zap"

	"github.com/i474232898/tccon-diagnostics/internal/diagnostics"
	"github.com/i474232898/tccon-diagnostics/internal/timeconv"
)

var _ diagnostics.Renderer = (*Renderer)(nil)

const (
	colorDiffuse  = "ff800d"
	colorDirect   = "f9bb00"
	colorSZA      = "ff0000"
	colorTemp     = "ff0000"
	colorPressure = "000000"
	colorRain     = "99ccff"
	colorHumidity = "0000ff"
	colorWind     = "1f88a7"
	colorWindDir  = "ff0000"

	colorFlagged    = "ff0000"
	colorFlaggedAlt = "000000"
)

// maxSourceTitle is how much of the source path the retrieval title keeps.
const maxSourceTitle = 128

// TickLayout picks the time axis label layout for data spanning span.
func TickLayout(span time.Duration) string {
	days := int(math.Abs(span.Hours()) / 24)
	switch {
	case days < 1:
		return "15:04"
	case days < 11:
		return "Mon 02 Jan, 2006"
	case days < 201:
		return "Jan 02, 2006"
	default:
		return "Jan-2006"
	}
}

// Meteo draws the irradiance, temperature, rain and wind panels of one day.
func (r *Renderer) Meteo(w io.Writer, in diagnostics.MeteoInput) error {
	if in.Data == nil {
		return fmt.Errorf("meteo %s: no data", in.Site)
	}
	d := in.Data

	total := make([]float64, d.Len())
	for i := range total {
		total[i] = math.NaN()
		if i < len(d.Diffuse) && i < len(d.Direct) {
			total[i] = d.Diffuse[i] + d.Direct[i]
		}
	}

	windAt := make([]time.Time, len(in.Wind))
	speed := make([]float64, len(in.Wind))
	dir := make([]float64, len(in.Wind))
	for i, v := range in.Wind {
		windAt[i] = v.Center
		speed[i] = v.Speed
		dir[i] = v.Direction
	}

	panels := []panel{
		{
			title:   fmt.Sprintf("%s: %s", in.Site, in.Day.Format("Monday January 02, 2006")),
			yName:   "Sun [W/m2]",
			y2Name:  "SZA [deg]",
			y2Range: &gochart.ContinuousRange{Min: 0, Max: 90, Descending: true},
			lines: []line{
				{name: "sdif+sdir", times: d.Time, values: total, color: colorDirect, fill: true},
				{name: "sdif", times: d.Time, values: d.Diffuse, color: colorDiffuse, fill: true},
				{name: "SZA", times: d.Time, values: in.SZA, color: colorSZA, secondary: true},
			},
		},
		{
			yName:  "Temperature [degC]",
			y2Name: "Pressure [hPa]",
			lines: []line{
				{name: "T", times: d.Time, values: d.Temp, color: colorTemp},
				{name: "p", times: d.Time, values: d.Pressure, color: colorPressure, secondary: true},
			},
		},
		{
			yName:  "Rain duration [s]",
			y2Name: "Rel. Humidity [%]",
			lines: []line{
				{name: "rain", times: in.RainBorders, values: in.RainAmount, color: colorRain, bars: true},
				{name: "RH", times: d.Time, values: d.Humidity, color: colorHumidity, secondary: true},
			},
		},
		{
			yName:   "Wind speed [m/s]",
			y2Name:  "Wind dir. [deg]",
			y2Range: &gochart.ContinuousRange{Min: 0, Max: 360},
			lines: []line{
				{name: "speed", times: windAt, values: speed, color: colorWind, marker: true},
				{name: "direction", times: windAt, values: dir, color: colorWindDir, dots: true, secondary: true},
			},
		},
	}

	from := timeconv.Midnight(in.Day)
	ax := axis{from: from, to: from.Add(24 * time.Hour), layout: "15:04"}
	return r.figure(w, "meteo", panels, ax)
}

// Retrieval draws one dotted panel per selected column, with the flagged rows
// overlaid in a contrasting colour.
func (r *Renderer) Retrieval(w io.Writer, in diagnostics.RetrievalInput) error {
	if len(in.Times) == 0 {
		return fmt.Errorf("retrieval %s: no rows", in.Source)
	}
	ax := spanAxis(in.Times)

	flagged := 0
	for _, f := range in.Flagged {
		if f {
			flagged++
		}
	}
	source := in.Source
	if len(source) > maxSourceTitle {
		source = "..." + source[len(source)-maxSourceTitle:]
	}
	title := fmt.Sprintf("%s  (points: %d, flagged: %d)", source, len(in.Times), flagged)

	panels := make([]panel, 0, len(in.Panels))
	for _, spec := range in.Panels {
		values, err := in.Dataset.FloatsAt(spec.Column)
		if err != nil {
			r.log.Warn("skipping panel", zap.String("panel", spec.Label), zap.Error(err))
			continue
		}

		var ft []time.Time
		var fv []float64
		for j := range in.Flagged {
			if in.Flagged[j] && j < len(values) && j < len(in.Times) {
				ft = append(ft, in.Times[j])
				fv = append(fv, values[j])
			}
		}
		flagColor := colorFlagged
		if spec.Color == colorFlagged {
			flagColor = colorFlaggedAlt
		}

		p := panel{
			yName: spec.Label,
			lines: []line{
				{name: spec.Label, times: in.Times, values: values, color: spec.Color, dots: true},
				{name: "flagged", times: ft, values: fv, color: flagColor, dots: true},
			},
		}
		if len(panels) == 0 {
			p.title = title
		}
		panels = append(panels, p)
	}
	return r.figure(w, "retrieval", panels, ax)
}

// Tracker draws one line panel per selected tracker log column.
func (r *Renderer) Tracker(w io.Writer, in diagnostics.TrackerInput) error {
	if len(in.Times) == 0 {
		return fmt.Errorf("tracker %s: no rows", in.Day.Format(time.DateOnly))
	}
	ax := spanAxis(in.Times)

	panels := make([]panel, 0, len(in.Panels))
	for _, spec := range in.Panels {
		values, err := in.Dataset.FloatsAt(spec.Column)
		if err != nil {
			r.log.Warn("skipping panel", zap.String("panel", spec.Label), zap.Error(err))
			continue
		}
		p := panel{
			yName: spec.Label,
			lines: []line{{name: spec.Label, times: in.Times, values: values, color: spec.Color, marker: true}},
		}
		if len(panels) == 0 {
			p.title = "Tracker " + in.Day.Format(time.DateOnly)
		}
		panels = append(panels, p)
	}
	return r.figure(w, "tracker", panels, ax)
}

// spanAxis covers times from the earliest to the latest, never zero wide.
func spanAxis(times []time.Time) axis {
	from, to := times[0], times[0]
	for _, t := range times[1:] {
		if t.Before(from) {
			from = t
		}
		if t.After(to) {
			to = t
		}
	}
	layout := TickLayout(to.Sub(from))
	if !to.After(from) {
		from = from.Add(-30 * time.Minute)
		to = to.Add(30 * time.Minute)
	}
	return axis{from: from, to: to, layout: layout}
}
