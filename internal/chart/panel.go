// Package chart renders the diagnostic figures as vertically stacked PNG
// panels.
package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"github.com/i474232898/tccon-diagnostics/internal/logger"
)

// Renderer draws figures of Width pixels with panels of PanelHeight pixels.
type Renderer struct {
	Width       int
	PanelHeight int

	log *zap.Logger
}

// NewRenderer creates a Renderer. A nil logger discards output.
func NewRenderer(width, panelHeight int, log *zap.Logger) *Renderer {
	return &Renderer{
		Width:       width,
		PanelHeight: panelHeight,
		log:         logger.OrNop(log),
	}
}

// line is one plotted series before NaN filtering.
type line struct {
	name      string
	times     []time.Time
	values    []float64
	color     string
	dots      bool
	marker    bool
	fill      bool
	bars      bool
	secondary bool
}

// panel is one chart in a figure stack.
type panel struct {
	title  string
	yName  string
	y2Name string
	lines  []line

	// y2Range pins the secondary axis when set.
	y2Range *gochart.ContinuousRange
}

// axis fixes the shared time axis of a figure.
type axis struct {
	from, to time.Time
	layout   string
}

func pointStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeColor: drawing.ColorTransparent,
		StrokeWidth: 0,
		DotWidth:    3,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeColor: col,
		StrokeWidth: 1.5,
	}
}

// finite drops points whose value is NaN or infinite.
func finite(times []time.Time, values []float64) ([]time.Time, []float64) {
	n := len(times)
	if len(values) < n {
		n = len(values)
	}
	ts := make([]time.Time, 0, n)
	vs := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			continue
		}
		ts = append(ts, times[i])
		vs = append(vs, values[i])
	}
	return ts, vs
}

// valueRange returns a padded range over values, nil when there are none.
func valueRange(values ...[]float64) *gochart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, vs := range values {
		for _, v := range vs {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) {
		return nil
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.05, 1)
	}
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func timeValue(t time.Time) float64 {
	return float64(t.UnixNano())
}

// utcFormatter labels time ticks in UTC whatever the local zone.
func utcFormatter(layout string) gochart.ValueFormatter {
	return func(v interface{}) string {
		switch t := v.(type) {
		case float64:
			return time.Unix(0, int64(t)).UTC().Format(layout)
		case time.Time:
			return t.UTC().Format(layout)
		}
		return ""
	}
}

// render draws one panel. ok is false, and the panel blank, when fewer than
// two finite points were given.
func (r *Renderer) render(p panel, ax axis) (img image.Image, ok bool, err error) {
	var (
		series     []gochart.Series
		primary    [][]float64
		secondary  [][]float64
		hasPrimary bool
		points     int
	)

	for _, l := range p.lines {
		ts, vs := finite(l.times, l.values)
		if len(ts) == 0 {
			continue
		}
		points += len(ts)
		col := drawing.ColorFromHex(l.color)
		style := lineStyle(col)
		if l.dots {
			style = pointStyle(col)
		}
		if l.marker {
			style.DotColor = col
			style.DotWidth = 2
		}
		if l.fill {
			style.FillColor = col
		}

		s := gochart.TimeSeries{Name: l.name, Style: style, XValues: ts, YValues: vs}
		if l.secondary {
			s.YAxis = gochart.YAxisSecondary
			secondary = append(secondary, vs)
		} else {
			hasPrimary = true
			primary = append(primary, vs)
		}

		if l.bars {
			series = append(series, gochart.HistogramSeries{
				Name:        l.name,
				Style:       gochart.Style{StrokeColor: col, FillColor: col},
				YAxis:       s.YAxis,
				InnerSeries: s,
			})
			continue
		}
		series = append(series, s)
	}
	if points < 2 {
		return r.blank(), false, nil
	}
	if !hasPrimary {
		// The primary axis needs a series; promote the secondary ones.
		for i, s := range series {
			switch s := s.(type) {
			case gochart.TimeSeries:
				s.YAxis = gochart.YAxisPrimary
				series[i] = s
			case gochart.HistogramSeries:
				s.YAxis = gochart.YAxisPrimary
				series[i] = s
			}
		}
		primary, secondary = secondary, nil
		p.yName, p.y2Name = p.y2Name, ""
	}

	ch := gochart.Chart{
		Title:      p.title,
		Width:      r.Width,
		Height:     r.PanelHeight,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			ValueFormatter: utcFormatter(ax.layout),
			Range:          &gochart.ContinuousRange{Min: timeValue(ax.from), Max: timeValue(ax.to)},
		},
		YAxis:  gochart.YAxis{Name: p.yName},
		Series: series,
	}
	if rng := valueRange(primary...); rng != nil {
		ch.YAxis.Range = rng
	}
	if len(secondary) > 0 {
		rng := p.y2Range
		if rng == nil {
			rng = valueRange(secondary...)
		}
		ch.YAxisSecondary = gochart.YAxis{Name: p.y2Name, Range: rng}
	}
	if len(series) > 1 {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return nil, false, fmt.Errorf("render panel %q: %w", p.yName, err)
	}
	img, err = png.Decode(&buf)
	if err != nil {
		return nil, false, fmt.Errorf("decode panel %q: %w", p.yName, err)
	}
	return img, true, nil
}

func (r *Renderer) blank() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.PanelHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

// figure renders every panel and writes them stacked top to bottom as PNG.
func (r *Renderer) figure(w io.Writer, name string, panels []panel, ax axis) error {
	if len(panels) == 0 {
		return fmt.Errorf("%s: no panels to draw", name)
	}

	out := image.NewRGBA(image.Rect(0, 0, r.Width, r.PanelHeight*len(panels)))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for i, p := range panels {
		img, ok, err := r.render(p, ax)
		if err != nil {
			r.log.Warn("panel render failed, drawing blank panel",
				zap.String("figure", name), zap.String("panel", p.yName), zap.Error(err))
			img = r.blank()
		} else if !ok {
			r.log.Warn("panel has no finite points",
				zap.String("figure", name), zap.String("panel", p.yName))
		}
		dst := image.Rect(0, i*r.PanelHeight, r.Width, (i+1)*r.PanelHeight)
		draw.Draw(out, dst, img, img.Bounds().Min, draw.Src)
	}

	return png.Encode(w, out)
}
