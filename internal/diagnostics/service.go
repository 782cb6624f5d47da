package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/i474232898/tccon-diagnostics/internal/config"
	"github.com/i474232898/tccon-diagnostics/internal/filelist"
	"github.com/i474232898/tccon-diagnostics/internal/logger"
	"github.com/i474232898/tccon-diagnostics/internal/solar"
	"github.com/i474232898/tccon-diagnostics/internal/tabular"
	"github.com/i474232898/tccon-diagnostics/internal/timeconv"
	"github.com/i474232898/tccon-diagnostics/internal/weather"
)

var (
	// ErrUnknownSite is returned when a site is not in the registry.
	ErrUnknownSite = errors.New("unknown site")
	// ErrNoData is returned when there is no input file for the request.
	ErrNoData = errors.New("no data")
)

// TrackerOutputLayout names the figures written by TrackerRange.
const TrackerOutputLayout = "tracker%Y%m%d.png"

// Retrieval file columns holding year, day of year and fractional hour.
const (
	retrievalYearCol = 2
	retrievalDOYCol  = 3
	retrievalHourCol = 4
	retrievalFlag    = "flag"
)

// Service loads input files, derives the plotted quantities and records every
// artifact it writes.
type Service struct {
	sites    *config.Sites
	renderer Renderer
	store    Store
	sun      solar.Sun
	log      *zap.Logger
}

// NewService creates a new Service.
func NewService(sites *config.Sites, renderer Renderer, store Store, sun solar.Sun, log *zap.Logger) *Service {
	if sites == nil {
		sites = &config.Sites{}
	}
	if sun == nil {
		sun = solar.NOAA{}
	}
	return &Service{
		sites:    sites,
		renderer: renderer,
		store:    store,
		sun:      sun,
		log:      logger.OrNop(log),
	}
}

func (s *Service) site(name string) (config.Site, error) {
	site, ok := s.sites.Lookup(name)
	if !ok {
		return config.Site{}, fmt.Errorf("%w: %q", ErrUnknownSite, name)
	}
	return site, nil
}

// MeteoFigure renders the station data of one day. A day without a meteo
// file is logged and reported as ErrNoData.
func (s *Service) MeteoFigure(siteName string, day time.Time, output string) (Artifact, error) {
	site, err := s.site(siteName)
	if err != nil {
		return Artifact{}, err
	}
	day = timeconv.Midnight(day)

	path, err := filelist.Expand(site.MeteoFile, site.Name, day)
	if err != nil {
		return Artifact{}, fmt.Errorf("meteo %s: %w", site.Name, err)
	}
	ds, err := tabular.ReadFile(path)
	if errors.Is(err, tabular.ErrNotFound) {
		s.log.Info("no meteo file for day",
			zap.String("site", site.Name), zap.Time("day", day), zap.String("path", path))
		return Artifact{}, fmt.Errorf("%w: %s", ErrNoData, path)
	}
	if err != nil {
		return Artifact{}, err
	}
	s.warnShortRows(path, ds)

	data, err := weather.LoadMeteoDay(ds)
	if err != nil {
		return Artifact{}, fmt.Errorf("%s: %w", path, err)
	}
	rain, err := data.RainWindows()
	if err != nil {
		return Artifact{}, fmt.Errorf("%s: rain: %w", path, err)
	}
	wind, err := data.Wind()
	if err != nil {
		return Artifact{}, fmt.Errorf("%s: wind: %w", path, err)
	}
	if n := rain.Dropped(); n > 0 {
		s.log.Warn("readings outside the day ignored", zap.String("path", path), zap.Int("count", n))
	}

	in := MeteoInput{
		Site:        site.Name,
		Day:         day,
		Data:        data,
		RainBorders: rain.Borders[:rain.Count],
		RainAmount:  weather.RainIncrements(rain, 0),
		RainWidth:   rain.WindowWidth(),
		Wind:        wind,
		SZA:         solar.ZenithAngles(s.sun, data.Time, site.Latitude, site.Longitude),
	}
	if err := writeOutput(output, func(w io.Writer) error { return s.renderer.Meteo(w, in) }); err != nil {
		return Artifact{}, err
	}

	return s.record(Artifact{
		Kind:   KindMeteo,
		Site:   site.Name,
		Day:    day,
		Source: path,
		Output: output,
		Points: data.Len(),
	}), nil
}

// RetrievalFigure renders the retrieval diagnostics of one output file.
func (s *Service) RetrievalFigure(path, output string) (Artifact, error) {
	ds, err := tabular.ReadFile(path)
	if err != nil {
		return Artifact{}, err
	}
	s.warnShortRows(path, ds)

	times, err := retrievalTimes(ds)
	if err != nil {
		return Artifact{}, fmt.Errorf("%s: %w", path, err)
	}
	if len(times) == 0 {
		return Artifact{}, fmt.Errorf("%w: %s has no rows", ErrNoData, path)
	}

	flagged, count := s.flags(path, ds, len(times))
	in := RetrievalInput{
		Source:  path,
		Dataset: ds,
		Times:   times,
		Flagged: flagged,
		Panels:  s.resolvePanels(path, ds),
	}
	if len(in.Panels) == 0 {
		return Artifact{}, fmt.Errorf("%w: %s has none of the plotted columns", ErrNoData, path)
	}
	if err := writeOutput(output, func(w io.Writer) error { return s.renderer.Retrieval(w, in) }); err != nil {
		return Artifact{}, err
	}

	s.log.Info("retrieval figure written",
		zap.String("source", path), zap.Int("points", len(times)), zap.Int("flagged", count))
	return s.record(Artifact{
		Kind:    KindRetrieval,
		Day:     timeconv.Midnight(times[0]),
		Source:  path,
		Output:  output,
		Points:  len(times),
		Flagged: count,
	}), nil
}

func retrievalTimes(ds *tabular.Dataset) ([]time.Time, error) {
	years, err := ds.FloatsAt(retrievalYearCol)
	if err != nil {
		return nil, err
	}
	doys, err := ds.FloatsAt(retrievalDOYCol)
	if err != nil {
		return nil, err
	}
	hours, err := ds.FloatsAt(retrievalHourCol)
	if err != nil {
		return nil, err
	}
	return timeconv.Convert(years, doys, hours)
}

// flags marks the rows whose flag column is non-zero.
func (s *Service) flags(path string, ds *tabular.Dataset, rows int) ([]bool, int) {
	out := make([]bool, rows)
	values, err := ds.Floats(retrievalFlag)
	if err != nil {
		s.log.Warn("no flag column", zap.String("source", path))
		return out, 0
	}
	count := 0
	for i := 0; i < rows && i < len(values); i++ {
		if values[i] != 0 {
			out[i] = true
			count++
		}
	}
	return out, count
}

func (s *Service) resolvePanels(path string, ds *tabular.Dataset) []PanelSpec {
	var out []PanelSpec
	for _, group := range [][]RetrievalPanel{MoleculePanels, DiagnosticPanels} {
		for _, p := range group {
			i := ds.Index(p.Column)
			if i < 0 {
				s.log.Warn("column missing, panel skipped",
					zap.String("source", path), zap.String("column", p.Column))
				continue
			}
			out = append(out, PanelSpec{Label: p.Label, Column: i, Color: p.Color})
		}
	}
	return out
}

// TrackerFigure renders one day of a tracker log.
func (s *Service) TrackerFigure(path string, day time.Time, output string) (Artifact, error) {
	return s.trackerFigure("", path, day, output)
}

func (s *Service) trackerFigure(site, path string, day time.Time, output string) (Artifact, error) {
	ds, err := tabular.ReadTrackerLog(path)
	if err != nil {
		return Artifact{}, err
	}
	s.warnShortRows(path, ds)

	day = timeconv.Midnight(day)
	times := ds.Clocks(day)
	if len(times) == 0 {
		return Artifact{}, fmt.Errorf("%w: %s has no rows", ErrNoData, path)
	}

	var panels []PanelSpec
	for _, p := range TrackerPanels {
		if p.Column >= len(ds.Fields) {
			s.log.Warn("column missing, panel skipped",
				zap.String("source", path), zap.Int("column", p.Column))
			continue
		}
		panels = append(panels, p)
	}
	if len(panels) == 0 {
		return Artifact{}, fmt.Errorf("%w: %s has none of the plotted columns", ErrNoData, path)
	}

	in := TrackerInput{Day: day, Dataset: ds, Times: times, Panels: panels}
	if err := writeOutput(output, func(w io.Writer) error { return s.renderer.Tracker(w, in) }); err != nil {
		return Artifact{}, err
	}

	return s.record(Artifact{
		Kind:   KindTracker,
		Site:   site,
		Day:    day,
		Source: path,
		Output: output,
		Points: len(times),
	}), nil
}

// TrackerRange renders every tracker log of a site for the days in
// [start, end] into outDir. A failing day is logged and the loop goes on; the
// failures are returned together.
func (s *Service) TrackerRange(siteName string, start, end time.Time, outDir string) ([]Artifact, error) {
	site, err := s.site(siteName)
	if err != nil {
		return nil, err
	}
	days, err := filelist.Days(site.TrackerLog, site.Name, timeconv.Midnight(start), timeconv.Midnight(end))
	if err != nil {
		return nil, fmt.Errorf("tracker %s: %w", site.Name, err)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: no tracker logs for %s", ErrNoData, site.Name)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	var (
		out  []Artifact
		errs error
	)
	for _, d := range days {
		name, err := filelist.Expand(TrackerOutputLayout, site.Name, d.Day)
		if err != nil {
			return out, err
		}
		a, err := s.trackerFigure(site.Name, d.Path, d.Day, filepath.Join(outDir, name))
		if err != nil {
			s.log.Error("tracker day failed",
				zap.String("site", site.Name), zap.String("path", d.Path), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, a)
	}
	return out, errs
}

// FileList writes the spectra of a site for the days in [start, end).
func (s *Service) FileList(siteName string, start, end time.Time, output string) (Artifact, error) {
	site, err := s.site(siteName)
	if err != nil {
		return Artifact{}, err
	}
	start = timeconv.Midnight(start)
	n, err := filelist.WriteFile(output, site.Name, site.DayDir, start, timeconv.Midnight(end))
	if err != nil {
		return Artifact{}, fmt.Errorf("file list %s: %w", site.Name, err)
	}
	if n == 0 {
		s.log.Warn("file list is empty", zap.String("site", site.Name), zap.String("output", output))
	}

	return s.record(Artifact{
		Kind:   KindFileList,
		Site:   site.Name,
		Day:    start,
		Source: site.DayDir,
		Output: output,
		Points: n,
	}), nil
}

// Artifacts returns everything recorded so far in creation order.
func (s *Service) Artifacts() []Artifact {
	return s.store.All()
}

func (s *Service) record(a Artifact) Artifact {
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	s.store.Save(a)
	s.log.Debug("artifact recorded",
		zap.String("id", a.ID), zap.String("kind", string(a.Kind)), zap.String("output", a.Output))
	return a
}

func (s *Service) warnShortRows(path string, ds *tabular.Dataset) {
	if len(ds.ShortRows) == 0 {
		return
	}
	s.log.Warn("rows with missing cells",
		zap.String("path", path), zap.Int("count", len(ds.ShortRows)), zap.Ints("lines", ds.ShortRows))
}

// writeOutput creates output and hands it to draw. A failed draw leaves no
// file behind.
func writeOutput(output string, draw func(w io.Writer) error) error {
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := draw(f); err != nil {
		f.Close()
		if rerr := os.Remove(output); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			return multierr.Append(err, rerr)
		}
		return err
	}
	return f.Close()
}
