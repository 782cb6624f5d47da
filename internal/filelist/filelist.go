// Package filelist expands per-site, per-day path templates and writes the
// lists of spectra files consumed by the retrieval.
package filelist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// DefaultMatch selects the detector files of a day directory.
var DefaultMatch = []string{"dual", "ingaas"}

// ErrNoTemplate is returned when a site has no template for the request.
var ErrNoTemplate = errors.New("empty path template")

// Expand replaces {site} in template and formats the strftime verbs for day.
func Expand(template, site string, day time.Time) (string, error) {
	if template == "" {
		return "", ErrNoTemplate
	}
	p := strings.ReplaceAll(template, "{site}", site)
	out, err := strftime.Format(p, day)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", template, err)
	}
	return out, nil
}

// Write lists, for every day in [start, end), the entries of the day
// directory whose name contains one of match, one path per line. Days without
// a directory are skipped. It returns the number of paths written.
func Write(w io.Writer, site, template string, start, end time.Time, match ...string) (int, error) {
	if len(match) == 0 {
		match = DefaultMatch
	}

	bw := bufio.NewWriter(w)
	n := 0
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		dir, err := Expand(template, site, day)
		if err != nil {
			return n, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return n, err
		}
		for _, e := range entries {
			if !hasAny(e.Name(), match...) {
				continue
			}
			if _, err := bw.WriteString(filepath.Join(dir, e.Name()) + "\n"); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, bw.Flush()
}

// WriteFile is Write into path. An existing file is overwritten.
func WriteFile(path, site, template string, start, end time.Time, match ...string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := Write(f, site, template, start, end, match...)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// DayPath is an existing per-day file.
type DayPath struct {
	Day  time.Time
	Path string
}

// Days expands template for every day in [start, end] and returns the paths
// that exist.
func Days(template, site string, start, end time.Time) ([]DayPath, error) {
	var out []DayPath
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		p, err := Expand(template, site, day)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		out = append(out, DayPath{Day: day, Path: p})
	}
	return out, nil
}

// hasAny returns true if s contains any of the substrings.
func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
