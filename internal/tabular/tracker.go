package tabular

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	clockLayout      = "15:04:05"
	clockParseLayout = "15:4:5" // minute and second may be unpadded
	trackerTitleLine = 2
	trackerSeparator = "\t"
	trackerFirstData = trackerTitleLine + 1
)

// ReadTrackerLog parses a solar tracker log file.
func ReadTrackerLog(path string) (*Dataset, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := ReadTracker(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadTracker parses a tab separated tracker log. The third line holds the
// column titles and the first column of every row is a H:M:S time of day.
// Cells are trimmed before parsing. Empty cells are kept as empty text.
func ReadTracker(r io.Reader) (*Dataset, error) {
	br := bufio.NewReader(r)
	ds := &Dataset{}

	for n := 0; ; n++ {
		line, err := readLine(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if n == trackerTitleLine {
			ds.Fields = strings.Split(strings.TrimSpace(line), trackerSeparator)
			ds.Data = make([][]Value, len(ds.Fields))
			ds.Format = []int{trackerFirstData, len(ds.Fields)}
			continue
		}
		if n < trackerFirstData {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		cells := strings.Split(trimmed, trackerSeparator)
		if len(cells) > len(ds.Fields) {
			return nil, &RowError{
				Line: n + 1,
				Err:  fmt.Errorf("%w: %d cells for %d columns", ErrMalformedRow, len(cells), len(ds.Fields)),
			}
		}
		if len(cells) < len(ds.Fields) {
			ds.ShortRows = append(ds.ShortRows, n+1)
		}
		for k, cell := range cells {
			if k == 0 {
				t, err := time.Parse(clockParseLayout, strings.TrimSpace(cell))
				if err != nil {
					return nil, &RowError{Line: n + 1, Err: fmt.Errorf("%w: %v", ErrMalformedRow, err)}
				}
				ds.Data[0] = append(ds.Data[0], ClockValue(t))
				continue
			}
			ds.Data[k] = append(ds.Data[k], parseCell(cell))
		}
	}

	if ds.Fields == nil {
		return nil, fmt.Errorf("%w: no column title line", ErrMalformedHeader)
	}
	return ds, nil
}

// Clocks returns column 0 of a tracker log anchored on day. Cells that are not
// clock values are skipped.
func (d *Dataset) Clocks(day time.Time) []time.Time {
	if len(d.Data) == 0 {
		return nil
	}
	y, m, dd := day.Date()
	out := make([]time.Time, 0, len(d.Data[0]))
	for _, v := range d.Data[0] {
		c, ok := v.Clock()
		if !ok {
			continue
		}
		out = append(out, time.Date(y, m, dd, c.Hour(), c.Minute(), c.Second(), 0, time.UTC))
	}
	return out
}
