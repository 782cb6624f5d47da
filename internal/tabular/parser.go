// Package tabular reads TCCON style text tables into typed columns.
//
// The first line of a file holds whitespace separated integers: the number of
// header lines (this one included), the number of columns and, usually, the
// number of rows. The last header line holds the column titles and every line
// after it is a data row. Cells carry no schema; each one is parsed as an
// integer, else a float, else kept as text.
package tabular

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	csvSeparator   = ","
	spaceSeparator = " "
)

// SeparatorFor picks the field separator from the file extension.
func SeparatorFor(path string) string {
	if filepath.Ext(path) == ".csv" {
		return csvSeparator
	}
	return spaceSeparator
}

// ReadFile parses the tabular file at path.
func ReadFile(path string) (*Dataset, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := Read(f, SeparatorFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return f, nil
}

// Read parses a tabular stream using sep between fields.
func Read(r io.Reader, sep string) (*Dataset, error) {
	br := bufio.NewReader(r)

	first, err := readLine(br)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty file", ErrMalformedHeader)
		}
		return nil, err
	}
	format, err := parseFormat(first)
	if err != nil {
		return nil, err
	}

	headerLines, columns := format[0], format[1]
	ds := &Dataset{
		Format: format,
		Data:   make([][]Value, columns),
	}

	// Line numbers below are 0-based, the metadata line being 0.
	for n := 1; ; n++ {
		line, err := readLine(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch {
		case n < headerLines-1:
			continue
		case n == headerLines-1:
			ds.Fields = splitTokens(line, sep)
			if len(ds.Fields) != columns {
				return nil, fmt.Errorf("%w: %d column titles for %d columns",
					ErrMalformedHeader, len(ds.Fields), columns)
			}
		default:
			row := splitTokens(line, sep)
			if len(row) == 0 {
				continue
			}
			if len(row) > columns {
				return nil, &RowError{
					Line: n + 1,
					Err:  fmt.Errorf("%w: %d tokens for %d columns", ErrMalformedRow, len(row), columns),
				}
			}
			if len(row) < columns {
				ds.ShortRows = append(ds.ShortRows, n+1)
			}
			for k, token := range row {
				ds.Data[k] = append(ds.Data[k], parseCell(token))
			}
		}
	}

	if ds.Fields == nil {
		return nil, fmt.Errorf("%w: no column title line at line %d", ErrMalformedHeader, headerLines)
	}
	return ds, nil
}

func parseFormat(line string) ([]int, error) {
	tokens := strings.Fields(line)
	format := make([]int, 0, len(tokens))
	for _, t := range tokens {
		n, err := strconv.Atoi(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrMalformedHeader, t)
		}
		format = append(format, n)
	}
	if len(format) < 2 {
		return nil, fmt.Errorf("%w: need header and column counts, got %d values", ErrMalformedHeader, len(format))
	}
	if format[0] < 2 {
		return nil, fmt.Errorf("%w: header line count %d", ErrMalformedHeader, format[0])
	}
	if format[1] < 1 {
		return nil, fmt.Errorf("%w: column count %d", ErrMalformedHeader, format[1])
	}
	return format, nil
}

// parseCell trims surrounding whitespace before numeric inference; text
// cells keep the token as it was.
func parseCell(token string) Value {
	v := ParseValue(strings.TrimSpace(token))
	if v.Kind() == KindText {
		return TextValue(token)
	}
	return v
}

// splitTokens trims the line, splits it on sep and drops empty tokens.
func splitTokens(line, sep string) []string {
	parts := strings.Split(strings.TrimSpace(line), sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// readLine returns the next line without its terminator. The last line of a
// file need not end in a newline.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
