package tabular

import (
	"fmt"
	"math"
)

// Dataset is a parsed tabular file: named columns in file order plus the
// integers from the metadata line.
type Dataset struct {
	Fields []string
	Data   [][]Value
	Format []int

	// ShortRows lists 1-based line numbers of rows that carried fewer
	// tokens than columns. Such rows leave the trailing columns shorter.
	ShortRows []int
}

// HeaderLines is the number of header lines, including the metadata line.
func (d *Dataset) HeaderLines() int {
	if len(d.Format) == 0 {
		return 0
	}
	return d.Format[0]
}

// Columns is the declared column count.
func (d *Dataset) Columns() int {
	if len(d.Format) < 2 {
		return len(d.Fields)
	}
	return d.Format[1]
}

// Rows is the declared row count, or the length of the first column when the
// metadata line does not carry one.
func (d *Dataset) Rows() int {
	if len(d.Format) >= 3 {
		return d.Format[2]
	}
	if len(d.Data) == 0 {
		return 0
	}
	return len(d.Data[0])
}

// Index returns the position of the named column, or -1.
func (d *Dataset) Index(name string) int {
	for i, f := range d.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of the named column.
func (d *Dataset) Column(name string) ([]Value, error) {
	i := d.Index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return d.Data[i], nil
}

// Floats returns the named column as float64. Cells that are not numeric
// become NaN.
func (d *Dataset) Floats(name string) ([]float64, error) {
	col, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	return ColumnFloats(col), nil
}

// FloatsAt is Floats by position.
func (d *Dataset) FloatsAt(i int) ([]float64, error) {
	if i < 0 || i >= len(d.Data) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrUnknownColumn, i, len(d.Data))
	}
	return ColumnFloats(d.Data[i]), nil
}

// ColumnFloats converts cells to float64, NaN for non-numeric cells.
func ColumnFloats(col []Value) []float64 {
	out := make([]float64, len(col))
	for i, v := range col {
		f, ok := v.Float()
		if !ok {
			f = math.NaN()
		}
		out[i] = f
	}
	return out
}

// KindCounts reports how many cells of each kind a column holds.
func (d *Dataset) KindCounts(i int) map[Kind]int {
	counts := make(map[Kind]int)
	if i < 0 || i >= len(d.Data) {
		return counts
	}
	for _, v := range d.Data[i] {
		counts[v.Kind()]++
	}
	return counts
}
