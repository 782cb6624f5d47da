package tabular

import (
	"math"
	"strconv"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindClock
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindClock:
		return "clock"
	default:
		return "text"
	}
}

// Value is a single parsed cell. Cells are typed independently of their
// column, so a column may hold a mix of kinds.
type Value struct {
	kind  Kind
	i     int64
	f     float64
	s     string
	clock time.Time
}

// IntValue returns an integer cell.
func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }

// FloatValue returns a floating point cell.
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

// TextValue returns a cell that kept its raw text.
func TextValue(v string) Value { return Value{kind: KindText, s: v} }

// ClockValue returns a time-of-day cell.
func ClockValue(t time.Time) Value { return Value{kind: KindClock, clock: t} }

// ParseValue infers the cell type: integer first, then float, then text.
func ParseValue(token string) Value {
	if n, err := strconv.ParseInt(token, 10, 64); err == nil {
		return IntValue(n)
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return FloatValue(f)
	}
	return TextValue(token)
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Float returns the numeric value of Int and Float cells.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return math.NaN(), false
}

func (v Value) Text() (string, bool) {
	return v.s, v.kind == KindText
}

func (v Value) Clock() (time.Time, bool) {
	return v.clock, v.kind == KindClock
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindClock:
		return v.clock.Format(clockLayout)
	default:
		return v.s
	}
}
