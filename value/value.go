// Package value implements the scalar/range value model (spec §3.1,
// §3.2, §4.1).
package value

import "github.com/gscompat/formulacore/cellerr"

// Subtype tags a Number with advisory display information. Subtype
// never affects arithmetic (which always unwraps to float64); it is
// re-tagged by constructors such as date/time/percent builders.
type Subtype int

const (
	Plain Subtype = iota
	Date
	DateTime
	Time
	Percent
	Currency
)

// Kind is the scalar's dynamic type tag.
type Kind int

const (
	KNumber Kind = iota
	KText
	KBool
	KEmpty
	KError
)

// Value is implemented by Scalar and *Range: the C1 union of a
// single cell's content and a rectangular block of cells.
type Value interface {
	IsRange() bool
}

// Scalar is one of Number/Text/Bool/Empty/Error.
type Scalar struct {
	kind    Kind
	num     float64
	text    string
	boolean bool
	err     cellerr.Error
	subtype Subtype
}

func (Scalar) IsRange() bool { return false }

func Number(f float64) Scalar { return Scalar{kind: KNumber, num: f, subtype: Plain} }

// NumberTagged builds a Number carrying a display subtype.
func NumberTagged(f float64, s Subtype) Scalar {
	return Scalar{kind: KNumber, num: f, subtype: s}
}

func Text(s string) Scalar { return Scalar{kind: KText, text: s} }

func Bool(b bool) Scalar { return Scalar{kind: KBool, boolean: b} }

// Empty is the value of an unpopulated cell. It compares as 0
// numerically and "" textually, but remains distinguishable from
// Text("") via Kind (spec §4.1).
func Empty() Scalar { return Scalar{kind: KEmpty} }

func Err(e cellerr.Error) Scalar { return Scalar{kind: KError, err: e} }

func ErrKind(k cellerr.Kind) Scalar { return Err(cellerr.New(k)) }

func (s Scalar) Kind() Kind         { return s.kind }
func (s Scalar) IsNumber() bool     { return s.kind == KNumber }
func (s Scalar) IsText() bool       { return s.kind == KText }
func (s Scalar) IsBool() bool       { return s.kind == KBool }
func (s Scalar) IsEmpty() bool      { return s.kind == KEmpty }
func (s Scalar) IsError() bool      { return s.kind == KError }
func (s Scalar) Subtype() Subtype   { return s.subtype }
func (s Scalar) RawText() string    { return s.text }
func (s Scalar) RawBool() bool      { return s.boolean }

// Error returns the underlying error and true iff the scalar is an
// error.
func (s Scalar) Error() (cellerr.Error, bool) {
	if s.kind == KError {
		return s.err, true
	}
	return cellerr.Error{}, false
}

// NumberValue unwraps a numeric context value: Number as-is, Bool as
// 0/1, Empty as 0. Text returns ok=false; callers needing string ->
// number coercion use arith.ToNumber instead, since that coercion is
// locale/format sensitive.
func (s Scalar) NumberValue() (float64, bool) {
	switch s.kind {
	case KNumber:
		return s.num, true
	case KBool:
		if s.boolean {
			return 1, true
		}
		return 0, true
	case KEmpty:
		return 0, true
	default:
		return 0, false
	}
}

// TextValue renders the scalar in a text context: Text as-is, Empty
// as "".
func (s Scalar) TextValue() string {
	switch s.kind {
	case KText:
		return s.text
	case KEmpty:
		return ""
	default:
		return ""
	}
}

// Range is a rectangular width x height matrix of scalars (spec
// §3.2). Rows are stored row-major; every row has exactly Width
// elements.
type Range struct {
	width, height int
	data          [][]Scalar
}

func (*Range) IsRange() bool { return true }

// NewRange validates the row-length invariant and builds a Range.
func NewRange(rows [][]Scalar) (*Range, error) {
	if len(rows) == 0 {
		return nil, errRangeDims
	}
	w := len(rows[0])
	if w == 0 {
		return nil, errRangeDims
	}
	for _, r := range rows {
		if len(r) != w {
			return nil, errRangeDims
		}
	}
	return &Range{width: w, height: len(rows), data: rows}, nil
}

// OnlyValues is an alias of NewRange kept for parity with the
// collaborator API named in spec §4.1 (construct asserting the
// row-length invariant).
func OnlyValues(rows [][]Scalar) (*Range, error) { return NewRange(rows) }

// OnlyNumbers builds a Range from raw float64 rows.
func OnlyNumbers(rows [][]float64) (*Range, error) {
	out := make([][]Scalar, len(rows))
	for i, r := range rows {
		row := make([]Scalar, len(r))
		for j, f := range r {
			row[j] = Number(f)
		}
		out[i] = row
	}
	return NewRange(out)
}

// FromScalar promotes a scalar to a 1x1 Range.
func FromScalar(s Scalar) *Range {
	return &Range{width: 1, height: 1, data: [][]Scalar{{s}}}
}

func (r *Range) Width() int  { return r.width }
func (r *Range) Height() int { return r.height }

// At returns the scalar at (row, col), 0-indexed; out-of-bounds
// returns Empty rather than panicking, matching SheetView's
// out-of-bounds contract (spec §6.1).
func (r *Range) At(row, col int) Scalar {
	if r == nil || row < 0 || row >= r.height || col < 0 || col >= r.width {
		return Empty()
	}
	return r.data[row][col]
}

// RawData returns the borrowed row-major backing slice; callers must
// not mutate it.
func (r *Range) RawData() [][]Scalar { return r.data }

// RawNumbers returns a dense float64 view together with whether
// every cell coerced cleanly via NumberValue.
func (r *Range) RawNumbers() ([][]float64, bool) {
	out := make([][]float64, r.height)
	ok := true
	for i, row := range r.data {
		fr := make([]float64, r.width)
		for j, s := range row {
			n, good := s.NumberValue()
			if !good {
				ok = false
			}
			fr[j] = n
		}
		out[i] = fr
	}
	return out, ok
}

// HasOnlyNumbers reports whether every cell coerces via NumberValue.
func (r *Range) HasOnlyNumbers() bool {
	for _, row := range r.data {
		for _, s := range row {
			if _, ok := s.NumberValue(); !ok {
				return false
			}
		}
	}
	return true
}

// ValuesTopLeftToBottomRight returns a lazy row-major iterator: call
// the returned function repeatedly until ok is false.
func (r *Range) ValuesTopLeftToBottomRight() func() (Scalar, bool) {
	row, col := 0, 0
	return func() (Scalar, bool) {
		if r == nil || row >= r.height {
			return Scalar{}, false
		}
		s := r.data[row][col]
		col++
		if col >= r.width {
			col = 0
			row++
		}
		return s, true
	}
}

// ToRange promotes a scalar Value to a 1x1 Range, or passes a *Range
// through unchanged.
func ToRange(v Value) *Range {
	switch t := v.(type) {
	case *Range:
		return t
	case Scalar:
		return FromScalar(t)
	default:
		return FromScalar(Empty())
	}
}

// TopLeft implements the "top-left scalar" coercion rule (spec
// §4.7.5): a Range yields its (0,0) cell, a Scalar passes through.
func TopLeft(v Value) Scalar {
	switch t := v.(type) {
	case *Range:
		return t.At(0, 0)
	case Scalar:
		return t
	default:
		return Empty()
	}
}

// AsScalar returns (scalar, true) when v is a bare scalar or a 1x1
// range, else (zero, false).
func AsScalar(v Value) (Scalar, bool) {
	switch t := v.(type) {
	case Scalar:
		return t, true
	case *Range:
		if t.Width() == 1 && t.Height() == 1 {
			return t.At(0, 0), true
		}
		return Scalar{}, false
	default:
		return Scalar{}, false
	}
}

type dimsError struct{}

func (dimsError) Error() string { return "range rows must share a common non-zero width" }

var errRangeDims = dimsError{}
