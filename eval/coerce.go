package eval

import (
	"math"
	"strings"

	"github.com/gscompat/formulacore/arith"
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/value"
)

// paramFor returns the ArgSpec governing actual-argument position idx,
// expanding the descriptor's trailing RepeatLastArgs group cyclically
// once idx runs past the declared Params (spec §4.6 "repeat_last_args").
func paramFor(d Descriptor, idx int) (ArgSpec, bool) {
	n := len(d.Params)
	if idx < n {
		return d.Params[idx], true
	}
	if d.RepeatLastArgs <= 0 {
		return ArgSpec{}, false
	}
	start := n - d.RepeatLastArgs
	if start < 0 {
		start = 0
	}
	groupLen := n - start
	if groupLen <= 0 {
		return ArgSpec{}, false
	}
	offset := (idx - start) % groupLen
	return d.Params[start+offset], true
}

// coerceScalar applies a single ArgSpec's type coercion and range
// constraints to s (spec §4.7.5). An Error scalar passes through
// unchanged (callers are expected to have already decided whether
// error short-circuiting applies).
func coerceScalar(spec ArgSpec, s value.Scalar) value.Scalar {
	if s.IsError() {
		return s
	}
	switch spec.Type {
	case ArgNumber, ArgInteger:
		f, ok := arith.ToNumber(s)
		if !ok {
			return value.ErrKind(cellerr.VALUE)
		}
		if spec.Type == ArgInteger {
			f = math.Trunc(f)
		}
		if errScalar := checkNumericConstraints(spec, f); errScalar != nil {
			return *errScalar
		}
		if spec.PassSubtype {
			return value.NumberTagged(f, s.Subtype())
		}
		return value.Number(f)
	case ArgBoolean:
		return coerceBoolean(s)
	case ArgString:
		return coerceString(s)
	case ArgNoError, ArgScalar, ArgAny:
		return s
	default:
		return s
	}
}

func coerceBoolean(s value.Scalar) value.Scalar {
	switch s.Kind() {
	case value.KBool:
		return s
	case value.KNumber:
		n, _ := s.NumberValue()
		return value.Bool(n != 0)
	case value.KEmpty:
		return value.Bool(false)
	case value.KText:
		switch strings.ToUpper(strings.TrimSpace(s.RawText())) {
		case "TRUE":
			return value.Bool(true)
		case "FALSE":
			return value.Bool(false)
		default:
			return value.ErrKind(cellerr.VALUE)
		}
	default:
		return value.ErrKind(cellerr.VALUE)
	}
}

func coerceString(s value.Scalar) value.Scalar {
	switch s.Kind() {
	case value.KText:
		return s
	case value.KEmpty:
		return value.Text("")
	case value.KNumber, value.KBool:
		return value.Text(stringify(s))
	default:
		return value.ErrKind(cellerr.VALUE)
	}
}

// checkNumericConstraints enforces an ArgSpec's Min/Max/GreaterThan/
// LessThan bounds, returning a #NUM! scalar on violation or nil when
// f satisfies every declared bound.
func checkNumericConstraints(spec ArgSpec, f float64) *value.Scalar {
	if spec.Min != nil && f < *spec.Min {
		e := value.ErrKind(cellerr.NUM)
		return &e
	}
	if spec.Max != nil && f > *spec.Max {
		e := value.ErrKind(cellerr.NUM)
		return &e
	}
	if spec.GreaterThan != nil && f <= *spec.GreaterThan {
		e := value.ErrKind(cellerr.NUM)
		return &e
	}
	if spec.LessThan != nil && f >= *spec.LessThan {
		e := value.ErrKind(cellerr.NUM)
		return &e
	}
	return nil
}

func errorGrid(kind cellerr.Kind, h, w int) value.Value {
	if h < 1 {
		h = 1
	}
	if w < 1 {
		w = 1
	}
	rows := make([][]value.Scalar, h)
	for r := range rows {
		row := make([]value.Scalar, w)
		for c := range row {
			row[c] = value.ErrKind(kind)
		}
		rows[r] = row
	}
	out, err := value.NewRange(rows)
	if err != nil {
		return value.ErrKind(kind)
	}
	return out
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
