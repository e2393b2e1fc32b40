package eval

import (
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/value"
)

// broadcastUnary applies fn to every cell of v, preserving shape.
func broadcastUnary(v value.Value, fn func(value.Scalar) value.Scalar) value.Value {
	switch t := v.(type) {
	case value.Scalar:
		return fn(t)
	case *value.Range:
		rows := make([][]value.Scalar, t.Height())
		for r := 0; r < t.Height(); r++ {
			row := make([]value.Scalar, t.Width())
			for c := 0; c < t.Width(); c++ {
				row[c] = fn(t.At(r, c))
			}
			rows[r] = row
		}
		out, err := value.NewRange(rows)
		if err != nil {
			return value.ErrKind(cellerr.VALUE)
		}
		return out
	default:
		return value.ErrKind(cellerr.VALUE)
	}
}

// broadcastShape computes the result shape for a pair of operands
// under the "equal shapes, or one dimension is 1" broadcasting rule
// (spec §4.7.4). A scalar behaves as a 1x1 operand. ok is false when
// neither shape nor one-dimensional broadcasting can reconcile the
// two operand shapes.
func broadcastShape(ah, aw, bh, bw int) (h, w int, ok bool) {
	h, ok = broadcastDim(ah, bh)
	if !ok {
		return 0, 0, false
	}
	w, ok = broadcastDim(aw, bw)
	if !ok {
		return 0, 0, false
	}
	return h, w, true
}

func broadcastDim(a, b int) (int, bool) {
	switch {
	case a == b:
		return a, true
	case a == 1:
		return b, true
	case b == 1:
		return a, true
	default:
		return 0, false
	}
}

func dims(v value.Value) (h, w int) {
	if r, ok := v.(*value.Range); ok {
		return r.Height(), r.Width()
	}
	return 1, 1
}

func cellAt(v value.Value, r, c, h, w int) value.Scalar {
	rng, ok := v.(*value.Range)
	if !ok {
		return v.(value.Scalar)
	}
	rr, cc := r, c
	if rng.Height() == 1 {
		rr = 0
	}
	if rng.Width() == 1 {
		cc = 0
	}
	return rng.At(rr, cc)
}

// broadcastBinary applies fn elementwise across a and b, broadcasting
// any range operand whose dimension is 1 against the other operand's
// matching dimension (spec §4.7.4). Mismatched, non-broadcastable
// shapes yield a same-shaped error range rather than a single error,
// so downstream spill semantics still see the attempted result shape.
func broadcastBinary(a, b value.Value, fn func(a, b value.Scalar) value.Scalar) value.Value {
	ah, aw := dims(a)
	bh, bw := dims(b)
	if ah == 1 && aw == 1 && bh == 1 && bw == 1 {
		as, _ := value.AsScalar(a)
		bs, _ := value.AsScalar(b)
		return fn(as, bs)
	}
	h, w, ok := broadcastShape(ah, aw, bh, bw)
	if !ok {
		rows := make([][]value.Scalar, maxInt(ah, bh))
		for r := range rows {
			row := make([]value.Scalar, maxInt(aw, bw))
			for c := range row {
				row[c] = value.ErrKind(cellerr.VALUE)
			}
			rows[r] = row
		}
		out, _ := value.NewRange(rows)
		return out
	}
	rows := make([][]value.Scalar, h)
	for r := 0; r < h; r++ {
		row := make([]value.Scalar, w)
		for c := 0; c < w; c++ {
			row[c] = fn(cellAt(a, r, c, ah, aw), cellAt(b, r, c, bh, bw))
		}
		rows[r] = row
	}
	out, err := value.NewRange(rows)
	if err != nil {
		return value.ErrKind(cellerr.VALUE)
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
