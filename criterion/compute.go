package criterion

import (
	"strconv"
	"strings"

	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/value"
)

// Compute folds value cells whose parallel criteria ranges all match
// their predicate (spec §4.9's CriterionFunctionCompute<T>). Every
// criteria range must share value's cell count; a mismatch returns
// VALUE/EqualLength per spec §7.
func Compute[T any](val *value.Range, identity T, combine func(T, T) T, project func(value.Scalar) T, criteriaRanges []*value.Range, preds []Predicate) (T, *cellerr.Error) {
	n := val.Width() * val.Height()
	for _, cr := range criteriaRanges {
		if cr.Width()*cr.Height() != n {
			e := cellerr.Newf(cellerr.VALUE, cellerr.EqualLength)
			var zero T
			return zero, &e
		}
	}
	acc := identity
	for i := 0; i < n; i++ {
		row, col := i/val.Width(), i%val.Width()
		matched := true
		for k, cr := range criteriaRanges {
			crow, ccol := i/cr.Width(), i%cr.Width()
			if !preds[k](cr.At(crow, ccol)) {
				matched = false
				break
			}
		}
		if matched {
			acc = combine(acc, project(val.At(row, col)))
		}
	}
	return acc, nil
}

// cachedResult wraps a Compute call's result pair so ComputeCached can
// stash it in a Cache's map[[32]byte]any slot regardless of T.
type cachedResult[T any] struct {
	Value T
	Err   *cellerr.Error
}

// ComputeCached is Compute memoized through cache, keyed by a
// description of the (range, predicate) tuple set (spec §4.9:
// "Results may be cached by a key derived from the set of (range,
// predicate) tuples"). rawCriteria holds the original, uncompiled
// criterion scalar for each criteria range in criteriaRanges, in
// order; it is folded into the key because two distinct criterion
// literals that happen to compile to predicates agreeing on today's
// data must not collide in the cache tomorrow.
func ComputeCached[T any](cache *Cache, val *value.Range, rawCriteria []value.Scalar, identity T, combine func(T, T) T, project func(value.Scalar) T, criteriaRanges []*value.Range, preds []Predicate) (T, *cellerr.Error) {
	if cache == nil {
		return Compute(val, identity, combine, project, criteriaRanges, preds)
	}
	key := describeTuples(val, rawCriteria, criteriaRanges)
	raw := cache.Get(key, func() any {
		v, err := Compute(val, identity, combine, project, criteriaRanges, preds)
		return cachedResult[T]{Value: v, Err: err}
	})
	r := raw.(cachedResult[T])
	return r.Value, r.Err
}

// describeTuples renders val and each (rawCriteria[i], criteriaRanges[i])
// pair into a string unique up to the data Compute actually reads.
func describeTuples(val *value.Range, rawCriteria []value.Scalar, criteriaRanges []*value.Range) string {
	var sb strings.Builder
	describeRange(&sb, val)
	for i, cr := range criteriaRanges {
		sb.WriteByte('|')
		if i < len(rawCriteria) {
			describeScalar(&sb, rawCriteria[i])
		}
		sb.WriteByte(':')
		describeRange(&sb, cr)
	}
	return sb.String()
}

func describeRange(sb *strings.Builder, rng *value.Range) {
	sb.WriteString(strconv.Itoa(rng.Width()))
	sb.WriteByte('x')
	sb.WriteString(strconv.Itoa(rng.Height()))
	sb.WriteByte(':')
	for i := 0; i < rng.Height(); i++ {
		for j := 0; j < rng.Width(); j++ {
			describeScalar(sb, rng.At(i, j))
			sb.WriteByte(',')
		}
	}
}

func describeScalar(sb *strings.Builder, s value.Scalar) {
	switch s.Kind() {
	case value.KNumber:
		sb.WriteByte('n')
		n, _ := s.NumberValue()
		sb.WriteString(strconv.FormatFloat(n, 'g', -1, 64))
	case value.KText:
		sb.WriteByte('t')
		sb.WriteString(s.RawText())
	case value.KBool:
		if s.RawBool() {
			sb.WriteString("b1")
		} else {
			sb.WriteString("b0")
		}
	case value.KEmpty:
		sb.WriteByte('e')
	default:
		sb.WriteByte('x')
		if e, ok := s.Error(); ok {
			sb.WriteString(e.Kind.String())
		}
	}
}

// AverageResult is the (sum, count) accumulator used by AVERAGEIFS.
type AverageResult struct {
	Sum   float64
	Count int
}

// CombineAverage adds two partial AVERAGEIFS accumulators.
func CombineAverage(a, b AverageResult) AverageResult {
	return AverageResult{Sum: a.Sum + b.Sum, Count: a.Count + b.Count}
}

// ProjectNumeric projects a Number cell to an AverageResult of
// (value, 1); text, blanks, and booleans contribute (0, 0) so they
// neither skew the sum nor inflate the count.
func ProjectNumeric(s value.Scalar) AverageResult {
	if s.IsNumber() {
		n, _ := s.NumberValue()
		return AverageResult{Sum: n, Count: 1}
	}
	return AverageResult{}
}
