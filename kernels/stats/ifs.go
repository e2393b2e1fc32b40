package stats

import (
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/criterion"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// The single-criterion COUNTIF/SUMIF/AVERAGEIF and their multi-
// criterion *IFS counterparts all fold through the same
// criterion.Compute machinery AVERAGEIFS composes (spec §4.9); only
// the accumulator and the argument order differ.

// critPairs compiles the trailing (range, criterion) argument pairs
// starting at args[from].
func critPairs(state *eval.State, args []value.Value, from int) ([]*value.Range, []value.Scalar, []criterion.Predicate) {
	var ranges []*value.Range
	var raw []value.Scalar
	var preds []criterion.Predicate
	for i := from; i+1 < len(args); i += 2 {
		cr := asRange(args[i])
		critScalar, _ := value.AsScalar(args[i+1])
		ranges = append(ranges, cr)
		raw = append(raw, critScalar)
		preds = append(preds, criterion.Compile(critScalar, state.Locale))
	}
	return ranges, raw, preds
}

// optionalRange resolves SUMIF/AVERAGEIF's trailing optional range:
// an omitted argument arrives as a 1x1 Empty range, in which case the
// criteria range doubles as the value range.
func optionalRange(args []value.Value, idx int, fallback *value.Range) *value.Range {
	if idx >= len(args) {
		return fallback
	}
	r := asRange(args[idx])
	if r.Width() == 1 && r.Height() == 1 && r.At(0, 0).IsEmpty() {
		return fallback
	}
	return r
}

func combineCount(a, b int) int { return a + b }

func projectOne(value.Scalar) int { return 1 }

func combineSum(a, b float64) float64 { return a + b }

func projectSum(s value.Scalar) float64 {
	if s.IsNumber() {
		n, _ := s.NumberValue()
		return n
	}
	return 0
}

func registerIfs(r *eval.Registry) {
	r.RegisterDefault("COUNTIF", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgScalar}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			ranges, raw, preds := critPairs(state, args, 0)
			n, cerr := criterion.ComputeCached(state.Registry.CriterionCache, ranges[0], raw, 0, combineCount, projectOne, ranges, preds)
			if cerr != nil {
				return value.Err(*cerr)
			}
			return value.Number(float64(n))
		},
	})

	r.RegisterDefault("COUNTIFS", eval.Descriptor{
		Params:         []eval.ArgSpec{rangeArg(), {Type: eval.ArgScalar}},
		RepeatLastArgs: 2,
		Fn: func(state *eval.State, args []value.Value) value.Value {
			ranges, raw, preds := critPairs(state, args, 0)
			n, cerr := criterion.ComputeCached(state.Registry.CriterionCache, ranges[0], raw, 0, combineCount, projectOne, ranges, preds)
			if cerr != nil {
				return value.Err(*cerr)
			}
			return value.Number(float64(n))
		},
	})

	r.RegisterDefault("SUMIF", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgScalar}, {Type: eval.ArgRange, Optional: true}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			critRange := asRange(args[0])
			critScalar, _ := value.AsScalar(args[1])
			sumRange := optionalRange(args, 2, critRange)
			preds := []criterion.Predicate{criterion.Compile(critScalar, state.Locale)}
			sum, cerr := criterion.ComputeCached(state.Registry.CriterionCache, sumRange, []value.Scalar{critScalar}, 0, combineSum, projectSum, []*value.Range{critRange}, preds)
			if cerr != nil {
				return value.Err(*cerr)
			}
			return value.Number(sum)
		},
	})

	r.RegisterDefault("SUMIFS", eval.Descriptor{
		Params:         []eval.ArgSpec{rangeArg(), rangeArg(), {Type: eval.ArgScalar}},
		RepeatLastArgs: 2,
		Fn: func(state *eval.State, args []value.Value) value.Value {
			sumRange := asRange(args[0])
			ranges, raw, preds := critPairs(state, args, 1)
			sum, cerr := criterion.ComputeCached(state.Registry.CriterionCache, sumRange, raw, 0, combineSum, projectSum, ranges, preds)
			if cerr != nil {
				return value.Err(*cerr)
			}
			return value.Number(sum)
		},
	})

	r.RegisterDefault("AVERAGEIF", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgScalar}, {Type: eval.ArgRange, Optional: true}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			critRange := asRange(args[0])
			critScalar, _ := value.AsScalar(args[1])
			avgRange := optionalRange(args, 2, critRange)
			preds := []criterion.Predicate{criterion.Compile(critScalar, state.Locale)}
			result, cerr := criterion.ComputeCached(state.Registry.CriterionCache, avgRange, []value.Scalar{critScalar}, criterion.AverageResult{}, criterion.CombineAverage, criterion.ProjectNumeric, []*value.Range{critRange}, preds)
			if cerr != nil {
				return value.Err(*cerr)
			}
			if result.Count == 0 {
				return value.ErrKind(cellerr.DIV_BY_ZERO)
			}
			return value.Number(result.Sum / float64(result.Count))
		},
	})
}
