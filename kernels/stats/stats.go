// Package stats implements the statistical kernels of spec §4.11:
// the plain aggregates, the COUNTIF/SUMIF/AVERAGEIF criterion family
// and its *IFS counterparts, the QUARTILE/PERCENTILE/PERCENTRANK
// family, MODE, TRIMMEAN, PROB, the ERF pair, INTERCEPT/FORECAST,
// and MARGINOFERROR.
package stats

import (
	"math"
	"sort"

	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/criterion"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

func asRange(v value.Value) *value.Range { return value.ToRange(v) }

func rangeArg() eval.ArgSpec { return eval.ArgSpec{Type: eval.ArgRange} }

func f(v float64) *float64 { return &v }

// Register installs every statistical descriptor.
func Register(r *eval.Registry) {
	registerAggregates(r)
	registerAverageIfs(r)
	registerIfs(r)
	registerRanking(r)
	registerMode(r)
	registerMisc(r)
	registerRegressionHelpers(r)
}

func registerAverageIfs(r *eval.Registry) {
	r.RegisterDefault("AVERAGEIFS", eval.Descriptor{
		Params:         []eval.ArgSpec{rangeArg(), rangeArg(), {Type: eval.ArgScalar}},
		RepeatLastArgs: 2,
		Fn: func(state *eval.State, args []value.Value) value.Value {
			avgRange := asRange(args[0])
			var criteriaRanges []*value.Range
			var preds []criterion.Predicate
			var rawCriteria []value.Scalar
			for i := 1; i+1 < len(args); i += 2 {
				cr := asRange(args[i])
				critScalar, _ := value.AsScalar(args[i+1])
				criteriaRanges = append(criteriaRanges, cr)
				rawCriteria = append(rawCriteria, critScalar)
				preds = append(preds, criterion.Compile(critScalar, state.Locale))
			}
			result, cerr := criterion.ComputeCached(state.Registry.CriterionCache, avgRange, rawCriteria, criterion.AverageResult{}, criterion.CombineAverage, criterion.ProjectNumeric, criteriaRanges, preds)
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

// numericValues gathers the true Number cells of rng in row-major
// order; blanks and booleans are not data points in a range context.
func numericValues(rng *value.Range) []float64 {
	var out []float64
	it := rng.ValuesTopLeftToBottomRight()
	for {
		s, ok := it()
		if !ok {
			break
		}
		if s.IsNumber() {
			n, _ := s.NumberValue()
			out = append(out, n)
		}
	}
	return out
}

func sortedCopy(xs []float64) []float64 {
	out := append([]float64(nil), xs...)
	sort.Float64s(out)
	return out
}

// interpolatedQuantile evaluates the position p*(n-1) (the INC
// convention) against sorted data via linear interpolation.
func interpolatedQuantile(sorted []float64, pos float64) float64 {
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo < 0 {
		lo = 0
	}
	if hi >= len(sorted) {
		hi = len(sorted) - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func registerRanking(r *eval.Registry) {
	quartileFn := func(exclusive bool) eval.KernelFunc {
		return func(state *eval.State, args []value.Value) value.Value {
			data := numericValues(asRange(args[0]))
			qS, _ := value.AsScalar(args[1])
			qf, _ := qS.NumberValue()
			return percentileAt(data, qf/4, exclusive)
		}
	}
	r.RegisterDefault("QUARTILE.INC", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgInteger, Min: f(0), Max: f(4)}},
		Fn:     quartileFn(false),
	})
	r.RegisterDefault("QUARTILE.EXC", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgInteger, Min: f(0), Max: f(4)}},
		Fn:     quartileFn(true),
	})
	r.RegisterDefault("QUARTILE", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgInteger, Min: f(0), Max: f(4)}},
		Fn:     quartileFn(false),
	})

	percentileFn := func(exclusive bool) eval.KernelFunc {
		return func(state *eval.State, args []value.Value) value.Value {
			data := numericValues(asRange(args[0]))
			pS, _ := value.AsScalar(args[1])
			p, _ := pS.NumberValue()
			return percentileAt(data, p, exclusive)
		}
	}
	r.RegisterDefault("PERCENTILE.INC", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgNumber, Min: f(0), Max: f(1)}},
		Fn:     percentileFn(false),
	})
	r.RegisterDefault("PERCENTILE.EXC", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgNumber, Min: f(0), Max: f(1)}},
		Fn:     percentileFn(true),
	})
	r.RegisterDefault("PERCENTILE", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgNumber, Min: f(0), Max: f(1)}},
		Fn:     percentileFn(false),
	})

	rankFn := func(exclusive bool) eval.KernelFunc {
		return func(state *eval.State, args []value.Value) value.Value {
			data := sortedCopy(numericValues(asRange(args[0])))
			xS, _ := value.AsScalar(args[1])
			x, _ := xS.NumberValue()
			n := len(data)
			if n < 2 {
				return value.ErrKind(cellerr.NUM)
			}
			if x < data[0] || x > data[n-1] {
				return value.ErrKind(cellerr.NA)
			}
			pos := percentRankPosition(data, x)
			var result float64
			if exclusive {
				excPos := pos * float64(n+1) / float64(n-1)
				if excPos <= 0 || excPos >= float64(n-1) {
					return value.ErrKind(cellerr.NA)
				}
				result = excPos / float64(n+1)
			} else {
				result = pos / float64(n-1)
			}
			if len(args) > 2 {
				digS, _ := value.AsScalar(args[2])
				digf, _ := digS.NumberValue()
				scale := math.Pow(10, digf)
				result = math.Round(result*scale) / scale
			}
			return value.Number(result)
		}
	}
	r.RegisterDefault("PERCENTRANK.INC", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgNumber},
			{Type: eval.ArgInteger, Optional: true, Default: value.Number(3), Min: f(1)}},
		Fn: rankFn(false),
	})
	r.RegisterDefault("PERCENTRANK.EXC", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgNumber},
			{Type: eval.ArgInteger, Optional: true, Default: value.Number(3), Min: f(1)}},
		Fn: rankFn(true),
	})
	r.RegisterDefault("PERCENTRANK", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgNumber},
			{Type: eval.ArgInteger, Optional: true, Default: value.Number(3), Min: f(1)}},
		Fn: rankFn(false),
	})
}

// percentileAt evaluates QUARTILE/PERCENTILE's INC (position =
// p*(n-1)) or EXC (position = p*(n+1)-1, valid only strictly inside
// the data) convention.
func percentileAt(data []float64, p float64, exclusive bool) value.Value {
	if len(data) == 0 {
		return value.ErrKind(cellerr.NUM)
	}
	sorted := sortedCopy(data)
	n := len(sorted)
	if !exclusive {
		return value.Number(interpolatedQuantile(sorted, p*float64(n-1)))
	}
	pos := p*float64(n+1) - 1
	if pos <= 0 || pos >= float64(n-1) {
		return value.ErrKind(cellerr.NUM)
	}
	return value.Number(interpolatedQuantile(sorted, pos))
}

// percentRankPosition returns the fractional rank (0..n-1) of x
// within sorted data via linear interpolation between bracketing
// values, matching PERCENTRANK's own inverse of QUARTILE.INC.
func percentRankPosition(sorted []float64, x float64) float64 {
	n := len(sorted)
	i := sort.SearchFloat64s(sorted, x)
	if i < n && sorted[i] == x {
		return float64(i)
	}
	if i == 0 {
		return 0
	}
	if i >= n {
		return float64(n - 1)
	}
	lo, hi := sorted[i-1], sorted[i]
	if hi == lo {
		return float64(i - 1)
	}
	frac := (x - lo) / (hi - lo)
	return float64(i-1) + frac
}

func registerMode(r *eval.Registry) {
	modeFn := func(state *eval.State, args []value.Value) value.Value {
		data := numericValues(asRange(args[0]))
		if len(data) == 0 {
			return value.ErrKind(cellerr.NA)
		}
		best, _, ok := singleMode(data)
		if !ok {
			return value.ErrKind(cellerr.NA)
		}
		return value.Number(best)
	}
	r.RegisterDefault("MODE", eval.Descriptor{Params: []eval.ArgSpec{rangeArg()}, Fn: modeFn})
	r.RegisterDefault("MODE.SNGL", eval.Descriptor{Params: []eval.ArgSpec{rangeArg()}, Fn: modeFn})

	r.RegisterDefault("MODE.MULT", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			data := numericValues(asRange(args[0]))
			modes := allModes(data)
			if len(modes) == 0 {
				return value.ErrKind(cellerr.NA)
			}
			rows := make([][]value.Scalar, len(modes))
			for i, m := range modes {
				rows[i] = []value.Scalar{value.Number(m)}
			}
			out, _ := value.NewRange(rows)
			return out
		},
	})
}

func singleMode(data []float64) (float64, int, bool) {
	counts := countOccurrences(data)
	order := sortedCopy(data)
	best, bestCount := 0.0, 0
	for _, v := range order {
		if c := counts[v]; c > bestCount {
			best, bestCount = v, c
		}
	}
	if bestCount < 2 {
		return 0, 0, false
	}
	return best, bestCount, true
}

func allModes(data []float64) []float64 {
	counts := countOccurrences(data)
	order := sortedCopy(data)
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount < 2 {
		return nil
	}
	var out []float64
	seen := map[float64]bool{}
	for _, v := range order {
		if counts[v] == maxCount && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func countOccurrences(data []float64) map[float64]int {
	counts := map[float64]int{}
	for _, v := range data {
		counts[v]++
	}
	return counts
}

func registerMisc(r *eval.Registry) {
	r.RegisterDefault("KURT", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			data := numericValues(asRange(args[0]))
			n := len(data)
			if n < 4 {
				return value.ErrKind(cellerr.DIV_BY_ZERO)
			}
			mean := meanOf(data)
			var m2, m4 float64
			for _, v := range data {
				d := v - mean
				m2 += d * d
				m4 += d * d * d * d
			}
			nf := float64(n)
			variance := m2 / (nf - 1)
			if variance == 0 {
				return value.ErrKind(cellerr.DIV_BY_ZERO)
			}
			sumPart := m4 / (variance * variance)
			term1 := nf * (nf + 1) / ((nf - 1) * (nf - 2) * (nf - 3))
			term2 := 3 * (nf - 1) * (nf - 1) / ((nf - 2) * (nf - 3))
			return value.Number(term1*sumPart - term2)
		},
	})

	r.RegisterDefault("TRIMMEAN", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgNumber, Min: f(0), Max: f(1)}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			data := sortedCopy(numericValues(asRange(args[0])))
			pS, _ := value.AsScalar(args[1])
			p, _ := pS.NumberValue()
			if p < 0 || p >= 1 {
				return value.ErrKind(cellerr.NUM)
			}
			n := len(data)
			trim := int(math.Floor(float64(n) * p / 2))
			if 2*trim >= n {
				return value.ErrKind(cellerr.NUM)
			}
			kept := data[trim : n-trim]
			return value.Number(meanOf(kept))
		},
	})

	r.RegisterDefault("PROB", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), rangeArg(), {Type: eval.ArgNumber},
			{Type: eval.ArgNumber, Optional: true}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			xs := numericValues(asRange(args[0]))
			probs := numericValues(asRange(args[1]))
			if len(xs) != len(probs) {
				return value.ErrKind(cellerr.NA)
			}
			var total float64
			for _, p := range probs {
				if p < 0 || p > 1 {
					return value.ErrKind(cellerr.NUM)
				}
				total += p
			}
			if math.Abs(total-1) >= 1e-10 {
				return value.ErrKind(cellerr.NUM)
			}
			lowerS, _ := value.AsScalar(args[2])
			lower, _ := lowerS.NumberValue()
			upper := lower
			if len(args) > 3 {
				upperS, _ := value.AsScalar(args[3])
				upper, _ = upperS.NumberValue()
			}
			var sum float64
			for i, x := range xs {
				if x >= lower && x <= upper {
					sum += probs[i]
				}
			}
			return value.Number(sum)
		},
	})

	r.RegisterDefault("ERF.PRECISE", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgNumber}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			sc, _ := value.AsScalar(args[0])
			n, _ := sc.NumberValue()
			return value.Number(math.Erf(n))
		},
	})
	r.RegisterDefault("ERFC.PRECISE", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgNumber}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			sc, _ := value.AsScalar(args[0])
			n, _ := sc.NumberValue()
			return value.Number(math.Erfc(n))
		},
	})

	r.RegisterGoogleSheets("MARGINOFERROR", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgNumber, Min: f(0), Max: f(1)}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			data := numericValues(asRange(args[0]))
			n := len(data)
			if n < 2 {
				return value.ErrKind(cellerr.DIV_BY_ZERO)
			}
			confS, _ := value.AsScalar(args[1])
			conf, _ := confS.NumberValue()
			return value.Number(conf * stddevSample(data) / math.Sqrt(float64(n)))
		},
	})
}

func meanOf(data []float64) float64 {
	var sum float64
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func stddevSample(data []float64) float64 {
	mean := meanOf(data)
	var ss float64
	for _, v := range data {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(data)-1))
}

// pairedNumeric collects (y, x) pairs from known_y/known_x in
// lockstep by linear position, skipping any pair where either side
// fails to coerce numerically.
func pairedNumeric(knownY, knownX *value.Range) ([]float64, []float64, bool) {
	if knownY.Width()*knownY.Height() != knownX.Width()*knownX.Height() {
		return nil, nil, false
	}
	var ys, xs []float64
	yIt := knownY.ValuesTopLeftToBottomRight()
	xIt := knownX.ValuesTopLeftToBottomRight()
	for {
		y, ok := yIt()
		if !ok {
			break
		}
		x, _ := xIt()
		if y.IsNumber() && x.IsNumber() {
			yf, _ := y.NumberValue()
			xf, _ := x.NumberValue()
			ys = append(ys, yf)
			xs = append(xs, xf)
		}
	}
	return xs, ys, true
}

func registerRegressionHelpers(r *eval.Registry) {
	r.RegisterDefault("INTERCEPT", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), rangeArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			xs, ys, ok := pairedNumeric(asRange(args[0]), asRange(args[1]))
			if !ok || len(xs) < 2 {
				return value.ErrKind(cellerr.NA)
			}
			_, b := olsFit(xs, ys)
			return value.Number(b)
		},
	})
	r.RegisterDefault("FORECAST", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgNumber}, rangeArg(), rangeArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			xs, ys, ok := pairedNumeric(asRange(args[1]), asRange(args[2]))
			if !ok || len(xs) < 2 {
				return value.ErrKind(cellerr.NA)
			}
			m, b := olsFit(xs, ys)
			xvS, _ := value.AsScalar(args[0])
			xv, _ := xvS.NumberValue()
			return value.Number(m*xv + b)
		},
	})
	r.RegisterGoogleSheets("AVERAGE.WEIGHTED", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), rangeArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			values := asRange(args[0])
			weights := asRange(args[1])
			if values.Width()*values.Height() != weights.Width()*weights.Height() {
				return value.ErrKind(cellerr.NA)
			}
			vIt := values.ValuesTopLeftToBottomRight()
			wIt := weights.ValuesTopLeftToBottomRight()
			var sumVW, sumW float64
			for {
				v, ok := vIt()
				if !ok {
					break
				}
				w, _ := wIt()
				vf, vOk := v.NumberValue()
				wf, wOk := w.NumberValue()
				if !vOk || !wOk {
					return value.ErrKind(cellerr.VALUE)
				}
				if wf < 0 {
					return value.ErrKind(cellerr.NUM)
				}
				sumVW += vf * wf
				sumW += wf
			}
			if sumW == 0 {
				return value.ErrKind(cellerr.DIV_BY_ZERO)
			}
			return value.Number(sumVW / sumW)
		},
	})
}

// olsFit is the two-point-minimum ordinary least squares slope and
// intercept shared by INTERCEPT/FORECAST (kernels/array's GROWTH,
// TREND, LINEST, LOGEST duplicate this fit with log-mapping support
// the simpler INTERCEPT/FORECAST pair does not need).
func olsFit(xs, ys []float64) (m, b float64) {
	n := float64(len(xs))
	var sx, sy, sxx, sxy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		sxy += xs[i] * ys[i]
	}
	denom := n*sxx - sx*sx
	if denom == 0 {
		denom = 1e-300
	}
	m = (n*sxy - sx*sy) / denom
	b = (sy - m*sx) / n
	return m, b
}
