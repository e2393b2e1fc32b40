package array

import (
	"math"

	"github.com/gscompat/formulacore/ast"
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// linearFit performs ordinary least squares of y = m*x + b (or y =
// m*x with b forced to 0 when useConst is false) and returns the
// slope, intercept, and the statistics LINEST/LOGEST report when
// stats is requested.
type fitResult struct {
	m, b       float64
	seM, seB   float64
	r2, seY    float64
	fStat, df  float64
	ssReg, ssR float64
}

func linearFit(xs, ys []float64, useConst bool) fitResult {
	n := float64(len(xs))
	var sx, sy, sxx, sxy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		sxy += xs[i] * ys[i]
	}
	var m, b float64
	if useConst {
		denom := n*sxx - sx*sx
		if denom == 0 {
			denom = 1e-300
		}
		m = (n*sxy - sx*sy) / denom
		b = (sy - m*sx) / n
	} else {
		denom := sxx
		if denom == 0 {
			denom = 1e-300
		}
		m = sxy / denom
		b = 0
	}

	var ssResid, ssTotal float64
	meanY := sy / n
	for i := range xs {
		pred := m*xs[i] + b
		ssResid += (ys[i] - pred) * (ys[i] - pred)
		ssTotal += (ys[i] - meanY) * (ys[i] - meanY)
	}
	df := n - 2
	if !useConst {
		df = n - 1
	}
	if df < 1 {
		df = 1
	}
	seY := math.Sqrt(ssResid / df)
	var seM, seB float64
	denomXX := sxx - sx*sx/n
	if denomXX > 0 {
		seM = seY / math.Sqrt(denomXX)
	}
	if useConst && denomXX > 0 {
		seB = seY * math.Sqrt(sxx/(n*denomXX))
	}
	r2 := 1.0
	if ssTotal != 0 {
		r2 = 1 - ssResid/ssTotal
	}
	var fStat float64
	if ssResid != 0 {
		fStat = (r2 / (1 - r2)) * (df / 1)
	}
	return fitResult{m: m, b: b, seM: seM, seB: seB, r2: r2, seY: seY, fStat: fStat, df: df, ssReg: ssTotal - ssResid, ssR: ssResid}
}

func collectPairs(knownY, knownX *value.Range) ([]float64, []float64) {
	var ys, xs []float64
	yIt := knownY.ValuesTopLeftToBottomRight()
	var xIt func() (value.Scalar, bool)
	if knownX != nil {
		xIt = knownX.ValuesTopLeftToBottomRight()
	}
	i := 0
	for {
		y, ok := yIt()
		if !ok {
			break
		}
		yf, yOk := y.NumberValue()
		var xf float64 = float64(i + 1)
		xOk := true
		if xIt != nil {
			x, xok := xIt()
			if !xok {
				break
			}
			xf, xOk = x.NumberValue()
		}
		if yOk && xOk {
			ys = append(ys, yf)
			xs = append(xs, xf)
		}
		i++
	}
	return xs, ys
}

// literalBool reads a literal Bool node's value, reporting ok=false
// when the argument is absent or not a literal (e.g. a cell reference
// or nested call), matching literalInt's treatment of SizeOfResultArray
// inputs that only ever see the raw Ast.
func literalBool(args []ast.Node, idx int) (bool, bool) {
	if idx >= len(args) {
		return false, false
	}
	b, ok := args[idx].(ast.Bool)
	return b.Value, ok
}

// rangeDims recovers the static extent of a literal area reference,
// used to size-predict TREND/GROWTH output without evaluating the
// argument. Whole-column/row refs and anything but a literal area or
// cell reference are not statically sized.
func rangeDims(n ast.Node) (rows, cols int, ok bool) {
	switch t := n.(type) {
	case ast.CellReference:
		return 1, 1, true
	case ast.RangeReference:
		if t.Ref.Kind != ast.AreaRef {
			return 0, 0, false
		}
		return t.Ref.Row1 - t.Ref.Row0 + 1, t.Ref.Col1 - t.Ref.Col0 + 1, true
	default:
		return 0, 0, false
	}
}

// linestSize conservatively predicts LINEST/LOGEST's spill: 2 columns
// always, 5 rows unless the stats argument is a literal false.
func linestSize(state *eval.State, args []ast.Node) (rows, cols int) {
	if b, ok := literalBool(args, 3); ok && !b {
		return 1, 2
	}
	return 5, 2
}

// trendGrowthSize predicts TREND/GROWTH's spill from new_x's static
// extent when literal, falling back to known_x then known_y; a
// computed/nested new_x can't be sized without evaluating it, so the
// fallback is the best a static predictor can offer.
func trendGrowthSize(state *eval.State, args []ast.Node) (rows, cols int) {
	for _, idx := range []int{2, 1, 0} {
		if idx >= len(args) {
			continue
		}
		if r, c, ok := rangeDims(args[idx]); ok {
			return r, c
		}
	}
	return 1, 1
}

func registerRegression(r *eval.Registry) {
	r.RegisterDefault("LINEST", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(),
			{Type: eval.ArgRange, Optional: true},
			{Type: eval.ArgBoolean, Optional: true, Default: value.Bool(true)},
			{Type: eval.ArgBoolean, Optional: true, Default: value.Bool(false)}},
		SizeOfResultArray: linestSize,
		Fn:                func(state *eval.State, args []value.Value) value.Value { return linestLogest(args, false) },
	})
	r.RegisterDefault("LOGEST", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(),
			{Type: eval.ArgRange, Optional: true},
			{Type: eval.ArgBoolean, Optional: true, Default: value.Bool(true)},
			{Type: eval.ArgBoolean, Optional: true, Default: value.Bool(false)}},
		SizeOfResultArray: linestSize,
		Fn:                func(state *eval.State, args []value.Value) value.Value { return linestLogest(args, true) },
	})
	r.RegisterDefault("TREND", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(),
			{Type: eval.ArgRange, Optional: true},
			{Type: eval.ArgRange, Optional: true},
			{Type: eval.ArgBoolean, Optional: true, Default: value.Bool(true)}},
		SizeOfResultArray: trendGrowthSize,
		Fn:                func(state *eval.State, args []value.Value) value.Value { return trendGrowth(args, false) },
	})
	r.RegisterDefault("GROWTH", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(),
			{Type: eval.ArgRange, Optional: true},
			{Type: eval.ArgRange, Optional: true},
			{Type: eval.ArgBoolean, Optional: true, Default: value.Bool(true)}},
		SizeOfResultArray: trendGrowthSize,
		Fn:                func(state *eval.State, args []value.Value) value.Value { return trendGrowth(args, true) },
	})
}

// optionalRange recovers an omitted ArgRange parameter. The evaluator
// always hands Fn a *value.Range for ArgRange-typed params, wrapping a
// missing optional argument as a 1x1 range holding an empty scalar;
// this turns that placeholder back into nil so callers can tell
// "omitted" from "a real one-cell range".
func optionalRange(v value.Value) *value.Range {
	rng := value.ToRange(v)
	if rng.Height() == 1 && rng.Width() == 1 && rng.At(0, 0).IsEmpty() {
		return nil
	}
	return rng
}

func linestLogest(args []value.Value, applyLog bool) value.Value {
	knownY := asRange(args[0])
	knownX := optionalRange(args[1])
	useConstS, _ := value.AsScalar(args[2])
	statsS, _ := value.AsScalar(args[3])
	useConst := useConstS.RawBool()
	xs, ys := collectPairs(knownY, knownX)
	if len(xs) < 2 {
		return value.ErrKind(cellerr.VALUE)
	}
	if applyLog {
		for i := range ys {
			if ys[i] <= 0 {
				return value.ErrKind(cellerr.NUM)
			}
			ys[i] = math.Log(ys[i])
		}
	}
	fit := linearFit(xs, ys, useConst)
	mOut, bOut := fit.m, fit.b
	if applyLog {
		mOut, bOut = math.Exp(fit.m), math.Exp(fit.b)
	}
	if !statsS.RawBool() {
		out, _ := value.NewRange([][]value.Scalar{{value.Number(mOut), value.Number(bOut)}})
		return out
	}
	rows := [][]value.Scalar{
		{value.Number(mOut), value.Number(bOut)},
		{value.Number(fit.seM), value.Number(fit.seB)},
		{value.Number(fit.r2), value.Number(fit.seY)},
		{value.Number(fit.fStat), value.Number(fit.df)},
		{value.Number(fit.ssReg), value.Number(fit.ssR)},
	}
	out, _ := value.NewRange(rows)
	return out
}

func trendGrowth(args []value.Value, isGrowth bool) value.Value {
	knownY := asRange(args[0])
	knownX := optionalRange(args[1])
	newX := optionalRange(args[2])
	useConstS, _ := value.AsScalar(args[3])
	useConst := useConstS.RawBool()

	xs, ys := collectPairs(knownY, knownX)
	if len(xs) < 2 {
		return value.ErrKind(cellerr.VALUE)
	}
	if isGrowth {
		for i := range ys {
			if ys[i] <= 0 {
				return value.ErrKind(cellerr.NUM)
			}
			ys[i] = math.Log(ys[i])
		}
	}
	fit := linearFit(xs, ys, useConst)

	target := newX
	if target == nil {
		target = knownX
	}
	if target == nil {
		target = knownY
	}

	rows := make([][]value.Scalar, target.Height())
	for i := 0; i < target.Height(); i++ {
		row := make([]value.Scalar, target.Width())
		for j := 0; j < target.Width(); j++ {
			xv, ok := target.At(i, j).NumberValue()
			if !ok {
				xv = float64(i*target.Width() + j + 1)
			}
			pred := fit.m*xv + fit.b
			if isGrowth {
				pred = math.Exp(pred)
			}
			row[j] = value.Number(pred)
		}
		rows[i] = row
	}
	out, _ := value.NewRange(rows)
	return out
}
