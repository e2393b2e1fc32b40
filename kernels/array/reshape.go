package array

import (
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

func registerReshape(r *eval.Registry) {
	r.RegisterDefault("FLATTEN", eval.Descriptor{
		Params:         []eval.ArgSpec{rangeArg()},
		RepeatLastArgs: 1,
		Fn: func(state *eval.State, args []value.Value) value.Value {
			var rows [][]value.Scalar
			for _, a := range args {
				rng := asRange(a)
				it := rng.ValuesTopLeftToBottomRight()
				for {
					s, ok := it()
					if !ok {
						break
					}
					rows = append(rows, []value.Scalar{s})
				}
			}
			if len(rows) == 0 {
				return value.ErrKind(cellerr.VALUE)
			}
			out, err := value.NewRange(rows)
			if err != nil {
				return value.ErrKind(cellerr.VALUE)
			}
			return out
		},
	})

	r.RegisterDefault("CHOOSECOLS", eval.Descriptor{
		Params:         []eval.ArgSpec{rangeArg(), {Type: eval.ArgInteger}},
		RepeatLastArgs: 1,
		Fn: func(state *eval.State, args []value.Value) value.Value {
			rng := asRange(args[0])
			var cols []int
			for _, a := range args[1:] {
				s, _ := value.AsScalar(a)
				f, _ := s.NumberValue()
				idx := resolveIndex(int(f), rng.Width())
				if idx < 0 {
					return value.ErrKind(cellerr.VALUE)
				}
				cols = append(cols, idx)
			}
			rows := make([][]value.Scalar, rng.Height())
			for i := 0; i < rng.Height(); i++ {
				row := make([]value.Scalar, len(cols))
				for j, c := range cols {
					row[j] = rng.At(i, c)
				}
				rows[i] = row
			}
			out, err := value.NewRange(rows)
			if err != nil {
				return value.ErrKind(cellerr.VALUE)
			}
			return out
		},
	})
	r.RegisterDefault("CHOOSEROWS", eval.Descriptor{
		Params:         []eval.ArgSpec{rangeArg(), {Type: eval.ArgInteger}},
		RepeatLastArgs: 1,
		Fn: func(state *eval.State, args []value.Value) value.Value {
			rng := asRange(args[0])
			var idxs []int
			for _, a := range args[1:] {
				s, _ := value.AsScalar(a)
				f, _ := s.NumberValue()
				idx := resolveIndex(int(f), rng.Height())
				if idx < 0 {
					return value.ErrKind(cellerr.VALUE)
				}
				idxs = append(idxs, idx)
			}
			rows := make([][]value.Scalar, len(idxs))
			for i, ri := range idxs {
				row := make([]value.Scalar, rng.Width())
				for j := 0; j < rng.Width(); j++ {
					row[j] = rng.At(ri, j)
				}
				rows[i] = row
			}
			out, err := value.NewRange(rows)
			if err != nil {
				return value.ErrKind(cellerr.VALUE)
			}
			return out
		},
	})

	r.RegisterDefault("HSTACK", eval.Descriptor{
		Params:         []eval.ArgSpec{rangeArg()},
		RepeatLastArgs: 1,
		Fn: func(state *eval.State, args []value.Value) value.Value {
			ranges := make([]*value.Range, len(args))
			maxH, totalW := 0, 0
			for i, a := range args {
				ranges[i] = asRange(a)
				if ranges[i].Height() > maxH {
					maxH = ranges[i].Height()
				}
				totalW += ranges[i].Width()
			}
			rows := make([][]value.Scalar, maxH)
			for i := 0; i < maxH; i++ {
				row := make([]value.Scalar, 0, totalW)
				for _, rng := range ranges {
					for j := 0; j < rng.Width(); j++ {
						row = append(row, rng.At(i, j))
					}
				}
				rows[i] = row
			}
			out, err := value.NewRange(rows)
			if err != nil {
				return value.ErrKind(cellerr.VALUE)
			}
			return out
		},
	})
	r.RegisterDefault("VSTACK", eval.Descriptor{
		Params:         []eval.ArgSpec{rangeArg()},
		RepeatLastArgs: 1,
		Fn: func(state *eval.State, args []value.Value) value.Value {
			ranges := make([]*value.Range, len(args))
			maxW := 0
			for i, a := range args {
				ranges[i] = asRange(a)
				if ranges[i].Width() > maxW {
					maxW = ranges[i].Width()
				}
			}
			var rows [][]value.Scalar
			for _, rng := range ranges {
				for i := 0; i < rng.Height(); i++ {
					row := make([]value.Scalar, maxW)
					for j := 0; j < maxW; j++ {
						if j < rng.Width() {
							row[j] = rng.At(i, j)
						} else {
							row[j] = value.Empty()
						}
					}
					rows = append(rows, row)
				}
			}
			out, err := value.NewRange(rows)
			if err != nil {
				return value.ErrKind(cellerr.VALUE)
			}
			return out
		},
	})

	r.RegisterDefault("WRAPCOLS", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgInteger, GreaterThan: f(0)},
			{Type: eval.ArgScalar, Optional: true, Default: value.Empty()}},
		Fn: func(state *eval.State, args []value.Value) value.Value { return wrap(args, true) },
	})
	r.RegisterDefault("WRAPROWS", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgInteger, GreaterThan: f(0)},
			{Type: eval.ArgScalar, Optional: true, Default: value.Empty()}},
		Fn: func(state *eval.State, args []value.Value) value.Value { return wrap(args, false) },
	})

	r.RegisterDefault("TOCOL", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgInteger, Optional: true, Default: value.Number(0)},
			{Type: eval.ArgBoolean, Optional: true, Default: value.Bool(false)}},
		Fn: func(state *eval.State, args []value.Value) value.Value { return toLinear(args, true) },
	})
	r.RegisterDefault("TOROW", eval.Descriptor{
		Params: []eval.ArgSpec{rangeArg(), {Type: eval.ArgInteger, Optional: true, Default: value.Number(0)},
			{Type: eval.ArgBoolean, Optional: true, Default: value.Bool(false)}},
		Fn: func(state *eval.State, args []value.Value) value.Value { return toLinear(args, false) },
	})
}

func resolveIndex(idx, n int) int {
	if idx > 0 {
		idx--
	} else if idx < 0 {
		idx = n + idx
	} else {
		return -1
	}
	if idx < 0 || idx >= n {
		return -1
	}
	return idx
}

func wrap(args []value.Value, byCols bool) value.Value {
	rng := asRange(args[0])
	kS, _ := value.AsScalar(args[1])
	kf, _ := kS.NumberValue()
	k := int(kf)
	pad, _ := value.AsScalar(args[2])

	var flat []value.Scalar
	it := rng.ValuesTopLeftToBottomRight()
	for {
		s, ok := it()
		if !ok {
			break
		}
		flat = append(flat, s)
	}
	n := len(flat)
	groups := (n + k - 1) / k
	for len(flat) < groups*k {
		flat = append(flat, pad)
	}

	if byCols {
		rows := make([][]value.Scalar, k)
		for i := 0; i < k; i++ {
			rows[i] = make([]value.Scalar, groups)
		}
		for idx, s := range flat {
			col := idx / k
			row := idx % k
			rows[row][col] = s
		}
		out, err := value.NewRange(rows)
		if err != nil {
			return value.ErrKind(cellerr.VALUE)
		}
		return out
	}
	rows := make([][]value.Scalar, groups)
	for i := 0; i < groups; i++ {
		rows[i] = flat[i*k : i*k+k]
	}
	out, err := value.NewRange(rows)
	if err != nil {
		return value.ErrKind(cellerr.VALUE)
	}
	return out
}

func toLinear(args []value.Value, toCol bool) value.Value {
	rng := asRange(args[0])
	ignoreS, _ := value.AsScalar(args[1])
	ignore := int(func() float64 { f, _ := ignoreS.NumberValue(); return f }())
	scanByColumn, _ := value.AsScalar(args[2])

	var flat []value.Scalar
	if scanByColumn.RawBool() {
		for c := 0; c < rng.Width(); c++ {
			for rr := 0; rr < rng.Height(); rr++ {
				flat = append(flat, rng.At(rr, c))
			}
		}
	} else {
		it := rng.ValuesTopLeftToBottomRight()
		for {
			s, ok := it()
			if !ok {
				break
			}
			flat = append(flat, s)
		}
	}

	filtered := flat[:0]
	for _, s := range flat {
		if (ignore == 1 || ignore == 3) && s.IsEmpty() {
			continue
		}
		if (ignore == 2 || ignore == 3) && s.IsError() {
			continue
		}
		filtered = append(filtered, s)
	}
	if len(filtered) == 0 {
		return value.ErrKind(cellerr.VALUE)
	}

	if toCol {
		rows := make([][]value.Scalar, len(filtered))
		for i, s := range filtered {
			rows[i] = []value.Scalar{s}
		}
		out, err := value.NewRange(rows)
		if err != nil {
			return value.ErrKind(cellerr.VALUE)
		}
		return out
	}
	out, err := value.NewRange([][]value.Scalar{filtered})
	if err != nil {
		return value.ErrKind(cellerr.VALUE)
	}
	return out
}
