package finance

import (
	"math"

	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// xirrCashflow pairs a value with its day offset from the first date,
// in days, the unit spec §4.12.5's Σ v_i (1+r)^(-(d_i-d_0)/365) needs.
type xirrCashflow struct {
	value float64
	days  float64
}

func xirr(flows []xirrCashflow, guess float64) (float64, *cellerr.Error) {
	if len(flows) < 2 {
		e := cellerr.New(cellerr.NUM)
		return 0, &e
	}
	var hasPos, hasNeg bool
	for _, cf := range flows {
		if cf.value > 0 {
			hasPos = true
		}
		if cf.value < 0 {
			hasNeg = true
		}
	}
	if !hasPos || !hasNeg {
		e := cellerr.New(cellerr.NUM)
		return 0, &e
	}
	fn := func(r float64) (float64, *cellerr.Error) {
		if r <= -1 {
			e := cellerr.New(cellerr.NUM)
			return 0, &e
		}
		var sum float64
		for _, cf := range flows {
			sum += cf.value * math.Pow(1+r, -cf.days/365)
		}
		return sum, nil
	}
	dfn := func(r float64) (float64, *cellerr.Error) {
		if r <= -1 {
			e := cellerr.New(cellerr.NUM)
			return 0, &e
		}
		var sum float64
		for _, cf := range flows {
			sum += cf.value * (-cf.days / 365) * math.Pow(1+r, -cf.days/365-1)
		}
		return sum, nil
	}
	return newton(fn, dfn, guess)
}

func registerXIRR(r *eval.Registry) {
	r.RegisterDefault("XIRR", eval.Descriptor{
		Params: []eval.ArgSpec{
			rangeArg(), rangeArg(),
			{Type: eval.ArgNumber, Optional: true, Default: value.Number(0.1)},
		},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			values := asRange(args[0])
			dates := asRange(args[1])
			guessS, _ := value.AsScalar(args[2])
			guess, _ := guessS.NumberValue()
			if values.Width()*values.Height() != dates.Width()*dates.Height() {
				return value.ErrKind(cellerr.NUM)
			}
			vIt := values.ValuesTopLeftToBottomRight()
			dIt := dates.ValuesTopLeftToBottomRight()
			var flows []xirrCashflow
			var d0 int64
			first := true
			for {
				v, ok := vIt()
				if !ok {
					break
				}
				d, _ := dIt()
				vf, vOk := v.NumberValue()
				df, dOk := d.NumberValue()
				if !vOk || !dOk {
					return value.ErrKind(cellerr.VALUE)
				}
				serial := int64(df)
				if first {
					d0 = serial
					first = false
				}
				flows = append(flows, xirrCashflow{value: vf, days: float64(serial - d0)})
			}
			rate, err := xirr(flows, guess)
			if err != nil {
				return value.Err(*err)
			}
			return value.Number(rate)
		},
	})
}
