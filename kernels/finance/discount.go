package finance

import (
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// discountArgs is the (settlement, maturity, ..., basis) shape common
// to the discount-instrument family (DISC/INTRATE/RECEIVED/PRICEDISC/
// YIELDDISC), which never deals in coupon periods.
func discountArgs(rest ...eval.ArgSpec) []eval.ArgSpec {
	out := []eval.ArgSpec{dateArg(), dateArg()}
	out = append(out, rest...)
	out = append(out, basisArg())
	return out
}

func positiveNumber() eval.ArgSpec { return eval.ArgSpec{Type: eval.ArgNumber, GreaterThan: f(0)} }

func registerDiscountInstruments(r *eval.Registry) {
	r.RegisterDefault("DISC", eval.Descriptor{
		Params: discountArgs(positiveNumber(), positiveNumber()),
		Fn: func(state *eval.State, args []value.Value) value.Value {
			settlement, maturity := scalarDate(state, args[0]), scalarDate(state, args[1])
			pr, redemption := scalarNumber(args[2]), scalarNumber(args[3])
			basis := Basis(int(scalarNumber(args[4])))
			yf := yearFraction(state, settlement, maturity, basis)
			if yf == 0 {
				return value.ErrKind(cellerr.DIV_BY_ZERO)
			}
			return value.Number((redemption - pr) / redemption / yf)
		},
	})
	r.RegisterDefault("INTRATE", eval.Descriptor{
		Params: discountArgs(positiveNumber(), positiveNumber()),
		Fn: func(state *eval.State, args []value.Value) value.Value {
			settlement, maturity := scalarDate(state, args[0]), scalarDate(state, args[1])
			investment, redemption := scalarNumber(args[2]), scalarNumber(args[3])
			basis := Basis(int(scalarNumber(args[4])))
			yf := yearFraction(state, settlement, maturity, basis)
			if yf == 0 || investment == 0 {
				return value.ErrKind(cellerr.DIV_BY_ZERO)
			}
			return value.Number((redemption - investment) / investment / yf)
		},
	})
	r.RegisterDefault("RECEIVED", eval.Descriptor{
		Params: discountArgs(positiveNumber(), positiveNumber()),
		Fn: func(state *eval.State, args []value.Value) value.Value {
			settlement, maturity := scalarDate(state, args[0]), scalarDate(state, args[1])
			investment, discount := scalarNumber(args[2]), scalarNumber(args[3])
			basis := Basis(int(scalarNumber(args[4])))
			yf := yearFraction(state, settlement, maturity, basis)
			denom := 1 - discount*yf
			if denom == 0 {
				return value.ErrKind(cellerr.DIV_BY_ZERO)
			}
			return value.Number(investment / denom)
		},
	})
	r.RegisterDefault("PRICEDISC", eval.Descriptor{
		Params: discountArgs(positiveNumber(), positiveNumber()),
		Fn: func(state *eval.State, args []value.Value) value.Value {
			settlement, maturity := scalarDate(state, args[0]), scalarDate(state, args[1])
			discount, redemption := scalarNumber(args[2]), scalarNumber(args[3])
			basis := Basis(int(scalarNumber(args[4])))
			yf := yearFraction(state, settlement, maturity, basis)
			return value.Number(redemption * (1 - discount*yf))
		},
	})
	r.RegisterDefault("YIELDDISC", eval.Descriptor{
		Params: discountArgs(positiveNumber(), positiveNumber()),
		Fn: func(state *eval.State, args []value.Value) value.Value {
			settlement, maturity := scalarDate(state, args[0]), scalarDate(state, args[1])
			pr, redemption := scalarNumber(args[2]), scalarNumber(args[3])
			basis := Basis(int(scalarNumber(args[4])))
			yf := yearFraction(state, settlement, maturity, basis)
			if pr == 0 || yf == 0 {
				return value.ErrKind(cellerr.DIV_BY_ZERO)
			}
			return value.Number((redemption/pr - 1) / yf)
		},
	})

	r.RegisterDefault("PRICEMAT", eval.Descriptor{
		Params: []eval.ArgSpec{dateArg(), dateArg(), dateArg(), positiveNumber(), positiveNumber(), basisArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			settlement, maturity, issue := scalarDate(state, args[0]), scalarDate(state, args[1]), scalarDate(state, args[2])
			rate, yld := scalarNumber(args[3]), scalarNumber(args[4])
			basis := Basis(int(scalarNumber(args[5])))
			dim := yearFraction(state, issue, maturity, basis)
			dis := yearFraction(state, issue, settlement, basis)
			dsm := yearFraction(state, settlement, maturity, basis)
			denom := 1 + dsm*yld
			if denom == 0 {
				return value.ErrKind(cellerr.DIV_BY_ZERO)
			}
			p := (100 + dim*rate*100) / denom
			p -= dis * rate * 100
			return value.Number(p)
		},
	})
	r.RegisterDefault("YIELDMAT", eval.Descriptor{
		Params: []eval.ArgSpec{dateArg(), dateArg(), dateArg(), positiveNumber(), positiveNumber(), basisArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			settlement, maturity, issue := scalarDate(state, args[0]), scalarDate(state, args[1]), scalarDate(state, args[2])
			rate, pr := scalarNumber(args[3]), scalarNumber(args[4])
			basis := Basis(int(scalarNumber(args[5])))
			dim := yearFraction(state, issue, maturity, basis)
			dis := yearFraction(state, issue, settlement, basis)
			dsm := yearFraction(state, settlement, maturity, basis)
			denom := pr/100 + dis*rate
			if denom == 0 || dsm == 0 {
				return value.ErrKind(cellerr.DIV_BY_ZERO)
			}
			numerator := (1+dim*rate)/denom - 1
			return value.Number(numerator / dsm)
		},
	})
}
