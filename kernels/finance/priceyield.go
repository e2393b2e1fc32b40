package finance

import (
	"math"

	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// couponSchedule bundles the coupon-period quantities PRICE/YIELD/
// DURATION share: N (COUPNUM), E (COUPDAYS), DSC (days settlement to
// next coupon), and A (COUPDAYBS, days previous coupon to settlement).
type couponSchedule struct {
	n        int
	e, dsc, a float64
}

func schedule(state *eval.State, settlement, maturity eval.SimpleDate, frequency int, basis Basis) couponSchedule {
	pcd, ncd := couponDates(state, settlement, maturity, frequency)
	e := couponPeriodDays(state, pcd, ncd, frequency, basis)
	a := yearFraction(state, pcd, settlement, basis) * basisDenominator(basis, frequency)
	n := couponCount(state, settlement, maturity, frequency)
	return couponSchedule{n: n, e: e, dsc: e - a, a: a}
}

func bondPriceArgs() []eval.ArgSpec {
	return []eval.ArgSpec{
		dateArg(), dateArg(),
		{Type: eval.ArgNumber, Min: f(0)},
		{Type: eval.ArgNumber, Min: f(0)},
		{Type: eval.ArgNumber, Min: f(0)},
		{Type: eval.ArgInteger, Min: f(1), Max: f(4)},
		basisArg(),
	}
}

// bondPrice implements spec §4.12.3's PRICE formula, with the
// single-period fast path when N==1.
func bondPrice(state *eval.State, settlement, maturity eval.SimpleDate, rate, yld, redemption float64, frequency int, basis Basis) (float64, *cellerr.Error) {
	fq := float64(frequency)
	base := 1 + yld/fq
	if base <= 0 {
		e := cellerr.New(cellerr.NUM)
		return 0, &e
	}
	sch := schedule(state, settlement, maturity, frequency, basis)
	if sch.e == 0 {
		e := cellerr.New(cellerr.NUM)
		return 0, &e
	}
	dscOverE := sch.dsc / sch.e
	coupon := 100 * rate / fq
	if sch.n <= 1 {
		p := (redemption + coupon) / (1 + dscOverE*yld/fq)
		p -= coupon * (sch.a / sch.e)
		return p, nil
	}
	var sum float64
	for k := 1; k <= sch.n; k++ {
		exp := float64(k-1) + dscOverE
		sum += coupon / math.Pow(base, exp)
	}
	lastExp := float64(sch.n-1) + dscOverE
	sum += redemption / math.Pow(base, lastExp)
	sum -= coupon * (sch.a / sch.e)
	return sum, nil
}

func registerPriceYield(r *eval.Registry) {
	r.RegisterDefault("PRICE", eval.Descriptor{
		Params: bondPriceArgs(),
		Fn: func(state *eval.State, args []value.Value) value.Value {
			settlement, maturity, rate, yld, redemption, frequency, basis := priceArgsOf(state, args)
			p, err := bondPrice(state, settlement, maturity, rate, yld, redemption, frequency, basis)
			if err != nil {
				return value.Err(*err)
			}
			return value.Number(p)
		},
	})
	r.RegisterDefault("YIELD", eval.Descriptor{
		Params: bondPriceArgs(),
		Fn: func(state *eval.State, args []value.Value) value.Value {
			settlement, maturity, rate, price, redemption, frequency, basis := priceArgsOf(state, args)
			const h = 1e-6
			fn := func(y float64) (float64, *cellerr.Error) {
				p, err := bondPrice(state, settlement, maturity, rate, y, redemption, frequency, basis)
				if err != nil {
					return 0, err
				}
				return p - price, nil
			}
			dfn := func(y float64) (float64, *cellerr.Error) {
				p1, err := fn(y + h)
				if err != nil {
					return 0, err
				}
				p0, err := fn(y - h)
				if err != nil {
					return 0, err
				}
				return (p1 - p0) / (2 * h), nil
			}
			guess := rate
			if guess == 0 {
				guess = 0.05
			}
			y, err := newton(fn, dfn, guess)
			if err != nil {
				return value.Err(*err)
			}
			return value.Number(y)
		},
	})
}

// priceArgsOf unpacks the shared (settlement, maturity, rate, yld-or-
// price, redemption, frequency, basis) argument shape PRICE/YIELD
// both take, the second numeric argument meaning yield for PRICE and
// price for YIELD -- the caller names it accordingly.
func priceArgsOf(state *eval.State, args []value.Value) (settlement, maturity eval.SimpleDate, rate, second, redemption float64, frequency int, basis Basis) {
	settlement = scalarDate(state, args[0])
	maturity = scalarDate(state, args[1])
	rate = scalarNumber(args[2])
	second = scalarNumber(args[3])
	redemption = scalarNumber(args[4])
	frequency = int(scalarNumber(args[5]))
	basis = Basis(int(scalarNumber(args[6])))
	return
}

func registerDuration(r *eval.Registry) {
	durationArgs := []eval.ArgSpec{
		dateArg(), dateArg(),
		{Type: eval.ArgNumber, Min: f(0)},
		{Type: eval.ArgNumber, Min: f(0)},
		{Type: eval.ArgInteger, Min: f(1), Max: f(4)},
		basisArg(),
	}
	duration := func(state *eval.State, args []value.Value) (float64, *cellerr.Error) {
		settlement := scalarDate(state, args[0])
		maturity := scalarDate(state, args[1])
		coupon := scalarNumber(args[2])
		yld := scalarNumber(args[3])
		frequency := int(scalarNumber(args[4]))
		basis := Basis(int(scalarNumber(args[5])))
		fq := float64(frequency)
		base := 1 + yld/fq
		if base <= 0 {
			e := cellerr.New(cellerr.NUM)
			return 0, &e
		}
		sch := schedule(state, settlement, maturity, frequency, basis)
		if sch.e == 0 {
			e := cellerr.New(cellerr.NUM)
			return 0, &e
		}
		dscOverE := sch.dsc / sch.e
		cf := 100 * coupon / fq
		var pv, weighted float64
		for k := 1; k <= sch.n; k++ {
			t := float64(k-1) + dscOverE
			payment := cf
			if k == sch.n {
				payment += 100
			}
			disc := payment / math.Pow(base, t)
			pv += disc
			weighted += (t / fq) * disc
		}
		if pv == 0 {
			e := cellerr.New(cellerr.NUM)
			return 0, &e
		}
		return weighted / pv, nil
	}
	r.RegisterDefault("DURATION", eval.Descriptor{
		Params: durationArgs,
		Fn: func(state *eval.State, args []value.Value) value.Value {
			d, err := duration(state, args)
			if err != nil {
				return value.Err(*err)
			}
			return value.Number(d)
		},
	})
	r.RegisterDefault("MDURATION", eval.Descriptor{
		Params: durationArgs,
		Fn: func(state *eval.State, args []value.Value) value.Value {
			d, err := duration(state, args)
			if err != nil {
				return value.Err(*err)
			}
			yld := scalarNumber(args[3])
			frequency := scalarNumber(args[4])
			return value.Number(d / (1 + yld/frequency))
		},
	})
}
