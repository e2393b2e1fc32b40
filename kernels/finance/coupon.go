package finance

import (
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// addMonths steps a SimpleDate by n months (n may be negative),
// clamping the day-of-month to the target month's length the way
// coupon-date stepping requires (a Jan-31 anchor stepped back a month
// lands on Feb-28/29, not a rolled-over March date).
func addMonths(d eval.SimpleDate, n int) eval.SimpleDate {
	total := d.Year*12 + (d.Month - 1) + n
	year := total / 12
	month := total%12 + 1
	if month <= 0 {
		month += 12
		year--
	}
	day := d.Day
	if maxDay := daysInMonth(year, month); day > maxDay {
		day = maxDay
	}
	return eval.SimpleDate{Year: year, Month: month, Day: day}
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if (year%4 == 0 && year%100 != 0) || year%400 == 0 {
			return 29
		}
		return 28
	default:
		return 30
	}
}

// couponDates anchors on maturity and steps backward by 12/frequency
// months until it finds the previous coupon date (the latest coupon
// on/before settlement) and its immediate successor, the next coupon
// date (spec §4.12.2).
func couponDates(state *eval.State, settlement, maturity eval.SimpleDate, frequency int) (pcd, ncd eval.SimpleDate) {
	step := 12 / frequency
	settlementSerial := state.DateHelper.DateToSerial(settlement)
	cursor := maturity
	for {
		prev := addMonths(cursor, -step)
		if state.DateHelper.DateToSerial(prev) <= settlementSerial {
			return prev, cursor
		}
		cursor = prev
	}
}

func couponArgs() []eval.ArgSpec {
	return []eval.ArgSpec{
		{Type: eval.ArgInteger},
		{Type: eval.ArgInteger},
		{Type: eval.ArgInteger, Min: f(1), Max: f(4)},
		basisArg(),
	}
}

func couponInputs(state *eval.State, args []value.Value) (settlement, maturity eval.SimpleDate, frequency int, basis Basis) {
	settlementS, _ := value.AsScalar(args[0])
	maturityS, _ := value.AsScalar(args[1])
	freqS, _ := value.AsScalar(args[2])
	basisS, _ := value.AsScalar(args[3])
	sf, _ := settlementS.NumberValue()
	mf, _ := maturityS.NumberValue()
	ff, _ := freqS.NumberValue()
	bf, _ := basisS.NumberValue()
	return toDate(state, sf), toDate(state, mf), int(ff), Basis(int(bf))
}

func registerCoupon(r *eval.Registry) {
	r.RegisterDefault("COUPPCD", eval.Descriptor{
		Params: couponArgs(),
		Fn: func(state *eval.State, args []value.Value) value.Value {
			settlement, maturity, frequency, _ := couponInputs(state, args)
			if frequency != 1 && frequency != 2 && frequency != 4 {
				return value.ErrKind(cellerr.NUM)
			}
			pcd, _ := couponDates(state, settlement, maturity, frequency)
			return value.Number(float64(state.DateHelper.DateToSerial(pcd)))
		},
	})
	r.RegisterDefault("COUPNCD", eval.Descriptor{
		Params: couponArgs(),
		Fn: func(state *eval.State, args []value.Value) value.Value {
			settlement, maturity, frequency, _ := couponInputs(state, args)
			if frequency != 1 && frequency != 2 && frequency != 4 {
				return value.ErrKind(cellerr.NUM)
			}
			_, ncd := couponDates(state, settlement, maturity, frequency)
			return value.Number(float64(state.DateHelper.DateToSerial(ncd)))
		},
	})
	r.RegisterDefault("COUPDAYS", eval.Descriptor{
		Params: couponArgs(),
		Fn: func(state *eval.State, args []value.Value) value.Value {
			settlement, maturity, frequency, basis := couponInputs(state, args)
			pcd, ncd := couponDates(state, settlement, maturity, frequency)
			return value.Number(couponPeriodDays(state, pcd, ncd, frequency, basis))
		},
	})
	r.RegisterDefault("COUPDAYBS", eval.Descriptor{
		Params: couponArgs(),
		Fn: func(state *eval.State, args []value.Value) value.Value {
			settlement, maturity, frequency, basis := couponInputs(state, args)
			pcd, _ := couponDates(state, settlement, maturity, frequency)
			return value.Number(yearFraction(state, pcd, settlement, basis) * basisDenominator(basis, frequency))
		},
	})
	r.RegisterDefault("COUPDAYSNC", eval.Descriptor{
		Params: couponArgs(),
		Fn: func(state *eval.State, args []value.Value) value.Value {
			settlement, maturity, frequency, basis := couponInputs(state, args)
			pcd, ncd := couponDates(state, settlement, maturity, frequency)
			total := couponPeriodDays(state, pcd, ncd, frequency, basis)
			bs := yearFraction(state, pcd, settlement, basis) * basisDenominator(basis, frequency)
			return value.Number(total - bs)
		},
	})
	r.RegisterDefault("COUPNUM", eval.Descriptor{
		Params: couponArgs(),
		Fn: func(state *eval.State, args []value.Value) value.Value {
			settlement, maturity, frequency, _ := couponInputs(state, args)
			return value.Number(float64(couponCount(state, settlement, maturity, frequency)))
		},
	})
}

// couponPeriodDays is the day count of one coupon period under basis,
// expressed in the same units as COUPDAYBS/COUPDAYSNC so their sum
// reproduces it exactly (spec §4.12.2's identity).
func couponPeriodDays(state *eval.State, pcd, ncd eval.SimpleDate, frequency int, basis Basis) float64 {
	switch basis {
	case ActualActual:
		return yearFraction(state, pcd, ncd, basis) * float64(state.DateHelper.YearLengthForBasis(pcd, ncd, int(basis)))
	default:
		return basisDenominator(basis, frequency)
	}
}

// basisDenominator is the fixed period length (in basis days) used by
// the 30/360 and ACTUAL_360/365 conventions.
func basisDenominator(basis Basis, frequency int) float64 {
	switch basis {
	case Actual365:
		return 365.0 / float64(frequency)
	default:
		return 360.0 / float64(frequency)
	}
}

// couponCount counts coupons strictly after settlement up to and
// including maturity, comparing full dates (not just months) so a
// settlement one day before a coupon still counts it.
func couponCount(state *eval.State, settlement, maturity eval.SimpleDate, frequency int) int {
	step := 12 / frequency
	settlementSerial := state.DateHelper.DateToSerial(settlement)
	count := 0
	cursor := maturity
	for state.DateHelper.DateToSerial(cursor) > settlementSerial {
		count++
		cursor = addMonths(cursor, -step)
	}
	return count
}
