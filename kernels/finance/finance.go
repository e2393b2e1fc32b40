// Package finance implements the financial kernels of spec §4.12: the
// day-count basis, coupon-date helpers, bond pricing/yield, VDB
// depreciation, XIRR, and the shared Newton-Raphson solver contract.
package finance

import (
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// Basis enumerates the day-count conventions of spec §4.12.1.
type Basis int

const (
	US3030 Basis = iota
	ActualActual
	Actual360
	Actual365
	European3030
)

func rangeArg() eval.ArgSpec { return eval.ArgSpec{Type: eval.ArgRange} }

func asRange(v value.Value) *value.Range { return value.ToRange(v) }

func f(v float64) *float64 { return &v }

// Register installs every financial descriptor.
func Register(r *eval.Registry) {
	registerDayCount(r)
	registerCoupon(r)
	registerPriceYield(r)
	registerDuration(r)
	registerDiscountInstruments(r)
	registerVDB(r)
	registerXIRR(r)
	registerAccrual(r)
}

func dateArg() eval.ArgSpec { return eval.ArgSpec{Type: eval.ArgInteger} }

func scalarNumber(v value.Value) float64 {
	s, _ := value.AsScalar(v)
	n, _ := s.NumberValue()
	return n
}

func scalarDate(state *eval.State, v value.Value) eval.SimpleDate {
	return toDate(state, scalarNumber(v))
}

// toDate recovers the SimpleDate a serial-coded numeric cell refers
// to, via the engine's DateTimeHelper.
func toDate(state *eval.State, serial float64) eval.SimpleDate {
	return state.DateHelper.SerialToDate(int64(serial))
}

func basisArg() eval.ArgSpec {
	return eval.ArgSpec{Type: eval.ArgInteger, Optional: true, Default: value.Number(0), Min: f(0), Max: f(4)}
}

// yearFraction implements spec §4.12.1's year_fraction over the
// engine's DateTimeHelper day-count primitives.
func yearFraction(state *eval.State, start, end eval.SimpleDate, basis Basis) float64 {
	switch basis {
	case US3030:
		s := state.DateHelper.ToBasisUS(start, false)
		e := end
		if e.Day == 31 && s.Day == 30 {
			e.Day = 30
		}
		return us30360Days(s, e) / 360
	case European3030:
		s := state.DateHelper.ToBasisEU(start)
		e := state.DateHelper.ToBasisEU(end)
		return us30360Days(s, e) / 360
	case ActualActual:
		startSerial := state.DateHelper.DateToSerial(start)
		endSerial := state.DateHelper.DateToSerial(end)
		days := float64(endSerial - startSerial)
		yearLen := state.DateHelper.YearLengthForBasis(start, end, int(basis))
		return days / float64(yearLen)
	case Actual360:
		startSerial := state.DateHelper.DateToSerial(start)
		endSerial := state.DateHelper.DateToSerial(end)
		return float64(endSerial-startSerial) / 360
	case Actual365:
		startSerial := state.DateHelper.DateToSerial(start)
		endSerial := state.DateHelper.DateToSerial(end)
		return float64(endSerial-startSerial) / 365
	default:
		return 0
	}
}

func us30360Days(s, e eval.SimpleDate) float64 {
	dy := e.Year - s.Year
	dm := e.Month - s.Month
	dd := e.Day - s.Day
	return float64(dy*360 + dm*30 + dd)
}

func registerDayCount(r *eval.Registry) {
	r.RegisterDefault("YEARFRAC", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgInteger}, {Type: eval.ArgInteger}, basisArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			startS, _ := value.AsScalar(args[0])
			endS, _ := value.AsScalar(args[1])
			basisS, _ := value.AsScalar(args[2])
			sf, _ := startS.NumberValue()
			ef, _ := endS.NumberValue()
			bf, _ := basisS.NumberValue()
			start := toDate(state, sf)
			end := toDate(state, ef)
			return value.Number(yearFraction(state, start, end, Basis(int(bf))))
		},
	})
}
