package finance

import (
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

func registerAccrual(r *eval.Registry) {
	r.RegisterDefault("ACCRINT", eval.Descriptor{
		Params: []eval.ArgSpec{
			dateArg(), dateArg(), dateArg(),
			{Type: eval.ArgNumber, GreaterThan: f(0)},
			{Type: eval.ArgNumber, Min: f(0)},
			{Type: eval.ArgInteger, Min: f(1), Max: f(4)},
			basisArg(),
			{Type: eval.ArgBoolean, Optional: true, Default: value.Bool(true)},
		},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			issue := scalarDate(state, args[0])
			firstInterest := scalarDate(state, args[1])
			settlement := scalarDate(state, args[2])
			rate := scalarNumber(args[3])
			par := scalarNumber(args[4])
			frequency := int(scalarNumber(args[5]))
			basis := Basis(int(scalarNumber(args[6])))
			calcMethodS, _ := value.AsScalar(args[7])
			if state.DateHelper.DateToSerial(settlement) <= state.DateHelper.DateToSerial(issue) {
				return value.ErrKind(cellerr.NUM)
			}
			if state.DateHelper.DateToSerial(firstInterest) <= state.DateHelper.DateToSerial(issue) {
				return value.ErrKind(cellerr.NUM)
			}
			if calcMethodS.RawBool() {
				return value.Number(par * rate * yearFraction(state, issue, settlement, basis))
			}
			pcd, _ := couponDates(state, settlement, addMonths(settlement, 1200/frequency), frequency)
			accrued := yearFraction(state, pcd, settlement, basis) * basisDenominator(basis, frequency)
			periodDays := basisDenominator(basis, frequency)
			if periodDays == 0 {
				return value.ErrKind(cellerr.DIV_BY_ZERO)
			}
			return value.Number(par * (rate / float64(frequency)) * (accrued / periodDays))
		},
	})

	r.RegisterDefault("ACCRINTM", eval.Descriptor{
		Params: []eval.ArgSpec{
			dateArg(), dateArg(),
			{Type: eval.ArgNumber, GreaterThan: f(0)},
			{Type: eval.ArgNumber, Min: f(0)},
			basisArg(),
		},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			issue := scalarDate(state, args[0])
			settlement := scalarDate(state, args[1])
			rate := scalarNumber(args[2])
			par := scalarNumber(args[3])
			basis := Basis(int(scalarNumber(args[4])))
			if state.DateHelper.DateToSerial(settlement) <= state.DateHelper.DateToSerial(issue) {
				return value.ErrKind(cellerr.NUM)
			}
			return value.Number(par * rate * yearFraction(state, issue, settlement, basis))
		},
	})

	r.RegisterDefault("AMORLINC", eval.Descriptor{
		Params: []eval.ArgSpec{
			{Type: eval.ArgNumber, Min: f(0)},
			dateArg(), dateArg(),
			{Type: eval.ArgNumber, Min: f(0)},
			{Type: eval.ArgInteger, Min: f(0)},
			{Type: eval.ArgNumber, GreaterThan: f(0)},
			basisArg(),
		},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			cost := scalarNumber(args[0])
			datePurchased := scalarDate(state, args[1])
			firstPeriod := scalarDate(state, args[2])
			salvage := scalarNumber(args[3])
			periodIdx := int(scalarNumber(args[4]))
			rate := scalarNumber(args[5])
			basis := Basis(int(scalarNumber(args[6])))
			if salvage > cost {
				return value.ErrKind(cellerr.NUM)
			}
			firstDep := cost * rate * yearFraction(state, datePurchased, firstPeriod, basis)
			fullDep := cost * rate
			if periodIdx == 0 {
				return value.Number(firstDep)
			}
			accumulated := firstDep
			for p := 1; p < periodIdx; p++ {
				remaining := cost - salvage - accumulated
				if remaining <= 0 {
					return value.Number(0)
				}
				if remaining < fullDep {
					accumulated = cost - salvage
					continue
				}
				accumulated += fullDep
			}
			remaining := cost - salvage - accumulated
			if remaining <= 0 {
				return value.Number(0)
			}
			if remaining < fullDep {
				return value.Number(remaining)
			}
			return value.Number(fullDep)
		},
	})
}
