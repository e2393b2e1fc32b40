package finance

import (
	"math"

	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// vdb implements spec §4.12.4: declining-balance depreciation summed
// over [startPeriod, endPeriod], switching to straight-line the
// moment it would exceed the declining-balance amount unless
// noSwitch is set, with fractional endpoints handled by scaling the
// whole-period depreciation by its overlap with the requested range.
func vdb(cost, salvage, life, startPeriod, endPeriod, factor float64, noSwitch bool) (float64, *cellerr.Error) {
	if startPeriod < 0 || endPeriod < startPeriod || endPeriod > life || salvage > cost || life <= 0 || factor <= 0 {
		e := cellerr.New(cellerr.NUM)
		return 0, &e
	}
	rate := factor / life
	intEnd := int(math.Ceil(endPeriod))
	basis := cost
	var total float64
	for period := 0; period < intEnd; period++ {
		var dep float64
		ddb := basis * rate
		if noSwitch {
			dep = ddb
		} else {
			remainingLife := life - float64(period)
			sl := 0.0
			if remainingLife > 0 {
				sl = (basis - salvage) / remainingLife
			}
			if sl > ddb {
				dep = sl
			} else {
				dep = ddb
			}
		}
		if basis-dep < salvage {
			dep = basis - salvage
		}
		if dep < 0 {
			dep = 0
		}
		overlapStart := math.Max(float64(period), startPeriod)
		overlapEnd := math.Min(float64(period+1), endPeriod)
		if overlapEnd > overlapStart {
			total += dep * (overlapEnd - overlapStart)
		}
		basis -= dep
	}
	return total, nil
}

func registerVDB(r *eval.Registry) {
	r.RegisterDefault("VDB", eval.Descriptor{
		Params: []eval.ArgSpec{
			{Type: eval.ArgNumber, Min: f(0)},
			{Type: eval.ArgNumber, Min: f(0)},
			{Type: eval.ArgNumber, GreaterThan: f(0)},
			{Type: eval.ArgNumber, Min: f(0)},
			{Type: eval.ArgNumber, Min: f(0)},
			{Type: eval.ArgNumber, Optional: true, Default: value.Number(2), GreaterThan: f(0)},
			{Type: eval.ArgBoolean, Optional: true, Default: value.Bool(false)},
		},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			cost := scalarNumber(args[0])
			salvage := scalarNumber(args[1])
			life := scalarNumber(args[2])
			start := scalarNumber(args[3])
			end := scalarNumber(args[4])
			factor := scalarNumber(args[5])
			noSwitchS, _ := value.AsScalar(args[6])
			total, err := vdb(cost, salvage, life, start, end, factor, noSwitchS.RawBool())
			if err != nil {
				return value.Err(*err)
			}
			return value.Number(total)
		},
	})
}
