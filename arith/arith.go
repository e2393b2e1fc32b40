// Package arith implements epsilon-aware numeric operations and
// cross-type comparison (spec §4.8).
package arith

import (
	"math"
	"strconv"
	"strings"

	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/value"
)

// Eps is the relative rounding threshold used by the epsilon rule
// (spec §4.8, testable property #3 and glossary "Epsilon rounding").
const Eps = 1e-14

// Collator performs locale-aware string ordering/equality, supplied
// by the host engine's LocaleContext (spec §6.2). A nil Collator
// falls back to ordinal byte comparison, still folded to lower case
// to honor the google-sheets case-insensitive default.
type Collator interface {
	Collate(a, b string, caseInsensitive bool) int
}

// AddEps adds a and b, rounding a near-zero result to exactly 0 when
// it falls below Eps relative to the larger operand (testable
// property #3: ADD(ADD(0.1,0.2),-0.3) == 0).
func AddEps(a, b float64) float64 {
	sum := a + b
	if math.Abs(sum) < Eps*math.Max(math.Abs(a), math.Abs(b)) {
		return 0
	}
	return sum
}

func Subtract(a, b float64) float64 { return AddEps(a, -b) }

func Multiply(a, b float64) float64 { return a * b }

// Divide returns a #DIV/0! error when b is zero.
func Divide(a, b float64) (float64, *cellerr.Error) {
	if b == 0 {
		e := cellerr.New(cellerr.DIV_BY_ZERO)
		return 0, &e
	}
	return a / b, nil
}

func Pow(a, b float64) float64 { return math.Pow(a, b) }

func UnaryMinus(a float64) float64 { return -a }

func UnaryPlus(a float64) float64 { return a }

func UnaryPercent(a float64) float64 { return a / 100 }

// FloatCmp treats two numbers as equal when their absolute
// difference is within Eps relative to the larger magnitude (spec
// §4.8).
func FloatCmp(a, b float64) int {
	if math.Abs(a-b) <= Eps*math.Max(math.Max(math.Abs(a), math.Abs(b)), 1) {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

// typeRank orders scalar kinds for cross-type comparison: Number <
// Text < Bool < Error < Empty (spec §4.8, testable property #4).
func typeRank(s value.Scalar) int {
	switch s.Kind() {
	case value.KNumber:
		return 0
	case value.KText:
		return 1
	case value.KBool:
		return 2
	case value.KError:
		return 3
	case value.KEmpty:
		return 4
	default:
		return 5
	}
}

// Compare implements the cross-type ordering used by comparison
// operators, sort keys, and SORT (spec §4.8).
func Compare(a, b value.Scalar, col Collator) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch a.Kind() {
	case value.KNumber:
		an, _ := a.NumberValue()
		bn, _ := b.NumberValue()
		return FloatCmp(an, bn)
	case value.KText:
		return collate(col, a.TextValue(), b.TextValue())
	case value.KBool:
		if a.RawBool() == b.RawBool() {
			return 0
		}
		if !a.RawBool() {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func collate(col Collator, a, b string) int {
	if col != nil {
		return col.Collate(a, b, true)
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	switch {
	case la < lb:
		return -1
	case la > lb:
		return 1
	default:
		return 0
	}
}

// Equal implements the cross-type equality semantics of spec §4.8
// and §4.14: number-vs-text is never equal; text equality is
// case-insensitive in google-sheets mode via col.
func Equal(a, b value.Scalar, col Collator) bool {
	if typeRank(a) != typeRank(b) {
		return false
	}
	return Compare(a, b, col) == 0
}

// ToNumber coerces a scalar to a number for numeric-context
// arguments: numbers pass through, booleans become 0/1, empty
// becomes 0, and text parses as a float64 if it looks numeric.
func ToNumber(s value.Scalar) (float64, bool) {
	if n, ok := s.NumberValue(); ok {
		return n, true
	}
	if s.Kind() == value.KText {
		t := strings.TrimSpace(s.RawText())
		t = strings.TrimSuffix(t, "%")
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			if strings.HasSuffix(strings.TrimSpace(s.RawText()), "%") {
				return f / 100, true
			}
			return f, true
		}
		return 0, false
	}
	return 0, false
}

