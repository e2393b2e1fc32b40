// Package eval implements the FunctionRegistry (spec §4.6) and the
// Evaluator (spec §4.7) as a single package: kernels call back into
// the Evaluator for higher-order functions (MAP/SORT/LAMBDA/...), and
// the Evaluator dispatches through the Registry, so the two are
// mutually dependent by design and are kept in one Go package rather
// than forced into a cyclic pair of packages (see DESIGN.md).
package eval

import "github.com/gscompat/formulacore/value"

// SheetView is the read-only collaborator the evaluator consumes to
// resolve cell/range references (spec §6.1). Out-of-bounds access
// returns Empty.
type SheetView interface {
	GetCell(sheet string, col, row int) value.Scalar
	IsArrayRoot(sheet string, col, row int) bool
}

// LocaleContext is the read-only collaborator supplying translation
// and collation tables (spec §6.2).
type LocaleContext interface {
	Collate(a, b string, caseInsensitive bool) int
	FunctionTranslation(canonical string) string
	FunctionMapping() map[string]string
	ErrorMapping() map[string]string
}

// SimpleDate is a plain calendar date, used at the DateTimeHelper
// boundary (spec §6.3).
type SimpleDate struct {
	Year, Month, Day int
}

// DateTimeHelper is the read-only collaborator providing date-serial
// arithmetic (spec §6.3); the core never computes serials itself.
type DateTimeHelper interface {
	DateToSerial(d SimpleDate) int64
	SerialToDate(serial int64) SimpleDate
	YearLengthForBasis(start, end SimpleDate, basis int) int
	ToBasisUS(d SimpleDate, isEndDate bool) SimpleDate
	ToBasisEU(d SimpleDate) SimpleDate
}
