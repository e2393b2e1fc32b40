// Package datetime supplies the default DateTimeHelper (spec §6.3).
// The core itself never computes date serials; this package is the
// one concrete implementation the facade wires in by default, using
// the Lotus/Excel epoch (serial 1 == 1900-01-01, with the historical
// serial-60 leap-year bug preserved for spreadsheet-compatibility).
package datetime

import (
	"time"

	"github.com/gscompat/formulacore/eval"
)

const epochOffset = 25568 // days between 1899-12-31 and the Unix epoch

// Helper is the default eval.DateTimeHelper.
type Helper struct{}

// New returns the default date/time helper.
func New() *Helper { return &Helper{} }

func toTime(d eval.SimpleDate) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// DateToSerial converts a calendar date to its spreadsheet serial
// number, preserving the traditional off-by-one leap-year bug for
// dates on/after the fictitious 1900-02-29.
func (h *Helper) DateToSerial(d eval.SimpleDate) int64 {
	days := int64(toTime(d).Unix()/86400) + epochOffset
	if days >= 60 {
		days++
	}
	return days
}

// SerialToDate is the inverse of DateToSerial.
func (h *Helper) SerialToDate(serial int64) eval.SimpleDate {
	if serial >= 61 {
		serial--
	}
	unixDays := serial - epochOffset
	t := time.Unix(unixDays*86400, 0).UTC()
	return eval.SimpleDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

func isLeap(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// YearLengthForBasis returns the ACTUAL_ACTUAL year length: 366 when
// the calendar year of start or of end is a leap year, else 365.
// basis is not consulted.
func (h *Helper) YearLengthForBasis(start, end eval.SimpleDate, basis int) int {
	if isLeap(start.Year) || isLeap(end.Year) {
		return 366
	}
	return 365
}

// ToBasisUS canonicalizes a single day's own day-of-month for the US
// (NASD) 30/360 convention: day 31 always rolls to 30. The convention's
// other rule -- an end-date 31 rolls to 30 only when the paired start
// date was itself rolled to 30 -- depends on both dates at once and so
// is applied by the caller (finance.yearFraction), not here; isEndDate
// is accepted for interface symmetry with ToBasisEU's unconditional
// variant but does not change this method's own-day canonicalization.
func (h *Helper) ToBasisUS(d eval.SimpleDate, isEndDate bool) eval.SimpleDate {
	out := d
	if out.Day == 31 {
		out.Day = 30
	}
	return out
}

// ToBasisEU canonicalizes a day for the European 30/360 convention:
// day 31 rolls to 30 unconditionally; every other day, including the
// last day of February, is left as is.
func (h *Helper) ToBasisEU(d eval.SimpleDate) eval.SimpleDate {
	out := d
	if out.Day == 31 {
		out.Day = 30
	}
	return out
}
