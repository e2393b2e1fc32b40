// Package criterion compiles spreadsheet criteria ("`>5`", "`<>x`",
// wildcard text) into predicates and folds them over parallel ranges
// for the *IF/*IFS function family (spec §4.9).
package criterion

import (
	"regexp"
	"strings"

	"github.com/gscompat/formulacore/arith"
	"github.com/gscompat/formulacore/value"
)

// Predicate reports whether a single cell satisfies a compiled
// criterion.
type Predicate func(cell value.Scalar) bool

type relOp int

const (
	opEq relOp = iota
	opNe
	opLt
	opLe
	opGt
	opGe
)

// Compile parses a criterion scalar into a Predicate. Leading
// =, <>, <, <=, >, >= select a relational operator against the
// remaining comparand; a bare comparand is treated as = with
// wildcard matching when textual.
func Compile(criterion value.Scalar, col arith.Collator) Predicate {
	switch criterion.Kind() {
	case value.KNumber:
		n, _ := criterion.NumberValue()
		return func(cell value.Scalar) bool {
			cn, ok := arith.ToNumber(cell)
			return ok && arith.FloatCmp(cn, n) == 0
		}
	case value.KBool:
		b := criterion.RawBool()
		return func(cell value.Scalar) bool {
			return cell.Kind() == value.KBool && cell.RawBool() == b
		}
	case value.KEmpty:
		return func(cell value.Scalar) bool { return cell.IsEmpty() }
	case value.KText:
		return compileText(criterion.RawText(), col)
	default:
		return func(value.Scalar) bool { return false }
	}
}

func compileText(raw string, col arith.Collator) Predicate {
	op, rest := splitOperator(raw)
	if n, ok := parseNumber(rest); ok {
		return func(cell value.Scalar) bool {
			cn, ok := arith.ToNumber(cell)
			if !ok {
				return op == opNe
			}
			return applyRel(op, arith.FloatCmp(cn, n))
		}
	}
	if op == opEq || op == opNe {
		re := wildcardToRegexp(rest)
		match := op == opEq
		return func(cell value.Scalar) bool {
			if cell.Kind() != value.KText {
				if rest == "" {
					return cell.IsEmpty() == match
				}
				return !match
			}
			return re.MatchString(cell.TextValue()) == match
		}
	}
	// Relational compare against text comparand: locale collation.
	return func(cell value.Scalar) bool {
		if cell.Kind() != value.KText {
			return false
		}
		return applyRel(op, collateCompare(col, cell.TextValue(), rest))
	}
}

func collateCompare(col arith.Collator, a, b string) int {
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

func applyRel(op relOp, cmp int) bool {
	switch op {
	case opEq:
		return cmp == 0
	case opNe:
		return cmp != 0
	case opLt:
		return cmp < 0
	case opLe:
		return cmp <= 0
	case opGt:
		return cmp > 0
	case opGe:
		return cmp >= 0
	default:
		return false
	}
}

func splitOperator(s string) (relOp, string) {
	switch {
	case strings.HasPrefix(s, "<>"):
		return opNe, s[2:]
	case strings.HasPrefix(s, "<="):
		return opLe, s[2:]
	case strings.HasPrefix(s, ">="):
		return opGe, s[2:]
	case strings.HasPrefix(s, "<"):
		return opLt, s[1:]
	case strings.HasPrefix(s, ">"):
		return opGt, s[1:]
	case strings.HasPrefix(s, "="):
		return opEq, s[1:]
	default:
		return opEq, s
	}
}

func parseNumber(s string) (float64, bool) {
	return arith.ToNumber(value.Text(s))
}

// wildcardToRegexp compiles a criterion's `*`/`?` wildcard syntax
// (with `~*`/`~?` escapes) to an anchored, case-insensitive regexp.
func wildcardToRegexp(pattern string) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString("(?is)^")
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '~' && i+1 < len(runes) && (runes[i+1] == '*' || runes[i+1] == '?'):
			sb.WriteString(regexp.QuoteMeta(string(runes[i+1])))
			i++
		case c == '*':
			sb.WriteString(".*")
		case c == '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	sb.WriteString("$")
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return regexp.MustCompile("$^") // matches nothing
	}
	return re
}
