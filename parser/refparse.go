package parser

import (
	"strings"

	"github.com/gscompat/formulacore/ast"
)

// ParseReference decodes a bare A1-notation reference string — "A1",
// "$B$2", "A1:C3", optionally "Sheet1!"-prefixed — into an ast.Ref.
// Used by INDIRECT, which receives its reference as runtime text
// rather than as a lexed token. Returns ok=false for anything that is
// not a well-formed reference.
func ParseReference(text string) (ast.Ref, bool) {
	sheet := ""
	if bang := strings.LastIndexByte(text, '!'); bang >= 0 {
		sheet = text[:bang]
		text = text[bang+1:]
	}
	upper := strings.ToUpper(text)
	if colon := strings.IndexByte(upper, ':'); colon >= 0 {
		first, second := upper[:colon], upper[colon+1:]
		r0, ok0 := parseOneCell(first)
		r1, ok1 := parseOneCell(second)
		if !ok0 || !ok1 {
			return ast.Ref{}, false
		}
		return ast.Ref{
			Kind:  ast.AreaRef,
			Sheet: sheet,
			Col0:  minInt(r0.Col0, r1.Col0), Row0: minInt(r0.Row0, r1.Row0),
			Col1: maxInt(r0.Col0, r1.Col0), Row1: maxInt(r0.Row0, r1.Row0),
		}, true
	}
	r, ok := parseOneCell(upper)
	if !ok {
		return ast.Ref{}, false
	}
	r.Sheet = sheet
	return r, true
}

// parseOneCell accepts a single (possibly $-anchored) cell token.
func parseOneCell(lit string) (ast.Ref, bool) {
	i := 0
	if i < len(lit) && lit[i] == '$' {
		i++
	}
	letterStart := i
	for i < len(lit) && lit[i] >= 'A' && lit[i] <= 'Z' {
		i++
	}
	if i == letterStart || i-letterStart > 3 {
		return ast.Ref{}, false
	}
	if i < len(lit) && lit[i] == '$' {
		i++
	}
	digitStart := i
	for i < len(lit) && lit[i] >= '0' && lit[i] <= '9' {
		i++
	}
	if digitStart == i || i != len(lit) {
		return ast.Ref{}, false
	}
	return parseCellRefLiteral(lit), true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// parseCellRefLiteral decodes a lexed CELLREF literal such as "A1",
// "$B$2", or "C$3" into a 0-indexed ast.Ref.
func parseCellRefLiteral(lit string) ast.Ref {
	i := 0
	absCol := false
	if i < len(lit) && lit[i] == '$' {
		absCol = true
		i++
	}
	letterStart := i
	for i < len(lit) && lit[i] >= 'A' && lit[i] <= 'Z' {
		i++
	}
	col := decodeCol(lit[letterStart:i])
	absRow := false
	if i < len(lit) && lit[i] == '$' {
		absRow = true
		i++
	}
	digitStart := i
	for i < len(lit) && lit[i] >= '0' && lit[i] <= '9' {
		i++
	}
	row := decodeRow(lit[digitStart:i])
	return ast.Ref{
		Kind: ast.CellRef,
		Col0: col, Row0: row, Col1: col, Row1: row,
		AbsCol0: absCol, AbsRow0: absRow,
	}
}

// parseColRangeLiteral decodes "A:C" into a column-range ast.Ref.
func parseColRangeLiteral(lit string) ast.Ref {
	colon := indexByte(lit, ':')
	c0 := decodeCol(lit[:colon])
	c1 := decodeCol(lit[colon+1:])
	return ast.Ref{Kind: ast.ColRangeRef, Col0: c0, Col1: c1}
}

// parseRowRangeLiteral decodes "1:5" into a row-range ast.Ref.
func parseRowRangeLiteral(lit string) ast.Ref {
	colon := indexByte(lit, ':')
	r0 := decodeRow(lit[:colon])
	r1 := decodeRow(lit[colon+1:])
	return ast.Ref{Kind: ast.RowRangeRef, Row0: r0, Row1: r1}
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

func decodeCol(letters string) int {
	n := 0
	for i := 0; i < len(letters); i++ {
		n = n*26 + int(letters[i]-'A') + 1
	}
	return n - 1
}

func decodeRow(digits string) int {
	n := 0
	for i := 0; i < len(digits); i++ {
		n = n*10 + int(digits[i]-'0')
	}
	if n == 0 {
		return 0
	}
	return n - 1
}
