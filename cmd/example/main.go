// Command example demonstrates the formulacore module end to end:
// an in-memory sheet, a handful of formulas, and their evaluated
// results. It mirrors the teacher's cmd/example/main.go shape (demo
// strings, section headers, a small helper or two) but drives
// formulacore.Engine instead of a T-SQL parser.
package main

import (
	"fmt"

	"github.com/gscompat/formulacore"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

// sheet is a minimal eval.SheetView backed by a plain map, enough to
// resolve the cell references the demo formulas below touch. Real
// hosts back this interface with their own grid/dependency-graph
// storage; this one exists only to make the engine runnable standalone.
type sheet struct {
	cells map[string]value.Scalar
}

func newSheet() *sheet { return &sheet{cells: make(map[string]value.Scalar)} }

func key(name string, col, row int) string { return fmt.Sprintf("%s!%d,%d", name, col, row) }

func (s *sheet) set(name string, col, row int, v value.Scalar) {
	s.cells[key(name, col, row)] = v
}

func (s *sheet) GetCell(name string, col, row int) value.Scalar {
	if v, ok := s.cells[key(name, col, row)]; ok {
		return v
	}
	return value.Empty()
}

func (s *sheet) IsArrayRoot(name string, col, row int) bool { return false }

func main() {
	fmt.Println("=== formulacore Demo ===")

	engine, err := formulacore.NewGoogleSheets()
	if err != nil {
		fmt.Println("engine init failed:", err)
		return
	}

	sv := newSheet()
	// A small sales table in columns A (amount) and B (region), rows 0-3.
	amounts := []float64{120, 45, 300, 75}
	regions := []string{"east", "west", "east", "west"}
	for i, amt := range amounts {
		sv.set("Sheet1", 0, i, value.Number(amt))
		sv.set("Sheet1", 1, i, value.Text(regions[i]))
	}

	demos := []struct {
		label   string
		formula string
	}{
		{"Arithmetic", "=1+2*3"},
		{"Cell reference", "=A1"},
		{"Sum of a range", "=SUM(A1:A4)"},
		{"Conditional average", `=AVERAGEIFS(A1:A4,B1:B4,"east")`},
		{"Division by zero", "=1/0"},
		{"Unknown name", "=NOT_A_REAL_FUNCTION()"},
	}

	addr := eval.CellAddress{Sheet: "Sheet1", Col: 2, Row: 0}
	for _, d := range demos {
		result := engine.EvaluateFormula(d.formula, sv, addr)
		fmt.Printf("%-22s %-40s -> %s\n", d.label, d.formula, describe(result))
	}

	fmt.Println()
	fmt.Println("=== Reparsing and reusing an Ast ===")
	node, errs := engine.Parse("=SUM(A1:A4)/2")
	if len(errs) > 0 {
		fmt.Println("parse errors:", errs)
		return
	}
	reused := engine.Evaluate(node, sv, addr)
	fmt.Println("=SUM(A1:A4)/2 ->", describe(reused))
}

// describe renders a value.Value the way a host's status bar would:
// errors as their canonical surface string, 1x1 ranges unwrapped to
// their scalar, everything else by its underlying Go value.
func describe(v value.Value) string {
	s, ok := value.AsScalar(v)
	if !ok {
		r := value.ToRange(v)
		return fmt.Sprintf("<range %dx%d>", r.Width(), r.Height())
	}
	if e, isErr := s.Error(); isErr {
		return e.Kind.String()
	}
	switch s.Kind() {
	case value.KNumber:
		n, _ := s.NumberValue()
		return fmt.Sprintf("%g", n)
	case value.KText:
		return s.TextValue()
	case value.KBool:
		return fmt.Sprintf("%v", s.RawBool())
	default:
		return ""
	}
}
