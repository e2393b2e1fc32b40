package eval

import (
	"strconv"
	"strings"

	"github.com/gscompat/formulacore/arith"
	"github.com/gscompat/formulacore/ast"
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/value"
)

// errorInspecting names the functions that must see an Error
// argument rather than have it short-circuit the call (spec §4.2,
// §4.7.6). TYPE and ERROR.TYPE are also error-inspecting but reach
// their argument via NeedsRawArgs, not this path.
var errorInspecting = map[string]bool{
	"ISERROR": true, "ISERR": true, "ISNA": true, "IFERROR": true,
	"IFNA": true, "ERROR.TYPE": true, "TYPE": true,
}

// Evaluator walks an Ast tree, dispatching Procedure calls through a
// Registry (spec §4.7). It holds no per-call mutable state; all of
// that lives in State.
type Evaluator struct{}

// NewEvaluator returns a stateless Evaluator. It exists (rather than
// calling Evaluate as a bare function) so State.Eval can hold a
// receiver for kernels that recurse back into evaluation.
func NewEvaluator() *Evaluator { return &Evaluator{} }

// Evaluate is the sole boundary (spec §6.4) through which the
// external scheduler consumes the core.
func (e *Evaluator) Evaluate(node ast.Node, state *State) value.Value {
	switch n := node.(type) {
	case ast.Number:
		return value.Number(n.Value)
	case ast.Text:
		return value.Text(n.Value)
	case ast.Bool:
		return value.Bool(n.Value)
	case ast.ErrorLit:
		return value.Err(cellerr.New(kindFromName(n.Kind)))
	case ast.CellReference:
		return state.Sheet.GetCell(refSheet(n.Ref, state), n.Ref.Col0, n.Ref.Row0)
	case ast.RangeReference:
		return e.resolveRange(n.Ref, state)
	case ast.NamedExpression:
		// Lambda parameters are the only names the pure core resolves
		// itself; anything else is a host-engine concern.
		if v, ok := state.LookupName(n.Name); ok {
			return v
		}
		return value.ErrKind(cellerr.NAME)
	case ast.ArrayLiteral:
		return e.evalArrayLiteral(n, state)
	case ast.UnaryOp:
		return e.evalUnary(n, state)
	case ast.BinaryOp:
		return e.evalBinary(n, state)
	case ast.Procedure:
		return e.evalProcedure(n, state)
	default:
		return value.ErrKind(cellerr.ERROR)
	}
}

func refSheet(r ast.Ref, state *State) string {
	if r.Sheet != "" {
		return r.Sheet
	}
	return state.Address.Sheet
}

func (e *Evaluator) resolveRange(r ast.Ref, state *State) value.Value {
	c0, c1, r0, r1 := r.Col0, r.Col1, r.Row0, r.Row1
	switch r.Kind {
	case ast.ColRangeRef:
		r0, r1 = 0, int(state.Config.MaxRows)-1
	case ast.RowRangeRef:
		c0, c1 = 0, int(state.Config.MaxCols)-1
	}
	if c0 > c1 {
		c0, c1 = c1, c0
	}
	if r0 > r1 {
		r0, r1 = r1, r0
	}
	sheet := refSheet(r, state)
	rows := make([][]value.Scalar, r1-r0+1)
	for row := r0; row <= r1; row++ {
		cells := make([]value.Scalar, c1-c0+1)
		for col := c0; col <= c1; col++ {
			cells[col-c0] = state.Sheet.GetCell(sheet, col, row)
		}
		rows[row-r0] = cells
	}
	rng, err := value.NewRange(rows)
	if err != nil {
		return value.ErrKind(cellerr.REF)
	}
	return rng
}

func (e *Evaluator) evalArrayLiteral(n ast.ArrayLiteral, state *State) value.Value {
	rows := make([][]value.Scalar, len(n.Rows))
	for i, row := range n.Rows {
		cells := make([]value.Scalar, len(row))
		for j, elemNode := range row {
			v := e.Evaluate(elemNode, state)
			s, ok := value.AsScalar(v)
			if !ok {
				s = value.ErrKind(cellerr.VALUE)
			}
			cells[j] = s
		}
		rows[i] = cells
	}
	rng, err := value.NewRange(rows)
	if err != nil {
		return value.ErrKind(cellerr.VALUE)
	}
	return rng
}

func (e *Evaluator) collator(state *State) arith.Collator {
	if state.Locale != nil {
		return state.Locale
	}
	return nil
}

func (e *Evaluator) evalUnary(n ast.UnaryOp, state *State) value.Value {
	argV := e.Evaluate(n.Arg, state)
	return broadcastUnary(argV, func(s value.Scalar) value.Scalar {
		if s.IsError() {
			return s
		}
		f, ok := arith.ToNumber(s)
		if !ok {
			return value.ErrKind(cellerr.VALUE)
		}
		switch n.Op {
		case ast.OpNeg:
			return value.NumberTagged(arith.UnaryMinus(f), s.Subtype())
		case ast.OpPos:
			return value.NumberTagged(arith.UnaryPlus(f), s.Subtype())
		case ast.OpPercentPostfix:
			return value.NumberTagged(arith.UnaryPercent(f), value.Percent)
		default:
			return value.ErrKind(cellerr.ERROR)
		}
	})
}

func (e *Evaluator) evalBinary(n ast.BinaryOp, state *State) value.Value {
	lhs := e.Evaluate(n.LHS, state)
	rhs := e.Evaluate(n.RHS, state)
	if n.Op == ast.OpRange || n.Op == ast.OpUnion || n.Op == ast.OpIntersect {
		return value.ErrKind(cellerr.REF)
	}
	col := e.collator(state)
	return broadcastBinary(lhs, rhs, func(a, b value.Scalar) value.Scalar {
		return applyBinaryScalar(n.Op, a, b, col)
	})
}

func applyBinaryScalar(op ast.BinaryOperator, a, b value.Scalar, col arith.Collator) value.Scalar {
	if a.IsError() {
		return a
	}
	if b.IsError() {
		return b
	}
	switch op {
	case ast.OpConcat:
		return value.Text(stringify(a) + stringify(b))
	case ast.OpEq:
		return value.Bool(arith.Equal(a, b, col))
	case ast.OpNeq:
		return value.Bool(!arith.Equal(a, b, col))
	case ast.OpLt:
		return value.Bool(arith.Compare(a, b, col) < 0)
	case ast.OpGt:
		return value.Bool(arith.Compare(a, b, col) > 0)
	case ast.OpLte:
		return value.Bool(arith.Compare(a, b, col) <= 0)
	case ast.OpGte:
		return value.Bool(arith.Compare(a, b, col) >= 0)
	}
	an, aok := arith.ToNumber(a)
	bn, bok := arith.ToNumber(b)
	if !aok || !bok {
		return value.ErrKind(cellerr.VALUE)
	}
	switch op {
	case ast.OpAdd:
		return value.Number(arith.AddEps(an, bn))
	case ast.OpSub:
		return value.Number(arith.Subtract(an, bn))
	case ast.OpMul:
		return value.Number(arith.Multiply(an, bn))
	case ast.OpDiv:
		r, divErr := arith.Divide(an, bn)
		if divErr != nil {
			return value.Err(*divErr)
		}
		return value.Number(r)
	case ast.OpPow:
		return value.Number(arith.Pow(an, bn))
	default:
		return value.ErrKind(cellerr.ERROR)
	}
}

func stringify(s value.Scalar) string {
	switch s.Kind() {
	case value.KText:
		return s.RawText()
	case value.KBool:
		if s.RawBool() {
			return "TRUE"
		}
		return "FALSE"
	case value.KEmpty:
		return ""
	case value.KNumber:
		n, _ := s.NumberValue()
		return formatPlainNumber(n)
	default:
		return ""
	}
}

func formatPlainNumber(f float64) string {
	return trimFloat(f)
}

func trimFloat(f float64) string {
	raw := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(raw, ".") {
		return raw
	}
	s := strings.TrimRight(strings.TrimRight(raw, "0"), ".")
	if s == "" || s == "-" {
		s = "0"
	}
	return s
}

func kindFromName(name string) cellerr.Kind {
	switch name {
	case "NULL":
		return cellerr.NULL
	case "DIV_BY_ZERO":
		return cellerr.DIV_BY_ZERO
	case "VALUE":
		return cellerr.VALUE
	case "REF":
		return cellerr.REF
	case "NAME":
		return cellerr.NAME
	case "NUM":
		return cellerr.NUM
	case "NA":
		return cellerr.NA
	case "SPILL":
		return cellerr.SPILL
	case "CYCLE":
		return cellerr.CYCLE
	default:
		return cellerr.ERROR
	}
}
