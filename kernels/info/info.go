// Package info implements the TYPE/ERROR.TYPE/ISDATE/ISEMAIL/ISURL/
// TO_*/CONVERT/CELL family of spec §4.15, the IS*/IF* error
// predicates, and the reference-introspecting
// ISREF/INDIRECT/OFFSET trio.
package info

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/gscompat/formulacore/ast"
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/value"
)

var emailLocal = regexp.MustCompile(`^[^\s@]+$`)
var urlPattern = regexp.MustCompile(`(?i)^https?://.+`)

// Register installs every info/conversion descriptor into r.
func Register(r *eval.Registry) {
	registerPredicates(r)
	registerRefIntrospection(r)
	r.RegisterDefault("TYPE", eval.Descriptor{
		NeedsRawArgs: true,
		RawFn: func(state *eval.State, args []ast.Node) value.Value {
			if len(args) != 1 {
				return value.ErrKind(cellerr.NA)
			}
			if lit, ok := args[0].(ast.ArrayLiteral); ok {
				_ = lit
				return value.Number(64)
			}
			if cr, ok := args[0].(ast.CellReference); ok {
				if state.Sheet.IsArrayRoot(refSheetOf(cr.Ref, state), cr.Ref.Col0, cr.Ref.Row0) {
					return value.Number(64)
				}
			}
			v := state.Eval.Evaluate(args[0], state)
			s, isScalar := value.AsScalar(v)
			if !isScalar {
				return value.Number(64)
			}
			switch s.Kind() {
			case value.KNumber, value.KEmpty:
				return value.Number(1)
			case value.KText:
				return value.Number(2)
			case value.KBool:
				return value.Number(4)
			case value.KError:
				return value.Number(16)
			default:
				return value.Number(1)
			}
		},
	})

	r.RegisterDefault("ERROR.TYPE", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgAny}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, _ := value.AsScalar(args[0])
			e, isErr := s.Error()
			if !isErr {
				return value.ErrKind(cellerr.NA)
			}
			code, ok := cellerr.ErrorTypeCode(e.Kind)
			if !ok {
				return value.ErrKind(cellerr.NA)
			}
			return value.Number(float64(code))
		},
	})

	r.RegisterDefault("ISDATE", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgAny}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, _ := value.AsScalar(args[0])
			return value.Bool(s.Kind() == value.KNumber && (s.Subtype() == value.Date || s.Subtype() == value.DateTime))
		},
	})

	r.RegisterDefault("ISEMAIL", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgString}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, _ := value.AsScalar(args[0])
			return value.Bool(isEmail(s.TextValue()))
		},
	})

	r.RegisterDefault("ISURL", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgString}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, _ := value.AsScalar(args[0])
			return value.Bool(urlPattern.MatchString(s.TextValue()))
		},
	})

	// The TO_* coercion family has no Excel counterpart; it lives on
	// the google-sheets overlay layer rather than the default one.
	r.RegisterGoogleSheets("TO_TEXT", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgString}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, _ := value.AsScalar(args[0])
			return value.Text(s.TextValue())
		},
	})
	r.RegisterGoogleSheets("TO_PURE_NUMBER", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgNumber}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, _ := value.AsScalar(args[0])
			f, _ := s.NumberValue()
			return value.Number(f)
		},
	})
	r.RegisterGoogleSheets("TO_PERCENT", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgNumber}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, _ := value.AsScalar(args[0])
			f, _ := s.NumberValue()
			return value.NumberTagged(f, value.Percent)
		},
	})
	r.RegisterGoogleSheets("TO_DOLLARS", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgNumber}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, _ := value.AsScalar(args[0])
			f, _ := s.NumberValue()
			return value.NumberTagged(f, value.Currency)
		},
	})
	r.RegisterGoogleSheets("TO_DATE", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgNumber}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s, _ := value.AsScalar(args[0])
			f, _ := s.NumberValue()
			return value.NumberTagged(f, value.Date)
		},
	})

	r.RegisterDefault("CELL", eval.Descriptor{
		NeedsRawArgs: true,
		RawFn: func(state *eval.State, args []ast.Node) value.Value {
			if len(args) < 2 {
				return value.ErrKind(cellerr.NA)
			}
			infoV := state.Eval.Evaluate(args[0], state)
			infoS, _ := value.AsScalar(infoV)
			cr, ok := args[1].(ast.CellReference)
			if !ok {
				return value.ErrKind(cellerr.VALUE)
			}
			cell := state.Sheet.GetCell(refSheetOf(cr.Ref, state), cr.Ref.Col0, cr.Ref.Row0)
			switch strings.ToLower(infoS.TextValue()) {
			case "width":
				return value.Number(float64(runewidth.StringWidth(cell.TextValue())))
			case "contents":
				return cell
			case "type":
				switch cell.Kind() {
				case value.KText:
					return value.Text("l")
				case value.KEmpty:
					return value.Text("b")
				default:
					return value.Text("v")
				}
			default:
				return value.ErrKind(cellerr.NA)
			}
		},
	})

	r.RegisterDefault("CONVERT", eval.Descriptor{
		Params: []eval.ArgSpec{numArg(), {Type: eval.ArgString}, {Type: eval.ArgString}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			v, _ := value.AsScalar(args[0])
			f, _ := v.NumberValue()
			from, _ := value.AsScalar(args[1])
			to, _ := value.AsScalar(args[2])
			return convert(f, from.TextValue(), to.TextValue())
		},
	})
}

func numArg() eval.ArgSpec { return eval.ArgSpec{Type: eval.ArgNumber} }

func refSheetOf(ref ast.Ref, state *eval.State) string {
	if ref.Sheet != "" {
		return ref.Sheet
	}
	return state.Address.Sheet
}

func isEmail(s string) bool {
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if local == "" || domain == "" {
		return false
	}
	dot := strings.LastIndex(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return emailLocal.MatchString(local)
}
