// Package formulacore is the Google Sheets compatibility layer of a
// spreadsheet formula engine (see SPEC_FULL.md). It wires the
// lexer/parser/AST and the FunctionRegistry/Evaluator pair into a
// single Engine, the way a parser package's top-level Parse function
// wires its own lexer/parser/ast triple for callers that do not want
// to build the pieces by hand.
//
// The dependency graph, dirty tracking, recalculation scheduling,
// persistence, CLI, and license-key verification are deliberately
// out of scope (spec §1): this package exposes only the pure
// Evaluator contract over a caller-supplied SheetView.
package formulacore

import (
	"strings"

	"github.com/gscompat/formulacore/ast"
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/config"
	"github.com/gscompat/formulacore/datetime"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/kernels/array"
	"github.com/gscompat/formulacore/kernels/finance"
	"github.com/gscompat/formulacore/kernels/hof"
	"github.com/gscompat/formulacore/kernels/info"
	"github.com/gscompat/formulacore/kernels/operator"
	"github.com/gscompat/formulacore/kernels/stats"
	"github.com/gscompat/formulacore/kernels/text"
	"github.com/gscompat/formulacore/locale"
	"github.com/gscompat/formulacore/parser"
	"github.com/gscompat/formulacore/value"
)

// Engine bundles everything one instance of the core owns: its own
// Config, its own Registry, and the Locale/DateTimeHelper
// collaborators the Evaluator consumes. Building a second Engine
// never mutates the first -- each Engine's Registry and each
// Parse call's Lexer-owned cell-reference matcher are exclusively
// its own (spec §5, §9).
type Engine struct {
	Config     *config.Config
	Registry   *eval.Registry
	Locale     eval.LocaleContext
	DateHelper eval.DateTimeHelper
	evaluator  *eval.Evaluator
}

// New builds an Engine for cfg, constructing a fresh Registry (the
// default layer, plus the google-sheets overlay functions register
// themselves onto regardless of cfg.CompatibilityMode -- the mode
// only changes which layer Lookup consults) and the default
// locale/date-time collaborators. A nil cfg gets the engine's native
// default dialect (spec §3.5/§3.6).
func New(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.New()
	}
	registry := eval.NewRegistry()
	operator.Register(registry)
	array.Register(registry)
	stats.Register(registry)
	finance.Register(registry)
	text.Register(registry)
	info.Register(registry)
	hof.Register(registry)

	loc, err := locale.New(cfg.Locale)
	if err != nil {
		return nil, err
	}
	return &Engine{
		Config:     cfg,
		Registry:   registry,
		Locale:     loc,
		DateHelper: datetime.New(),
		evaluator:  eval.NewEvaluator(),
	}, nil
}

// NewGoogleSheets is a convenience wrapper around New for the
// dialect this core specializes in imitating.
func NewGoogleSheets() (*Engine, error) { return New(config.NewGoogleSheets()) }

// nameResolver adapts a LocaleContext's local-name -> canonical-name
// table to the parser's narrower NameResolver interface, so Engine
// does not have to expose the full LocaleContext to the parser
// package.
type nameResolver struct{ loc eval.LocaleContext }

func (r nameResolver) CanonicalFunctionName(localUpper string) (string, bool) {
	if r.loc == nil {
		return "", false
	}
	canon, ok := r.loc.FunctionMapping()[localUpper]
	return canon, ok
}

// Parse tokenizes and parses formula's text into an Ast (spec §3.6,
// §6.5). A leading "=" is stripped if present; callers that already
// strip it themselves may pass the bare expression. The returned
// node owns no reference back to this Engine and may be cached by
// the caller for repeated Evaluate calls.
func (e *Engine) Parse(formula string) (ast.Node, []string) {
	src := strings.TrimPrefix(formula, "=")
	p := parser.New(src, e.Config, nameResolver{loc: e.Locale})
	node := p.ParseFormula()
	return node, p.Errors()
}

// Evaluate is the sole boundary (spec §6.4) through which an external
// scheduler consumes the core: it walks node, resolving references
// through sheet and reporting addr as the formula's own cell.
func (e *Engine) Evaluate(node ast.Node, sheet eval.SheetView, addr eval.CellAddress) value.Value {
	state := &eval.State{
		Address:    addr,
		Sheet:      sheet,
		Registry:   e.Registry,
		Config:     e.Config,
		Locale:     e.Locale,
		DateHelper: e.DateHelper,
		Eval:       e.evaluator,
	}
	return e.evaluator.Evaluate(node, state)
}

// EvaluateFormula parses and evaluates formula in one call, for
// callers uninterested in retaining the Ast. A parse error yields a
// #NAME? value rather than a Go error, matching how every other
// evaluation failure surfaces through this boundary (spec §7).
func (e *Engine) EvaluateFormula(formula string, sheet eval.SheetView, addr eval.CellAddress) value.Value {
	node, errs := e.Parse(formula)
	if len(errs) > 0 {
		return value.ErrKind(cellerr.NAME)
	}
	return e.Evaluate(node, sheet, addr)
}
