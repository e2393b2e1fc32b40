package eval

import (
	"strings"

	"github.com/gscompat/formulacore/config"
	"github.com/gscompat/formulacore/value"
)

// CellAddress identifies the formula currently being evaluated.
type CellAddress struct {
	Sheet string
	Col   int
	Row   int
}

// State is the InterpreterState of spec §6.4: the sole context an
// Evaluator call needs. It bundles the formula's own address, the
// read-only SheetView, the immutable Registry, the Config, and the
// LocaleContext/DateTimeHelper collaborators.
type State struct {
	Address    CellAddress
	Sheet      SheetView
	Registry   *Registry
	Config     *config.Config
	Locale     LocaleContext
	DateHelper DateTimeHelper
	Eval       *Evaluator

	bindings *nameBinding
}

// WithAddress returns a copy of the state pointed at a different
// formula address, used when a kernel recurses into a nested
// reference (e.g. INDIRECT).
func (s *State) WithAddress(addr CellAddress) *State {
	cp := *s
	cp.Address = addr
	return &cp
}

// nameBinding is one frame of the lambda-parameter environment, a
// linked chain so nested lambda applications shadow outer parameters
// without copying.
type nameBinding struct {
	name string
	val  value.Value
	next *nameBinding
}

// WithBinding returns a copy of the state in which name resolves to v
// during NamedExpression evaluation. Names are case-insensitive, the
// same rule the lexer applies to function identifiers.
func (s *State) WithBinding(name string, v value.Value) *State {
	cp := *s
	cp.bindings = &nameBinding{name: strings.ToUpper(name), val: v, next: s.bindings}
	return &cp
}

// LookupName resolves a lambda-parameter binding; the innermost
// (most recently bound) frame wins.
func (s *State) LookupName(name string) (value.Value, bool) {
	upper := strings.ToUpper(name)
	for b := s.bindings; b != nil; b = b.next {
		if b.name == upper {
			return b.val, true
		}
	}
	return nil, false
}
