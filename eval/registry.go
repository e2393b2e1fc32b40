package eval

import (
	"github.com/gscompat/formulacore/ast"
	"github.com/gscompat/formulacore/config"
	"github.com/gscompat/formulacore/criterion"
	"github.com/gscompat/formulacore/value"
)

// ArgType is the coercion target for a single parameter slot (spec
// §4.6).
type ArgType int

const (
	ArgNumber ArgType = iota
	ArgInteger
	ArgBoolean
	ArgString
	ArgScalar
	ArgNoError
	ArgRange
	ArgAny
)

// ArgSpec describes one parameter slot of a function descriptor.
type ArgSpec struct {
	Type        ArgType
	Optional    bool
	Default     value.Value
	Min         *float64
	Max         *float64
	GreaterThan *float64
	LessThan    *float64
	PassSubtype bool
}

// KernelFunc is a function body that receives pre-evaluated,
// coerced arguments.
type KernelFunc func(state *State, args []value.Value) value.Value

// RawKernelFunc is a function body that receives un-evaluated AST
// nodes plus interpreter state, for descriptors with
// NeedsRawArgs == true (LAMBDA/MAP/.../ISREF/INDIRECT/OFFSET/...).
type RawKernelFunc func(state *State, args []ast.Node) value.Value

// SizePredictor predicts the shape of a function's spill (spec
// §4.10, §4.11 discipline: must never under-predict).
type SizePredictor func(state *State, args []ast.Node) (rows, cols int)

// ArraySize is the result of a SizePredictor.
type ArraySize struct{ Rows, Cols int }

// Descriptor is a single function-registry entry (spec §4.6).
type Descriptor struct {
	Params                      []ArgSpec
	RepeatLastArgs              int
	ExpandRanges                bool
	VectorizationForbidden      bool
	NeedsRawArgs                bool
	SizeOfResultArray           SizePredictor
	ReturnSubtype               value.Subtype
	Fn                          KernelFunc
	RawFn                       RawKernelFunc
}

// Registry is the two-layer function table of spec §4.6: a default
// layer and a google-sheets overlay layer. It is built once per
// engine instance and is immutable (read-only) thereafter, so it may
// be shared freely across concurrent reads (spec §5).
type Registry struct {
	defaultLayer map[string]Descriptor
	overlayLayer map[string]Descriptor

	// CriterionCache backs the *IF/*IFS kernels' criterion.ComputeCached
	// calls (spec §4.9: "Results may be cached..."). One cache per
	// Registry, so two Engine instances never share memoized results.
	CriterionCache *criterion.Cache
}

// NewRegistry returns an empty, two-layer registry.
func NewRegistry() *Registry {
	return &Registry{
		defaultLayer:   make(map[string]Descriptor),
		overlayLayer:   make(map[string]Descriptor),
		CriterionCache: criterion.NewCache(),
	}
}

// RegisterDefault inserts/replaces a layer-A (default) entry.
func (r *Registry) RegisterDefault(name string, d Descriptor) {
	r.defaultLayer[name] = d
}

// RegisterGoogleSheets inserts/replaces a layer-B (google-sheets
// override) entry.
func (r *Registry) RegisterGoogleSheets(name string, d Descriptor) {
	r.overlayLayer[name] = d
}

// Lookup resolves name to a Descriptor under mode: the overlay entry
// wins when mode is GoogleSheets and an override exists, else the
// default layer is consulted.
func (r *Registry) Lookup(name string, mode config.Mode) (Descriptor, bool) {
	if mode == config.GoogleSheets {
		if d, ok := r.overlayLayer[name]; ok {
			return d, true
		}
	}
	d, ok := r.defaultLayer[name]
	return d, ok
}

// Names returns every canonical name registered in either layer,
// used for error-message suggestions and introspection.
func (r *Registry) Names() []string {
	seen := make(map[string]struct{})
	var out []string
	for n := range r.defaultLayer {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	for n := range r.overlayLayer {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}
