// Package locale supplies the default LocaleContext implementation
// consumed by the evaluator and arith packages (spec §6.2). The core
// never ships translation tables of its own; Default wires a single
// built-in English/US table and locale-aware collation via
// golang.org/x/text.
package locale

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Default is the out-of-the-box LocaleContext: English canonical
// names mapped to themselves, en-US collation.
type Default struct {
	tag        language.Tag
	col        *collate.Collator
	funcMap    map[string]string // local name -> canonical name
	errMap     map[string]string // local error literal -> canonical literal
}

// New builds a Default locale for the given BCP-47 tag (e.g.
// "en-US"). An unparsable tag falls back to language.Und (root
// collation), matching aretext's tolerant handling of malformed
// locale strings.
func New(tag string) (*Default, error) {
	t, err := language.Parse(tag)
	if err != nil {
		t = language.Und
	}
	return &Default{
		tag:     t,
		col:     collate.New(t, collate.IgnoreCase),
		funcMap: map[string]string{},
		errMap:  map[string]string{},
	}, errors.Wrapf(err, "locale: parsing tag %q, falling back to root collation", tag)
}

// Collate orders a, b the way the configured locale would; when
// caseInsensitive is false it falls back to a case-sensitive
// byte/rune comparison rather than the case-folding collator, since
// x/text/collate has no single Collator that switches per call.
func (d *Default) Collate(a, b string, caseInsensitive bool) int {
	if caseInsensitive {
		return d.col.CompareString(a, b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// FunctionTranslation returns the locale's spelling of canonical, or
// canonical itself when no override is registered.
func (d *Default) FunctionTranslation(canonical string) string {
	for local, canon := range d.funcMap {
		if canon == canonical {
			return local
		}
	}
	return canonical
}

// FunctionMapping exposes the local-name -> canonical-name table.
func (d *Default) FunctionMapping() map[string]string {
	return d.funcMap
}

// ErrorMapping exposes the local-error-literal -> canonical-literal
// table, used by the lexer/parser boundary before cellerr.FromLiteral
// runs.
func (d *Default) ErrorMapping() map[string]string {
	return d.errMap
}

// RegisterFunctionName adds (or replaces) a local spelling for a
// canonical function name.
func (d *Default) RegisterFunctionName(local, canonical string) {
	d.funcMap[strings.ToUpper(local)] = strings.ToUpper(canonical)
}

// RegisterErrorLiteral adds a local error literal mapping to the
// engine's canonical surface string (e.g. a localized "#DIV/0!"
// spelling).
func (d *Default) RegisterErrorLiteral(local, canonical string) {
	d.errMap[local] = canonical
}
