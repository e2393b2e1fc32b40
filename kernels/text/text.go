// Package text implements the byte-indexed text family of spec
// §4.13: LENB/LEFTB/RIGHTB/MIDB/FINDB/SEARCHB/REPLACEB operate on raw
// UTF-8 bytes of the original string, REGEXMATCH/EXTRACT/REPLACE wrap
// Go's RE2 engine, DOLLAR/FIXED render through internal/format, ASC
// folds full-width to half-width via golang.org/x/text/width, and
// SPLIT tokenizes on a delimiter set.
package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/eval"
	"github.com/gscompat/formulacore/internal/format"
	"github.com/gscompat/formulacore/value"
)

func str(args []value.Value, i int) string {
	s, _ := value.AsScalar(args[i])
	return s.TextValue()
}

func num(args []value.Value, i int) float64 {
	s, _ := value.AsScalar(args[i])
	f, _ := s.NumberValue()
	return f
}

func strArg() eval.ArgSpec  { return eval.ArgSpec{Type: eval.ArgString} }
func intArg() eval.ArgSpec  { return eval.ArgSpec{Type: eval.ArgInteger} }

// Register installs every byte-indexed text and regex descriptor.
func Register(r *eval.Registry) {
	r.RegisterDefault("LENB", eval.Descriptor{
		Params: []eval.ArgSpec{strArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			return value.Number(float64(len(str(args, 0))))
		},
	})

	r.RegisterDefault("LEFTB", eval.Descriptor{
		Params: []eval.ArgSpec{strArg(), {Type: eval.ArgInteger, Optional: true, Default: value.Number(1), Min: f(0)}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s := str(args, 0)
			n := clampLen(int(num(args, 1)), len(s))
			return value.Text(s[:n])
		},
	})
	r.RegisterDefault("RIGHTB", eval.Descriptor{
		Params: []eval.ArgSpec{strArg(), {Type: eval.ArgInteger, Optional: true, Default: value.Number(1), Min: f(0)}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s := str(args, 0)
			n := clampLen(int(num(args, 1)), len(s))
			return value.Text(s[len(s)-n:])
		},
	})
	r.RegisterDefault("MIDB", eval.Descriptor{
		Params: []eval.ArgSpec{strArg(), {Type: eval.ArgInteger}, {Type: eval.ArgInteger, Min: f(0)}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s := str(args, 0)
			start := int(num(args, 1))
			n := int(num(args, 2))
			if start < 1 {
				return value.Err(cellerr.Newf(cellerr.VALUE, cellerr.LessThanOne))
			}
			if n < 0 {
				return value.Err(cellerr.Newf(cellerr.VALUE, cellerr.NegativeLength))
			}
			b0 := start - 1
			if b0 >= len(s) {
				return value.Text("")
			}
			b1 := clampLen(b0+n, len(s))
			return value.Text(s[b0:b1])
		},
	})

	r.RegisterDefault("FINDB", eval.Descriptor{
		Params: []eval.ArgSpec{strArg(), strArg(), {Type: eval.ArgInteger, Optional: true, Default: value.Number(1), Min: f(0)}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			needle, hay := str(args, 0), str(args, 1)
			start := int(num(args, 2))
			if start < 1 || start > len(hay)+1 {
				return value.ErrKind(cellerr.VALUE)
			}
			idx := strings.Index(hay[start-1:], needle)
			if idx < 0 {
				return value.ErrKind(cellerr.VALUE)
			}
			return value.Number(float64(idx + start))
		},
	})
	r.RegisterDefault("SEARCHB", eval.Descriptor{
		Params: []eval.ArgSpec{strArg(), strArg(), {Type: eval.ArgInteger, Optional: true, Default: value.Number(1), Min: f(0)}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			needle, hay := str(args, 0), str(args, 1)
			start := int(num(args, 2))
			if start < 1 || start > len(hay)+1 {
				return value.ErrKind(cellerr.VALUE)
			}
			idx := caseFoldIndex(hay[start-1:], needle)
			if idx < 0 {
				return value.ErrKind(cellerr.VALUE)
			}
			return value.Number(float64(idx + start))
		},
	})
	r.RegisterDefault("REPLACEB", eval.Descriptor{
		Params: []eval.ArgSpec{strArg(), {Type: eval.ArgInteger}, {Type: eval.ArgInteger, Min: f(0)}, strArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s := str(args, 0)
			start := int(num(args, 1))
			n := int(num(args, 2))
			repl := str(args, 3)
			if start < 1 {
				return value.Err(cellerr.Newf(cellerr.VALUE, cellerr.LessThanOne))
			}
			if n < 0 {
				return value.Err(cellerr.Newf(cellerr.VALUE, cellerr.NegativeLength))
			}
			b0 := clampLen(start-1, len(s))
			b1 := clampLen(b0+n, len(s))
			return value.Text(s[:b0] + repl + s[b1:])
		},
	})

	// REGEXMATCH/REGEXEXTRACT/REGEXREPLACE/SPLIT have no Excel
	// counterpart; they live on the google-sheets overlay layer.
	r.RegisterGoogleSheets("REGEXMATCH", eval.Descriptor{
		Params: []eval.ArgSpec{strArg(), strArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			re, err := regexp.Compile(str(args, 1))
			if err != nil {
				return value.Err(cellerr.Newf(cellerr.VALUE, cellerr.RegexSyntax))
			}
			return value.Bool(re.MatchString(str(args, 0)))
		},
	})
	r.RegisterGoogleSheets("REGEXEXTRACT", eval.Descriptor{
		Params: []eval.ArgSpec{strArg(), strArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			re, err := regexp.Compile(str(args, 1))
			if err != nil {
				return value.Err(cellerr.Newf(cellerr.VALUE, cellerr.RegexSyntax))
			}
			m := re.FindStringSubmatchIndex(str(args, 0))
			if m == nil {
				return value.ErrKind(cellerr.NA)
			}
			s := str(args, 0)
			if len(m) >= 4 && m[2] >= 0 {
				// Capture group present. An empty-but-participating
				// capture (m[2]==m[3]) yields "" rather than #N/A.
				return value.Text(s[m[2]:m[3]])
			}
			return value.Text(s[m[0]:m[1]])
		},
	})
	r.RegisterGoogleSheets("REGEXREPLACE", eval.Descriptor{
		Params: []eval.ArgSpec{strArg(), strArg(), strArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			re, err := regexp.Compile(str(args, 1))
			if err != nil {
				return value.Err(cellerr.Newf(cellerr.VALUE, cellerr.RegexSyntax))
			}
			return value.Text(re.ReplaceAllString(str(args, 0), str(args, 2)))
		},
	})

	r.RegisterDefault("DOLLAR", eval.Descriptor{
		Params: []eval.ArgSpec{{Type: eval.ArgNumber}, {Type: eval.ArgInteger, Optional: true, Default: value.Number(2)}},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			return value.Text(format.Number(num(args, 0), int(num(args, 1)), "$", true))
		},
	})
	r.RegisterDefault("FIXED", eval.Descriptor{
		Params: []eval.ArgSpec{
			{Type: eval.ArgNumber}, {Type: eval.ArgInteger, Optional: true, Default: value.Number(2)},
			{Type: eval.ArgBoolean, Optional: true, Default: value.Bool(false)},
		},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			noComma, _ := value.AsScalar(args[2])
			return value.Text(format.Number(num(args, 0), int(num(args, 1)), "", !noComma.RawBool()))
		},
	})

	r.RegisterDefault("ASC", eval.Descriptor{
		Params: []eval.ArgSpec{strArg()},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			return value.Text(width.Narrow.String(str(args, 0)))
		},
	})

	r.RegisterGoogleSheets("SPLIT", eval.Descriptor{
		Params: []eval.ArgSpec{strArg(), strArg(),
			{Type: eval.ArgBoolean, Optional: true, Default: value.Bool(true)},
			{Type: eval.ArgBoolean, Optional: true, Default: value.Bool(true)},
		},
		Fn: func(state *eval.State, args []value.Value) value.Value {
			s := str(args, 0)
			delims := str(args, 1)
			splitEach, _ := value.AsScalar(args[2])
			removeEmpty, _ := value.AsScalar(args[3])
			var parts []string
			switch {
			case splitEach.RawBool():
				parts = splitOnAnyRune(s, delims)
			case delims != "":
				parts = strings.Split(s, delims)
			default:
				parts = []string{s}
			}
			if removeEmpty.RawBool() {
				parts = dropEmpty(parts)
			}
			if len(parts) == 0 {
				parts = []string{""}
			}
			row := make([]value.Scalar, len(parts))
			for i, p := range parts {
				row[i] = value.Text(p)
			}
			rng, _ := value.NewRange([][]value.Scalar{row})
			return rng
		},
	})
}

// splitOnAnyRune splits s at every rune that occurs in delims,
// keeping empty fields between adjacent delimiters; the caller drops
// them afterward when the caller asked for that.
func splitOnAnyRune(s, delims string) []string {
	if delims == "" {
		return []string{s}
	}
	var out []string
	var cur strings.Builder
	for _, r := range s {
		if strings.ContainsRune(delims, r) {
			out = append(out, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	out = append(out, cur.String())
	return out
}

func dropEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// caseFoldIndex returns the byte offset in hay of the first
// case-insensitive occurrence of needle. Positions refer to the
// original haystack bytes: lowercasing a copy would shift offsets for
// characters whose lowercase form has a different byte length (e.g.
// U+0130 "İ"), so the comparison folds rune by rune in place instead.
func caseFoldIndex(hay, needle string) int {
	if needle == "" {
		return 0
	}
	for i := 0; i < len(hay); i++ {
		if i > 0 && !utf8.RuneStart(hay[i]) {
			continue
		}
		if foldPrefix(hay[i:], needle) {
			return i
		}
	}
	return -1
}

// foldPrefix reports whether s begins with a simple-case-fold match of
// needle.
func foldPrefix(s, needle string) bool {
	for len(needle) > 0 {
		if len(s) == 0 {
			return false
		}
		rn, n1 := utf8.DecodeRuneInString(needle)
		rs, n2 := utf8.DecodeRuneInString(s)
		if unicode.ToLower(rn) != unicode.ToLower(rs) {
			return false
		}
		needle = needle[n1:]
		s = s[n2:]
	}
	return true
}

func clampLen(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}

func f(v float64) *float64 { return &v }
