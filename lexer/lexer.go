// Package lexer implements the mode-sensitive lexical scanner for
// Google Sheets compatible formulas (spec §4.4).
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gscompat/formulacore/config"
	"github.com/gscompat/formulacore/token"
)

var errorLiterals = []string{
	"#DIV/0!", "#N/A", "#NAME?", "#NULL!", "#NUM!", "#REF!", "#VALUE!",
	"#ERROR!", "#SPILL!", "#CYCLE!",
}

// Lexer scans formula source text into a Token stream. A Lexer is
// built once per formula parse and owns a private cellRefMatcher
// (see cellref.go) so that two Lexers built from engines with
// different MaxCols never interfere (spec §9).
type Lexer struct {
	input   string
	pos     int
	cfg     *config.Config
	matcher *cellRefMatcher
}

// New builds a Lexer over input using cfg's mode-sensitive rules.
// cfg's relevant fields are captured by value into the Lexer's
// matcher; mutating cfg afterwards does not affect this Lexer.
func New(input string, cfg *config.Config) *Lexer {
	if cfg == nil {
		cfg = config.New()
	}
	return &Lexer{
		input:   input,
		cfg:     cfg,
		matcher: newCellRefMatcher(cfg.MaxCols, cfg.MaxRows),
	}
}

// Tokenize scans the entire input and returns every token including
// a trailing EOF.
func Tokenize(input string, cfg *config.Config) []token.Token {
	l := New(input, cfg)
	var out []token.Token
	for {
		t := l.NextToken()
		out = append(out, t)
		if t.Type == token.EOF {
			return out
		}
	}
}

func (l *Lexer) rest() string { return l.input[l.pos:] }

func (l *Lexer) eof() bool { return l.pos >= len(l.input) }

// NextToken returns the next token, advancing the scan position.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	start := l.pos
	if l.eof() {
		return token.Token{Type: token.EOF, Offset: start}
	}
	c := l.input[l.pos]

	switch {
	case c == '(':
		l.pos++
		return l.tok(token.LPAREN, start)
	case c == ')':
		l.pos++
		return l.tok(token.RPAREN, start)
	case c == '{':
		l.pos++
		return l.tok(token.LBRACE, start)
	case c == '}':
		l.pos++
		return l.tok(token.RBRACE, start)
	case c == '+':
		l.pos++
		return l.tok(token.PLUS, start)
	case c == '-':
		l.pos++
		return l.tok(token.MINUS, start)
	case c == '*':
		l.pos++
		return l.tok(token.STAR, start)
	case c == '/':
		l.pos++
		return l.tok(token.SLASH, start)
	case c == '^':
		l.pos++
		return l.tok(token.CARET, start)
	case c == '%':
		l.pos++
		return l.tok(token.PERCENT, start)
	case c == '&':
		l.pos++
		return l.tok(token.AMP, start)
	case c == '=':
		l.pos++
		return l.tok(token.EQ, start)
	case c == '<':
		if l.peekAt(1) == '>' {
			l.pos += 2
			return l.tok(token.NEQ, start)
		}
		if l.peekAt(1) == '=' {
			l.pos += 2
			return l.tok(token.LTE, start)
		}
		l.pos++
		return l.tok(token.LT, start)
	case c == '>':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return l.tok(token.GTE, start)
		}
		l.pos++
		return l.tok(token.GT, start)
	case c == byte(l.cfg.ArgSeparator):
		l.pos++
		return l.tok(token.COMMA, start)
	case l.cfg.ArrayColSeparator != l.cfg.ArgSeparator && c == byte(l.cfg.ArrayColSeparator):
		l.pos++
		return l.tok(token.COMMA, start)
	case c == byte(l.cfg.ArrayRowSeparator):
		l.pos++
		return l.tok(token.SEMICOLON, start)
	case c == '"':
		return l.scanString(start)
	case c == '#':
		return l.scanErrorLiteral(start)
	case isDigit(c):
		return l.scanNumberOrRowRange(start)
	case c == '$' || isAsciiUpper(c) || isAsciiLower(c) || c == '_':
		return l.scanIdentifierLike(start)
	case c == ':':
		l.pos++
		return l.tok(token.COLON, start)
	default:
		l.pos++
		return l.tok(token.ILLEGAL, start)
	}
}

func (l *Lexer) tok(t token.Type, start int) token.Token {
	return token.Token{Type: t, Literal: l.input[start:l.pos], Offset: start}
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

// skipWhitespace absorbs whitespace between tokens: under
// WhitespaceStandard only ASCII space/tab, otherwise any Unicode
// whitespace rune (spec §4.4).
func (l *Lexer) skipWhitespace() {
	for !l.eof() {
		c := l.input[l.pos]
		if c == ' ' || c == '\t' {
			l.pos++
			continue
		}
		if l.cfg.IgnoreWhitespace != config.WhitespaceStandard {
			r, size := utf8.DecodeRuneInString(l.rest())
			if unicode.IsSpace(r) {
				l.pos += size
				continue
			}
		}
		return
	}
}

func (l *Lexer) scanString(start int) token.Token {
	l.pos++ // opening quote
	var sb strings.Builder
	for !l.eof() {
		c := l.input[l.pos]
		if c == '\\' && l.peekAt(1) == '"' {
			sb.WriteByte('"')
			l.pos += 2
			continue
		}
		if c == '"' {
			l.pos++
			return token.Token{Type: token.STRING, Literal: sb.String(), Offset: start}
		}
		sb.WriteByte(c)
		l.pos++
	}
	// Unterminated string: emit what we have as ILLEGAL.
	return token.Token{Type: token.ILLEGAL, Literal: sb.String(), Offset: start}
}

func (l *Lexer) scanErrorLiteral(start int) token.Token {
	for _, lit := range errorLiterals {
		if strings.HasPrefix(l.rest(), lit) {
			l.pos += len(lit)
			return token.Token{Type: token.ERRORLIT, Literal: lit, Offset: start}
		}
	}
	l.pos++
	return l.tok(token.ILLEGAL, start)
}

func (l *Lexer) scanNumberOrRowRange(start int) token.Token {
	if n, ok := l.matcher.matchRowRange(l.rest()); ok {
		l.pos += n
		return l.tok(token.ROWRANGE, start)
	}
	for !l.eof() && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if !l.eof() && l.input[l.pos] == byte(l.cfg.DecimalSeparator) && l.peekAt(1) != 0 && isDigit(l.peekAt(1)) {
		l.pos++
		for !l.eof() && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	if !l.eof() && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		save := l.pos
		l.pos++
		if !l.eof() && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.pos++
		}
		if !l.eof() && isDigit(l.input[l.pos]) {
			for !l.eof() && isDigit(l.input[l.pos]) {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}
	return l.tok(token.NUMBER, start)
}

// scanIdentifierLike handles everything that can start with a
// letter or '$': column ranges ("A:C"), cell references ("A1",
// "$B$2"), and the identifier family (named expressions, procedure
// names, and the TRUE/FALSE boolean literals). Per spec §4.4 the
// boolean-vs-named-expression ambiguity is resolved by maximal
// munch: the identifier scan always consumes the longest run of
// ident characters before classification, so "TRUECOUNT" can never
// be cut short into "TRUE".
func (l *Lexer) scanIdentifierLike(start int) token.Token {
	if l.input[l.pos] != '$' {
		if n, ok := l.matcher.matchColRange(l.rest()); ok {
			l.pos += n
			return l.tok(token.COLRANGE, start)
		}
	}
	if n, ok := l.matcher.matchCellRef(l.rest()); ok {
		l.pos += n
		return l.tok(token.CELLREF, start)
	}
	if l.input[l.pos] == '$' {
		// '$' only legal as part of a cell reference; otherwise illegal.
		l.pos++
		return l.tok(token.ILLEGAL, start)
	}
	for !l.eof() && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	word := l.input[start:l.pos]
	upper := strings.ToUpper(word)
	if upper == "TRUE" || upper == "FALSE" {
		return token.Token{Type: token.BOOLEAN, Literal: upper, Offset: start}
	}
	if !l.eof() && l.input[l.pos] == '(' {
		return token.Token{Type: token.PROCEDURE, Literal: upper, Offset: start}
	}
	return token.Token{Type: token.IDENT, Literal: word, Offset: start}
}

func isAsciiLower(c byte) bool { return c >= 'a' && c <= 'z' }
