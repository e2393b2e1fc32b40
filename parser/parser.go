// Package parser implements the Pratt-style expression parser over
// the formula token stream (spec §4.5).
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gscompat/formulacore/ast"
	"github.com/gscompat/formulacore/cellerr"
	"github.com/gscompat/formulacore/config"
	"github.com/gscompat/formulacore/lexer"
	"github.com/gscompat/formulacore/token"
)

// Precedence levels, highest first, matching spec §4.5:
// range > unary +/- > ^ > * / > + - > & > comparisons > % (postfix) > comma.
const (
	_ int = iota
	LOWEST
	POSTFIX // postfix % -- loosest of the operator tokens
	COMPARE // = <> < > <= >=
	CONCAT  // &
	SUM     // + -
	PRODUCT // * /
	POW     // ^
	UNARY   // prefix - +
	RANGEOP // : -- tightest
)

var precedences = map[token.Type]int{
	token.EQ:      COMPARE,
	token.NEQ:     COMPARE,
	token.LT:      COMPARE,
	token.GT:      COMPARE,
	token.LTE:     COMPARE,
	token.GTE:     COMPARE,
	token.AMP:     CONCAT,
	token.PLUS:    SUM,
	token.MINUS:   SUM,
	token.STAR:    PRODUCT,
	token.SLASH:   PRODUCT,
	token.CARET:   POW,
	token.COLON:   RANGEOP,
	token.PERCENT: POSTFIX,
}

// NameResolver translates a locale-specific, already-upper-cased
// function name token into its canonical English name (spec §4.5,
// §6.2 LocaleContext.get_function_mapping). A nil resolver leaves
// names unchanged.
type NameResolver interface {
	CanonicalFunctionName(localUpper string) (string, bool)
}

type (
	prefixParseFn func() ast.Node
	infixParseFn  func(ast.Node) ast.Node
)

// Parser consumes a token stream and produces an ast.Node tree. It
// never mutates the Lexer it wraps beyond advancing it, and it holds
// no state shared across parses.
type Parser struct {
	l        *lexer.Lexer
	cfg      *config.Config
	resolver NameResolver

	cur, peek token.Token
	errs       []string

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn
}

// New builds a Parser over src, tokenizing with cfg's mode-sensitive
// rules. resolver may be nil.
func New(src string, cfg *config.Config, resolver NameResolver) *Parser {
	if cfg == nil {
		cfg = config.New()
	}
	p := &Parser{l: lexer.New(src, cfg), cfg: cfg, resolver: resolver}
	p.prefixFns = map[token.Type]prefixParseFn{
		token.NUMBER:    p.parseNumber,
		token.STRING:    p.parseString,
		token.BOOLEAN:   p.parseBool,
		token.ERRORLIT:  p.parseErrorLit,
		token.CELLREF:   p.parseCellRef,
		token.COLRANGE:  p.parseColRange,
		token.ROWRANGE:  p.parseRowRange,
		token.IDENT:     p.parseNamedExpression,
		token.PROCEDURE: p.parseProcedure,
		token.LPAREN:    p.parseGrouped,
		token.LBRACE:    p.parseArrayLiteral,
		token.MINUS:     p.parseUnary,
		token.PLUS:      p.parseUnary,
	}
	p.infixFns = map[token.Type]infixParseFn{
		token.PLUS:    p.parseBinary,
		token.MINUS:   p.parseBinary,
		token.STAR:    p.parseBinary,
		token.SLASH:   p.parseBinary,
		token.CARET:   p.parseBinary,
		token.AMP:     p.parseBinary,
		token.EQ:      p.parseBinary,
		token.NEQ:     p.parseBinary,
		token.LT:      p.parseBinary,
		token.GT:      p.parseBinary,
		token.LTE:     p.parseBinary,
		token.GTE:     p.parseBinary,
		token.COLON:   p.parseRangeOp,
		token.PERCENT: p.parsePostfixPercent,
	}
	p.advance()
	p.advance()
	return p
}

// Errors returns the accumulated parse errors, in encounter order.
func (p *Parser) Errors() []string { return p.errs }

// ParseFormula parses a complete formula expression (the caller
// strips the leading '=' per spec §6.5).
func (p *Parser) ParseFormula() ast.Node {
	return p.parseExpression(LOWEST)
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(format string, a ...any) {
	p.errs = append(p.errs, fmt.Sprintf(format, a...))
}

// curPrecedence is the binding power of the operator the cursor sits
// on after a prefix/infix function has consumed its operand: every
// parse function leaves cur on the next unconsumed token.
func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) expect(t token.Type) bool {
	if p.cur.Type == t {
		p.advance()
		return true
	}
	p.errorf("expected %s, got %s (%q)", t, p.cur.Type, p.cur.Literal)
	return false
}

func (p *Parser) parseExpression(minPrec int) ast.Node {
	prefix, ok := p.prefixFns[p.cur.Type]
	if !ok {
		p.errorf("unexpected token %s (%q)", p.cur.Type, p.cur.Literal)
		p.advance()
		return ast.ErrorLit{Kind: "ERROR"}
	}
	left := prefix()

	for minPrec < p.curPrecedence() {
		infix, ok := p.infixFns[p.cur.Type]
		if !ok {
			return left
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) parseNumber() ast.Node {
	lit := p.cur.Literal
	normalized := lit
	if p.cfg.DecimalSeparator != '.' {
		normalized = strings.ReplaceAll(lit, string(p.cfg.DecimalSeparator), ".")
	}
	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		p.errorf("invalid number literal %q", lit)
	}
	p.advance()
	return ast.Number{Value: f}
}

func (p *Parser) parseString() ast.Node {
	n := ast.Text{Value: p.cur.Literal}
	p.advance()
	return n
}

func (p *Parser) parseBool() ast.Node {
	n := ast.Bool{Value: strings.EqualFold(p.cur.Literal, "TRUE")}
	p.advance()
	return n
}

func (p *Parser) parseErrorLit() ast.Node {
	kind, ok := cellerr.FromLiteral(p.cur.Literal)
	name := "ERROR"
	if ok {
		name = kindName(kind)
	}
	p.advance()
	return ast.ErrorLit{Kind: name}
}

func (p *Parser) parseCellRef() ast.Node {
	ref := parseCellRefLiteral(p.cur.Literal)
	p.advance()
	return ast.CellReference{Ref: ref}
}

func (p *Parser) parseColRange() ast.Node {
	ref := parseColRangeLiteral(p.cur.Literal)
	p.advance()
	return ast.RangeReference{Ref: ref}
}

func (p *Parser) parseRowRange() ast.Node {
	ref := parseRowRangeLiteral(p.cur.Literal)
	p.advance()
	return ast.RangeReference{Ref: ref}
}

func (p *Parser) parseNamedExpression() ast.Node {
	n := ast.NamedExpression{Name: p.cur.Literal}
	p.advance()
	return n
}

func (p *Parser) parseProcedure() ast.Node {
	name := p.cur.Literal
	if p.resolver != nil {
		if canon, ok := p.resolver.CanonicalFunctionName(name); ok {
			name = canon
		}
	}
	p.advance() // consume PROCEDURE
	if !p.expect(token.LPAREN) {
		return ast.Procedure{Name: name}
	}
	var args []ast.Node
	if p.cur.Type != token.RPAREN {
		args = append(args, p.parseExpression(LOWEST))
		for p.cur.Type == token.COMMA {
			p.advance()
			args = append(args, p.parseExpression(LOWEST))
		}
	}
	p.expect(token.RPAREN)
	return ast.Procedure{Name: name, Args: args}
}

func (p *Parser) parseGrouped() ast.Node {
	p.advance() // consume '('
	inner := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	return inner
}

func (p *Parser) parseArrayLiteral() ast.Node {
	p.advance() // consume '{'
	var rows [][]ast.Node
	row := []ast.Node{p.parseExpression(LOWEST)}
	for p.cur.Type == token.COMMA {
		p.advance()
		row = append(row, p.parseExpression(LOWEST))
	}
	rows = append(rows, row)
	for p.cur.Type == token.SEMICOLON {
		p.advance()
		row = []ast.Node{p.parseExpression(LOWEST)}
		for p.cur.Type == token.COMMA {
			p.advance()
			row = append(row, p.parseExpression(LOWEST))
		}
		rows = append(rows, row)
	}
	p.expect(token.RBRACE)
	width := len(rows[0])
	for _, r := range rows {
		if len(r) != width {
			p.errorf("array literal rows must have equal length")
			break
		}
	}
	return ast.ArrayLiteral{Rows: rows}
}

func (p *Parser) parseUnary() ast.Node {
	op := ast.OpNeg
	if p.cur.Type == token.PLUS {
		op = ast.OpPos
	}
	p.advance()
	arg := p.parseExpression(UNARY)
	return ast.UnaryOp{Op: op, Arg: arg}
}

func (p *Parser) parsePostfixPercent(left ast.Node) ast.Node {
	p.advance() // consume '%'
	return ast.UnaryOp{Op: ast.OpPercentPostfix, Arg: left}
}

var binOps = map[token.Type]ast.BinaryOperator{
	token.PLUS: ast.OpAdd, token.MINUS: ast.OpSub, token.STAR: ast.OpMul,
	token.SLASH: ast.OpDiv, token.CARET: ast.OpPow, token.AMP: ast.OpConcat,
	token.EQ: ast.OpEq, token.NEQ: ast.OpNeq, token.LT: ast.OpLt,
	token.GT: ast.OpGt, token.LTE: ast.OpLte, token.GTE: ast.OpGte,
}

func (p *Parser) parseBinary(left ast.Node) ast.Node {
	opTok := p.cur.Type
	prec := precedences[opTok]
	p.advance()
	right := p.parseExpression(prec)
	return ast.BinaryOp{Op: binOps[opTok], LHS: left, RHS: right}
}

// parseRangeOp implements the range-operator lowering of spec §4.5:
// two cell/range references joined by ':' collapse into a single
// RangeReference rather than a generic BinaryOp node.
func (p *Parser) parseRangeOp(left ast.Node) ast.Node {
	p.advance() // consume ':'
	right := p.parseExpression(RANGEOP)
	lref, lok := refOf(left)
	rref, rok := refOf(right)
	if !lok || !rok {
		p.errorf("range operator requires cell references on both sides")
		return ast.BinaryOp{Op: ast.OpRange, LHS: left, RHS: right}
	}
	return ast.RangeReference{Ref: mergeRefs(lref, rref)}
}

func refOf(n ast.Node) (ast.Ref, bool) {
	switch t := n.(type) {
	case ast.CellReference:
		return t.Ref, true
	case ast.RangeReference:
		return t.Ref, true
	default:
		return ast.Ref{}, false
	}
}

func mergeRefs(a, b ast.Ref) ast.Ref {
	c0, r0 := minCoord(a), minRow(a)
	c1, r1 := maxCoord(b), maxRow(b)
	if c0 > c1 {
		c0, c1 = c1, c0
	}
	if r0 > r1 {
		r0, r1 = r1, r0
	}
	return ast.Ref{Kind: ast.AreaRef, Sheet: a.Sheet, Col0: c0, Row0: r0, Col1: c1, Row1: r1}
}

func minCoord(r ast.Ref) int {
	if r.Col0 < r.Col1 {
		return r.Col0
	}
	return r.Col1
}
func maxCoord(r ast.Ref) int {
	if r.Col1 > r.Col0 {
		return r.Col1
	}
	return r.Col0
}
func minRow(r ast.Ref) int {
	if r.Row0 < r.Row1 {
		return r.Row0
	}
	return r.Row1
}
func maxRow(r ast.Ref) int {
	if r.Row1 > r.Row0 {
		return r.Row1
	}
	return r.Row0
}

func kindName(k cellerr.Kind) string {
	switch k {
	case cellerr.NULL:
		return "NULL"
	case cellerr.DIV_BY_ZERO:
		return "DIV_BY_ZERO"
	case cellerr.VALUE:
		return "VALUE"
	case cellerr.REF:
		return "REF"
	case cellerr.NAME:
		return "NAME"
	case cellerr.NUM:
		return "NUM"
	case cellerr.NA:
		return "NA"
	case cellerr.SPILL:
		return "SPILL"
	case cellerr.CYCLE:
		return "CYCLE"
	default:
		return "ERROR"
	}
}
