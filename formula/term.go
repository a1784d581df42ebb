package formula

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/maj-biostat/brms/core"
)

// Term is one parsed addition-term (or response) expression. A nil *Term
// means "not declared"; Eval on nil fails with ErrMissingAdditionTerm so
// required-role call sites stay one-liners.
type Term struct {
	src  string
	root node
}

// ParseTerm parses src into a Term. Parse failures carry
// ErrMalformedAdditionTerm.
func ParseTerm(src string) (*Term, error) {
	p := &parser{src: src}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, malformed(src, fmt.Sprintf("unexpected %q at offset %d", p.src[p.pos:], p.pos))
	}
	return &Term{src: src, root: root}, nil
}

// MustTerm is ParseTerm for statically known expressions; it panics on parse
// failure and exists for frame construction in tests and examples.
func MustTerm(src string) *Term {
	t, err := ParseTerm(src)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the original expression source.
func (t *Term) String() string {
	if t == nil {
		return ""
	}
	return t.src
}

// Eval evaluates the expression against tab. A bare identifier returns the
// referenced column unchanged (any kind); any arithmetic forces numeric
// coercion and yields a core.Numeric of length 1 or tab.N().
func (t *Term) Eval(tab *core.Table) (core.Column, error) {
	if t == nil {
		return nil, ErrMissingAdditionTerm
	}
	c, err := t.root.eval(tab)
	if err != nil {
		return nil, fmt.Errorf("eval %q: %w", t.src, err)
	}
	return c, nil
}

// EvalFloats evaluates the expression and coerces the result to float64.
func (t *Term) EvalFloats(tab *core.Table) ([]float64, error) {
	c, err := t.Eval(tab)
	if err != nil {
		return nil, err
	}
	xs, err := core.ToFloats(c)
	if err != nil {
		return nil, fmt.Errorf("eval %q: %v: %w", t.src, err, ErrMalformedAdditionTerm)
	}
	return xs, nil
}

// malformed builds a uniformly tagged parse/eval error.
func malformed(src, detail string) error {
	return fmt.Errorf("%q: %s: %w", src, detail, ErrMalformedAdditionTerm)
}

// --- AST -------------------------------------------------------------------

type node interface {
	eval(tab *core.Table) (core.Column, error)
}

type identNode struct{ name string }

func (n identNode) eval(tab *core.Table) (core.Column, error) {
	c, err := tab.Column(n.name)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMalformedAdditionTerm)
	}
	return c, nil
}

type numberNode struct{ val float64 }

func (n numberNode) eval(*core.Table) (core.Column, error) {
	return core.Numeric{n.val}, nil
}

type unaryNode struct{ x node }

func (n unaryNode) eval(tab *core.Table) (core.Column, error) {
	xs, err := asFloats(n.x, tab)
	if err != nil {
		return nil, err
	}
	out := make(core.Numeric, len(xs))
	for i, x := range xs {
		out[i] = -x
	}
	return out, nil
}

type binaryNode struct {
	op   byte
	x, y node
}

func (n binaryNode) eval(tab *core.Table) (core.Column, error) {
	xs, err := asFloats(n.x, tab)
	if err != nil {
		return nil, err
	}
	ys, err := asFloats(n.y, tab)
	if err != nil {
		return nil, err
	}
	// Align scalar against vector; equal lengths pass through.
	size := len(xs)
	if len(ys) > size {
		size = len(ys)
	}
	if xs, err = core.Broadcast(xs, size); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMalformedAdditionTerm)
	}
	if ys, err = core.Broadcast(ys, size); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMalformedAdditionTerm)
	}
	out := make(core.Numeric, size)
	for i := range out {
		switch n.op {
		case '+':
			out[i] = xs[i] + ys[i]
		case '-':
			out[i] = xs[i] - ys[i]
		case '*':
			out[i] = xs[i] * ys[i]
		case '/':
			out[i] = xs[i] / ys[i]
		}
	}
	return out, nil
}

type callNode struct {
	fn string
	x  node
}

// callTable maps the supported call names to element-wise kernels.
var callTable = map[string]func(float64) float64{
	"abs":   math.Abs,
	"log":   math.Log,
	"log1p": math.Log1p,
	"exp":   math.Exp,
	"sqrt":  math.Sqrt,
}

func (n callNode) eval(tab *core.Table) (core.Column, error) {
	fn, ok := callTable[n.fn]
	if !ok {
		return nil, malformed(n.fn, "unsupported call")
	}
	xs, err := asFloats(n.x, tab)
	if err != nil {
		return nil, err
	}
	out := make(core.Numeric, len(xs))
	for i, x := range xs {
		out[i] = fn(x)
	}
	return out, nil
}

// asFloats evaluates a child node and coerces it to floats.
func asFloats(n node, tab *core.Table) ([]float64, error) {
	c, err := n.eval(tab)
	if err != nil {
		return nil, err
	}
	xs, err := core.ToFloats(c)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMalformedAdditionTerm)
	}
	return xs, nil
}

// --- parser ----------------------------------------------------------------

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// parseExpr := term (('+'|'-') term)*
func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, x: left, y: right}
	}
}

// parseTerm := unary (('*'|'/') unary)*
func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, x: left, y: right}
	}
}

// parseUnary := '-' unary | primary
func (p *parser) parseUnary() (node, error) {
	if p.peek() == '-' {
		p.pos++
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{x: x}, nil
	}
	return p.parsePrimary()
}

// parsePrimary := NUMBER | IDENT | IDENT '(' expr ')' | '(' expr ')'
func (p *parser) parsePrimary() (node, error) {
	ch := p.peek()
	switch {
	case ch == '(':
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, malformed(p.src, "missing closing parenthesis")
		}
		p.pos++
		return inner, nil
	case ch >= '0' && ch <= '9' || ch == '.':
		return p.parseNumber()
	case isIdentStart(rune(ch)):
		return p.parseIdentOrCall()
	case ch == 0:
		return nil, malformed(p.src, "unexpected end of expression")
	default:
		return nil, malformed(p.src, fmt.Sprintf("unexpected character %q", ch))
	}
}

func (p *parser) parseNumber() (node, error) {
	start := p.pos
	for p.pos < len(p.src) && (isDigit(p.src[p.pos]) || p.src[p.pos] == '.' ||
		p.src[p.pos] == 'e' || p.src[p.pos] == 'E' ||
		((p.src[p.pos] == '+' || p.src[p.pos] == '-') && p.pos > start &&
			(p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E'))) {
		p.pos++
	}
	lit := p.src[start:p.pos]
	val, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, malformed(p.src, fmt.Sprintf("bad number literal %q", lit))
	}
	return numberNode{val: val}, nil
}

func (p *parser) parseIdentOrCall() (node, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(rune(p.src[p.pos])) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if p.peek() != '(' {
		return identNode{name: name}, nil
	}
	if _, ok := callTable[strings.ToLower(name)]; !ok {
		return nil, malformed(p.src, fmt.Sprintf("unsupported call %q", name))
	}
	p.pos++ // consume '('
	arg, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek() != ')' {
		return nil, malformed(p.src, "missing closing parenthesis")
	}
	p.pos++
	return callNode{fn: strings.ToLower(name), x: arg}, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '.'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}
