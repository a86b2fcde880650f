// Package expr implements the interactive_rule expression language.
//
// Supported forms:
//   - truthiness: `enable_hr`, `!enable_hr`
//   - equality: `model_type == "Custom"`, `enable_hr != false`, `steps == 25`
//   - ordering on numbers: `steps > 20`, `sampling.cfg_scale <= 12.5`
//   - composition: `a && b`, `a || b`, parentheses
//
// Identifiers are resolved through interactivity.Context.Lookup, so dotted
// paths and the `extras.` prefix work as they do for interactive_if.
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-propertysheet/pkg/interactivity"
)

var (
	// ErrSyntax reports a rule that cannot be parsed.
	ErrSyntax = errors.New("interactivity/expr: syntax error")
	// ErrOperator reports an operator that does not apply to its literal.
	ErrOperator = errors.New("interactivity/expr: unsupported operator")
)

// Evaluator is a small, dependency-free rule evaluator. Parsed rules are not
// cached; rules are short and evaluated once per descriptor.
type Evaluator struct{}

// New returns an Evaluator.
func New() *Evaluator { return &Evaluator{} }

// Eval evaluates rule against ctx. An empty rule is always true.
func (e *Evaluator) Eval(_ string, rule string, ctx interactivity.Context) (bool, error) {
	node, err := Parse(rule)
	if err != nil {
		return false, err
	}
	if node == nil {
		return true, nil
	}
	return node.eval(ctx)
}

// Node is a parsed rule.
type Node interface {
	eval(ctx interactivity.Context) (bool, error)
}

// Parse compiles rule into a Node. An empty rule parses to nil.
func Parse(rule string) (Node, error) {
	lex := &lexer{input: strings.TrimSpace(rule)}
	tokens, err := lex.run()
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	p := &parser{tokens: tokens}
	node, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("%w: unexpected token %q", ErrSyntax, p.tokens[p.pos].raw)
	}
	return node, nil
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokNumber
	tokBool
	tokNull
	tokEq
	tokNeq
	tokLt
	tokLte
	tokGt
	tokGte
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

var operatorText = map[tokenKind]string{
	tokEq:  "==",
	tokNeq: "!=",
	tokLt:  "<",
	tokLte: "<=",
	tokGt:  ">",
	tokGte: ">=",
}

type token struct {
	kind tokenKind
	raw  string
}

type lexer struct {
	input  string
	pos    int
	tokens []token
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *lexer) emit(kind tokenKind, raw string) {
	l.tokens = append(l.tokens, token{kind: kind, raw: raw})
}

// pair emits long when the next byte is second, short otherwise.
func (l *lexer) pair(second byte, long, short tokenKind, longRaw, shortRaw string) {
	l.pos++
	if l.peek() == second {
		l.pos++
		l.emit(long, longRaw)
		return
	}
	l.emit(short, shortRaw)
}

func (l *lexer) run() ([]token, error) {
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case isSpace(ch):
			l.pos++
		case ch == '(':
			l.pos++
			l.emit(tokLParen, "(")
		case ch == ')':
			l.pos++
			l.emit(tokRParen, ")")
		case ch == '!':
			l.pair('=', tokNeq, tokNot, "!=", "!")
		case ch == '<':
			l.pair('=', tokLte, tokLt, "<=", "<")
		case ch == '>':
			l.pair('=', tokGte, tokGt, ">=", ">")
		case ch == '=':
			if err := l.double('=', tokEq, "=="); err != nil {
				return nil, err
			}
		case ch == '&':
			if err := l.double('&', tokAnd, "&&"); err != nil {
				return nil, err
			}
		case ch == '|':
			if err := l.double('|', tokOr, "||"); err != nil {
				return nil, err
			}
		case ch == '"' || ch == '\'':
			if err := l.quoted(ch); err != nil {
				return nil, err
			}
		default:
			l.word()
		}
	}
	return l.tokens, nil
}

func (l *lexer) double(ch byte, kind tokenKind, raw string) error {
	l.pos++
	if l.peek() != ch {
		return fmt.Errorf("%w: unexpected %q; use %q", ErrSyntax, string(ch), raw)
	}
	l.pos++
	l.emit(kind, raw)
	return nil
}

func (l *lexer) quoted(quote byte) error {
	start := l.pos
	l.pos++
	escaped := false
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		l.pos++
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == quote:
			body := l.input[start+1 : l.pos-1]
			if quote == '\'' {
				body = strings.ReplaceAll(body, `"`, `\"`)
				body = strings.ReplaceAll(body, `\'`, `'`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return fmt.Errorf("%w: invalid string literal: %v", ErrSyntax, err)
			}
			l.emit(tokString, value)
			return nil
		}
	}
	return fmt.Errorf("%w: unterminated string literal", ErrSyntax)
}

func (l *lexer) word() {
	start := l.pos
	for l.pos < len(l.input) && !isDelimiter(l.input[l.pos]) {
		l.pos++
	}
	raw := l.input[start:l.pos]
	switch lower := strings.ToLower(raw); {
	case lower == "true" || lower == "false":
		l.emit(tokBool, lower)
	case lower == "null" || lower == "nil":
		l.emit(tokNull, "null")
	case looksLikeNumber(raw):
		l.emit(tokNumber, raw)
	default:
		l.emit(tokIdent, raw)
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || strings.IndexByte("()!=&|<>\"'", c) >= 0
}

func looksLikeNumber(raw string) bool {
	if raw == "" {
		return false
	}
	ch := raw[0]
	return (ch >= '0' && ch <= '9') || ch == '-' || ch == '+' || ch == '.'
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) match(kind tokenKind) bool {
	if p.pos < len(p.tokens) && p.tokens[p.pos].kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *parser) or() (Node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(tokOr) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) and() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(tokAnd) {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) unary() (Node, error) {
	if p.match(tokNot) {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (Node, error) {
	if p.match(tokLParen) {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if !p.match(tokRParen) {
			return nil, fmt.Errorf("%w: missing closing ')'", ErrSyntax)
		}
		return inner, nil
	}

	if p.pos >= len(p.tokens) {
		return nil, fmt.Errorf("%w: unexpected end of rule", ErrSyntax)
	}
	ident := p.tokens[p.pos]
	if ident.kind != tokIdent {
		return nil, fmt.Errorf("%w: expected identifier, got %q", ErrSyntax, ident.raw)
	}
	p.pos++

	if p.pos < len(p.tokens) {
		if _, isOp := operatorText[p.tokens[p.pos].kind]; isOp {
			op := p.tokens[p.pos].kind
			p.pos++
			lit, err := p.literal()
			if err != nil {
				return nil, err
			}
			if op != tokEq && op != tokNeq && lit.kind != tokNumber {
				return nil, fmt.Errorf("%w: %q needs a number, got %q", ErrOperator, operatorText[op], lit.raw)
			}
			return compareNode{identifier: ident.raw, op: op, literal: lit}, nil
		}
	}
	return truthyNode{identifier: ident.raw}, nil
}

func (p *parser) literal() (token, error) {
	if p.pos >= len(p.tokens) {
		return token{}, fmt.Errorf("%w: missing literal", ErrSyntax)
	}
	tok := p.tokens[p.pos]
	p.pos++
	switch tok.kind {
	case tokString, tokNumber, tokBool, tokNull:
		return tok, nil
	case tokIdent:
		// bare words compare as strings: model_type == Custom
		return token{kind: tokString, raw: tok.raw}, nil
	default:
		return token{}, fmt.Errorf("%w: expected literal, got %q", ErrSyntax, tok.raw)
	}
}
