package pattern

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is wrapped by every *ParseError.
var ErrSyntax = errors.New("invalid pattern syntax")

// ParseError describes why a pattern failed to compile.
type ParseError struct {
	Pos   int
	Msg   string
	inner error
}

func (e *ParseError) Error() string {
	if e.inner != nil {
		return fmt.Sprintf("parser error at %d: %s: %v", e.Pos, e.Msg, e.inner)
	}
	return fmt.Sprintf("parser error at %d: %s", e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() []error {
	if e.inner != nil {
		return []error{ErrSyntax, e.inner}
	}
	return []error{ErrSyntax}
}

func newParserError(i int, msg string, inner error) *ParseError {
	return &ParseError{Pos: i, Msg: msg, inner: inner}
}

// characters that never start a literal
const specialChars = `+*().{}\`

type parser struct {
	re  string
	pos int
	// number of groups closed so far; the next group gets groups+1
	groups int
	output int
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.re)
}

func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.re[p.pos]
}

func (p *parser) consume(c byte) bool {
	if !p.atEnd() && p.re[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

// parsePattern parses the complete pattern including a trailing \O{N}.
func (p *parser) parsePattern() (*node, error) {
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	p.parseOutputDirective()

	if !p.atEnd() {
		return nil, newParserError(p.pos, fmt.Sprintf("unexpected %q", p.peek()), nil)
	}
	return root, nil
}

// Term ('+' Term)*, left associative
func (p *parser) parseExpr() (*node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.consume('+') {
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &node{state: &alternationState{left: left, right: right}}
	}
	return left, nil
}

// Factor+
func (p *parser) parseTerm() (*node, error) {
	start := p.pos

	var children []*node
	for p.startsFactor() {
		f, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		children = append(children, f)
	}

	switch len(children) {
	case 0:
		if p.atEnd() {
			return nil, newParserError(start, "unexpected end of pattern", nil)
		}
		return nil, newParserError(start, fmt.Sprintf("expected expression before %q", p.peek()), nil)
	case 1:
		return children[0], nil
	}
	return &node{state: &sequenceState{children: children}}, nil
}

func (p *parser) startsFactor() bool {
	if p.atEnd() {
		return false
	}
	c := p.peek()
	return c == '(' || c == '.' || !strings.ContainsRune(specialChars, rune(c))
}

func (p *parser) parseFactor() (*node, error) {
	var base *node
	switch c := p.peek(); c {
	case '(':
		group, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		base = group
	case '.':
		p.pos++
		base = &node{state: &wildcardState{}}
	default:
		p.pos++
		base = &node{state: &literalState{char: c}}
	}
	return p.parseModifiers(base)
}

// (...)
func (p *parser) parseGroup() (*node, error) {
	open := p.pos
	// pop off '('
	p.pos++

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if !p.consume(')') {
		if p.atEnd() {
			return nil, newParserError(open, "did not find closing ')'", nil)
		}
		return nil, newParserError(p.pos, fmt.Sprintf("expected ')' but found %q", p.peek()), nil)
	}

	p.groups++
	return &node{state: &groupState{expr: expr, index: p.groups}}, nil
}

// ('*' | '{' digits '}')? ('\' [Ii])?
func (p *parser) parseModifiers(base *node) (*node, error) {
	switch p.peek() {
	case '*':
		p.pos++
		base = &node{state: &repeatState{expr: base}}
	case '{':
		n, err := p.parseCount()
		if err != nil {
			return nil, err
		}
		base = &node{state: &countState{expr: base, count: n}}
	}

	if p.pos+1 < len(p.re) && p.re[p.pos] == '\\' && (p.re[p.pos+1] == 'I' || p.re[p.pos+1] == 'i') {
		p.pos += 2
		base = &node{state: &ignoreCaseState{expr: base}}
	}
	return base, nil
}

// {N}
func (p *parser) parseCount() (int, error) {
	open := p.pos
	// pop off '{'
	p.pos++

	digits := p.parseDigits()
	if digits == "" {
		return 0, newParserError(p.pos, "expected repetition count after '{'", nil)
	}
	if !p.consume('}') {
		return 0, newParserError(open, "did not find closing '}'", nil)
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, newParserError(open, "invalid repetition count", err)
	}
	return n, nil
}

// \O{N}, left unconsumed if malformed
func (p *parser) parseOutputDirective() {
	saved := p.pos
	if !p.consume('\\') || !(p.consume('O') || p.consume('o')) || !p.consume('{') {
		p.pos = saved
		return
	}

	digits := p.parseDigits()
	if digits == "" || !p.consume('}') {
		p.pos = saved
		return
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		p.pos = saved
		return
	}
	p.output = n
}

func (p *parser) parseDigits() string {
	start := p.pos
	for !p.atEnd() && p.peek() >= '0' && p.peek() <= '9' {
		p.pos++
	}
	return p.re[start:p.pos]
}
