package dice

import (
	"fmt"
	"strings"
)

// maxDice bounds the number of dice and faces a single term may request.
const maxDice = 1000

// KeepMode selects which dice of a pool contribute to its total.
type KeepMode int

const (
	// KeepAll sums every die in the pool.
	KeepAll KeepMode = iota
	// KeepHighest keeps the N highest dice ("kh").
	KeepHighest
	// KeepLowest keeps the N lowest dice ("kl").
	KeepLowest
	// DropHighest discards the N highest dice ("dh").
	DropHighest
	// DropLowest discards the N lowest dice ("dl").
	DropLowest
)

// Expression represents a parsed dice expression ready to be rolled.
//
// Invariant: root is non-nil after a successful Parse.
type Expression struct {
	Raw  string // original input string
	root node
}

// node is one element of the expression tree.
type node interface {
	eval(src Source, kept *[]int) (int, error)
}

type literal int

type negate struct {
	operand node
}

type binary struct {
	op          byte
	left, right node
}

// pool is a single NdM term with an optional keep/drop selector.
type pool struct {
	count int
	sides int
	mode  KeepMode
	n     int
}

// Parse parses a dice expression string into an Expression.
//
// Grammar:
//
//	expr  := term (('+'|'-') term)*
//	term  := unary (('*'|'/') unary)*
//	unary := '-' unary | atom
//	atom  := INT | pool | '(' expr ')'
//	pool  := [INT] 'd' (INT | '%') [('kh'|'kl'|'dh'|'dl') INT]
//
// Supported forms include "d20", "2d6+3", "d%", "4d6kh3" and "(2d10dh1)*10+1d10".
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a rollable Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	if strings.TrimSpace(expr) == "" {
		return Expression{}, ErrEmptyExpression
	}
	p := &parser{raw: expr, src: strings.ToLower(expr)}
	root, err := p.parseExpr()
	if err != nil {
		return Expression{}, err
	}
	p.skipSpace()
	if !p.done() {
		return Expression{}, fmt.Errorf("dice: unexpected %q at offset %d in %q", p.src[p.pos], p.pos, p.raw)
	}
	return Expression{Raw: expr, root: root}, nil
}

type parser struct {
	raw string
	src string
	pos int
}

func (p *parser) done() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.done() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, left: left, right: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	p.skipSpace()
	if p.peek() == '-' {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negate{operand: operand}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (node, error) {
	p.skipSpace()
	if p.done() {
		return nil, fmt.Errorf("dice: unexpected end of expression %q", p.raw)
	}
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, fmt.Errorf("dice: missing ')' in %q", p.raw)
		}
		p.pos++
		return inner, nil
	case c == 'd':
		return p.parsePool(1)
	case isDigit(c):
		n, err := p.readInt()
		if err != nil {
			return nil, err
		}
		if p.peek() == 'd' {
			return p.parsePool(n)
		}
		return literal(n), nil
	default:
		return nil, fmt.Errorf("dice: unexpected %q at offset %d in %q", c, p.pos, p.raw)
	}
}

// parsePool parses the "d..." remainder of a pool term; p.pos is at 'd'.
func (p *parser) parsePool(count int) (node, error) {
	p.pos++ // 'd'
	if count <= 0 || count > maxDice {
		return nil, fmt.Errorf("dice: invalid die count %d in %q: must be 1-%d", count, p.raw, maxDice)
	}

	var sides int
	if p.peek() == '%' {
		p.pos++
		sides = 100
	} else {
		if !isDigit(p.peek()) {
			return nil, fmt.Errorf("dice: missing die sides at offset %d in %q", p.pos, p.raw)
		}
		n, err := p.readInt()
		if err != nil {
			return nil, err
		}
		sides = n
	}
	if sides < 2 || sides > maxDice {
		return nil, fmt.Errorf("dice: invalid die sides %d in %q: must be 2-%d", sides, p.raw, maxDice)
	}

	pl := pool{count: count, sides: sides, mode: KeepAll}
	if p.pos+1 < len(p.src) {
		var mode KeepMode
		switch p.src[p.pos : p.pos+2] {
		case "kh":
			mode = KeepHighest
		case "kl":
			mode = KeepLowest
		case "dh":
			mode = DropHighest
		case "dl":
			mode = DropLowest
		}
		if mode != KeepAll {
			p.pos += 2
			if !isDigit(p.peek()) {
				return nil, fmt.Errorf("dice: missing keep/drop count at offset %d in %q", p.pos, p.raw)
			}
			n, err := p.readInt()
			if err != nil {
				return nil, err
			}
			if n <= 0 || n >= count {
				return nil, fmt.Errorf("dice: keep/drop value %d must be > 0 and < count %d in %q", n, count, p.raw)
			}
			pl.mode = mode
			pl.n = n
		}
	}
	return pl, nil
}

func (p *parser) readInt() (int, error) {
	start := p.pos
	n := 0
	for !p.done() && isDigit(p.src[p.pos]) {
		n = n*10 + int(p.src[p.pos]-'0')
		if n > 1_000_000_000 {
			return 0, fmt.Errorf("dice: number too large at offset %d in %q", start, p.raw)
		}
		p.pos++
	}
	return n, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
