// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package expr

import (
	"fmt"
)

// functions lists the only callable names
var functions = map[string]bool{
	"min": true,
	"max": true,
}

var comparisonOps = map[string]bool{
	"<": true, "<=": true, ">": true, ">=": true, "==": true, "!=": true,
}

type parser struct {
	src     string
	tokens  []token
	pos     int
	allowed map[string]bool
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...interface{}) error {
	return SyntaxError{Formula: p.src, Pos: tok.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) checkDepth(depth int) error {
	if depth > maxDepth {
		return p.errorf(p.peek(), "formula is nested too deeply")
	}
	return nil
}

func (p *parser) parseComparison(depth int) (node, error) {
	left, err := p.parseAdditive(depth)
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.kind != tokOp || !comparisonOps[tok.text] {
		return left, nil
	}
	p.next()
	right, err := p.parseAdditive(depth)
	if err != nil {
		return nil, err
	}
	if nt := p.peek(); nt.kind == tokOp && comparisonOps[nt.text] {
		return nil, p.errorf(nt, "chained comparisons are not supported")
	}
	return compareNode{op: tok.text, left: left, right: right}, nil
}

func (p *parser) parseAdditive(depth int) (node, error) {
	left, err := p.parseTerm(depth)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || (tok.text != "+" && tok.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm(depth)
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: tok.text, left: left, right: right}
	}
}

func (p *parser) parseTerm(depth int) (node, error) {
	left, err := p.parseUnary(depth)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp {
			return left, nil
		}
		switch tok.text {
		case "*", "/", "//", "%":
		default:
			return left, nil
		}
		p.next()
		right, err := p.parseUnary(depth)
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: tok.text, left: left, right: right}
	}
}

func (p *parser) parseUnary(depth int) (node, error) {
	if err := p.checkDepth(depth); err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.kind == tokOp && (tok.text == "-" || tok.text == "+") {
		p.next()
		operand, err := p.parseUnary(depth + 1)
		if err != nil {
			return nil, err
		}
		if tok.text == "+" {
			return operand, nil
		}
		return negNode{operand: operand}, nil
	}
	return p.parsePrimary(depth)
}

func (p *parser) parsePrimary(depth int) (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return numNode{value: tok.num}, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(tok, depth)
		}
		if !p.allowed[tok.text] {
			return nil, p.errorf(tok, "unknown name %q", tok.text)
		}
		return varNode{name: tok.text}, nil
	case tokLParen:
		inner, err := p.parseComparison(depth + 1)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errorf(closing, "missing closing parenthesis")
		}
		return inner, nil
	case tokEOF:
		return nil, p.errorf(tok, "unexpected end of formula")
	default:
		return nil, p.errorf(tok, "unexpected %q", tok.text)
	}
}

func (p *parser) parseCall(name token, depth int) (node, error) {
	if !functions[name.text] {
		return nil, p.errorf(name, "unknown function %q", name.text)
	}
	p.next() // (
	var args []node
	for {
		arg, err := p.parseComparison(depth + 1)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		tok := p.next()
		if tok.kind == tokRParen {
			break
		}
		if tok.kind != tokComma {
			return nil, p.errorf(tok, "expected ',' or ')' in call to %s", name.text)
		}
	}
	return callNode{name: name.text, args: args}, nil
}
