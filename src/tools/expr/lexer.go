// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package expr

import (
	"strconv"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// twoCharOps are matched before single character operators
var twoCharOps = map[string]bool{
	"//": true, "<=": true, ">=": true, "==": true, "!=": true,
}

func tokenize(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				i++
			}
			text := src[start:i]
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, SyntaxError{Formula: src, Pos: start, Msg: "malformed number " + strconv.Quote(text)}
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, num: f, pos: start})
		case isLetter(c):
			start := i
			for i < len(src) && (isLetter(src[i]) || isDigit(src[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: src[start:i], pos: start})
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == ',':
			tokens = append(tokens, token{kind: tokComma, text: ",", pos: i})
			i++
		default:
			if i+1 < len(src) && twoCharOps[src[i:i+2]] {
				tokens = append(tokens, token{kind: tokOp, text: src[i : i+2], pos: i})
				i += 2
				continue
			}
			switch c {
			case '+', '-', '*', '/', '%', '<', '>':
				tokens = append(tokens, token{kind: tokOp, text: string(c), pos: i})
				i++
			default:
				return nil, SyntaxError{Formula: src, Pos: i, Msg: "unexpected character " + strconv.QuoteRune(rune(c))}
			}
		}
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(src)})
	return tokens, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
