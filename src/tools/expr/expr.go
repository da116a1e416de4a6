// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

/*
Package expr evaluates the small arithmetic formulas that administrators
may set on a meeting type, such as

	total_members // 2 + 1
	max(3, total_members * 40 / 100)
	total_members > 2

The grammar is deliberately closed: numbers, whitelisted variables,
the operators + - * / // % and unary minus, parentheses, one comparison
(< <= > >= == !=) and the functions min and max. Anything else is a
syntax error. Nothing is ever executed outside of this package.

	comparison := additive [ cmpOp additive ]
	additive   := term { ("+" | "-") term }
	term       := unary { ("*" | "/" | "//" | "%") unary }
	unary      := ("-" | "+") unary | primary
	primary    := number | ident | call | "(" comparison ")"
	call       := ("min" | "max") "(" comparison { "," comparison } ")"
*/
package expr

import (
	"fmt"
	"math"
	"strings"
)

const (
	// MaxLength is the maximum length in bytes of a formula
	MaxLength = 256
	// maxDepth limits the nesting of parentheses and unary operators
	maxDepth = 32
)

// A Value is the result of an evaluation. It is either a number or a
// boolean (the result of a comparison).
type Value struct {
	Num    float64
	Bool   bool
	IsBool bool
}

// String returns a human readable representation of the value
func (v Value) String() string {
	if v.IsBool {
		if v.Bool {
			return "True"
		}
		return "False"
	}
	return fmt.Sprintf("%g", v.Num)
}

func number(f float64) Value {
	return Value{Num: f}
}

func boolean(b bool) Value {
	return Value{Bool: b, IsBool: true}
}

// A SyntaxError is returned by Compile when the formula does not match
// the grammar or uses a name that is not whitelisted.
type SyntaxError struct {
	Formula string
	Pos     int
	Msg     string
}

// Error returns the message of the SyntaxError
func (e SyntaxError) Error() string {
	return fmt.Sprintf("invalid formula %q at position %d: %s", e.Formula, e.Pos, e.Msg)
}

// An EvalError is returned when a compiled formula cannot be evaluated
// with the given variables, e.g. on division by zero.
type EvalError struct {
	Formula string
	Msg     string
}

// Error returns the message of the EvalError
func (e EvalError) Error() string {
	return fmt.Sprintf("cannot evaluate formula %q: %s", e.Formula, e.Msg)
}

// An Expression is a compiled formula
type Expression struct {
	src  string
	root node
}

// String returns the source of the expression
func (e *Expression) String() string {
	return e.src
}

// Compile parses the given formula. Only the names given in allowedVars
// may be used as variables.
func Compile(formula string, allowedVars ...string) (*Expression, error) {
	if strings.TrimSpace(formula) == "" {
		return nil, SyntaxError{Formula: formula, Msg: "empty formula"}
	}
	if len(formula) > MaxLength {
		return nil, SyntaxError{Formula: formula, Msg: fmt.Sprintf("formula longer than %d characters", MaxLength)}
	}
	tokens, err := tokenize(formula)
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]bool, len(allowedVars))
	for _, v := range allowedVars {
		allowed[v] = true
	}
	p := parser{src: formula, tokens: tokens, allowed: allowed}
	root, err := p.parseComparison(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %q", tok.text)
	}
	return &Expression{src: formula, root: root}, nil
}

// Eval evaluates the expression with the given variable values.
func (e *Expression) Eval(vars map[string]float64) (Value, error) {
	v, err := e.root.eval(vars)
	if err != nil {
		return Value{}, EvalError{Formula: e.src, Msg: err.Error()}
	}
	if !v.IsBool && (math.IsNaN(v.Num) || math.IsInf(v.Num, 0)) {
		return Value{}, EvalError{Formula: e.src, Msg: "result is not a finite number"}
	}
	return v, nil
}

// Evaluate compiles and evaluates the given formula in one step.
// The keys of vars are the only allowed variable names.
func Evaluate(formula string, vars map[string]float64) (Value, error) {
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	e, err := Compile(formula, names...)
	if err != nil {
		return Value{}, err
	}
	return e.Eval(vars)
}
