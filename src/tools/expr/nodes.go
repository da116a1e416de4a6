// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package expr

import (
	"errors"
	"fmt"
	"math"
)

type node interface {
	eval(vars map[string]float64) (Value, error)
}

type numNode struct {
	value float64
}

func (n numNode) eval(map[string]float64) (Value, error) {
	return number(n.value), nil
}

type varNode struct {
	name string
}

func (n varNode) eval(vars map[string]float64) (Value, error) {
	v, ok := vars[n.name]
	if !ok {
		return Value{}, fmt.Errorf("variable %q is not set", n.name)
	}
	return number(v), nil
}

type negNode struct {
	operand node
}

func (n negNode) eval(vars map[string]float64) (Value, error) {
	v, err := numericOperand(n.operand, vars)
	if err != nil {
		return Value{}, err
	}
	return number(-v), nil
}

type binaryNode struct {
	op          string
	left, right node
}

func (n binaryNode) eval(vars map[string]float64) (Value, error) {
	l, err := numericOperand(n.left, vars)
	if err != nil {
		return Value{}, err
	}
	r, err := numericOperand(n.right, vars)
	if err != nil {
		return Value{}, err
	}
	switch n.op {
	case "+":
		return number(l + r), nil
	case "-":
		return number(l - r), nil
	case "*":
		return number(l * r), nil
	case "/":
		if r == 0 {
			return Value{}, errors.New("division by zero")
		}
		return number(l / r), nil
	case "//":
		if r == 0 {
			return Value{}, errors.New("division by zero")
		}
		return number(math.Floor(l / r)), nil
	case "%":
		if r == 0 {
			return Value{}, errors.New("modulo by zero")
		}
		// result has the sign of the divisor
		m := math.Mod(l, r)
		if m != 0 && (m < 0) != (r < 0) {
			m += r
		}
		return number(m), nil
	}
	return Value{}, fmt.Errorf("unknown operator %q", n.op)
}

type compareNode struct {
	op          string
	left, right node
}

func (n compareNode) eval(vars map[string]float64) (Value, error) {
	l, err := numericOperand(n.left, vars)
	if err != nil {
		return Value{}, err
	}
	r, err := numericOperand(n.right, vars)
	if err != nil {
		return Value{}, err
	}
	switch n.op {
	case "<":
		return boolean(l < r), nil
	case "<=":
		return boolean(l <= r), nil
	case ">":
		return boolean(l > r), nil
	case ">=":
		return boolean(l >= r), nil
	case "==":
		return boolean(l == r), nil
	case "!=":
		return boolean(l != r), nil
	}
	return Value{}, fmt.Errorf("unknown comparison %q", n.op)
}

type callNode struct {
	name string
	args []node
}

func (n callNode) eval(vars map[string]float64) (Value, error) {
	res, err := numericOperand(n.args[0], vars)
	if err != nil {
		return Value{}, err
	}
	for _, arg := range n.args[1:] {
		v, err := numericOperand(arg, vars)
		if err != nil {
			return Value{}, err
		}
		switch n.name {
		case "min":
			res = math.Min(res, v)
		case "max":
			res = math.Max(res, v)
		}
	}
	return number(res), nil
}

// numericOperand evaluates n and fails if the result is a boolean.
func numericOperand(n node, vars map[string]float64) (float64, error) {
	v, err := n.eval(vars)
	if err != nil {
		return 0, err
	}
	if v.IsBool {
		return 0, errors.New("a comparison cannot be used as a number")
	}
	return v.Num, nil
}
