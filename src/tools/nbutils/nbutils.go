// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

// Package nbutils holds the number helpers used by the quorum and
// majority calculators.
package nbutils

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v2"
)

// ctx is the decimal context used for all computations.
// Rounding is half up (ties away from zero) as in German association
// bylaws: 3.5 members means 4 members.
var ctx = apd.Context{
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Traps:       apd.DefaultTraps,
	Rounding:    apd.RoundHalfUp,
	Precision:   128,
}

// CastToInteger casts the given value to int64. Floats are truncated
// toward zero and booleans are converted to 0 or 1.
func CastToInteger(val interface{}) (int64, error) {
	switch value := val.(type) {
	case int64:
		return value, nil
	case int:
		return int64(value), nil
	case int32:
		return int64(value), nil
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return 0, fmt.Errorf("value %v cannot be casted to int64", val)
		}
		return int64(math.Trunc(value)), nil
	case float32:
		return CastToInteger(float64(value))
	case bool:
		if value {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("value %v cannot be casted to int64", val)
	}
}

// CastToFloat casts the given value to float64.
// Booleans are converted to 0 or 1.
func CastToFloat(val interface{}) (float64, error) {
	switch value := val.(type) {
	case float64:
		return value, nil
	case float32:
		return float64(value), nil
	case int:
		return float64(value), nil
	case int32:
		return float64(value), nil
	case int64:
		return float64(value), nil
	case bool:
		if value {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("value %v cannot be casted to float64", val)
	}
}

// RoundHalfUp rounds the given value to the closest integer, ties being
// rounded away from zero.
func RoundHalfUp(value float64) int64 {
	d := mustDecimal(value)
	return roundToInt(d)
}

// Fraction returns n * num / den rounded half up to an integer.
//
// The computation is made in decimal arithmetic so that e.g.
// Fraction(10, 2, 3) is 7 and Fraction(7, 50, 100) is 4.
func Fraction(n int64, num, den float64) int64 {
	if den == 0 {
		panic("nbutils: Fraction with zero denominator")
	}
	res := apd.New(n, 0)
	if _, err := ctx.Mul(res, res, mustDecimal(num)); err != nil {
		panic(fmt.Errorf("error while multiplying %d by %f: %s", n, num, err))
	}
	if _, err := ctx.Quo(res, res, mustDecimal(den)); err != nil {
		panic(fmt.Errorf("error while dividing by %f: %s", den, err))
	}
	return roundToInt(res)
}

// MaxInt64 returns the largest of a and b
func MaxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// MinInt64 returns the smallest of a and b
func MinInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func mustDecimal(value float64) *apd.Decimal {
	d, err := apd.New(0, 0).SetFloat64(value)
	if err != nil {
		panic(fmt.Errorf("error while converting %f to decimal: %s", value, err))
	}
	return d
}

func roundToInt(d *apd.Decimal) int64 {
	rounded := apd.New(0, 0)
	if _, err := ctx.RoundToIntegralValue(rounded, d); err != nil {
		panic(fmt.Errorf("error while rounding %s: %s", d, err))
	}
	res, err := rounded.Int64()
	if err != nil {
		panic(fmt.Errorf("error while converting %s to integer: %s", rounded, err))
	}
	return res
}
