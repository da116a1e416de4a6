// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package expr

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func eval(formula string, total float64) (Value, error) {
	e, err := Compile(formula, "total_members")
	if err != nil {
		return Value{}, err
	}
	return e.Eval(map[string]float64{"total_members": total})
}

func TestArithmetic(t *testing.T) {
	Convey("Testing arithmetic formulas", t, func() {
		Convey("Operator precedence", func() {
			v, err := eval("total_members // 2 + 1", 7)
			So(err, ShouldBeNil)
			So(v.IsBool, ShouldBeFalse)
			So(v.Num, ShouldEqual, 4)
			v, _ = eval("1 + total_members * 2", 3)
			So(v.Num, ShouldEqual, 7)
			v, _ = eval("(1 + total_members) * 2", 3)
			So(v.Num, ShouldEqual, 8)
			v, _ = eval("10 - 4 - 3", 0)
			So(v.Num, ShouldEqual, 3)
		})
		Convey("Division operators", func() {
			v, _ := eval("total_members / 4", 10)
			So(v.Num, ShouldEqual, 2.5)
			v, _ = eval("total_members // 4", 10)
			So(v.Num, ShouldEqual, 2)
			v, _ = eval("-7 // 2", 0)
			So(v.Num, ShouldEqual, -4)
			v, _ = eval("total_members % 3", 10)
			So(v.Num, ShouldEqual, 1)
			v, _ = eval("-7 % 3", 0)
			So(v.Num, ShouldEqual, 2)
		})
		Convey("Unary operators", func() {
			v, _ := eval("-total_members + 10", 4)
			So(v.Num, ShouldEqual, 6)
			v, _ = eval("--3", 0)
			So(v.Num, ShouldEqual, 3)
			v, _ = eval("+3", 0)
			So(v.Num, ShouldEqual, 3)
		})
		Convey("Functions min and max", func() {
			v, _ := eval("max(3, total_members * 40 / 100)", 5)
			So(v.Num, ShouldEqual, 3)
			v, _ = eval("max(3, total_members * 40 / 100)", 20)
			So(v.Num, ShouldEqual, 8)
			v, _ = eval("min(total_members, 5, 9)", 7)
			So(v.Num, ShouldEqual, 5)
		})
		Convey("Decimal numbers", func() {
			v, _ := eval("total_members * 0.5", 9)
			So(v.Num, ShouldEqual, 4.5)
			v, _ = eval(".5 * 4", 0)
			So(v.Num, ShouldEqual, 2)
		})
	})
}

func TestComparisons(t *testing.T) {
	Convey("Testing comparison formulas", t, func() {
		v, err := eval("total_members > 2", 5)
		So(err, ShouldBeNil)
		So(v.IsBool, ShouldBeTrue)
		So(v.Bool, ShouldBeTrue)
		So(v.String(), ShouldEqual, "True")
		v, _ = eval("total_members <= 2", 5)
		So(v.IsBool, ShouldBeTrue)
		So(v.Bool, ShouldBeFalse)
		So(v.String(), ShouldEqual, "False")
		v, _ = eval("total_members == 5", 5)
		So(v.Bool, ShouldBeTrue)
		v, _ = eval("total_members != 5", 5)
		So(v.Bool, ShouldBeFalse)
		Convey("Comparisons cannot be used as numbers", func() {
			_, err := eval("(total_members > 2) + 1", 5)
			So(err, ShouldHaveSameTypeAs, EvalError{})
		})
		Convey("Chained comparisons are rejected", func() {
			_, err := Compile("1 < total_members < 3", "total_members")
			So(err, ShouldHaveSameTypeAs, SyntaxError{})
		})
	})
}

func TestRejectedFormulas(t *testing.T) {
	Convey("Testing rejected formulas", t, func() {
		for _, formula := range []string{
			"",
			"   ",
			"__import__('os')",
			"total_members.bit_length()",
			"open('x')",
			"members + 1",
			"total_members ** 2",
			"total_members +",
			"(total_members",
			"total_members)",
			"3 4",
			"max(3,)",
			"max 3",
			"total_members; 1",
			"1e3",
			"1..2",
			"'text'",
			"[1, 2]",
			"lambda: 1",
		} {
			_, err := Compile(formula, "total_members")
			So(err, ShouldNotBeNil)
			So(err, ShouldHaveSameTypeAs, SyntaxError{})
		}
		Convey("Formulas that are too long are rejected", func() {
			long := "1"
			for len(long) <= MaxLength {
				long += "+1"
			}
			_, err := Compile(long)
			So(err, ShouldNotBeNil)
		})
		Convey("Formulas that are nested too deeply are rejected", func() {
			deep := ""
			for i := 0; i < 40; i++ {
				deep += "("
			}
			deep += "1"
			for i := 0; i < 40; i++ {
				deep += ")"
			}
			_, err := Compile(deep)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestEvalErrors(t *testing.T) {
	Convey("Testing evaluation errors", t, func() {
		_, err := eval("10 / (total_members - 5)", 5)
		So(err, ShouldHaveSameTypeAs, EvalError{})
		So(err.Error(), ShouldContainSubstring, "division by zero")
		_, err = eval("10 // (total_members - 5)", 5)
		So(err, ShouldNotBeNil)
		_, err = eval("10 % (total_members - 5)", 5)
		So(err, ShouldNotBeNil)
		Convey("Missing variables are reported at evaluation", func() {
			e, err := Compile("total_members + 1", "total_members")
			So(err, ShouldBeNil)
			_, err = e.Eval(nil)
			So(err, ShouldHaveSameTypeAs, EvalError{})
		})
		Convey("Evaluate compiles with the given variables", func() {
			v, err := Evaluate("total_members // 2", map[string]float64{"total_members": 9})
			So(err, ShouldBeNil)
			So(v.Num, ShouldEqual, 4)
			_, err = Evaluate("present + 1", map[string]float64{"total_members": 9})
			So(err, ShouldNotBeNil)
		})
	})
}
