// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package nbutils

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCastToFloat(t *testing.T) {
	Convey("Testing cast to float", t, func() {
		val, err := CastToFloat(12)
		So(val, ShouldEqual, 12)
		So(val, ShouldHaveSameTypeAs, float64(1))
		So(err, ShouldBeNil)
		val, err = CastToFloat(int64(12))
		So(val, ShouldEqual, 12)
		So(err, ShouldBeNil)
		val, err = CastToFloat(float32(1.5))
		So(val, ShouldEqual, 1.5)
		So(err, ShouldBeNil)
		val, err = CastToFloat(true)
		So(val, ShouldEqual, 1)
		So(err, ShouldBeNil)
		val, err = CastToFloat("12")
		So(val, ShouldEqual, 0)
		So(err, ShouldNotBeNil)
	})
}

func TestCastToInteger(t *testing.T) {
	Convey("Testing cast to integer", t, func() {
		val, err := CastToInteger(12)
		So(val, ShouldEqual, 12)
		So(val, ShouldHaveSameTypeAs, int64(1))
		So(err, ShouldBeNil)
		Convey("Floats are truncated toward zero", func() {
			val, err = CastToInteger(3.9)
			So(val, ShouldEqual, 3)
			So(err, ShouldBeNil)
			val, err = CastToInteger(-3.9)
			So(val, ShouldEqual, -3)
			So(err, ShouldBeNil)
		})
		Convey("Booleans become 0 or 1", func() {
			val, err = CastToInteger(true)
			So(val, ShouldEqual, 1)
			val, err = CastToInteger(false)
			So(val, ShouldEqual, 0)
			So(err, ShouldBeNil)
		})
		Convey("Invalid values are rejected", func() {
			_, err = CastToInteger("12")
			So(err, ShouldNotBeNil)
			_, err = CastToInteger(math.Inf(1))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRounding(t *testing.T) {
	Convey("Testing half up rounding", t, func() {
		So(RoundHalfUp(3.5), ShouldEqual, 4)
		So(RoundHalfUp(3.49), ShouldEqual, 3)
		So(RoundHalfUp(2.5), ShouldEqual, 3)
		So(RoundHalfUp(0.4), ShouldEqual, 0)
		Convey("Fractions are computed in decimal arithmetic", func() {
			So(Fraction(10, 2, 3), ShouldEqual, 7)
			So(Fraction(9, 2, 3), ShouldEqual, 6)
			So(Fraction(7, 50, 100), ShouldEqual, 4)
			So(Fraction(2, 3, 4), ShouldEqual, 2)
			So(Fraction(5, 3, 4), ShouldEqual, 4)
			So(Fraction(1, 2, 3), ShouldEqual, 1)
			So(Fraction(0, 2, 3), ShouldEqual, 0)
			So(Fraction(10, 33.5, 100), ShouldEqual, 3)
			So(Fraction(10, 35, 100), ShouldEqual, 4)
		})
		Convey("Fraction panics on zero denominator", func() {
			So(func() { Fraction(1, 1, 0) }, ShouldPanic)
		})
	})
}
