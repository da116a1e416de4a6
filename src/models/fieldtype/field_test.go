// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package fieldtype

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTypes(t *testing.T) {
	Convey("Testing column types", t, func() {
		So(Many2One.References(), ShouldBeTrue)
		So(Integer.References(), ShouldBeFalse)
		So(DateTime.Nullable(), ShouldBeTrue)
		So(Many2One.Nullable(), ShouldBeTrue)
		So(Boolean.Nullable(), ShouldBeFalse)
		So(Selection.Nullable(), ShouldBeFalse)
		So(All, ShouldHaveLength, 10)
	})
}
