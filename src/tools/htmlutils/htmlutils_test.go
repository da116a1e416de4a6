// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package htmlutils

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitize(t *testing.T) {
	Convey("Testing rich text sanitizing", t, func() {
		Convey("Formatting is kept", func() {
			html := "<p>Der Vorstand beschließt <strong>das Sommerfest</strong>.</p><ul><li>Bühne</li></ul>"
			So(Sanitize(html), ShouldEqual, html)
		})
		Convey("Scripts are removed", func() {
			res := Sanitize(`<p>Text</p><script>fetch("/board/resolutions/1/admin-reset")</script>`)
			So(res, ShouldEqual, "<p>Text</p>")
		})
		Convey("Event handlers and javascript links are removed", func() {
			res := Sanitize(`<p onclick="alert(1)">Text</p><a href="javascript:alert(1)">Link</a>`)
			So(res, ShouldNotContainSubstring, "onclick")
			So(res, ShouldNotContainSubstring, "javascript:")
			So(res, ShouldContainSubstring, "<p>Text</p>")
		})
	})
}
