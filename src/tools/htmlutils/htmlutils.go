// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

// Package htmlutils cleans rich text entered by users.
package htmlutils

import "github.com/microcosm-cc/bluemonday"

// policy allows the formatting of rich text editors: paragraphs, lists,
// tables, emphasis and links. Scripts, styles and event handlers are
// removed.
var policy = bluemonday.UGCPolicy()

// Sanitize returns the given HTML without the elements and attributes
// that could run code in a browser.
func Sanitize(html string) string {
	return policy.Sanitize(html)
}
