// Copyright 2020 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package reports

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/flosch/pongo2/v6"
	"github.com/hexya-addons/boardresolutions/src/tools/htmlutils"
)

var markdownConverter = md.NewConverter("", true, nil)

// filterMarkdown converts an HTML value to Markdown so that rich text
// can be printed in plain text reports.
func filterMarkdown(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	res, err := markdownConverter.ConvertString(in.String())
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:markdown", OrigError: err}
	}
	return pongo2.AsValue(strings.TrimSpace(res)), nil
}

// filterSanitize removes scripts and event handlers from an HTML value
// and marks the result safe for output.
func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsSafeValue(htmlutils.Sanitize(in.String())), nil
}
