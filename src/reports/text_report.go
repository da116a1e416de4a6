// Copyright 2020 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package reports

import (
	"github.com/flosch/pongo2/v6"
	"github.com/pkg/errors"
)

// A TextReport is a plain text or HTML report rendered with pongo2.
//
// Values are escaped in text/html reports and written as is in
// text/plain reports. Filename is a template rendered with the same data.
type TextReport struct {
	Code     string
	Title    string
	MimeType string
	Filename string
	Template string

	template *pongo2.Template
	filename *pongo2.Template
}

// Render renders the report with data. Init must have been called.
func (r *TextReport) Render(data Data) (*Document, error) {
	if r.template == nil {
		return nil, errors.Errorf("report %s is not initialized", r.Code)
	}
	ctx := pongo2.Context(data)
	content, err := r.template.ExecuteBytes(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to render report %s", r.Code)
	}
	filename, err := r.filename.Execute(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to render file name of report %s", r.Code)
	}
	return &Document{Content: content, MimeType: r.MimeType, Filename: filename}, nil
}

// Init compiles the templates of the report
func (r *TextReport) Init() error {
	switch {
	case r.MimeType != "text/html" && r.MimeType != "text/plain":
		return errors.Errorf("unsupported mime type %q", r.MimeType)
	case r.Filename == "":
		return errors.New("file name is not set")
	}
	source := r.Template
	if r.MimeType == "text/plain" {
		source = unescaped(source)
	}
	tmpl, err := pongo2.FromString(source)
	if err != nil {
		return errors.Wrap(err, "invalid template")
	}
	filename, err := pongo2.FromString(unescaped(r.Filename))
	if err != nil {
		return errors.Wrap(err, "invalid file name template")
	}
	r.template, r.filename = tmpl, filename
	return nil
}

func unescaped(source string) string {
	return "{% autoescape off %}" + source + "{% endautoescape %}"
}

// String returns the title of the report
func (r *TextReport) String() string {
	return r.Title
}

// ID returns the code of the report
func (r *TextReport) ID() string {
	return r.Code
}

var _ Report = new(TextReport)
