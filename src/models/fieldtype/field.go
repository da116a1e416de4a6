// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

// Package fieldtype lists the column types of the board database schema.
package fieldtype

// A Type is the storage type of a column. Each database adapter maps
// every Type to a SQL type.
type Type string

// Column types
const (
	Boolean   Type = "boolean"
	Char      Type = "char"
	Text      Type = "text"
	HTML      Type = "html"
	Selection Type = "selection"
	Integer   Type = "integer"
	Float     Type = "float"
	Date      Type = "date"
	DateTime  Type = "datetime"
	Many2One  Type = "many2one"
)

// All lists the column types in schema order
var All = []Type{Boolean, Char, Text, HTML, Selection, Integer, Float, Date, DateTime, Many2One}

// References returns true if columns of this type hold the id of a
// record of another table.
func (t Type) References() bool {
	return t == Many2One
}

// Nullable returns true if an unset value of this type is stored as
// NULL instead of the zero value of the type.
func (t Type) Nullable() bool {
	switch t {
	case Many2One, Date, DateTime:
		return true
	}
	return false
}
