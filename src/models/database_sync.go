// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/hexya-addons/boardresolutions/src/models/fieldtype"
	"github.com/hexya-addons/boardresolutions/src/models/security"
	"github.com/jmoiron/sqlx"
)

// A column is the definition of a table column
type column struct {
	name     string
	typ      fieldtype.Type
	size     int
	required bool
	unique   bool
	// def is the SQL default value, overriding the default of the type
	def string
	// relation is the table referenced by a many2one column. It is
	// required for those.
	relation string
	onDelete string
}

// A table is the definition of a database table. Tables without
// primaryKey get an auto incremented id column.
type table struct {
	name       string
	columns    []*column
	primaryKey []string
	uniques    [][]string
	indexes    [][]string
}

// columnNames returns the names of the columns of t, id excluded
func (t *table) columnNames() []string {
	res := make([]string, len(t.columns))
	for i, col := range t.columns {
		res[i] = col.name
	}
	return res
}

// columnConstraints returns the NOT NULL, DEFAULT, UNIQUE and
// REFERENCES clauses of the given column.
func columnConstraints(col *column, defaults map[fieldtype.Type]string, quote func(string) string) string {
	var res string
	if col.required || !col.typ.Nullable() {
		res += " NOT NULL"
	}
	def := col.def
	if def == "" && !col.required {
		def = defaults[col.typ]
	}
	if def != "" {
		res += fmt.Sprintf(" DEFAULT %s", def)
	}
	if col.unique {
		res += " UNIQUE"
	}
	if col.typ.References() {
		onDelete := col.onDelete
		if onDelete == "" {
			onDelete = "RESTRICT"
		}
		res += fmt.Sprintf(" REFERENCES %s(id) ON DELETE %s", quote(col.relation), onDelete)
	}
	return res
}

func datesColumns() []*column {
	return []*column{
		{name: "create_date", typ: fieldtype.DateTime, required: true},
		{name: "write_date", typ: fieldtype.DateTime, required: true},
	}
}

var companyColumn = &column{name: "company_id", typ: fieldtype.Integer, def: "1"}

// schema lists the tables of the database in creation order
var schema = []*table{
	{
		name: "res_partner",
		columns: []*column{
			{name: "name", typ: fieldtype.Char, required: true},
			{name: "email", typ: fieldtype.Char},
			{name: "board_member", typ: fieldtype.Boolean},
			{name: "active", typ: fieldtype.Boolean, def: "TRUE"},
			companyColumn,
		},
		indexes: [][]string{{"company_id", "board_member"}},
	},
	{
		name: "res_users",
		columns: []*column{
			{name: "login", typ: fieldtype.Char, required: true, unique: true},
			{name: "name", typ: fieldtype.Char},
			{name: "password", typ: fieldtype.Char},
			{name: "partner_id", typ: fieldtype.Integer},
			{name: "active", typ: fieldtype.Boolean, def: "TRUE"},
			companyColumn,
		},
	},
	{
		name: "res_groups_users_rel",
		columns: []*column{
			{name: "user_id", typ: fieldtype.Many2One, required: true, relation: "res_users", onDelete: "CASCADE"},
			{name: "group_id", typ: fieldtype.Char, required: true},
		},
		primaryKey: []string{"user_id", "group_id"},
	},
	{
		name: "board_meeting_type",
		columns: []*column{
			{name: "code", typ: fieldtype.Char, required: true},
			{name: "name", typ: fieldtype.Char, required: true},
			{name: "sequence", typ: fieldtype.Integer, def: "10"},
			{name: "active", typ: fieldtype.Boolean, def: "TRUE"},
			{name: "color", typ: fieldtype.Integer},
			{name: "description", typ: fieldtype.Text},
			{name: "quorum_type", typ: fieldtype.Selection, required: true},
			{name: "quorum_percentage", typ: fieldtype.Float, def: "50.0"},
			{name: "quorum_fixed", typ: fieldtype.Integer, def: "3"},
			{name: "quorum_custom_formula", typ: fieldtype.Char},
			{name: "voting_majority", typ: fieldtype.Selection, required: true},
			{name: "voting_majority_custom", typ: fieldtype.Float, def: "60.0"},
			{name: "allow_proxy_voting", typ: fieldtype.Boolean},
			{name: "allow_secret_ballot", typ: fieldtype.Boolean, def: "TRUE"},
			{name: "allow_open_ballot", typ: fieldtype.Boolean, def: "TRUE"},
			{name: "formula_warning", typ: fieldtype.Text},
			{name: "formula_warning_date", typ: fieldtype.DateTime},
			companyColumn,
		},
		uniques: [][]string{{"company_id", "code"}},
	},
	{
		name: "board_resolution",
		columns: append([]*column{
			{name: "name", typ: fieldtype.Char, required: true, unique: true},
			{name: "title", typ: fieldtype.Char, required: true},
			{name: "description", typ: fieldtype.Text},
			{name: "date", typ: fieldtype.Date, required: true},
			{name: "resolution_text", typ: fieldtype.HTML, required: true},
			{name: "meeting_type_id", typ: fieldtype.Many2One, required: true, relation: "board_meeting_type"},
			{name: "voting_mode", typ: fieldtype.Selection, required: true},
			{name: "votes_for", typ: fieldtype.Integer},
			{name: "votes_against", typ: fieldtype.Integer},
			{name: "votes_abstain", typ: fieldtype.Integer},
			{name: "state", typ: fieldtype.Selection, required: true},
			{name: "approved_by", typ: fieldtype.Integer},
			{name: "approved_date", typ: fieldtype.DateTime},
			{name: "project_id", typ: fieldtype.Integer},
			{name: "task_id", typ: fieldtype.Integer},
			companyColumn,
			{name: "total_members", typ: fieldtype.Integer},
			{name: "required_quorum", typ: fieldtype.Integer},
			{name: "required_majority", typ: fieldtype.Integer},
			{name: "result", typ: fieldtype.Selection},
			{name: "frozen_majority", typ: fieldtype.Selection},
			{name: "frozen_majority_custom", typ: fieldtype.Float},
		}, datesColumns()...),
		indexes: [][]string{{"state"}, {"meeting_type_id"}, {"date"}},
	},
	{
		name: "board_resolution_attendee",
		columns: []*column{
			{name: "resolution_id", typ: fieldtype.Many2One, required: true, relation: "board_resolution", onDelete: "CASCADE"},
			{name: "partner_id", typ: fieldtype.Many2One, required: true, relation: "res_partner"},
		},
		primaryKey: []string{"resolution_id", "partner_id"},
		indexes:    [][]string{{"partner_id"}},
	},
	{
		name: "board_resolution_vote",
		columns: []*column{
			{name: "resolution_id", typ: fieldtype.Many2One, required: true, relation: "board_resolution", onDelete: "CASCADE"},
			{name: "partner_id", typ: fieldtype.Many2One, required: true, relation: "res_partner"},
			{name: "choice", typ: fieldtype.Selection, required: true},
		},
		primaryKey: []string{"resolution_id", "partner_id"},
	},
	{
		name: "mail_message",
		columns: []*column{
			{name: "res_model", typ: fieldtype.Char, required: true},
			{name: "res_id", typ: fieldtype.Integer},
			{name: "body", typ: fieldtype.Text},
			{name: "author_id", typ: fieldtype.Integer},
			{name: "date", typ: fieldtype.DateTime, required: true},
		},
		indexes: [][]string{{"res_model", "res_id"}},
	},
	{
		name: "mail_activity",
		columns: []*column{
			{name: "handle", typ: fieldtype.Char, required: true, unique: true},
			{name: "res_model", typ: fieldtype.Char, required: true},
			{name: "res_id", typ: fieldtype.Integer},
			{name: "user_id", typ: fieldtype.Integer},
			{name: "summary", typ: fieldtype.Char},
			{name: "note", typ: fieldtype.Text},
			{name: "date_deadline", typ: fieldtype.DateTime, required: true},
			{name: "state", typ: fieldtype.Selection, def: "'planned'"},
			{name: "overdue", typ: fieldtype.Boolean},
			{name: "create_date", typ: fieldtype.DateTime, required: true},
		},
		indexes: [][]string{{"res_model", "res_id", "state"}},
	},
	{
		name: "ir_sequence",
		columns: []*column{
			{name: "name", typ: fieldtype.Char, required: true},
			{name: "number_next", typ: fieldtype.Integer, def: "1"},
		},
		primaryKey: []string{"name"},
	},
}

// schemaTable returns the definition of the given table
func schemaTable(name string) *table {
	for _, t := range schema {
		if t.name == name {
			return t
		}
	}
	log.Panic("Unknown table", "table", name)
	return nil
}

// SyncDatabase creates missing tables, columns and indexes
func (d *Database) SyncDatabase(ctx context.Context) error {
	log.Info("Updating database schema")
	return d.ExecuteInNewEnvironment(ctx, security.SuperUserID, func(env Environment) {
		dbTables := d.adapter.tables(env.Cr())
		for _, t := range schema {
			if !dbTables[t.name] {
				createDBTable(env, t)
				continue
			}
			updateDBColumns(env, t)
		}
		for _, t := range schema {
			updateDBIndexes(env, t)
		}
	})
}

// createDBTable creates the given table in the database
func createDBTable(env Environment, t *table) {
	adapter := env.db.adapter
	var defs []string
	if len(t.primaryKey) == 0 {
		defs = append(defs, "id "+adapter.primaryKeySQL())
	}
	for _, col := range t.columns {
		defs = append(defs, fmt.Sprintf("%s %s", col.name, adapter.columnSQLDefinition(col)))
	}
	if len(t.primaryKey) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(t.primaryKey, ", ")))
	}
	for _, u := range t.uniques {
		defs = append(defs, fmt.Sprintf("UNIQUE (%s)", strings.Join(u, ", ")))
	}
	query := fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", adapter.quoteTableName(t.name), strings.Join(defs, ",\n\t"))
	env.Cr().Execute(query)
	log.Debug("Created table", "table", t.name)
}

// updateDBColumns adds the columns of t that are missing in the database
func updateDBColumns(env Environment, t *table) {
	adapter := env.db.adapter
	dbColumns := adapter.columns(env.Cr(), t.name)
	for _, col := range t.columns {
		if _, ok := dbColumns[col.name]; ok {
			continue
		}
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", adapter.quoteTableName(t.name), col.name, adapter.columnSQLDefinition(col))
		env.Cr().Execute(query)
		log.Info("Added column", "table", t.name, "column", col.name)
	}
}

// updateDBIndexes creates the indexes of t
func updateDBIndexes(env Environment, t *table) {
	for _, cols := range t.indexes {
		name := fmt.Sprintf("%s_%s_index", t.name, strings.Join(cols, "_"))
		query := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", name, env.db.adapter.quoteTableName(t.name), strings.Join(cols, ", "))
		env.Cr().Execute(query)
	}
}

// insertRecord inserts the db tagged fields of arg that are columns of
// the given table and returns the new id.
func insertRecord(env Environment, tableName string, arg interface{}) int64 {
	t := schemaTable(tableName)
	cols := t.columnNames()
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		placeholders[i] = ":" + c
	}
	query, args, err := sqlx.Named(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		env.db.adapter.quoteTableName(t.name), strings.Join(cols, ", "), strings.Join(placeholders, ", ")), arg)
	if err != nil {
		log.Panic("Unable to bind record values", "table", tableName, "error", err)
	}
	return env.Cr().Insert(query, args...)
}

// updateRecord writes the db tagged fields of arg that are columns of
// the given table to the row with the given id.
func updateRecord(env Environment, tableName string, id int64, arg interface{}) {
	t := schemaTable(tableName)
	sets := make([]string, len(t.columns))
	for i, c := range t.columnNames() {
		sets[i] = fmt.Sprintf("%s = :%s", c, c)
	}
	query, args, err := sqlx.Named(fmt.Sprintf("UPDATE %s SET %s WHERE id = :id",
		env.db.adapter.quoteTableName(t.name), strings.Join(sets, ", ")), arg)
	if err != nil {
		log.Panic("Unable to bind record values", "table", tableName, "error", err)
	}
	res := env.Cr().Execute(query, args...)
	if n, _ := res.RowsAffected(); n == 0 {
		panic(missingError(tableName, id))
	}
}
