// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package models

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hexya-addons/boardresolutions/src/models/fieldtype"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqliteAdapter serves single site installations and tests. SQLite
// serializes all writers so transactions run with one connection.
type sqliteAdapter struct{}

// Declared types matter: the driver parses DATE and TIMESTAMP columns
// into time.Time when scanning.
var sqliteTypes = map[fieldtype.Type]string{
	fieldtype.Boolean:   "BOOLEAN",
	fieldtype.Char:      "VARCHAR",
	fieldtype.Text:      "TEXT",
	fieldtype.Date:      "DATE",
	fieldtype.DateTime:  "TIMESTAMP",
	fieldtype.Integer:   "INTEGER",
	fieldtype.Float:     "REAL",
	fieldtype.HTML:      "TEXT",
	fieldtype.Selection: "VARCHAR",
	fieldtype.Many2One:  "INTEGER",
}

var sqliteDefaultValues = map[fieldtype.Type]string{
	fieldtype.Boolean:   "0",
	fieldtype.Char:      "''",
	fieldtype.Text:      "''",
	fieldtype.Integer:   "0",
	fieldtype.Float:     "0.0",
	fieldtype.HTML:      "''",
	fieldtype.Selection: "''",
}

// connectionString returns the file name of the database with the
// pragmas to apply on each connection. An empty DBName opens a private
// in-memory database.
func (d *sqliteAdapter) connectionString(params ConnectionParams) string {
	name := params.DBName
	if name == "" {
		name = ":memory:"
	}
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	return fmt.Sprintf("file:%s?%s", name, q.Encode())
}

// configure sets driver specific options on a freshly opened database
func (d *sqliteAdapter) configure(db *sqlx.DB) {
	// in-memory databases live as long as their only connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
}

// columnSQLDefinition returns the SQL type string, including columns constraints if any
func (d *sqliteAdapter) columnSQLDefinition(col *column) string {
	typ, ok := sqliteTypes[col.typ]
	if !ok {
		log.Panic("Unknown column type", "type", col.typ, "column", col.name)
	}
	return typ + columnConstraints(col, sqliteDefaultValues, d.quoteTableName)
}

// primaryKeySQL returns the definition of an auto incremented id column
func (d *sqliteAdapter) primaryKeySQL() string {
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// tables returns a map of table names of the database
func (d *sqliteAdapter) tables(cr *Cursor) map[string]bool {
	var resList []string
	cr.Select(&resList, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'")
	res := make(map[string]bool, len(resList))
	for _, tableName := range resList {
		res[tableName] = true
	}
	return res
}

// quoteTableName returns the given table name with sql quotes
func (d *sqliteAdapter) quoteTableName(tableName string) string {
	return fmt.Sprintf(`"%s"`, tableName)
}

type sqliteColumnInfo struct {
	CID        int     `db:"cid"`
	Name       string  `db:"name"`
	Type       string  `db:"type"`
	NotNull    bool    `db:"notnull"`
	Default    *string `db:"dflt_value"`
	PrimaryKey int     `db:"pk"`
}

// columns returns a list of ColumnData for the given tableName
func (d *sqliteAdapter) columns(cr *Cursor, tableName string) map[string]ColumnData {
	var infos []sqliteColumnInfo
	cr.Select(&infos, fmt.Sprintf("PRAGMA table_info(%s)", d.quoteTableName(tableName)))
	res := make(map[string]ColumnData, len(infos))
	for _, info := range infos {
		cd := ColumnData{
			ColumnName: info.Name,
			DataType:   info.Type,
			IsNullable: "YES",
		}
		if info.NotNull {
			cd.IsNullable = "NO"
		}
		if info.Default != nil {
			cd.ColumnDefault.String, cd.ColumnDefault.Valid = *info.Default, true
		}
		res[info.Name] = cd
	}
	return res
}

// setTransactionIsolation returns an empty string: SQLite
// transactions are always serializable.
func (d *sqliteAdapter) setTransactionIsolation() string {
	return ""
}

// forUpdate returns an empty string: the single connection already
// serializes transactions.
func (d *sqliteAdapter) forUpdate() string {
	return ""
}

// createSequence creates a row for the given sequence in ir_sequence
func (d *sqliteAdapter) createSequence(cr *Cursor, name string) {
	cr.Execute("INSERT INTO ir_sequence (name, number_next) VALUES (?, 1) ON CONFLICT (name) DO NOTHING", name)
}

// nextSequenceValue returns the next value of the given sequence
func (d *sqliteAdapter) nextSequenceValue(cr *Cursor, name string) int64 {
	var val int64
	cr.Get(&val, "UPDATE ir_sequence SET number_next = number_next + 1 WHERE name = ? RETURNING number_next - 1", name)
	return val
}

// isSerializationError returns true if the database was locked by
// another writer.
func (d *sqliteAdapter) isSerializationError(err error) bool {
	if sqliteErr, ok := errors.Cause(err).(*sqlite.Error); ok {
		code := sqliteErr.Code() & 0xff
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	return false
}

// isUniqueViolation returns true if the given error is a violated unique constraint
func (d *sqliteAdapter) isUniqueViolation(err error) bool {
	sqliteErr, ok := errors.Cause(err).(*sqlite.Error)
	if !ok {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(sqliteErr.Error(), "UNIQUE")
	}
	return false
}

var _ dbAdapter = new(sqliteAdapter)

func init() {
	registerDBAdapter("sqlite", new(sqliteAdapter))
}
