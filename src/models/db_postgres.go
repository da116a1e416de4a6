// Copyright 2016 NDP Systèmes. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package models

import (
	"fmt"
	"strings"

	"github.com/hexya-addons/boardresolutions/src/models/fieldtype"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

type postgresAdapter struct{}

var pgTypes = map[fieldtype.Type]string{
	fieldtype.Boolean:   "boolean",
	fieldtype.Char:      "character varying",
	fieldtype.Text:      "text",
	fieldtype.Date:      "date",
	fieldtype.DateTime:  "timestamp without time zone",
	fieldtype.Integer:   "integer",
	fieldtype.Float:     "numeric",
	fieldtype.HTML:      "text",
	fieldtype.Selection: "varchar",
	fieldtype.Many2One:  "integer",
}

var pgDefaultValues = map[fieldtype.Type]string{
	fieldtype.Boolean:   "FALSE",
	fieldtype.Char:      "''",
	fieldtype.Text:      "''",
	fieldtype.Integer:   "0",
	fieldtype.Float:     "0.0",
	fieldtype.HTML:      "''",
	fieldtype.Selection: "''",
}

// connectionString returns the connection string for the given parameters
func (d *postgresAdapter) connectionString(params ConnectionParams) string {
	parts := []string{fmt.Sprintf("dbname=%s", params.DBName)}
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", key, value))
		}
	}
	add("host", params.Host)
	add("port", params.Port)
	add("user", params.User)
	add("password", params.Password)
	sslMode := params.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	add("sslmode", sslMode)
	add("sslcert", params.SSLCert)
	add("sslkey", params.SSLKey)
	add("sslrootcert", params.SSLCA)
	return strings.Join(parts, " ")
}

// configure sets driver specific options on a freshly opened database
func (d *postgresAdapter) configure(*sqlx.DB) {}

// columnSQLDefinition returns the SQL type string, including columns constraints if any
func (d *postgresAdapter) columnSQLDefinition(col *column) string {
	typ, ok := pgTypes[col.typ]
	if !ok {
		log.Panic("Unknown column type", "type", col.typ, "column", col.name)
	}
	if col.typ == fieldtype.Char && col.size > 0 {
		typ = fmt.Sprintf("%s(%d)", typ, col.size)
	}
	return typ + columnConstraints(col, pgDefaultValues, d.quoteTableName)
}

// primaryKeySQL returns the definition of an auto incremented id column
func (d *postgresAdapter) primaryKeySQL() string {
	return "serial NOT NULL PRIMARY KEY"
}

// tables returns a map of table names of the database
func (d *postgresAdapter) tables(cr *Cursor) map[string]bool {
	var resList []string
	cr.Select(&resList, "SELECT table_name FROM information_schema.tables WHERE table_type = 'BASE TABLE' AND table_schema NOT IN ('pg_catalog', 'information_schema')")
	res := make(map[string]bool, len(resList))
	for _, tableName := range resList {
		res[tableName] = true
	}
	return res
}

// quoteTableName returns the given table name with sql quotes
func (d *postgresAdapter) quoteTableName(tableName string) string {
	return fmt.Sprintf(`"%s"`, tableName)
}

// columns returns a list of ColumnData for the given tableName
func (d *postgresAdapter) columns(cr *Cursor, tableName string) map[string]ColumnData {
	var colData []ColumnData
	cr.Select(&colData, `
		SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema NOT IN ('pg_catalog', 'information_schema') AND table_name = ?
	`, tableName)
	res := make(map[string]ColumnData, len(colData))
	for _, col := range colData {
		res[col.ColumnName] = col
	}
	return res
}

// setTransactionIsolation returns the SQL string to set the
// transaction isolation level to serializable
func (d *postgresAdapter) setTransactionIsolation() string {
	return "SET TRANSACTION ISOLATION LEVEL SERIALIZABLE"
}

// forUpdate returns the clause appended to a SELECT to lock the selected rows
func (d *postgresAdapter) forUpdate() string {
	return " FOR UPDATE"
}

// createSequence creates a DB sequence with the given name
func (d *postgresAdapter) createSequence(cr *Cursor, name string) {
	cr.Execute(fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS %s", name))
}

// nextSequenceValue returns the next value of the given given sequence
func (d *postgresAdapter) nextSequenceValue(cr *Cursor, name string) int64 {
	var val int64
	cr.Get(&val, fmt.Sprintf("SELECT nextval('%s')", name))
	return val
}

// isSerializationError returns true if the given error is a serialization error
// and that the failed transaction should be retried.
func (d *postgresAdapter) isSerializationError(err error) bool {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code.Class() == "40" {
		return true
	}
	return false
}

// isUniqueViolation returns true if the given error is a violated unique constraint
func (d *postgresAdapter) isUniqueViolation(err error) bool {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
		return true
	}
	return false
}

var _ dbAdapter = new(postgresAdapter)

func init() {
	registerDBAdapter("postgres", new(postgresAdapter))
}
