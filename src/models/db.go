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
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var adapters = make(map[string]dbAdapter)

// ConnectionParams are the database agnostic parameters to connect to the database
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	SSLCert  string
	SSLKey   string
	SSLCA    string
}

// A ColumnData holds information from the db schema about one column
type ColumnData struct {
	ColumnName    string         `db:"column_name"`
	DataType      string         `db:"data_type"`
	IsNullable    string         `db:"is_nullable"`
	ColumnDefault sql.NullString `db:"column_default"`
}

type dbAdapter interface {
	// connectionString returns the connection string for the given parameters
	connectionString(ConnectionParams) string
	// configure sets driver specific options on a freshly opened database
	configure(*sqlx.DB)
	// columnSQLDefinition returns the SQL type string, including columns constraints if any
	columnSQLDefinition(col *column) string
	// primaryKeySQL returns the definition of an auto incremented id column
	primaryKeySQL() string
	// tables returns a map of table names of the database
	tables(cr *Cursor) map[string]bool
	// columns returns a list of ColumnData for the given tableName
	columns(cr *Cursor, tableName string) map[string]ColumnData
	// quoteTableName returns the given table name with sql quotes
	quoteTableName(string) string
	// setTransactionIsolation returns the SQL string to set the transaction isolation
	// level to serializable, or an empty string if the database always is.
	setTransactionIsolation() string
	// forUpdate returns the clause appended to a SELECT to lock the selected rows
	forUpdate() string
	// createSequence creates a DB sequence with the given name if it does not exist
	createSequence(cr *Cursor, name string)
	// nextSequenceValue returns the next value of the given sequence
	nextSequenceValue(cr *Cursor, name string) int64
	// isSerializationError returns true if the given error is a serialization error
	// and that the failed transaction should be retried.
	isSerializationError(err error) bool
	// isUniqueViolation returns true if the given error is a violated unique constraint
	isUniqueViolation(err error) bool
}

// registerDBAdapter adds a adapter to the adapters registry
// name of the adapter should match the database/sql driver name
func registerDBAdapter(name string, adapter dbAdapter) {
	adapters[name] = adapter
}

// A Database is a connection pool to the board resolutions database
type Database struct {
	db      *sqlx.DB
	adapter dbAdapter
}

// DBConnect connects to a database using the given driver and arguments.
func DBConnect(driver string, params ConnectionParams) (*Database, error) {
	adapter, ok := adapters[driver]
	if !ok {
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
	db, err := sqlx.Connect(driver, adapter.connectionString(params))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to connect to %s database %s", driver, params.DBName)
	}
	adapter.configure(db)
	log.Info("Connected to database", "driver", driver, "dbname", params.DBName)
	return &Database{db: db, adapter: adapter}, nil
}

// Close closes the connection to the database
func (d *Database) Close() error {
	err := d.db.Close()
	log.Info("Closed database", "error", err)
	return err
}

// DriverName returns the name of the database/sql driver
func (d *Database) DriverName() string {
	return d.db.DriverName()
}

// Ping checks that the database is reachable
func (d *Database) Ping() error {
	return d.db.Ping()
}

// Cursor is a wrapper around a database transaction
type Cursor struct {
	tx *sqlx.Tx
}

// Execute a query without returning any rows. It panics in case of error.
// The args are for any placeholder parameters in the query.
func (c *Cursor) Execute(query string, args ...interface{}) sql.Result {
	query, args = c.sanitizeQuery(query, args...)
	t := time.Now()
	res, err := c.tx.Exec(query, args...)
	logSQLResult(err, t, query, args...)
	return res
}

// Get queries a row into the database and maps the result into dest.
// The query must return only one row. Get panics on errors.
func (c *Cursor) Get(dest interface{}, query string, args ...interface{}) {
	query, args = c.sanitizeQuery(query, args...)
	t := time.Now()
	err := c.tx.Get(dest, query, args...)
	logSQLResult(err, t, query, args...)
}

// Find queries a row into dest and returns false if no row was found.
// It panics on other errors.
func (c *Cursor) Find(dest interface{}, query string, args ...interface{}) bool {
	query, args = c.sanitizeQuery(query, args...)
	t := time.Now()
	err := c.tx.Get(dest, query, args...)
	if errors.Cause(err) == sql.ErrNoRows {
		logSQLResult(nil, t, query, args...)
		return false
	}
	logSQLResult(err, t, query, args...)
	return true
}

// Select queries multiple rows and map the result into dest which must be a slice.
// Select panics on errors.
func (c *Cursor) Select(dest interface{}, query string, args ...interface{}) {
	query, args = c.sanitizeQuery(query, args...)
	t := time.Now()
	err := c.tx.Select(dest, query, args...)
	logSQLResult(err, t, query, args...)
}

// Insert executes the given INSERT statement and returns the id of the
// new row. The statement must not have a RETURNING clause.
func (c *Cursor) Insert(query string, args ...interface{}) int64 {
	var id int64
	c.Get(&id, query+" RETURNING id", args...)
	return id
}

// sanitizeQuery calls 'In' expansion and 'Rebind' on the given query and
// returns the new values to use. It panics in case of error
func (c *Cursor) sanitizeQuery(query string, args ...interface{}) (string, []interface{}) {
	originalArgs := args
	q, args, err := sqlx.In(query, args...)
	if err != nil {
		log.Panic("Unable to expand 'IN' statement", "error", err, "query", query, "args", originalArgs)
	}
	q = c.tx.Rebind(q)
	return q, args
}

// Log the result of the given sql query started at start time with the
// given args, and error. This function panics after logging if error is not nil.
func logSQLResult(err error, start time.Time, query string, args ...interface{}) {
	logCtx := log.New("query", query, "args", args, "duration", time.Since(start))
	if err != nil {
		// We don't log.Panic to keep db error information in recovery
		logCtx.Error("Error while executing query", "error", err)
		panic(errors.WithStack(err))
	}
	logCtx.Debug("Query executed")
}
