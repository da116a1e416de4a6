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
	"context"
	"database/sql"
	"time"

	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
	"github.com/hexya-addons/boardresolutions/src/tools/logging"
	"github.com/hexya-addons/boardresolutions/src/tools/metrics"
	"github.com/pkg/errors"
)

var log = logging.GetLogger("models")

// DBSerializationMaxRetries defines the number of time a
// transaction that failed due to serialization error should
// be retried.
const DBSerializationMaxRetries uint8 = 5

// An Environment stores various contextual data used by the models:
// - the database cursor (current open transaction),
// - the current user ID,
// - the context of the request.
type Environment struct {
	cr  *Cursor
	db  *Database
	uid int64
	ctx context.Context
	now time.Time
}

// Cr returns a pointer to the Cursor of the Environment
func (env Environment) Cr() *Cursor {
	return env.cr
}

// Uid returns the user id of the Environment
func (env Environment) Uid() int64 {
	return env.uid
}

// Context returns the context of the Environment
func (env Environment) Context() context.Context {
	return env.ctx
}

// Now returns the time at which the transaction started. It is used
// for all timestamps written in the transaction.
func (env Environment) Now() time.Time {
	return env.now
}

// newEnvironment returns a new Environment for the given user ID
//
// WARNING: Callers to newEnvironment should ensure to either call commit()
// or rollback() on the returned Environment after operation to release
// the database connection.
func (d *Database) newEnvironment(ctx context.Context, uid int64) Environment {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		panic(errors.Wrap(err, "unable to begin transaction"))
	}
	env := Environment{
		cr:  &Cursor{tx: tx},
		db:  d,
		uid: uid,
		ctx: ctx,
		now: time.Now().UTC().Truncate(time.Second),
	}
	if q := d.adapter.setTransactionIsolation(); q != "" {
		env.cr.Execute(q)
	}
	return env
}

// commit the transaction of this environment.
func (env Environment) commit() error {
	return env.cr.tx.Commit()
}

// rollback the transaction of this environment.
func (env Environment) rollback() {
	if err := env.cr.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		log.Warn("Unable to rollback transaction", "error", err)
	}
}

// ExecuteInNewEnvironment executes the given fnct in a new Environment
// within a new transaction.
//
// This function commits the transaction if everything went right or
// rolls it back otherwise, returning an error. fnct aborts by panicking.
// Errors of the exceptions package are returned as is, database
// serialization errors are automatically retried several times before
// returning an error if they still occur.
func (d *Database) ExecuteInNewEnvironment(ctx context.Context, uid int64, fnct func(Environment)) error {
	var err error
	for retries := uint8(0); retries < DBSerializationMaxRetries; retries++ {
		var retry bool
		err, retry = d.executeOnce(ctx, uid, fnct)
		if !retry {
			return err
		}
		metrics.TransactionRetries.Inc()
		log.Debug("Retrying transaction after serialization failure", "uid", uid, "retries", retries+1)
	}
	return err
}

// executeOnce runs fnct in a transaction. It returns true if the
// transaction failed because of a concurrent update.
func (d *Database) executeOnce(ctx context.Context, uid int64, fnct func(Environment)) (rError error, retry bool) {
	env, err := d.safeNewEnvironment(ctx, uid)
	if err != nil {
		return err, false
	}
	defer func() {
		if r := recover(); r != nil {
			env.rollback()
			rError, retry = d.recoveredError(r)
			return
		}
		if err := env.commit(); err != nil {
			rError, retry = errors.Wrap(err, "unable to commit transaction"), d.adapter.isSerializationError(err)
		}
	}()
	fnct(env)
	return nil, false
}

func (d *Database) safeNewEnvironment(ctx context.Context, uid int64) (env Environment, rError error) {
	defer func() {
		if r := recover(); r != nil {
			rError, _ = d.recoveredError(r)
		}
	}()
	return d.newEnvironment(ctx, uid), nil
}

// SimulateInNewEnvironment executes the given fnct in a new Environment
// within a new transaction and rolls back the transaction at the end.
//
// This function always rolls back the transaction but returns an error
// only if fnct panicked during its execution.
func (d *Database) SimulateInNewEnvironment(ctx context.Context, uid int64, fnct func(Environment)) (rError error) {
	env, err := d.safeNewEnvironment(ctx, uid)
	if err != nil {
		return err
	}
	defer func() {
		env.rollback()
		if r := recover(); r != nil {
			rError, _ = d.recoveredError(r)
		}
	}()
	fnct(env)
	return
}

// recoveredError returns the error to give back to the caller for the
// given panic data, and whether the transaction should be retried.
func (d *Database) recoveredError(r interface{}) (error, bool) {
	err, ok := r.(error)
	if !ok {
		return logging.LogPanicData(r), false
	}
	switch {
	case d.adapter.isSerializationError(err):
		return err, true
	case d.adapter.isUniqueViolation(err):
		return exceptions.NewValidationError("the record conflicts with an existing one: %s", errors.Cause(err)), false
	case isUserFacing(err):
		return err, false
	}
	return logging.LogPanicData(r), false
}

// isUserFacing returns true if err is one of the errors of the
// exceptions package, which carry a message for the user.
func isUserFacing(err error) bool {
	var (
		validation exceptions.ValidationError
		permission exceptions.PermissionError
		state      exceptions.StateError
		config     exceptions.ConfigurationError
		missing    exceptions.MissingError
		user       exceptions.UserError
	)
	return errors.As(err, &validation) || errors.As(err, &permission) || errors.As(err, &state) ||
		errors.As(err, &config) || errors.As(err, &missing) || errors.As(err, &user)
}

var modelNames = map[string]string{
	"res_partner":        "res.partner",
	"res_users":          "res.users",
	"board_meeting_type": "board.meeting.type",
	"board_resolution":   "board.resolution",
	"mail_message":       "mail.message",
	"mail_activity":      "mail.activity",
}

// missingError returns the MissingError for the given row
func missingError(tableName string, id int64) exceptions.MissingError {
	model, ok := modelNames[tableName]
	if !ok {
		model = tableName
	}
	return exceptions.MissingError{Model: model, ID: id}
}
