// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

// Package exceptions provides the error types used throughout the board
// resolutions addon.
//
// All types carry a user facing Message that names the unmet condition.
// Callers classify errors with errors.As.
package exceptions

import "fmt"

// UserError is an error that must rollback the current transaction and
// be displayed as a warning to the user.
type UserError struct {
	Message string
	Debug   string
}

// Error method for the UserError type.
// Returns the message.
func (u UserError) Error() string {
	if u.Debug == "" {
		return u.Message
	}
	return fmt.Sprintf("%s\n----------------------------------\n%s", u.Message, u.Debug)
}

// ValidationError is returned when user supplied data does not satisfy
// a business rule. It is always raised before any write.
type ValidationError struct {
	Message string
}

// Error returns the message of this ValidationError
func (e ValidationError) Error() string {
	return e.Message
}

// NewValidationError returns a ValidationError with a formatted message
func NewValidationError(format string, args ...interface{}) ValidationError {
	return ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PermissionError is returned when the caller lacks the capability
// required by an operation.
type PermissionError struct {
	Message string
}

// Error returns the message of this PermissionError
func (e PermissionError) Error() string {
	return e.Message
}

// NewPermissionError returns a PermissionError with a formatted message
func NewPermissionError(format string, args ...interface{}) PermissionError {
	return PermissionError{Message: fmt.Sprintf(format, args...)}
}

// StateError is returned when a transition is invoked on a record whose
// current state does not match the transition's precondition.
type StateError struct {
	Message string
	// Current is the state the record was in
	Current string
}

// Error returns the message of this StateError
func (e StateError) Error() string {
	return e.Message
}

// NewStateError returns a StateError for the given current state
func NewStateError(current string, format string, args ...interface{}) StateError {
	return StateError{
		Message: fmt.Sprintf(format, args...),
		Current: current,
	}
}

// ConfigurationError is returned when the association setup does not
// allow an operation, e.g. an empty board roster or a malformed policy.
type ConfigurationError struct {
	Message string
}

// Error returns the message of this ConfigurationError
func (e ConfigurationError) Error() string {
	return e.Message
}

// NewConfigurationError returns a ConfigurationError with a formatted message
func NewConfigurationError(format string, args ...interface{}) ConfigurationError {
	return ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// MissingError is returned when a requested record does not exist.
type MissingError struct {
	Model string
	ID    int64
}

// Error returns the message of this MissingError
func (e MissingError) Error() string {
	return fmt.Sprintf("%s record %d does not exist", e.Model, e.ID)
}
