// Package exitcodes defines the exit codes used by ecr.
package exitcodes

import (
	"errors"
	"fmt"
)

// Exit code constants:
//
// * Success (0): every assertion passed
// * TestFailure (1): one or more assertions failed
// * RuntimeErr (2): the application could not be launched or driven
const (
	Success     = 0
	TestFailure = 1
	RuntimeErr  = 2
)

// Error carries an exit code out of a command
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Failed returns an error exiting with TestFailure
func Failed(failures int) error {
	return &Error{Code: TestFailure, Err: fmt.Errorf("%d failure(s) collected", failures)}
}

// Runtime returns an error exiting with RuntimeErr
func Runtime(err error) error {
	return &Error{Code: RuntimeErr, Err: err}
}

// Code maps an error returned by a command to the process exit code.
// Errors without an explicit code are runtime errors.
func Code(err error) int {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return RuntimeErr
}
