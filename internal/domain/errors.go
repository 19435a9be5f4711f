package domain

import (
	"errors"
	"fmt"
)

// ErrNoSuchElement is returned by clients when a selector matches nothing
var ErrNoSuchElement = errors.New("no such element")

// InfrastructureError is a fatal error raised while launching the
// application or talking to it. It aborts the run.
type InfrastructureError struct {
	Op    string // e.g. "launch", "wait", "click", "back"
	Index int    // testcase position, 0 when not applicable
	Err   error
}

func (e *InfrastructureError) Error() string {
	if e.Index > 0 {
		return fmt.Sprintf("%s (testcase %d): %v", e.Op, e.Index, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// Infra wraps err as an InfrastructureError, nil stays nil
func Infra(op string, index int, err error) error {
	if err == nil {
		return nil
	}
	var ie *InfrastructureError
	if errors.As(err, &ie) {
		return err
	}
	return &InfrastructureError{Op: op, Index: index, Err: err}
}
