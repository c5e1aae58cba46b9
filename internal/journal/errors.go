package journal

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrNoOpenSession = errors.New("no open session")
	ErrInvalidDay    = errors.New("day must be between 0 and 6")
	ErrInvalidHour   = errors.New("hour must be between 0 and 23")
)

// DispatchError is a failed send to one user.
type DispatchError struct {
	UserID string
	Err    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatching to user %s: %v", e.UserID, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// PersistenceError is a store read or write failure. The operation that hit it
// did not apply.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
