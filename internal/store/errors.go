package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no gauge matches an identifier.
var ErrNotFound = errors.New("gauge not found")

// ValidationError reports malformed or missing input. The store is not
// touched when one is returned.
type ValidationError struct {
	Field   string
	Message string
	// Details carries diagnostic text kept out of Message.
	Details string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StoreError wraps any failure reaching or querying the database.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s gauges: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
