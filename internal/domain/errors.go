package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmptyCart  = errors.New("cart empty")
	ErrNoCatalog  = errors.New("catalog not loaded")
	ErrBadSortKey = errors.New("unknown sort mode")
)

// PersistenceError wraps a failed decrypt, decode or write of persisted state.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
