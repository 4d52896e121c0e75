package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRow is returned by Select when no row carries the requested id.
	ErrNoRow = errors.New("storage: no such row")
	// ErrUnsupported marks an operation the backend cannot perform.
	ErrUnsupported = errors.New("storage: unsupported by backend")
)

// StoreError wraps any failure reported by the database.
type StoreError struct {
	Op    string // create, insert, commit, count, select, query, backup, ...
	Table string // empty for store-wide operations
	Err   error
}

func (e *StoreError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreError reports whether err came from the database layer.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

func storeErr(op, table string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Table: table, Err: err}
}
