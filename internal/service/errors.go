package service

import (
	"errors"
	"fmt"

	"alcyxob/sports-library/internal/domain"
)

// --- Error Definitions ---
var (
	ErrCollision      = errors.New("identity already exists")
	ErrPartialCascade = errors.New("parent deleted but owned children remain")
	ErrUnknownKind    = errors.New("unknown entity kind")
	ErrNilEntity      = errors.New("entity is nil")
)

// InitializationError means the store could not be opened or created. It is fatal.
type InitializationError struct {
	Backend string
	Target  string // file path or database name
	Err     error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("open %s store %q: %v", e.Backend, e.Target, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// OperationError means an operation failed on an open store. The store stays usable.
type OperationError struct {
	Op   string
	Kind domain.Kind
	ID   string
	Err  error
}

func (e *OperationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Kind, e.ID, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

func opError(op string, kind domain.Kind, id string, err error) error {
	return &OperationError{Op: op, Kind: kind, ID: id, Err: err}
}
