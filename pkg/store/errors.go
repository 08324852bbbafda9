// Package store keeps a library of bevel pair designs in SQLite. Each
// record holds the project and its parameter file text, so a design is
// restored by decoding and re-solving it.
package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no design matches the given name.
	ErrNotFound = errors.New("design not found")

	// ErrDuplicateName is returned when a design with the same project
	// name already exists.
	ErrDuplicateName = errors.New("design with this project name already exists")

	// ErrConnectionFailed is returned when the database cannot be opened.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrMigrationFailed is returned when the schema cannot be migrated.
	ErrMigrationFailed = errors.New("database migration failed")

	// ErrInvalidData is returned when stored parameters cannot be encoded
	// or decoded.
	ErrInvalidData = errors.New("invalid data format")
)

// StoreError wraps errors with the operation and record they concern.
type StoreError struct {
	Op      string // Operation that failed (e.g., "SaveDesign")
	Entity  string
	ID      string // Project name when known
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %s", e.Op, e.Entity, e.ID, e.Message)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Entity, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, entity, id, message string, err error) *StoreError {
	return &StoreError{
		Op:      op,
		Entity:  entity,
		ID:      id,
		Message: message,
		Err:     err,
	}
}
