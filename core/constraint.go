package core

import (
	"fmt"
	"net/http"
)

// ConstraintType names the storage constraint that rejected a write.
type ConstraintType string

const (
	UniqueViolation     ConstraintType = "UNIQUE_VIOLATION"
	ForeignKeyViolation ConstraintType = "FOREIGN_KEY_VIOLATION"
)

const (
	uniqueViolationMessage     = "Duplicate key value violates unique constraint"
	foreignKeyViolationMessage = "Insert or update violates foreign key constraint"
)

// ConstraintError reports a database constraint violation. It always maps to 409 Conflict.
type ConstraintError struct {
	Type    ConstraintType
	Field   string // offending column, empty if the driver did not report it
	Message string
	Err     error // underlying driver error
}

// NewUniqueViolation returns a conflict error for a duplicate value in field.
func NewUniqueViolation(field string) *ConstraintError {
	return &ConstraintError{Type: UniqueViolation, Field: field, Message: uniqueViolationMessage}
}

// NewForeignKeyViolation returns a conflict error for a dangling reference.
func NewForeignKeyViolation() *ConstraintError {
	return &ConstraintError{Type: ForeignKeyViolation, Message: foreignKeyViolationMessage}
}

func (e *ConstraintError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s): %s", e.Type, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// StatusCode is always 409.
func (e *ConstraintError) StatusCode() int {
	return http.StatusConflict
}

// Kind reports the constraint category.
func (e *ConstraintError) Kind() Kind {
	if e.Type == ForeignKeyViolation {
		return KindForeignKeyConstraint
	}
	return KindUniqueConstraint
}

// Wrap attaches the driver error to the constraint error.
func (e *ConstraintError) Wrap(err error) *ConstraintError {
	e.Err = err
	return e
}
