package repo

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no record matches the given id.
	ErrNotFound = errors.New("not found")
	// ErrConstraint is returned when a write violates a uniqueness constraint.
	ErrConstraint = errors.New("constraint violation")
	// ErrValidation is returned when a record is missing a required field.
	ErrValidation = errors.New("validation failed")
)

// StoreError wraps connectivity and other unexpected database failures.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// postgres SQLSTATE codes
const (
	codeUniqueViolation  = "23505"
	codeNotNullViolation = "23502"
	codeCheckViolation   = "23514"
)

// classify maps a driver error onto the package sentinels.
func classify(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, ErrConstraint, pqErr.Constraint)
		case codeNotNullViolation, codeCheckViolation:
			return fmt.Errorf("%s: %w: %s", op, ErrValidation, pqErr.Message)
		}
	}
	return &StoreError{Op: op, Err: err}
}
