package folio

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/types"
)

// Sentinel errors for common failure scenarios. Typed errors below match
// them with errors.Is.
var (
	ErrNotFound      = errors.New("folio: not found")
	ErrAlreadyExists = errors.New("folio: already exists")
	ErrValidation    = errors.New("folio: validation failed")
	ErrEditLocked    = errors.New("folio: invoice is locked for editing")
	ErrDeleteBlocked = errors.New("folio: invoice cannot be deleted")
	ErrStateConflict = errors.New("folio: invalid invoice state")

	ErrStoreClosed = errors.New("folio: store is closed")
	ErrNoStore     = errors.New("folio: store is required")
)

// NotFoundError reports an unknown id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("folio: %s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError represents a validation failure with details. Field and
// Message describe the first violation; Violations holds all of them.
type ValidationError struct {
	Field      string
	Message    string
	Violations []invoice.Violation

	// Remaining is set when a payment was rejected for its amount.
	Remaining *types.Money
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("folio: validation failed for %s: %s", e.Field, e.Message)
	if n := len(e.Violations); n > 1 {
		msg += fmt.Sprintf(" (and %d more)", n-1)
	}
	return msg
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func newValidationError(vs []invoice.Violation) *ValidationError {
	return &ValidationError{
		Field:      vs[0].Field,
		Message:    vs[0].Message,
		Violations: vs,
	}
}

// EditLockedError is returned when a non-draft invoice is edited beyond its
// status.
type EditLockedError struct {
	InvoiceID string
	Status    invoice.Status
	Fields    []string
}

func (e *EditLockedError) Error() string {
	return fmt.Sprintf("folio: invoice %s is %s; only status may change (got %s)",
		e.InvoiceID, e.Status, strings.Join(e.Fields, ", "))
}

func (e *EditLockedError) Is(target error) bool { return target == ErrEditLocked }

// DeleteBlockedError is returned when deleting a paid invoice.
type DeleteBlockedError struct {
	InvoiceID string
	Status    invoice.Status
}

func (e *DeleteBlockedError) Error() string {
	return fmt.Sprintf("folio: invoice %s is %s and cannot be deleted", e.InvoiceID, e.Status)
}

func (e *DeleteBlockedError) Is(target error) bool { return target == ErrDeleteBlocked }

// StateConflictError is returned when an operation is not valid for the
// invoice's current status.
type StateConflictError struct {
	InvoiceID string
	Op        string
	From      invoice.Status
	To        invoice.Status
}

func (e *StateConflictError) Error() string {
	if e.To != "" {
		return fmt.Sprintf("folio: cannot %s invoice %s: %s -> %s is not allowed", e.Op, e.InvoiceID, e.From, e.To)
	}
	return fmt.Sprintf("folio: cannot %s invoice %s in status %s", e.Op, e.InvoiceID, e.From)
}

func (e *StateConflictError) Is(target error) bool { return target == ErrStateConflict }

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidation returns true if the error is a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsRejected returns true if the operation was refused because of the
// invoice's state rather than its input.
func IsRejected(err error) bool {
	return errors.Is(err, ErrEditLocked) ||
		errors.Is(err, ErrDeleteBlocked) ||
		errors.Is(err, ErrStateConflict)
}
