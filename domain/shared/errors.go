/*
Package shared - domain-wide error definitions

Sentinel errors classify failures for errors.Is(); DomainError carries the
business context plus the stack captured at construction time. The stack is
formatted lazily, only when the API layer logs it.

Domain errors never carry HTTP status codes. Translation to transport
concerns happens in pkg/errors and api/response.
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// Sentinel Errors
// ============================================================================

var (
	// ErrNotFound resource does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict concurrent modification or unique constraint violation
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput parameter validation failed
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized caller is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden caller is authenticated but does not own the resource
	ErrForbidden = errors.New("forbidden")

	// ErrCurrencyMismatch arithmetic across different currencies
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// ============================================================================
// Domain Error
// ============================================================================

// DomainError structured error with business context and capture-site stack.
type DomainError struct {
	// Err sentinel used by errors.Is()
	Err error

	// Entity name of the entity involved ("cart", "order", ...)
	Entity string

	// Message human readable description
	Message string

	// Field optional field name for validation errors
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack formats the captured frames on demand.
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack records the current call stack.
// skip: frames to skip (usually 3: Callers, CaptureStack, NewXxxError)
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders at most 10 non-runtime frames.
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) > 10 {
			break
		}
	}
	return result
}

// ============================================================================
// Constructors
// ============================================================================

// NewDomainError builds a DomainError around a subdomain sentinel.
// Subdomain packages use it so their own sentinels stay matchable with errors.Is.
func NewDomainError(sentinel error, entity, field, message string) error {
	return &DomainError{
		Err:     sentinel,
		Entity:  entity,
		Field:   field,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewNotFoundError creates a "not found" domain error
func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

// NewConflictError creates a "conflict" domain error
func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewValidationError creates a validation domain error
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewForbiddenError creates a "forbidden" domain error
func NewForbiddenError(entity, reason string) error {
	return &DomainError{
		Err:     ErrForbidden,
		Entity:  entity,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// Stacker errors that can report where they were created.
type Stacker interface {
	Stack() []string
}
