// Package errors provides centralized error definitions and error handling utilities
// for the game controller and its collaborators.
//
// # Error Types
//
// The taxonomy has three branches:
//   - ProtocolError: an event with an unrecognized type or state value reached a
//     handler. Fatal for that handler invocation; in-memory state is unchanged.
//   - CollaboratorError: a best-effort shell call (surface open/close, highlight,
//     notify) failed. Logged at the call site and otherwise ignored.
//   - ValidationError: invalid input to a collaborator (e.g. out-of-range target).
//
// Timing races between a tick and a click are not errors; the controller
// resolves them deterministically.
//
// # Usage
//
//	err := errors.NewProtocolError("state-update", errors.ErrUnknownState).WithValue("paused")
//
//	if errors.IsProtocolViolation(err) { ... }
//
//	var collabErr *errors.CollaboratorError
//	if errors.As(err, &collabErr) { ... }
//
// Nothing in this module retries; there is no retryable classification.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Protocol sentinel errors
var (
	// ErrUnknownEventType indicates an event envelope carried an unsupported type.
	ErrUnknownEventType = New("unsupported game event type")
	// ErrUnknownState indicates a state-update carried an unsupported state.
	ErrUnknownState = New("unsupported game state")
	// ErrMalformedEnvelope indicates an envelope could not be decoded at all.
	ErrMalformedEnvelope = New("malformed event envelope")
)

// Target field sentinel errors
var (
	// ErrInvalidSelection indicates a selection outside the current field.
	ErrInvalidSelection = New("invalid target selection")
	// ErrFieldDisabled indicates the field no longer accepts selections.
	ErrFieldDisabled = New("target field is disabled")
	// ErrNoField indicates no field has been generated yet.
	ErrNoField = New("no target field")
	// ErrStaleField indicates a selection aimed at a field that has since
	// been replaced.
	ErrStaleField = New("target field belongs to another cycle")
)

// General sentinel errors
var (
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message  string
	cause    error
	severity Severity
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// -----------------------------------------------------------------------------
// Protocol Errors
// -----------------------------------------------------------------------------

// ProtocolError reports an event the receiver cannot interpret.
//
// Example:
//
//	err := errors.NewProtocolError("state-update", errors.ErrUnknownState).WithValue("paused")
//	fmt.Println(err) // "protocol violation [event=state-update, value=paused]: unsupported game state"
type ProtocolError struct {
	baseError
	EventType string
	Value     string
}

// NewProtocolError creates a ProtocolError for the given event type.
func NewProtocolError(eventType string, cause error) *ProtocolError {
	msg := "event rejected"
	if cause != nil {
		msg = cause.Error()
	}
	return &ProtocolError{
		baseError: baseError{
			message:  msg,
			cause:    cause,
			severity: SeverityCritical,
		},
		EventType: eventType,
	}
}

// WithValue records the offending value (type or state string).
func (e *ProtocolError) WithValue(v string) *ProtocolError {
	e.Value = v
	return e
}

// Error returns the formatted error message.
func (e *ProtocolError) Error() string {
	var parts []string
	if e.EventType != "" {
		parts = append(parts, fmt.Sprintf("event=%s", e.EventType))
	}
	if e.Value != "" {
		parts = append(parts, fmt.Sprintf("value=%s", e.Value))
	}

	prefix := "protocol violation"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("protocol violation [%s]", strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ProtocolError) Is(target error) bool {
	if _, ok := target.(*ProtocolError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Collaborator Errors
// -----------------------------------------------------------------------------

// CollaboratorError wraps a failed best-effort call to the host shell.
type CollaboratorError struct {
	baseError
	Operation string // e.g. "open_surface", "highlight"
	SurfaceID string
}

// NewCollaboratorError creates a CollaboratorError for the named operation.
func NewCollaboratorError(operation string, cause error) *CollaboratorError {
	return &CollaboratorError{
		baseError: baseError{
			message:  operation + " failed",
			cause:    cause,
			severity: SeverityWarning,
		},
		Operation: operation,
	}
}

// WithSurface adds the surface ID to the error context.
func (e *CollaboratorError) WithSurface(id string) *CollaboratorError {
	e.SurfaceID = id
	return e
}

// Error returns the formatted error message.
func (e *CollaboratorError) Error() string {
	prefix := "collaborator error"
	if e.SurfaceID != "" {
		prefix = fmt.Sprintf("collaborator error [surface=%s]", e.SurfaceID)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *CollaboratorError) Is(target error) bool {
	if _, ok := target.(*CollaboratorError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Validation Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid input.
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:  message,
			cause:    ErrInvalidInput,
			severity: SeverityWarning,
		},
	}
}

// WithField adds the field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause replaces the underlying cause.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation error")
	if e.Field != "" {
		sb.WriteString(fmt.Sprintf(" [field=%s]", e.Field))
	}
	sb.WriteString(": ")
	sb.WriteString(e.message)
	if e.Value != nil {
		sb.WriteString(fmt.Sprintf(" (got: %v)", e.Value))
	}
	return sb.String()
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsProtocolViolation reports whether err is or wraps a ProtocolError.
func IsProtocolViolation(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsCollaboratorFailure reports whether err is or wraps a CollaboratorError.
func IsCollaboratorFailure(err error) bool {
	var ce *CollaboratorError
	return errors.As(err, &ce)
}

// GetSeverity returns the severity of err, or SeverityError for plain errors.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var s interface{ Severity() Severity }
	if errors.As(err, &s) {
		return s.Severity()
	}
	return SeverityError
}

// Wrap wraps an error with additional context.
// Returns nil if err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message.
// Returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
