package errors

import (
	"fmt"

	"github.com/aarothfresh/orderflow/internal/domain"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrValidation is returned when a mutation fails local validation.
// Validation failures never reach the network layer.
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrInvalidStateTransition is returned when the requested status is not
// reachable from the order's current status
type ErrInvalidStateTransition struct {
	From domain.Status
	To   domain.Status
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrServerRejection is returned when the backend answered a mutation with a
// non-success status. Message carries the server-provided reason when the
// response body included one, else a generic fallback.
type ErrServerRejection struct {
	StatusCode int
	Message    string
}

func (e *ErrServerRejection) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request rejected"
	}
	return fmt.Sprintf("server rejected request (status %d): %s", e.StatusCode, msg)
}
