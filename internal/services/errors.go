package services

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is deliberately generic: login never reveals whether
// the email exists or the password was wrong.
var ErrInvalidCredentials = errors.New("Invalid credentials")

// NotFoundError means the requested entity does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// PermissionError means the acting identity failed a role or ownership check.
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{UserID: userID, Resource: resource, Action: action, Reason: reason}
}

// ConflictError means the request clashes with existing state (duplicate
// email, stale status).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// OTPError carries the outcome of a failed OTP verification, including how
// many attempts remain when the code can still be retried.
type OTPError struct {
	Message           string
	RemainingAttempts *int
}

func (e *OTPError) Error() string { return e.Message }

func NewOTPError(message string) *OTPError {
	return &OTPError{Message: message}
}

func NewOTPAttemptError(message string, remaining int) *OTPError {
	return &OTPError{Message: message, RemainingAttempts: &remaining}
}

// UpstreamError means an external collaborator (file store, database) was
// unreachable for an essential operation.
type UpstreamError struct {
	System string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.System, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func NewUpstreamError(system string, err error) *UpstreamError {
	return &UpstreamError{System: system, Err: err}
}
