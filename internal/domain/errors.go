package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies every error the ledger returns to callers. Conflict is
// the only retryable class; everything else is terminal for the request.
type ErrorCode string

const (
	ErrCodeForbidden              ErrorCode = "forbidden"
	ErrCodeInvalidStateTransition ErrorCode = "invalid_state_transition"
	ErrCodeInsufficientQuantity   ErrorCode = "insufficient_quantity"
	ErrCodeInvalidReference       ErrorCode = "invalid_reference"
	ErrCodeConflict               ErrorCode = "conflict"
	ErrCodeValidation             ErrorCode = "validation_error"
)

// Machine-readable deny reasons carried by forbidden errors.
const (
	DenyRoleInsufficient = "role_insufficient"
	DenyBaseMismatch     = "base_mismatch"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Reason  string    `json:"reason,omitempty"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Retryable reports whether the caller may retry the request as-is.
func (e *Error) Retryable() bool {
	return e.Code == ErrCodeConflict
}

func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(reason, format string, args ...any) *Error {
	return &Error{Code: ErrCodeForbidden, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(entity string, from, to any) *Error {
	return Errorf(ErrCodeInvalidStateTransition, "%s cannot move from %v to %v", entity, from, to)
}

func InsufficientQuantity(requested, available int64) *Error {
	return Errorf(ErrCodeInsufficientQuantity, "requested %d, available %d", requested, available)
}

func InvalidReference(entity string, id int64) *Error {
	return Errorf(ErrCodeInvalidReference, "%s %d not found", entity, id)
}

func Conflict(entity string, id int64) *Error {
	return Errorf(ErrCodeConflict, "concurrent update on %s %d", entity, id)
}

// CodeOf extracts the ledger error code, or "" for foreign errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given ledger error code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
