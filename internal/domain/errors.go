package domain

import (
	"errors"
	"fmt"

	"github.com/lvyanru/actctl/internal/cli/types"
)

// Predefined client error kinds
var (
	// ErrValidation input rejected before any request was sent
	ErrValidation = errors.New("validation failed")
	// ErrTransport network failure or unparseable response body
	ErrTransport = errors.New("transport failure")
	// ErrServer non-2xx status or an explicit success:false
	ErrServer = errors.New("server error")
	// ErrSessionExpired the server rejected the stored token (HTTP 401)
	ErrSessionExpired = errors.New("session expired")
)

// ClientError describes a failed operation
type ClientError struct {
	Kind    error
	Status  int
	Message string
}

// Error implements the error interface
func (e *ClientError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// UserMessage returns the message suitable for display
func (e *ClientError) UserMessage() string {
	return e.Message
}

// Unwrap returns the error kind
func (e *ClientError) Unwrap() error {
	return e.Kind
}

// NewValidationError creates a validation error
func NewValidationError(message string) error {
	return &ClientError{Kind: ErrValidation, Message: message}
}

// FromResult classifies a failed result. It returns nil for successful results.
// fallback is used as the message when the server sent none.
func FromResult(res types.Result, fallback string) error {
	if res.Success {
		return nil
	}

	kind := ErrServer
	switch {
	case res.Status == 0:
		kind = ErrTransport
	case res.SessionExpired():
		kind = ErrSessionExpired
	}

	return &ClientError{
		Kind:    kind,
		Status:  res.Status,
		Message: res.MessageOr(fallback),
	}
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsTransport reports whether err is a transport failure
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsSessionExpired reports whether err is a session expiry
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}
