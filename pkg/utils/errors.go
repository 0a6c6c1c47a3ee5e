package utils

import (
	"fmt"
	"net/http"
)

// Client-facing messages. These are the only error texts the API returns.
const (
	MsgNotConfigured   = "not configured"
	MsgNotReady        = "not ready"
	MsgStatusFailed    = "failed to get status"
	MsgInvalidInput    = "invalid input"
	MsgConfigureFailed = "failed to configure node"
	MsgRestartFailed   = "failed to restart server"
)

// APIError pairs an HTTP status and a client message with the internal
// cause. Only Code and Message are serialized.
type APIError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func NewPreconditionError(message string) *APIError {
	return &APIError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func NewValidationError(err error) *APIError {
	return &APIError{
		Code:    http.StatusBadRequest,
		Message: MsgInvalidInput,
		Err:     err,
	}
}

func NewInternalError(message string, err error) *APIError {
	return &APIError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Err:     err,
	}
}
