package api

import (
	"context"
	"errors"
	"fmt"

	applog "finboard/internal/log"
)

// TransportError means the request never produced a response.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-success response the service did not classify as
// a validation failure.
type StatusError struct {
	Op      string
	URL     string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Code)
}

// ParseError means the response body could not be decoded.
type ParseError struct {
	Op  string
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError is user input rejected locally or by the service.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, msg)
	}
	return "invalid input: " + msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ErrorType classifies err using the log package's error type names.
func ErrorType(err error) string {
	var (
		transport  *TransportError
		status     *StatusError
		parse      *ParseError
		validation *ValidationError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return applog.ErrorTypeCancelled
	case errors.As(err, &validation):
		return applog.ErrorTypeValidation
	case errors.As(err, &transport):
		return applog.ErrorTypeNetwork
	case errors.As(err, &status):
		return applog.ErrorTypeStatus
	case errors.As(err, &parse):
		return applog.ErrorTypeParse
	}
	return applog.ErrorTypeInternal
}
