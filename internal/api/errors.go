package api

import (
	"errors"
	"fmt"
)

// Messages shown when the service did not provide one
const (
	GenericServiceMessage   = "Something went wrong. Please try again."
	GenericTransportMessage = "Could not reach the server. Please check your connection and try again."
)

// ValidationError is a local input problem. No request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// TransportError means the request could not be sent or no response came back
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError means the service answered with a failure. Message is the
// service-provided text, or a generic fallback when it sent none.
type ServiceError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// IsValidation reports whether err is a *ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsTransport reports whether err is a *TransportError
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsService reports whether err is a *ServiceError
func IsService(err error) bool {
	var target *ServiceError
	return errors.As(err, &target)
}

// UserMessage returns the one line shown to the user for err
func UserMessage(err error) string {
	var svc *ServiceError
	if errors.As(err, &svc) {
		if svc.Message != "" {
			return svc.Message
		}
		return GenericServiceMessage
	}

	var val *ValidationError
	if errors.As(err, &val) {
		return val.Message
	}

	if IsTransport(err) {
		return GenericTransportMessage
	}
	if err == nil {
		return ""
	}
	return GenericServiceMessage
}
