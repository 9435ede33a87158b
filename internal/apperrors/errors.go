package apperrors

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeConfiguration ErrorType = "CONFIGURATION_ERROR"
	ErrorTypeProvider      ErrorType = "PROVIDER_ERROR"
	ErrorTypeFormat        ErrorType = "FORMAT_ERROR"
	ErrorTypeValidation    ErrorType = "VALIDATION_ERROR"
	ErrorTypeBusy          ErrorType = "BUSY"
	ErrorTypeInternal      ErrorType = "INTERNAL_ERROR"
)

// Error is the typed error returned across package boundaries. Err keeps the
// underlying cause for errors.Is/As and logging; it is never serialized.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Error constructors
func NewConfigurationError(message string, err error) *Error {
	return &Error{
		Type:    ErrorTypeConfiguration,
		Message: message,
		Details: detailsOf(err),
		Err:     err,
	}
}

func NewProviderError(provider string, err error) *Error {
	return &Error{
		Type:    ErrorTypeProvider,
		Message: fmt.Sprintf("Error from generation provider (%s)", provider),
		Details: detailsOf(err),
		Err:     err,
	}
}

func NewFormatError(message string, err error) *Error {
	return &Error{
		Type:    ErrorTypeFormat,
		Message: message,
		Details: detailsOf(err),
		Err:     err,
	}
}

func NewValidationError(message string, fields ...string) *Error {
	e := &Error{
		Type:    ErrorTypeValidation,
		Message: message,
	}
	if len(fields) > 0 {
		e.Details = fields
	}
	return e
}

func NewBusyError() *Error {
	return &Error{
		Type:    ErrorTypeBusy,
		Message: "An analysis is already in progress",
	}
}

func NewInternalError(err error) *Error {
	return &Error{
		Type:    ErrorTypeInternal,
		Message: "Internal server error",
		Details: detailsOf(err),
		Err:     err,
	}
}

// TypeOf returns the kind of the first *Error in err's chain, or
// ErrorTypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeInternal
}

// Is reports whether err carries the given kind.
func Is(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// UserMessage is the single notice shown to end users for call-time failures.
// Validation and busy errors keep their own message since they are actionable.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		switch e.Type {
		case ErrorTypeValidation, ErrorTypeBusy:
			return e.Message
		}
	}
	return "Analysis failed, please check the API configuration or network connection."
}

func detailsOf(err error) any {
	if err == nil {
		return nil
	}
	return err.Error()
}
