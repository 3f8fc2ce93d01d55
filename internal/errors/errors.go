package errors

import (
	"fmt"
)

// ErrorType represents the type of error.
type ErrorType string

const (
	ErrorTypeDecode     ErrorType = "DECODE_ERROR"
	ErrorTypeSeek       ErrorType = "SEEK_ERROR"
	ErrorTypeSource     ErrorType = "SOURCE_ERROR"
	ErrorTypeState      ErrorType = "STATE_ERROR"
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
)

// PipelineError represents a pipeline error with additional context.
type PipelineError struct {
	Type    ErrorType              `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error.
func (e *PipelineError) WithDetails(details map[string]interface{}) *PipelineError {
	e.Details = details
	return e
}

// New creates a new PipelineError.
func New(errType ErrorType, message string) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Message: message,
	}
}

// Wrap wraps an existing error.
func Wrap(err error, errType ErrorType, message string) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// IsType checks whether err is a PipelineError of the given type.
func IsType(err error, errType ErrorType) bool {
	var pe *PipelineError
	for err != nil {
		var ok bool
		if pe, ok = err.(*PipelineError); ok {
			return pe.Type == errType
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Common error constructors.

// NewDecodeError creates a decode error for a genuinely failed packet decode.
func NewDecodeError(message string, cause error) *PipelineError {
	return Wrap(cause, ErrorTypeDecode, message)
}

// NewSeekError creates a seek error.
func NewSeekError(message string, cause error) *PipelineError {
	return Wrap(cause, ErrorTypeSeek, message)
}

// NewSourceError creates a packet source error.
func NewSourceError(message string, cause error) *PipelineError {
	return Wrap(cause, ErrorTypeSource, message)
}

// NewStateError creates a structural caller error, such as decoding
// against a flushed decoder state or re-entering an abandoned run.
func NewStateError(message string) *PipelineError {
	return New(ErrorTypeState, message)
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *PipelineError {
	return New(ErrorTypeValidation, message)
}
