// Package tilemul structured error types for better error handling
package tilemul

import (
	"fmt"
)

// ErrorType represents categories of errors
type ErrorType int

const (
	// Invalid argument errors
	ErrTypeInvalidArg ErrorType = iota
	// Execution errors
	ErrTypeExecution
	// Numerical errors
	ErrTypeNumerical
	// Measurement errors (perf counters, timers)
	ErrTypeMeasurement
)

// KernelError represents a structured error with context
type KernelError struct {
	Type    ErrorType
	Op      string // Operation that failed
	Message string // Human-readable message
	Err     error  // Underlying error if any
}

// Error implements the error interface
func (e *KernelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tilemul %s error in %s: %s (caused by: %v)",
			e.Type.String(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("tilemul %s error in %s: %s",
		e.Type.String(), e.Op, e.Message)
}

// Unwrap allows error chain inspection
func (e *KernelError) Unwrap() error {
	return e.Err
}

// String returns the error type as a string
func (t ErrorType) String() string {
	switch t {
	case ErrTypeInvalidArg:
		return "InvalidArgument"
	case ErrTypeExecution:
		return "Execution"
	case ErrTypeNumerical:
		return "Numerical"
	case ErrTypeMeasurement:
		return "Measurement"
	default:
		return "Unknown"
	}
}

// Common error constructors

// NewInvalidArgError creates an invalid argument error
func NewInvalidArgError(op string, message string) error {
	return &KernelError{
		Type:    ErrTypeInvalidArg,
		Op:      op,
		Message: message,
	}
}

// NewExecutionError creates an execution error
func NewExecutionError(op string, message string, err error) error {
	return &KernelError{
		Type:    ErrTypeExecution,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// NewNumericalError creates a numerical error
func NewNumericalError(op string, message string) error {
	return &KernelError{
		Type:    ErrTypeNumerical,
		Op:      op,
		Message: message,
	}
}

// NewMeasurementError creates a measurement error
func NewMeasurementError(op string, message string, err error) error {
	return &KernelError{
		Type:    ErrTypeMeasurement,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// IsInvalidArgError checks if an error is an invalid argument error
func IsInvalidArgError(err error) bool {
	if e, ok := err.(*KernelError); ok {
		return e.Type == ErrTypeInvalidArg
	}
	return false
}

// IsMeasurementError checks if an error is a measurement error
func IsMeasurementError(err error) bool {
	if e, ok := err.(*KernelError); ok {
		return e.Type == ErrTypeMeasurement
	}
	return false
}
