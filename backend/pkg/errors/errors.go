package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeMalformedJSON represents input that is not valid JSON
	ErrorTypeMalformedJSON ErrorType = "malformed_json"
	// ErrorTypeInvalidFormat represents valid JSON with the wrong top-level shape
	ErrorTypeInvalidFormat ErrorType = "invalid_format"
	// ErrorTypeProcessing represents failures while walking the archive
	ErrorTypeProcessing ErrorType = "processing"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeCache represents result cache errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeExport represents graph export errors
	ErrorTypeExport ErrorType = "export"
)

// User-facing messages for archive errors
const (
	MsgMalformedJSON = "Invalid JSON file. Please upload a valid ChatGPT conversation JSON."
	MsgInvalidFormat = "JSON structure is not an array. Please ensure it's a valid ChatGPT conversation export."
	MsgProcessing    = "Failed to process conversation data. Please check the file format."
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// ErrorType returns the category of the error
func (e *BaseError) ErrorType() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Archive Errors

// ErrMalformedJSON is returned when the uploaded archive cannot be parsed
type ErrMalformedJSON struct {
	*BaseError
}

func NewMalformedJSON(err error) *ErrMalformedJSON {
	return &ErrMalformedJSON{
		BaseError: NewBaseError(ErrorTypeMalformedJSON, MsgMalformedJSON, err),
	}
}

// ErrInvalidFormat is returned when the archive is valid JSON but not an array
type ErrInvalidFormat struct {
	*BaseError
	Found string
}

func NewInvalidFormat(found string) *ErrInvalidFormat {
	return &ErrInvalidFormat{
		BaseError: NewBaseError(ErrorTypeInvalidFormat, MsgInvalidFormat, nil),
		Found:     found,
	}
}

// ErrProcessing is returned when traversal of a parsed archive fails
type ErrProcessing struct {
	*BaseError
	Stage string
}

func NewProcessing(stage string, err error) *ErrProcessing {
	return &ErrProcessing{
		BaseError: NewBaseError(ErrorTypeProcessing, MsgProcessing, err),
		Stage:     stage,
	}
}

// Cache Errors

// ErrCacheFailed is returned when the result cache cannot be read or written
type ErrCacheFailed struct {
	*BaseError
	Key string
}

func NewCacheFailed(key string, err error) *ErrCacheFailed {
	return &ErrCacheFailed{
		BaseError: NewBaseError(ErrorTypeCache, fmt.Sprintf("cache operation failed: %s", key), err),
		Key:       key,
	}
}

// Export Errors

// ErrExportDisabled is returned when a graph export is requested without a configured exporter
var ErrExportDisabled = NewBaseError(ErrorTypeExport, "graph export is not configured", nil)

// ErrExportFailed is returned when writing a graph to Neo4j fails
type ErrExportFailed struct {
	*BaseError
	AnalysisID string
}

func NewExportFailed(analysisID string, err error) *ErrExportFailed {
	return &ErrExportFailed{
		BaseError:  NewBaseError(ErrorTypeExport, fmt.Sprintf("failed to export graph %s", analysisID), err),
		AnalysisID: analysisID,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Helper functions

type typedError interface {
	ErrorType() ErrorType
}

// IsErrorType checks if an error, or any error it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if te, ok := err.(typedError); ok && te.ErrorType() == errType {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// UserMessage returns the message meant for the person who uploaded the archive.
// Errors outside the archive taxonomy fall back to the generic processing message.
func UserMessage(err error) string {
	switch {
	case IsErrorType(err, ErrorTypeMalformedJSON):
		return MsgMalformedJSON
	case IsErrorType(err, ErrorTypeInvalidFormat):
		return MsgInvalidFormat
	default:
		return MsgProcessing
	}
}
