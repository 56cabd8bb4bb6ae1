package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents stable error codes for all storage failure modes
type ErrorCode string

const (
	// TitleRequired indicates an empty or whitespace-only title
	TitleRequired ErrorCode = "TITLE_REQUIRED"
	// InvalidStatus indicates a task status outside the allowed enum
	InvalidStatus ErrorCode = "INVALID_STATUS"
	// EmptyQuery indicates an empty or whitespace-only search query
	EmptyQuery ErrorCode = "EMPTY_QUERY"
	// NoFields indicates an update call with no fields supplied
	NoFields ErrorCode = "NO_FIELDS"
	// NotFound indicates no row matched the given id
	NotFound ErrorCode = "NOT_FOUND"
	// StorageInit indicates the database could not be opened or migrated
	StorageInit ErrorCode = "STORAGE_INIT"
	// StorageBusy indicates a lock timeout; transient, safe to retry
	StorageBusy ErrorCode = "STORAGE_BUSY"
	// Internal indicates an unexpected storage engine error
	Internal ErrorCode = "INTERNAL"
)

// Error is a storage error with a stable code and a human-readable message.
// Validation and not-found conditions are raised before any write, so the
// store is untouched whenever one is returned.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// NewError creates a storage error with the given code and message
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the ErrorCode from err, or Internal for foreign errors.
func CodeOf(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return Internal
}

// MessageOf extracts the human-readable message from err. Foreign errors
// surface their full text.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

// wrapEngine converts a raw database/sql error into a storage error,
// classifying lock timeouts as StorageBusy.
func wrapEngine(op string, err error) *Error {
	code := Internal
	msg := err.Error()
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY") {
		code = StorageBusy
	}
	return &Error{Code: code, Message: op + " failed", cause: err}
}

func errNotFound(entity string) *Error {
	return NewError(NotFound, entity+" not found")
}

func errTitleRequired() *Error {
	return NewError(TitleRequired, "title cannot be empty")
}

func errNoFields() *Error {
	return NewError(NoFields, "no fields to update")
}

func errEmptyQuery() *Error {
	return NewError(EmptyQuery, "query cannot be empty")
}
