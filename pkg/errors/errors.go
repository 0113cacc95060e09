// Package errors defines custom error types and error handling utilities for the key builder service.
// Errors carry a stable code, an HTTP status and a dictionary message key so that handlers can
// localize the message for the session language.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode is a stable, machine-readable error code
type ErrorCode string

const (
	CodeInvalidRequest        ErrorCode = "invalid_request"
	CodeValidation            ErrorCode = "validation_failed"
	CodeUnauthorized          ErrorCode = "unauthorized"
	CodeForbidden             ErrorCode = "forbidden"
	CodeNotFound              ErrorCode = "not_found"
	CodeConflict              ErrorCode = "conflict"
	CodeInternalAPI           ErrorCode = "internal_api_error"
	CodeInternal              ErrorCode = "internal_error"
	CodeStatementValueMissing ErrorCode = "statement_value_missing"
	CodePayloadTooLarge       ErrorCode = "payload_too_large"
)

// Entity names the kind of object an error refers to
type Entity string

const (
	EntityKey          Entity = "key"
	EntityRevision     Entity = "revision"
	EntityTaxon        Entity = "taxon"
	EntityCharacter    Entity = "character"
	EntityState        Entity = "state"
	EntityPremise      Entity = "premise"
	EntityCollection   Entity = "collection"
	EntityGroup        Entity = "group"
	EntityWorkgroup    Entity = "workgroup"
	EntityMedia        Entity = "media"
	EntityOrganization Entity = "organization"
	EntitySession      Entity = "session"
)

// ================================================================================
// Base Error Interface
// ================================================================================

// BuilderError represents a structured error with additional metadata
type BuilderError interface {
	error

	// Code returns the machine-readable error code
	Code() ErrorCode

	// HTTPStatus returns the HTTP status code
	HTTPStatus() int

	// Description returns a human-readable description
	Description() string

	// MessageKey returns the dictionary key used to localize the message
	MessageKey() string

	// Unwrap returns the underlying error for error chain support
	Unwrap() error

	// WithCause adds a cause error to the error chain
	WithCause(cause error) BuilderError

	// WithMetadata adds additional context metadata
	WithMetadata(key string, value interface{}) BuilderError

	// Metadata returns all metadata
	Metadata() map[string]interface{}
}

type baseError struct {
	code        ErrorCode
	httpStatus  int
	description string
	messageKey  string
	cause       error
	metadata    map[string]interface{}
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.description, e.cause)
	}
	return e.description
}

func (e *baseError) Code() ErrorCode     { return e.code }
func (e *baseError) HTTPStatus() int     { return e.httpStatus }
func (e *baseError) Description() string { return e.description }
func (e *baseError) MessageKey() string  { return e.messageKey }
func (e *baseError) Unwrap() error       { return e.cause }

func (e *baseError) WithCause(cause error) BuilderError {
	e.cause = cause
	return e
}

func (e *baseError) WithMetadata(key string, value interface{}) BuilderError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

func (e *baseError) Metadata() map[string]interface{} {
	return e.metadata
}

// NewError creates a new BuilderError with the specified parameters
func NewError(code ErrorCode, httpStatus int, messageKey, description string) BuilderError {
	return &baseError{
		code:        code,
		httpStatus:  httpStatus,
		description: description,
		messageKey:  messageKey,
		metadata:    make(map[string]interface{}),
	}
}

// ================================================================================
// Predefined Error Constructors
// ================================================================================

// ErrInvalidRequest creates an invalid_request error
func ErrInvalidRequest(message string) BuilderError {
	return NewError(CodeInvalidRequest, http.StatusBadRequest, "error.invalidRequest", message)
}

// ErrValidation creates a client-side validation error with per-field details
func ErrValidation(details map[string]string) BuilderError {
	err := NewError(CodeValidation, http.StatusBadRequest, "error.validation", "one or more fields failed validation")
	for field, msg := range details {
		err.WithMetadata(field, msg)
	}
	return err
}

// ErrUnauthorized is returned when no authenticated user is attached to the session
func ErrUnauthorized() BuilderError {
	return NewError(CodeUnauthorized, http.StatusUnauthorized, "error.unauthorized", "authentication required")
}

// ErrForbidden is returned when the permission gate rejects an action
func ErrForbidden(permissions []string) BuilderError {
	return NewError(CodeForbidden, http.StatusForbidden, "error.forbidden", "missing required permissions").
		WithMetadata("required", permissions)
}

// ErrNotFound creates a not found error for an entity
func ErrNotFound(entity Entity, id string) BuilderError {
	return NewError(CodeNotFound, http.StatusNotFound, "error.notFound."+string(entity),
		fmt.Sprintf("%s not found: %s", entity, id)).
		WithMetadata("entity", string(entity)).
		WithMetadata("id", id)
}

// ErrConflict creates an entity-specific conflict error, e.g. a duplicate group name
func ErrConflict(entity Entity) BuilderError {
	return NewError(CodeConflict, http.StatusConflict, "error.conflict."+string(entity),
		fmt.Sprintf("%s conflicts with an existing %s", entity, entity)).
		WithMetadata("entity", string(entity))
}

// ErrInternalAPI is the generic mapping of any key API failure
func ErrInternalAPI() BuilderError {
	return NewError(CodeInternalAPI, http.StatusBadGateway, "error.internalApi", "internal API error")
}

// ErrInternal creates an internal server error
func ErrInternal(message string) BuilderError {
	return NewError(CodeInternal, http.StatusInternalServerError, "error.internal", message)
}

// ErrStatementValueMissing is the statement save guard error. It does not name the
// offending statement.
func ErrStatementValueMissing() BuilderError {
	return NewError(CodeStatementValueMissing, http.StatusBadRequest, "error.stateError",
		"every statement must have a value")
}

// ErrPayloadTooLarge is returned when an upload exceeds the configured limit
func ErrPayloadTooLarge(limit string) BuilderError {
	return NewError(CodePayloadTooLarge, http.StatusRequestEntityTooLarge, "error.fileTooLarge",
		fmt.Sprintf("file exceeds the maximum upload size of %s", limit)).
		WithMetadata("limit", limit)
}

// ================================================================================
// Upstream Mapping
// ================================================================================

// FromAPIStatus maps a key API response status onto the builder error taxonomy.
// 409 becomes an entity-specific conflict; every other failure outside the
// auth and lookup statuses becomes the generic internal API error.
func FromAPIStatus(status int, entity Entity, cause error) BuilderError {
	var err BuilderError
	switch status {
	case http.StatusConflict:
		err = ErrConflict(entity)
	case http.StatusUnauthorized:
		err = ErrUnauthorized()
	case http.StatusForbidden:
		err = ErrForbidden(nil)
	case http.StatusNotFound:
		err = ErrNotFound(entity, "")
	default:
		err = ErrInternalAPI()
	}
	if cause != nil {
		err.WithCause(cause)
	}
	return err.WithMetadata("upstream_status", status)
}

// ================================================================================
// Error Utilities
// ================================================================================

// AsBuilderError finds the first BuilderError in err's chain
func AsBuilderError(err error) (BuilderError, bool) {
	var be BuilderError
	if stderrors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code
func IsCode(err error, code ErrorCode) bool {
	be, ok := AsBuilderError(err)
	return ok && be.Code() == code
}

// IsConflict reports whether err is a conflict error
func IsConflict(err error) bool {
	return IsCode(err, CodeConflict)
}

// IsNotFound reports whether err is a not found error
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

// ShouldLogError determines if an error should be logged at error level
func ShouldLogError(err error) bool {
	if be, ok := AsBuilderError(err); ok {
		return be.HTTPStatus() >= 500
	}
	return true
}

// Is and As re-export the standard library helpers so callers need a single import
var (
	Is  = stderrors.Is
	As  = stderrors.As
	New = stderrors.New
)
