package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeValidation   ErrorCode = "VALIDATION_FAILURE"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Tree engine errors
	CodeScopeMismatch         ErrorCode = "SCOPE_MISMATCH"
	CodePersistenceFailure    ErrorCode = "PERSISTENCE_FAILURE"
	CodePartialCascadeFailure ErrorCode = "PARTIAL_CASCADE_FAILURE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"details,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Details: e.Context,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithContext attaches structured detail to the error and returns it.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// Helper constructors for common errors

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewValidationError(message string) *DomainError {
	return NewError(CodeValidation, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewTopicNotFoundError(topicID string) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("Topic not found with ID: %s", topicID), nil)
}

func NewContentItemNotFoundError(itemID string) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("Content item not found with ID: %s", itemID), nil)
}

func NewCourseNotFoundError(courseID string) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("Course not found with ID: %s", courseID), nil)
}

// NewScopeMismatchError is returned when a reorder entry does not belong to
// the stated scope. No write has happened when this error is produced.
func NewScopeMismatchError(entityID string, scope Scope) *DomainError {
	e := NewError(CodeScopeMismatch,
		fmt.Sprintf("Entity %s does not belong to %s %s", entityID, scope.Kind, scope.ID), nil)
	return e.WithContext("entity_id", entityID).WithContext("scope_id", scope.ID)
}

func NewPersistenceError(message string, cause error) *DomainError {
	return NewError(CodePersistenceFailure, message, cause)
}
