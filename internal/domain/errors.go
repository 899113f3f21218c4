package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound                = errors.New("not found")
	ErrForbidden               = errors.New("permission denied")
	ErrInvalidTransition       = errors.New("status not allowed for this operation")
	ErrDuplicateSubmission     = errors.New("an application with this contact or email already exists")
	ErrDuplicateIdentity       = errors.New("an account with this email already exists")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrPendingApproval         = errors.New("account is awaiting HR approval")
	ErrPayloadTooLarge         = errors.New("file is too large")
	ErrUnsupportedArtifactType = errors.New("file must be a PDF, DOC or DOCX")
	ErrMalformedSubRecords     = errors.New("malformed sub-record payload")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated field, not only the first one.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field is among the violations.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func NewValidationError(field, message string) *ValidationError {
	ve := &ValidationError{}
	ve.Add(field, message)
	return ve
}
