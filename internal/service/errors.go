package service

import (
	"errors"
	"fmt"

	"github.com/mbcx07/SISTRA/internal/workflow"
)

// Code classifies business failures so the HTTP layer can map them to a
// status without string matching.
type Code string

const (
	CodeInvalidSession    Code = "INVALID_SESSION"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeWeakCredential    Code = "WEAK_CREDENTIAL"
	CodeWorkflowViolation Code = "WORKFLOW_VIOLATION"
	CodeCapExceeded       Code = "CAP_EXCEEDED"
	CodeNotFound          Code = "NOT_FOUND"
)

// Error is the business-rule error surfaced by the services. Detail is always
// user-readable; AllowedNext is populated only for workflow violations so the
// UI can guide correction.
type Error struct {
	Code        Code
	Detail      string
	AllowedNext []workflow.Estatus
}

func (e *Error) Error() string { return e.Detail }

// Errf builds a business error with a formatted detail message.
func Errf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// AsError extracts a business *Error from err, if it carries one.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
