// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// Machine-readable error codes, stable across releases. They mirror the
// business taxonomy so the UI can branch without parsing Spanish prose.
const (
	CodeInvalidSession    = "INVALID_SESSION"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeWeakCredential    = "WEAK_CREDENTIAL"
	CodeWorkflowViolation = "WORKFLOW_VIOLATION"
	CodeCapExceeded       = "CAP_EXCEEDED"
	CodeNotFound          = "NOT_FOUND"
	CodeInternal          = "INTERNAL"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// EstatusSiguientes accompanies workflow violations so the UI can offer the
// valid next states instead of guessing.
type APIError struct {
	Code              string   `json:"code"`
	Detail            string   `json:"detail"`
	EstatusSiguientes []string `json:"estatus_siguientes,omitempty"`
}

func New(code, msg string) *APIError {
	return &APIError{Code: code, Detail: msg}
}

// NewWorkflow builds a workflow-violation envelope carrying the allowed-next set.
func NewWorkflow(msg string, siguientes []string) *APIError {
	return &APIError{Code: CodeWorkflowViolation, Detail: msg, EstatusSiguientes: siguientes}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Code: CodeInvalidInput, Detail: "Error de validación", Fields: fields}
}
