// Package errors provides the error taxonomy of the query routing pipeline and
// its mapping onto BPMN errors for the job-worker surface.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeClassificationParseFailed ErrorCode = "CLASSIFICATION_PARSE_FAILED"
	ErrCodeClassificationAPIFailed   ErrorCode = "CLASSIFICATION_API_FAILED"
	ErrCodePreconditionUnmet         ErrorCode = "PRECONDITION_UNMET"
	ErrCodeEntityFetchFailed         ErrorCode = "ENTITY_FETCH_FAILED"
	ErrCodeFetchVacuous              ErrorCode = "FETCH_VACUOUS"
	ErrCodeSummarizationFailed       ErrorCode = "SUMMARIZATION_FAILED"
	ErrCodePipelineFailed            ErrorCode = "PIPELINE_FAILED"
	ErrCodeProviderHTTPError         ErrorCode = "PROVIDER_HTTP_ERROR"
	ErrCodeInvalidRequest            ErrorCode = "INVALID_REQUEST"
	ErrCodeProfileNotFound           ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeProfileStoreFailed        ErrorCode = "PROFILE_STORE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError carrying the same code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Code == e.Code
}

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	e := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// NewClassificationParseFailedError: the reasoning service replied without a usable JSON decision.
func NewClassificationParseFailedError(details string) *StandardError {
	e := newError(ErrCodeClassificationParseFailed, "Classifier reply did not contain a valid decision", nil, false)
	e.Details = details
	return e
}

// NewClassificationAPIFailedError: the reasoning service call itself failed.
func NewClassificationAPIFailedError(err error) *StandardError {
	return newError(ErrCodeClassificationAPIFailed, "Classification service call failed", err, true)
}

// NewPreconditionUnmetError: a required parameter combination is missing; no fetch is attempted.
func NewPreconditionUnmetError(intent, details string) *StandardError {
	e := newError(ErrCodePreconditionUnmet, "Required parameters missing", nil, false)
	e.Details = details
	e.Metadata = map[string]interface{}{"intent": intent}
	return e
}

// NewEntityFetchFailedError: one analytics fetch failed inside a fan-out.
func NewEntityFetchFailedError(category, entity string, err error) *StandardError {
	e := newError(ErrCodeEntityFetchFailed, fmt.Sprintf("Fetch of %s failed", category), err, true)
	e.Metadata = map[string]interface{}{"category": category, "entity": entity}
	return e
}

// NewFetchVacuousError: no fetch produced data for the request.
func NewFetchVacuousError(intent string) *StandardError {
	e := newError(ErrCodeFetchVacuous, "No analytics data was fetched", nil, false)
	e.Metadata = map[string]interface{}{"intent": intent}
	return e
}

// NewSummarizationFailedError: the summarizer call failed or its reply was malformed.
func NewSummarizationFailedError(err error) *StandardError {
	return newError(ErrCodeSummarizationFailed, "Summarization service failed", err, true)
}

// NewPipelineFailedError wraps anything unhandled, including recovered panics.
func NewPipelineFailedError(err error) *StandardError {
	return newError(ErrCodePipelineFailed, "Query pipeline failed", err, false)
}

// NewProviderHTTPError: the analytics provider answered with a non-2xx status.
func NewProviderHTTPError(status int, endpoint string) *StandardError {
	e := newError(ErrCodeProviderHTTPError, fmt.Sprintf("Analytics provider returned status %d", status), nil, status >= 500 || status == 429)
	e.Metadata = map[string]interface{}{"status": status, "endpoint": endpoint}
	return e
}

func NewInvalidRequestError(details string) *StandardError {
	e := newError(ErrCodeInvalidRequest, "Invalid request", nil, false)
	e.Details = details
	return e
}

func NewProfileNotFoundError(userID string) *StandardError {
	e := newError(ErrCodeProfileNotFound, "User profile not found", nil, false)
	e.Details = fmt.Sprintf("userId: %s", userID)
	return e
}

func NewProfileStoreFailedError(err error) *StandardError {
	return newError(ErrCodeProfileStoreFailed, "Profile store operation failed", err, true)
}

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeClassificationParseFailed: "CLASSIFICATION_PARSE_FAILED",
	ErrCodeClassificationAPIFailed:   "CLASSIFICATION_API_FAILED",
	ErrCodePreconditionUnmet:         "PRECONDITION_UNMET",
	ErrCodeEntityFetchFailed:         "ENTITY_FETCH_FAILED",
	ErrCodeFetchVacuous:              "FETCH_VACUOUS",
	ErrCodeSummarizationFailed:       "SUMMARIZATION_FAILED",
	ErrCodePipelineFailed:            "PIPELINE_FAILED",
	ErrCodeProviderHTTPError:         "PROVIDER_HTTP_ERROR",
	ErrCodeInvalidRequest:            "INVALID_REQUEST",
	ErrCodeProfileNotFound:           "PROFILE_NOT_FOUND",
	ErrCodeProfileStoreFailed:        "PROFILE_STORE_FAILED",
}

// GetRetryCount returns the job retry budget for a code. The pipeline itself
// never retries; this only governs redelivery of worker jobs.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProfileStoreFailed:
		return 3
	case ErrCodeClassificationAPIFailed, ErrCodeSummarizationFailed, ErrCodeProviderHTTPError:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// CodeOf extracts the ErrorCode from err's chain, or "" when there is none.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// Is and As forward to the standard library so callers need a single import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// IsRetryable reports whether err carries a retryable StandardError.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Retryable
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "CLASSIFICATION"):
		return "CLASSIFIER"
	case strings.Contains(codeStr, "FETCH") || strings.Contains(codeStr, "PROVIDER") || strings.Contains(codeStr, "PRECONDITION"):
		return "ORCHESTRATOR"
	case strings.Contains(codeStr, "SUMMARIZATION"):
		return "SYNTHESIZER"
	case strings.Contains(codeStr, "PROFILE"):
		return "PROFILES"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
