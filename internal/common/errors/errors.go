// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Registration pipeline errors.
const (
	ErrCodeLookupFailed           ErrorCode = "LOOKUP_FAILED"
	ErrCodeEnrichmentFailed       ErrorCode = "ENRICHMENT_FAILED"
	ErrCodeTicketSubmissionFailed ErrorCode = "TICKET_SUBMISSION_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeDocumentTypesFailed    ErrorCode = "DOCUMENT_TYPES_UNAVAILABLE"

	ErrCodeInputParsingFailed    ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeValidationFailed      ErrorCode = "VALIDATION_FAILED"
	ErrCodeConfigurationInvalid  ErrorCode = "CONFIGURATION_INVALID"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause so errors.Is/As keep working through wrapping.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

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

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewLookupFailedError reports an unreachable or non-successful identity lookup.
func NewLookupFailedError(service string, err error) *StandardError {
	return newError(ErrCodeLookupFailed, fmt.Sprintf("Identity lookup via '%s' failed", service), err, true).
		WithMetadata("service", service)
}

// NewEnrichmentFailedError reports a customer-record fetch or field parsing failure.
func NewEnrichmentFailedError(err error) *StandardError {
	return newError(ErrCodeEnrichmentFailed, "Customer enrichment failed", err, true)
}

// NewTicketSubmissionFailedError is used for every ticket creation failure; no distinction
// is made between transient and permanent causes.
func NewTicketSubmissionFailedError(err error) *StandardError {
	return newError(ErrCodeTicketSubmissionFailed, "Ticket submission failed", err, false)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, fmt.Sprintf("Failed to send %s notification", channel), err, false).
		WithMetadata("channel", channel)
}

func NewDocumentTypesUnavailableError(err error) *StandardError {
	return newError(ErrCodeDocumentTypesFailed, "Registered document types unavailable", err, true)
}

func NewInputParsingError(err error) *StandardError {
	return newError(ErrCodeInputParsingFailed, "Failed to parse job variables", err, false)
}

func NewValidationError(details string) *StandardError {
	e := newError(ErrCodeValidationFailed, "Input validation failed", nil, false)
	e.Details = details
	return e
}

func NewConfigurationError(details string) *StandardError {
	e := newError(ErrCodeConfigurationInvalid, "Invalid configuration", nil, false)
	e.Details = details
	return e
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes modelled in the process.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeLookupFailed:           "LOOKUP_FAILED",
	ErrCodeEnrichmentFailed:       "ENRICHMENT_FAILED",
	ErrCodeTicketSubmissionFailed: "TICKET_SUBMISSION_FAILED",
	ErrCodeNotificationSendFailed: "NOTIFICATION_SEND_FAILED",
	ErrCodeDocumentTypesFailed:    "DOCUMENT_TYPES_UNAVAILABLE",
	ErrCodeInputParsingFailed:     "INVALID_REGISTRATION_INPUT",
	ErrCodeValidationFailed:       "INVALID_REGISTRATION_INPUT",
	ErrCodeConfigurationInvalid:   "CONFIGURATION_INVALID",
}

// GetRetryCount returns the job retry budget for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDocumentTypesFailed:
		return 3
	case ErrCodeInternal:
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

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError finds a StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first StandardError in err's chain, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "LOOKUP") || strings.Contains(codeStr, "ENRICHMENT") || strings.Contains(codeStr, "DOCUMENT"):
		return "UPSTREAM"
	case strings.Contains(codeStr, "TICKET"):
		return "TICKETING"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INPUT") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "CONFIGURATION"):
		return "CONFIGURATION"
	default:
		return "OTHER"
	}
}
