// Package dto holds the HTTP wire shapes shared by every handler
package dto

import (
	"errors"
	"net/http"

	"github.com/rooted/analytics/internal/domain/shared"
)

// Domain error codes surfaced over HTTP
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeUnknownClient     = "UNKNOWN_CLIENT"
	CodeUnknownReportType = "UNKNOWN_REPORT_TYPE"
	CodeUnavailable       = "UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	CodeNotFound:      http.StatusNotFound,
	CodeInvalidInput:  http.StatusBadRequest,
	CodeUnknownClient: http.StatusBadRequest,
	CodeUnavailable:   http.StatusServiceUnavailable,

	// An unknown report type is a server-side dispatch failure
	CodeUnknownReportType: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for a domain error code, 500 when
// the code is not mapped
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewErrorResponse builds an error body
func NewErrorResponse(message string, details ...string) ErrorResponse {
	r := ErrorResponse{Error: message}
	if len(details) > 0 {
		r.Details = details[0]
	}
	return r
}

// FromError maps err to a status and body. Client errors carry the domain
// message; server errors carry fallback with the cause as details.
func FromError(err error, fallback string) (int, ErrorResponse) {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, ErrorResponse{Error: fallback, Details: err.Error()}
	}

	status := GetHTTPStatus(de.Code)
	if status < http.StatusInternalServerError {
		return status, ErrorResponse{Error: de.Message, Details: de.Details}
	}

	details := de.Details
	if details == "" {
		details = de.Message
	}
	if fallback == "" {
		fallback = de.Message
	}
	return status, ErrorResponse{Error: fallback, Details: details}
}

// SuccessMessage is the body of mutations that return no resource
type SuccessMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
