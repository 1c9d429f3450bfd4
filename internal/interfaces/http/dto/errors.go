package dto

import "net/http"

// Error codes surfaced by the API. Domain errors carry these codes directly;
// the handler layer only translates them to HTTP statuses.

// General error codes
const (
	ErrCodeUnknown  = "UNKNOWN"
	ErrCodeInternal = "INTERNAL_ERROR"
)

// Input error codes
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeValidation   = "VALIDATION_ERROR"
)

// Authentication and authorization error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "INVALID_TOKEN"
	ErrCodeTokenRevoked       = "TOKEN_REVOKED"
)

// Resource error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
)

// Business rule error codes. These reject requests that are well-formed but
// not allowed in the current state, so they map to 422.
const (
	ErrCodeInvalidState   = "INVALID_STATE"
	ErrCodeNoFaceDetected = "NO_FACE_DETECTED"
	ErrCodeNoEmbeddings   = "NO_EMBEDDINGS"
	ErrCodeNotEnrolled    = "NOT_ENROLLED"
)

// Upstream error codes
const (
	// ErrCodeEncoderUnavailable is returned when the face-encoder sidecar
	// cannot be reached or fails
	ErrCodeEncoderUnavailable = "ENCODER_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	"INVALID_STATUS":    http.StatusBadRequest,
	"INVALID_ROLE":      http.StatusBadRequest,
	"INVALID_NAME":      http.StatusBadRequest,
	"INVALID_EMAIL":     http.StatusBadRequest,
	"INVALID_PASSWORD":  http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,

	ErrCodeInvalidState:   http.StatusUnprocessableEntity,
	ErrCodeNoFaceDetected: http.StatusUnprocessableEntity,
	ErrCodeNoEmbeddings:   http.StatusUnprocessableEntity,
	ErrCodeNotEnrolled:    http.StatusUnprocessableEntity,

	ErrCodeEncoderUnavailable: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
