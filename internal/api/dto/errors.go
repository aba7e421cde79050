package dto

// APIError represents a structured error response.
// All error responses from the API use this format for consistency.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field         string `json:"field"`
	Message       string `json:"message"`
	RejectedValue any    `json:"rejectedValue"`
}

// Common error codes
const (
	ErrCodeNotFound            = "not_found"
	ErrCodeBadRequest          = "bad_request"
	ErrCodeInternalError       = "internal_error"
	ErrCodeValidation          = "validation_error"
	ErrCodeIdempotencyConflict = "idempotency_conflict"
	ErrCodePayloadTooLarge     = "payload_too_large"
)

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code, message string) APIError {
	return APIError{
		Code:    code,
		Message: message,
	}
}

// NotFoundError creates a not found error response.
func NotFoundError(resource string) APIError {
	return NewAPIError(ErrCodeNotFound, resource+" not found")
}

// BadRequestError creates a bad request error response.
func BadRequestError(message string) APIError {
	return NewAPIError(ErrCodeBadRequest, message)
}

// InternalError creates an internal server error response.
func InternalError() APIError {
	return NewAPIError(ErrCodeInternalError, "an internal error occurred")
}

// ValidationError creates a validation error response listing the rejected fields.
func ValidationError(message string, fields []FieldError) APIError {
	err := NewAPIError(ErrCodeValidation, message)
	if len(fields) > 0 {
		err.Details = fields
	}
	return err
}

// IdempotencyConflictError is returned when an Idempotency-Key is reused
// with a different request body.
func IdempotencyConflictError(message string) APIError {
	return NewAPIError(ErrCodeIdempotencyConflict, message)
}

// PayloadTooLargeError reports a request body over the configured limit.
func PayloadTooLargeError(maxBytes, contentLength int64) APIError {
	err := NewAPIError(ErrCodePayloadTooLarge, "request payload exceeds the maximum allowed size")
	details := map[string]int64{"maxRequestBytes": maxBytes}
	if contentLength > 0 {
		details["contentLength"] = contentLength
	}
	err.Details = details
	return err
}
