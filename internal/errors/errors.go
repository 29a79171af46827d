package errors

import (
	"net/http"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Authentication errors (401xx)
	ErrInvalidCredentials ErrorCode = "40101"
	ErrTokenExpired       ErrorCode = "40102"
	ErrSignInRequired     ErrorCode = "40103"

	// Authorization errors (403xx)
	ErrForbidden        ErrorCode = "40301"
	ErrPaidAccessLocked ErrorCode = "40302"
	ErrBlockedByBrand   ErrorCode = "40303"

	// Resource errors (404xx)
	ErrCampaignNotFound ErrorCode = "40401"
	ErrUserNotFound     ErrorCode = "40402"
	ErrStaleSnapshot    ErrorCode = "40403"

	// Request errors (400xx)
	ErrInvalidRequest   ErrorCode = "40001"
	ErrValidationFailed ErrorCode = "40002"

	// Limit errors (429xx)
	ErrMonthlyLimitReached ErrorCode = "42901"

	// Conflict errors (409xx)
	ErrAlreadyApplied ErrorCode = "40901"

	// Server errors (500xx)
	ErrInternalServer     ErrorCode = "50001"
	ErrBackendUnavailable ErrorCode = "50301"
)

// APIError represents a standardized API error
type APIError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    any       `json:"details,omitempty"`
	HTTPStatus int       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// ErrorResponse represents the error response format
type ErrorResponse struct {
	Error     APIError `json:"error"`
	RequestID string   `json:"request_id"`
}

// Common errors
var (
	ErrInvalidCredentialsError = &APIError{
		Code:       ErrInvalidCredentials,
		Message:    "Invalid email or password",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenExpiredError = &APIError{
		Code:       ErrTokenExpired,
		Message:    "Token has expired",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrSignInRequiredError = &APIError{
		Code:       ErrSignInRequired,
		Message:    "Sign in required",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrForbiddenError = &APIError{
		Code:       ErrForbidden,
		Message:    "Access denied",
		HTTPStatus: http.StatusForbidden,
	}

	ErrPaidAccessLockedError = &APIError{
		Code:       ErrPaidAccessLocked,
		Message:    "Paid campaigns are locked for this account",
		HTTPStatus: http.StatusForbidden,
	}

	ErrBlockedByBrandError = &APIError{
		Code:       ErrBlockedByBrand,
		Message:    "This brand has restricted your access to the campaign",
		HTTPStatus: http.StatusForbidden,
	}

	ErrCampaignNotFoundError = &APIError{
		Code:       ErrCampaignNotFound,
		Message:    "Campaign not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrUserNotFoundError = &APIError{
		Code:       ErrUserNotFound,
		Message:    "User not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrStaleSnapshotError = &APIError{
		Code:       ErrStaleSnapshot,
		Message:    "Profile snapshot is stale, please retry",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMonthlyLimitReachedError = &APIError{
		Code:       ErrMonthlyLimitReached,
		Message:    "Monthly application limit reached",
		HTTPStatus: http.StatusTooManyRequests,
	}

	ErrAlreadyAppliedError = &APIError{
		Code:       ErrAlreadyApplied,
		Message:    "You have already applied to this campaign",
		HTTPStatus: http.StatusConflict,
	}

	ErrInternalServerError = &APIError{
		Code:       ErrInternalServer,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrBackendUnavailableError = &APIError{
		Code:       ErrBackendUnavailable,
		Message:    "Service temporarily unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
	}
)

// NewValidationError creates a validation error with details
func NewValidationError(details any) *APIError {
	return &APIError{
		Code:       ErrValidationFailed,
		Message:    "Validation failed",
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) *APIError {
	return &APIError{
		Code:       ErrInvalidRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}
