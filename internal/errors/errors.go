package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind groups application errors by how a client can recover from them.
type Kind string

const (
	// KindValidation marks missing or malformed client input.
	KindValidation Kind = "validation"
	// KindConflict marks a uniqueness violation.
	KindConflict Kind = "conflict"
	// KindAuthentication marks an unknown user or a wrong password.
	KindAuthentication Kind = "authentication"
	// KindNotFound marks a lookup that matched nothing.
	KindNotFound Kind = "not_found"
	// KindPersistence marks a store-level failure.
	KindPersistence Kind = "persistence"
	// KindInternal marks anything else.
	KindInternal Kind = "internal"
)

var (
	// ErrMissingFields is returned when a required signup field is empty.
	ErrMissingFields = New(KindValidation, "VALIDATION_ERROR", "All fields are required")
	// ErrLoginMissingFields is returned when the login email or password is empty.
	ErrLoginMissingFields = New(KindValidation, "VALIDATION_ERROR", "All fields are required.")
	// ErrInvalidBody is returned when the request body cannot be decoded.
	ErrInvalidBody = New(KindValidation, "INVALID_REQUEST_BODY", "invalid request body")
	// ErrUserExists is returned when the username or email is already taken.
	ErrUserExists = New(KindConflict, "USER_ALREADY_EXISTS", "Username or email already exists. Try logging in!")
	// ErrUserNotFound is returned when no user has the given email.
	ErrUserNotFound = New(KindAuthentication, "USER_NOT_FOUND", "User does not exist.")
	// ErrIncorrectPassword is returned when the password does not match the stored hash.
	ErrIncorrectPassword = New(KindAuthentication, "INCORRECT_PASSWORD", "Incorrect password. Try again.")
	// ErrInvalidToken is returned when a bearer token is missing, malformed or expired.
	ErrInvalidToken = New(KindAuthentication, "INVALID_TOKEN", "invalid or expired token")
	// ErrProfileNotFound is returned when the token subject no longer exists.
	ErrProfileNotFound = New(KindNotFound, "USER_NOT_FOUND", "user not found")
)

// AppError is a categorized error carrying a stable code and a client-facing message.
type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// New creates an AppError without an underlying cause.
func New(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

// PersistenceError wraps a store failure. The cause is surfaced to clients as details.
func PersistenceError(message string, cause error) *AppError {
	return &AppError{Kind: KindPersistence, Code: "PERSISTENCE_ERROR", Message: message, Err: cause}
}

// Internal wraps an unexpected failure. The cause is never surfaced to clients.
func Internal(message string, cause error) *AppError {
	return &AppError{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: message, Err: cause}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError with the same kind and code, so sentinels compare
// equal to wrapped copies of themselves.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// KindOf reports the kind of err, or KindInternal if err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}

	switch appErr.Kind {
	case KindValidation:
		return NewHTTPError(http.StatusBadRequest, appErr.Message, appErr.Code)
	case KindConflict:
		return NewHTTPError(http.StatusConflict, appErr.Message, appErr.Code)
	case KindAuthentication:
		return NewHTTPError(http.StatusUnauthorized, appErr.Message, appErr.Code)
	case KindNotFound:
		return NewHTTPError(http.StatusNotFound, appErr.Message, appErr.Code)
	case KindPersistence:
		httpErr := NewHTTPError(http.StatusInternalServerError, appErr.Message, appErr.Code)
		if appErr.Err != nil {
			httpErr.Details = appErr.Err.Error()
		}
		return httpErr
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
