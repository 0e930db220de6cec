package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrEmptyAnswer        = errors.New("answer is empty")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrNoQuestions        = errors.New("interview has no questions")
	ErrSessionComplete    = errors.New("session is complete")
)

// Server error codes surfaced with dedicated client behavior. The full
// catalog lives server-side; the client only special-cases the ones it
// reacts to differently.
const (
	CodeUnauthorized        = "AUTH001"
	CodeInvalidToken        = "AUTH002"
	CodeExpiredToken        = "AUTH003"
	CodeInvalidRefreshToken = "AUTH004"
	CodeAccountLocked       = "AUTH007"
	CodeInterviewNotFound   = "I001"
	CodeInvalidStatus       = "I002"
)

// APIError is a structured error returned by the remote service, either as
// a success=false envelope or an error body with a domain code. It is a
// recoverable domain error, distinct from transport failures.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// AsAPIError unwraps err into an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthFailure reports whether err is an authorization failure from the
// service (invalid or expired credential).
func IsAuthFailure(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == 401
}

// IsAccountLocked reports whether err is the login lockout code, which gets
// a distinct warning plus a cool-down hint instead of a plain failure.
func IsAccountLocked(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Code == CodeAccountLocked
}
