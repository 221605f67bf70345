package apierrors

import (
	"errors"
	"fmt"
)

// APIError carries an HTTP status and a message that may be shown to the admin.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

func NewAPIError(code int, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// MessageOr returns the message carried by an APIError in err's chain,
// or fallback when there is none.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// StatusOr returns the status carried by an APIError in err's chain, or fallback.
func StatusOr(err error, fallback int) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return apiErr.Code
	}
	return fallback
}
