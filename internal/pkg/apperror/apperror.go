package apperror

import "net/http"

// Error is the failure kind the HTTP layer knows how to translate.
// Anything else bubbling out of a service maps to a 500.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// AccessDenied deliberately carries no detail about whether the resource
// exists.
func AccessDenied() *Error {
	return &Error{Status: http.StatusForbidden, Message: "access denied"}
}

func ArtifactNotReady(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

func LimitExceeded(message string) *Error {
	return &Error{Status: http.StatusTooManyRequests, Message: message}
}
