// Package upstream holds the shared error type for external HTTP
// collaborators (the interview AI service and the speech vendor).
package upstream

import "fmt"

const (
	ErrCodeUnavailable = "service_unavailable"
	ErrCodeBadResponse = "bad_response"
	ErrCodeNotFound    = "not_found"
)

// Error describes a failed call to an external service.
type Error struct {
	Service string
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Service, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Service, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}
