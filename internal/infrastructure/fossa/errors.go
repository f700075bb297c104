package fossa

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// APIError ответ FOSSA со статусом вне 2xx
type APIError struct {
	Method     string
	Endpoint   string
	Payload    string
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("fossa: %s %s %s => %s", e.Method, e.Endpoint, e.Payload, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// RequestError запрос не дошел до FOSSA или ответ не прочитан
type RequestError struct {
	Method   string
	Endpoint string
	Payload  string
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("fossa: %s %s %s: %v", e.Method, e.Endpoint, e.Payload, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsTransient сообщает, имеет ли смысл повторить вызов позже
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return !errors.Is(err, context.Canceled)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return false
}

func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
