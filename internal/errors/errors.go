// Package errors provides custom error types for the webhook client and the chat widget.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrEmptyInput      = errors.New("message is empty")
	ErrRequestPending  = errors.New("a message is already being sent")
	ErrClientClosed    = errors.New("client is closed")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrUnknownExchange = errors.New("unknown exchange")
)

// WebhookError represents a non-2xx answer from the webhook
type WebhookError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *WebhookError) Error() string {
	return fmt.Sprintf("webhook error [%d] at %s", e.StatusCode, e.Endpoint)
}

// NewWebhookError creates a new WebhookError
func NewWebhookError(statusCode int, endpoint, body string) *WebhookError {
	return &WebhookError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Body:       body,
	}
}

// NetworkError represents a transport failure before any response arrived
type NetworkError struct {
	Op       string
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Endpoint == "" {
		return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("network error during %s at %s: %v", e.Op, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(op, endpoint string, err error) *NetworkError {
	return &NetworkError{Op: op, Endpoint: endpoint, Err: err}
}

// ParseError represents a response body that does not match its declared type
type ParseError struct {
	Message     string
	ContentType string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, contentType string) *ParseError {
	return &ParseError{Message: message, ContentType: contentType}
}

// IsWebhookError reports whether err carries a non-2xx webhook answer
func IsWebhookError(err error) bool {
	var target *WebhookError
	return errors.As(err, &target)
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// IsParseError reports whether err is a body parsing failure
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// GetHTTPStatus extracts the HTTP status from err, or 0 if none
func GetHTTPStatus(err error) int {
	var target *WebhookError
	if errors.As(err, &target) {
		return target.StatusCode
	}
	return 0
}

// GetResponseBody extracts the response body snippet from err, if any
func GetResponseBody(err error) string {
	var target *WebhookError
	if errors.As(err, &target) {
		return target.Body
	}
	return ""
}
