package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWebhookError(t *testing.T) {
	err := NewWebhookError(502, "https://hooks.example/chat", "bad gateway")

	expected := "webhook error [502] at https://hooks.example/chat"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	wrapped := fmt.Errorf("send: %w", err)
	if !IsWebhookError(wrapped) {
		t.Error("Expected wrapped error to be a webhook error")
	}
	if got := GetHTTPStatus(wrapped); got != 502 {
		t.Errorf("GetHTTPStatus() = %d, want 502", got)
	}
	if got := GetResponseBody(wrapped); got != "bad gateway" {
		t.Errorf("GetResponseBody() = %q, want %q", got, "bad gateway")
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("send message", "https://hooks.example/chat", cause)

	expected := "network error during send message at https://hooks.example/chat: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, cause) {
		t.Error("Expected NetworkError to unwrap to its cause")
	}
	if !IsNetworkError(fmt.Errorf("outer: %w", err)) {
		t.Error("Expected wrapped error to be a network error")
	}
	if GetHTTPStatus(err) != 0 {
		t.Error("Network errors carry no HTTP status")
	}
}

func TestNetworkErrorWithoutEndpoint(t *testing.T) {
	err := NewNetworkError("send message", "", errors.New("eof"))

	expected := "network error during send message: eof"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("body is not valid JSON", "application/json")

	if err.Error() != "parse error: body is not valid JSON" {
		t.Errorf("Error() = %s", err.Error())
	}

	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("Expected ParseError to match ErrInvalidResponse")
	}
	if !IsParseError(fmt.Errorf("extract: %w", err)) {
		t.Error("Expected wrapped error to be a parse error")
	}
	if errors.Is(err, ErrClientClosed) {
		t.Error("ParseError should not match unrelated sentinels")
	}
}

func TestHelpersOnUnrelatedError(t *testing.T) {
	err := errors.New("standard error")

	if IsWebhookError(err) || IsNetworkError(err) || IsParseError(err) {
		t.Error("Expected standard error to match no typed error")
	}
	if GetHTTPStatus(err) != 0 {
		t.Error("Expected no HTTP status for standard error")
	}
	if GetResponseBody(nil) != "" {
		t.Error("Expected empty body for nil error")
	}
}
