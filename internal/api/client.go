// Package api implements the webhook client that relays chat messages.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	apierrors "github.com/intelliwave/intelliwave/internal/errors"
	"github.com/intelliwave/intelliwave/internal/models"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// Relay forwards one message and returns the reply text
type Relay interface {
	Send(ctx context.Context, message string) (string, error)
}

// WebhookClientInterface is the client surface used by the commands and the TUI
type WebhookClientInterface interface {
	Relay
	Endpoint() string
	Source() string
	Close()
	IsClosed() bool
}

var _ WebhookClientInterface = (*Client)(nil)

// webhookRequest is the JSON body posted to the webhook
type webhookRequest struct {
	Message string `json:"message"`
	Source  string `json:"source"`
}

// Client posts chat messages to the automation webhook
type Client struct {
	httpClient tls_client.HttpClient
	endpoint   string
	source     string
	timeout    time.Duration
	headers    map[string]string
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithEndpoint sets the webhook URL
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithSource sets the source tag sent with every message
func WithSource(source string) ClientOption {
	return func(c *Client) {
		c.source = source
	}
}

// WithTimeout sets the transport timeout for a whole exchange
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHeader adds or replaces a request header
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithHTTPClient injects the HTTP client, mainly for tests
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new webhook Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		endpoint: models.DefaultWebhookURL,
		source:   models.DefaultSource,
		timeout:  60 * time.Second,
		headers:  models.DefaultHeaders(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.endpoint == "" {
		return nil, fmt.Errorf("webhook endpoint cannot be empty")
	}

	if client.httpClient == nil {
		seconds := int(client.timeout / time.Second)
		if seconds <= 0 {
			seconds = 1
		}

		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(seconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the webhook URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Source returns the source tag
func (c *Client) Source() string {
	return c.source
}

// Close releases idle connections; later sends fail with ErrClientClosed
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Send posts message to the webhook and returns the extracted reply.
// Any 2xx status is a success; the reply may be empty.
func (c *Client) Send(ctx context.Context, message string) (string, error) {
	if c.IsClosed() {
		return "", apierrors.ErrClientClosed
	}

	payload, err := encodeRequest(webhookRequest{Message: message, Source: c.source})
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkError("send message", c.endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", apierrors.NewWebhookError(resp.StatusCode, c.endpoint, string(errorBody))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apierrors.NewNetworkError("read response", c.endpoint, err)
	}

	return ExtractReply(resp.Header.Get("Content-Type"), body)
}

// encodeRequest marshals the body without escaping <, > and &
func encodeRequest(r webhookRequest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
