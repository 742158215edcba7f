package api

import (
	"context"
	"sync"
)

// MockRelay is a mock implementation of WebhookClientInterface for testing
type MockRelay struct {
	// Mock return values
	Reply       string
	Err         error
	EndpointVal string
	SourceVal   string

	// Block, when set, holds Send until it is closed or the context ends
	Block chan struct{}

	// Call counters/recorders
	mu          sync.Mutex
	Calls       int
	Prompts     []string
	CloseCalled bool
	closed      bool
}

// Ensure MockRelay implements WebhookClientInterface
var _ WebhookClientInterface = (*MockRelay)(nil)

func (m *MockRelay) Send(ctx context.Context, message string) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.Prompts = append(m.Prompts, message)
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.Reply, m.Err
}

func (m *MockRelay) Endpoint() string {
	return m.EndpointVal
}

func (m *MockRelay) Source() string {
	return m.SourceVal
}

func (m *MockRelay) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	m.closed = true
}

func (m *MockRelay) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// CallCount returns how many times Send was called
func (m *MockRelay) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// LastPrompt returns the most recent message passed to Send
func (m *MockRelay) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}
