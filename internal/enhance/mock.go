package enhance

import (
	"context"
	"sync"
)

// MockGenerator is a scripted Generator for tests.
type MockGenerator struct {
	// Response is returned for every call unless Responses or
	// GenerateFunc is set.
	Response string
	// Responses are returned call by call; the last one repeats.
	Responses []string
	// Err, when set, fails every call.
	Err error
	// GenerateFunc, when set, overrides everything else.
	GenerateFunc func(ctx context.Context, req Request) (string, error)

	mu    sync.Mutex
	calls []Request
}

// Name returns "mock".
func (m *MockGenerator) Name() string {
	return "mock"
}

// Generate records the request and replies from the script.
func (m *MockGenerator) Generate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	call := len(m.calls) - 1
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) > 0 {
		if call < len(m.Responses) {
			return m.Responses[call], nil
		}
		return m.Responses[len(m.Responses)-1], nil
	}
	return m.Response, nil
}

// Calls returns a copy of the recorded requests.
func (m *MockGenerator) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}
