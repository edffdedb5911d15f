package connector

import (
	"context"
	"sync"
	"sync/atomic"
)

// Mock implements Connector for testing. Every command is recorded, the
// returned errors are configurable, and tests push snapshots by publishing
// into the embedded Feeds.
type Mock struct {
	*Feeds

	mu         sync.Mutex
	openErr    error
	disconnErr error
	switchErr  error
	switched   []Network
	themeModes []ThemeMode

	openCount       atomic.Int64
	disconnectCount atomic.Int64

	// OpenFunc, if set, runs instead of the default Open behavior.
	OpenFunc func(ctx context.Context) error
}

// MockOption configures a Mock.
type MockOption func(*Mock)

// WithOpenError makes Open return err.
func WithOpenError(err error) MockOption {
	return func(m *Mock) { m.openErr = err }
}

// WithDisconnectError makes Disconnect return err.
func WithDisconnectError(err error) MockOption {
	return func(m *Mock) { m.disconnErr = err }
}

// WithSwitchError makes SwitchNetwork return err.
func WithSwitchError(err error) MockOption {
	return func(m *Mock) { m.switchErr = err }
}

// NewMock returns a mock connector with empty feeds.
func NewMock(opts ...MockOption) *Mock {
	m := &Mock{Feeds: NewFeeds()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open records the call and returns the configured error.
func (m *Mock) Open(ctx context.Context) error {
	m.openCount.Add(1)
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openErr
}

// Disconnect records the call and returns the configured error.
func (m *Mock) Disconnect(_ context.Context) error {
	m.disconnectCount.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disconnErr
}

// SwitchNetwork records the target and returns the configured error.
func (m *Mock) SwitchNetwork(_ context.Context, n Network) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.switched = append(m.switched, n)
	return m.switchErr
}

// SetThemeMode records the requested mode. It does not publish a theme
// snapshot; tests do that explicitly to model confirmation.
func (m *Mock) SetThemeMode(mode ThemeMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.themeModes = append(m.themeModes, mode)
}

// OpenCount returns how many times Open has been called.
func (m *Mock) OpenCount() int64 { return m.openCount.Load() }

// DisconnectCount returns how many times Disconnect has been called.
func (m *Mock) DisconnectCount() int64 { return m.disconnectCount.Load() }

// Switched returns the networks passed to SwitchNetwork, in order.
func (m *Mock) Switched() []Network {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Network(nil), m.switched...)
}

// ThemeModes returns the modes passed to SetThemeMode, in order.
func (m *Mock) ThemeModes() []ThemeMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ThemeMode(nil), m.themeModes...)
}

// MockProvider implements Provider for testing.
type MockProvider struct {
	calls atomic.Int64

	mu       sync.Mutex
	requests []SignMessageRequest

	// SignFunc, if set, produces the result. The default returns "sig".
	SignFunc func(ctx context.Context, req SignMessageRequest) (string, error)
}

// SignMessage records the request and delegates to SignFunc.
func (p *MockProvider) SignMessage(ctx context.Context, req SignMessageRequest) (string, error) {
	p.calls.Add(1)
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()

	if p.SignFunc != nil {
		return p.SignFunc(ctx, req)
	}
	return "sig", nil
}

// Calls returns how many times SignMessage has been called.
func (p *MockProvider) Calls() int64 { return p.calls.Load() }

// Requests returns every request received, in order.
func (p *MockProvider) Requests() []SignMessageRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]SignMessageRequest(nil), p.requests...)
}
