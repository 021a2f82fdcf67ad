package services

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockCache is an in-memory Cache for tests. Without overrides it behaves
// like a real store (expiration is recorded but not enforced); the Func
// fields replace individual operations, and every call is tracked.
type MockCache struct {
	PingFunc   func(ctx context.Context) error
	SetFunc    func(ctx context.Context, key string, value any, expiration time.Duration) error
	GetFunc    func(ctx context.Context, key string) (string, error)
	DelFunc    func(ctx context.Context, keys ...string) error
	ExistsFunc func(ctx context.Context, keys ...string) (bool, error)

	mu         sync.Mutex
	data       map[string]string
	PingCalls  int
	SetCalls   []SetCall
	GetCalls   []string
	DelCalls   [][]string
	CloseCalls int
}

type SetCall struct {
	Key        string
	Value      any
	Expiration time.Duration
}

// NewMockCache creates a new mock cache
func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string]string)}
}

func (m *MockCache) Ping(ctx context.Context) error {
	m.mu.Lock()
	m.PingCalls++
	fn := m.PingFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return nil
}

func (m *MockCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	m.mu.Lock()
	m.SetCalls = append(m.SetCalls, SetCall{Key: key, Value: value, Expiration: expiration})
	fn := m.SetFunc
	if fn == nil {
		m.data[key] = toString(value)
	}
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, key, value, expiration)
	}
	return nil
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, key)
	fn := m.GetFunc
	v := m.data[key]
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, key)
	}
	return v, nil
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	m.DelCalls = append(m.DelCalls, keys)
	fn := m.DelFunc
	if fn == nil {
		for _, k := range keys {
			delete(m.data, k)
		}
	}
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, keys...)
	}
	return nil
}

func (m *MockCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	m.mu.Lock()
	fn := m.ExistsFunc
	found := false
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			found = true
		}
	}
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, keys...)
	}
	return found, nil
}

func (m *MockCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
	return nil
}

func (m *MockCache) WaitForConnection(ctx context.Context) error {
	return m.Ping(ctx)
}

// SetPingError sets up the mock to return an error on Ping
func (m *MockCache) SetPingError(err error) {
	m.PingFunc = func(ctx context.Context) error {
		return err
	}
}

// SetPingSuccess sets up the mock to return success on Ping
func (m *MockCache) SetPingSuccess() {
	m.PingFunc = nil
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

// Ensure MockCache implements Cache interface
var _ Cache = (*MockCache)(nil)
