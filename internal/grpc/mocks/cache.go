package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockCacher is a function-based mock of the cache interface. Unset
// functions behave like an empty cache that accepts writes.
type MockCacher struct {
	GetFunc func(ctx context.Context, key string, dest any) error
	SetFunc func(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Get implements the cache interface
func (m *MockCacher) Get(ctx context.Context, key string, dest any) error {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key, dest)
	}
	return redis.Nil
}

// Set implements the cache interface
func (m *MockCacher) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

// MemoryCacher keeps JSON-encoded values in memory, the way the redis cache
// stores them, and counts calls. Expirations are ignored.
type MemoryCacher struct {
	mu       sync.Mutex
	data     map[string][]byte
	getCalls int
	setCalls int
	setDone  chan string
}

func NewMemoryCacher() *MemoryCacher {
	return &MemoryCacher{
		data:    make(map[string][]byte),
		setDone: make(chan string, 64),
	}
}

func (c *MemoryCacher) Get(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	c.getCalls++
	raw, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return redis.Nil
	}
	return json.Unmarshal(raw, dest)
}

func (c *MemoryCacher) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.setCalls++
	c.data[key] = raw
	c.mu.Unlock()

	select {
	case c.setDone <- key:
	default:
	}
	return nil
}

// WaitForSet blocks until a Set has completed or the timeout passes.
func (c *MemoryCacher) WaitForSet(timeout time.Duration) (string, bool) {
	select {
	case key := <-c.setDone:
		return key, true
	case <-time.After(timeout):
		return "", false
	}
}

func (c *MemoryCacher) Calls() (gets, sets int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getCalls, c.setCalls
}
