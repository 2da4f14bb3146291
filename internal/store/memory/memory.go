// Package memory is a process-local store backend. It does not scale past a
// single instance; use valkey for horizontally scaled deployments.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"defiquiz/internal/store"
)

// CleanupInterval is how often expired entries are swept.
const CleanupInterval = 5 * time.Minute

type factory struct{}

func (factory) Build(ctx context.Context, _ json.RawMessage) (store.Interface, error) {
	return New(ctx), nil
}

func (factory) Valid(json.RawMessage) error { return nil }

func init() {
	store.Register("memory", factory{})
}

type entry struct {
	value   []byte
	expires time.Time
}

type impl struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func (i *impl) Delete(_ context.Context, key string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	e, ok := i.data[key]
	if !ok {
		return fmt.Errorf("%w: %q", store.ErrNotFound, key)
	}
	delete(i.data, key)

	if i.now().After(e.expires) {
		return fmt.Errorf("%w: %q", store.ErrNotFound, key)
	}
	return nil
}

func (i *impl) Get(_ context.Context, key string) ([]byte, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	e, ok := i.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", store.ErrNotFound, key)
	}

	if i.now().After(e.expires) {
		delete(i.data, key)
		return nil, fmt.Errorf("%w: %q", store.ErrNotFound, key)
	}

	result := make([]byte, len(e.value))
	copy(result, e.value)
	return result, nil
}

func (i *impl) Set(_ context.Context, key string, value []byte, expiry time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)

	i.mu.Lock()
	defer i.mu.Unlock()

	i.data[key] = entry{value: v, expires: i.now().Add(expiry)}
	return nil
}

// cleanup removes every expired entry and reports how many were dropped.
func (i *impl) cleanup() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	n := 0
	for k, e := range i.data {
		if now.After(e.expires) {
			delete(i.data, k)
			n++
		}
	}
	return n
}

func (i *impl) cleanupThread(ctx context.Context) {
	t := time.NewTicker(CleanupInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			i.cleanup()
		}
	}
}

// New creates a simple in-memory store swept every CleanupInterval until ctx is done.
func New(ctx context.Context) store.Interface {
	result := &impl{
		data: map[string]entry{},
		now:  time.Now,
	}

	go result.cleanupThread(ctx)

	return result
}
