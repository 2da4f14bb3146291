package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

var (
	registry = map[string]Factory{}
	regLock  sync.RWMutex
)

// Factory validates backend configuration and builds store instances.
type Factory interface {
	Build(ctx context.Context, config json.RawMessage) (Interface, error)
	Valid(config json.RawMessage) error
}

func Register(name string, impl Factory) {
	regLock.Lock()
	defer regLock.Unlock()

	registry[name] = impl
}

func Get(name string) (Factory, bool) {
	regLock.RLock()
	defer regLock.RUnlock()
	result, ok := registry[name]
	return result, ok
}

// Methods lists registered backend names in sorted order.
func Methods() []string {
	regLock.RLock()
	defer regLock.RUnlock()
	result := make([]string, 0, len(registry))
	for method := range registry {
		result = append(result, method)
	}
	sort.Strings(result)
	return result
}

// Build looks up the named backend, validates config and builds it.
// The context bounds the lifetime of any background cleanup goroutine.
func Build(ctx context.Context, name string, config json.RawMessage) (Interface, error) {
	f, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown backend %q (have %v)", ErrBadConfig, name, Methods())
	}

	if err := f.Valid(config); err != nil {
		return nil, err
	}

	return f.Build(ctx, config)
}
