// Package memory implements the KV driver on a process-local map.
// Used in demo mode and by tests; state dies with the process.
package memory

import (
	"context"
	"sync"
)

type Driver struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewDriver() *Driver {
	return &Driver{data: make(map[string][]byte)}
}

func (d *Driver) Migrate(_ context.Context) error {
	return nil
}

func (d *Driver) Get(_ context.Context, key string) ([]byte, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	value, ok := d.data[key]
	if !ok {
		return nil, false, nil
	}
	// Copy so callers can't mutate stored state.
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (d *Driver) Set(_ context.Context, key string, value []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	d.data[key] = stored
	return nil
}

func (d *Driver) Delete(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.data, key)
	return nil
}

func (d *Driver) Close() error {
	return nil
}
