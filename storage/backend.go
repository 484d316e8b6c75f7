package storage

import (
	"context"
	"sort"
	"sync"
)

// Backend is a string key-value namespace with a byte capacity.
// Set must return ErrQuotaExceeded when the write would not fit.
type Backend interface {
	Available(ctx context.Context) bool
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}

// BackendFactory returns the backend for one session namespace.
type BackendFactory func(namespace string) Backend

func entrySize(key, value string) int {
	return len(key) + len(value)
}

// MemoryBackend keeps a namespace in process memory.
type MemoryBackend struct {
	mu       sync.RWMutex
	data     map[string]string
	capacity int
}

func NewMemoryBackend(capacity int) *MemoryBackend {
	return &MemoryBackend{
		data:     make(map[string]string),
		capacity: capacity,
	}
}

func (m *MemoryBackend) Available(_ context.Context) bool {
	return true
}

func (m *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := 0
	for k, v := range m.data {
		if k == key {
			continue
		}
		used += entrySize(k, v)
	}
	if m.capacity > 0 && used+entrySize(key, value) > m.capacity {
		return ErrQuotaExceeded
	}
	m.data[key] = value
	return nil
}

func (m *MemoryBackend) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryBackend) Clear(_ context.Context) error {
	m.mu.Lock()
	m.data = make(map[string]string)
	m.mu.Unlock()
	return nil
}

// MemoryFactory serves namespaces from a shared pool. A namespace gets a
// MemoryBackend on its first write and is released once it is empty again,
// so sessions that never store anything cost nothing.
func MemoryFactory(capacity int) BackendFactory {
	pool := &memoryPool{capacity: capacity, namespaces: make(map[string]*MemoryBackend)}
	return func(namespace string) Backend {
		return &memoryNamespace{pool: pool, name: namespace}
	}
}

type memoryPool struct {
	mu         sync.Mutex
	capacity   int
	namespaces map[string]*MemoryBackend
}

// Len reports how many namespaces currently hold data.
func (p *memoryPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.namespaces)
}

type memoryNamespace struct {
	pool *memoryPool
	name string
}

func (n *memoryNamespace) Available(_ context.Context) bool {
	return true
}

func (n *memoryNamespace) Get(ctx context.Context, key string) (string, bool, error) {
	n.pool.mu.Lock()
	defer n.pool.mu.Unlock()
	b, ok := n.pool.namespaces[n.name]
	if !ok {
		return "", false, nil
	}
	return b.Get(ctx, key)
}

func (n *memoryNamespace) Set(ctx context.Context, key, value string) error {
	n.pool.mu.Lock()
	defer n.pool.mu.Unlock()
	b, ok := n.pool.namespaces[n.name]
	if !ok {
		b = NewMemoryBackend(n.pool.capacity)
	}
	if err := b.Set(ctx, key, value); err != nil {
		return err
	}
	n.pool.namespaces[n.name] = b
	return nil
}

func (n *memoryNamespace) Remove(ctx context.Context, key string) error {
	n.pool.mu.Lock()
	defer n.pool.mu.Unlock()
	b, ok := n.pool.namespaces[n.name]
	if !ok {
		return nil
	}
	if err := b.Remove(ctx, key); err != nil {
		return err
	}
	if b.Len() == 0 {
		delete(n.pool.namespaces, n.name)
	}
	return nil
}

func (n *memoryNamespace) Keys(ctx context.Context) ([]string, error) {
	n.pool.mu.Lock()
	defer n.pool.mu.Unlock()
	b, ok := n.pool.namespaces[n.name]
	if !ok {
		return []string{}, nil
	}
	return b.Keys(ctx)
}

func (n *memoryNamespace) Clear(_ context.Context) error {
	n.pool.mu.Lock()
	delete(n.pool.namespaces, n.name)
	n.pool.mu.Unlock()
	return nil
}
