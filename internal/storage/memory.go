package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Backend. Its contents last as long as the process.
type Memory struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{scopes: make(map[string]map[string]string)}
}

func (m *Memory) Get(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.scopes[scope][key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scopes[scope] == nil {
		m.scopes[scope] = make(map[string]string)
	}
	m.scopes[scope][key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, scope string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.scopes[scope], k)
	}
	return nil
}
