package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	payload  []byte
	storedAt time.Time
}

// Memory is a process-local Gateway.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetClock replaces the time source used to stamp and age entries.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Memory) Get(_ context.Context, namespace, key string, maxAge time.Duration) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[memoryKey(namespace, key)]
	if !ok || !fresh(entry.storedAt, m.now(), maxAge) {
		return nil, false, nil
	}
	return append([]byte(nil), entry.payload...), true, nil
}

func (m *Memory) Put(_ context.Context, namespace, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[memoryKey(namespace, key)] = memoryEntry{
		payload:  append([]byte(nil), payload...),
		storedAt: m.now(),
	}
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func memoryKey(namespace, key string) string {
	return namespace + "\x00" + key
}
