package store

import (
	"context"
	"crypto/subtle"
	"sync"

	"github.com/shandysiswandi/prescripto/internal/otp/entity"
	"github.com/shandysiswandi/prescripto/internal/pkg/goerror"
)

// Memory keeps entries in a process-local map. Entries are never evicted;
// expired ones are removed when a verification observes them.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entity.Entry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entity.Entry)}
}

func (m *Memory) Put(_ context.Context, identifier string, e entity.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[identifier] = e
	return nil
}

func (m *Memory) Get(_ context.Context, identifier string) (*entity.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[identifier]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &e, nil
}

func (m *Memory) Delete(_ context.Context, identifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, identifier)
	return nil
}

// CompareAndDelete removes the entry only if it still holds code and reports
// whether it did.
func (m *Memory) CompareAndDelete(_ context.Context, identifier, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[identifier]
	if !ok || subtle.ConstantTimeCompare([]byte(e.Code), []byte(code)) != 1 {
		return false, nil
	}
	delete(m.entries, identifier)
	return true, nil
}

func (m *Memory) Close() error {
	return nil
}
