package cutoff

import (
	"context"
	"sync"
)

type memRepo struct {
	mu      sync.RWMutex
	cutoffs map[string]int
}

func NewMemoryRepo() Repo {
	return &memRepo{cutoffs: make(map[string]int)}
}

func (m *memRepo) Get(ctx context.Context, game string) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cutoffs[game]
	return c, ok, nil
}

func (m *memRepo) Set(ctx context.Context, game string, cutoff int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoffs[game] = cutoff
	return nil
}

func (m *memRepo) All(ctx context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int, len(m.cutoffs))
	for g, c := range m.cutoffs {
		out[g] = c
	}
	return out, nil
}
