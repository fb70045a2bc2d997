package handhistory

import (
	"context"
	"slices"
	"sync"

	"github.com/lox/pokertable/internal/game"
)

// MemoryStore keeps records in process. It is the default when no database
// is configured and what the tests use.
type MemoryStore struct {
	mu    sync.RWMutex
	hands map[string]*Record
	order []string // insertion order, oldest first
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hands: make(map[string]*Record)}
}

func (m *MemoryStore) Save(_ context.Context, rec *Record) error {
	if err := rec.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.hands[rec.HandID]; exists {
		return nil
	}
	cp := *rec
	cp.Final = rec.Final.Snapshot()
	m.hands[rec.HandID] = &cp
	m.order = append(m.order, rec.HandID)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, handID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.hands[handID]
	if !ok {
		return nil, notFound(handID)
	}
	cp := *rec
	cp.Final = rec.Final.Snapshot()
	return &cp, nil
}

func (m *MemoryStore) Actions(ctx context.Context, handID string) ([]game.Action, error) {
	rec, err := m.Get(ctx, handID)
	if err != nil {
		return nil, err
	}
	return rec.Final.Actions, nil
}

func (m *MemoryStore) List(_ context.Context, limit int) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit = listLimit(limit)
	out := make([]Summary, 0, min(limit, len(m.order)))
	for _, id := range slices.Backward(m.order) {
		if len(out) == limit {
			break
		}
		out = append(out, m.hands[id].Summarize())
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
