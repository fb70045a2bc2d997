package table

import (
	"fmt"
	"slices"
	"sync"

	"github.com/lox/pokertable/internal/game"
)

// Registry holds the tables served by this process.
type Registry struct {
	mu        sync.RWMutex
	tables    map[string]*Table
	defaultID string
}

// NewRegistry returns an empty registry whose default table is defaultID.
func NewRegistry(defaultID string) *Registry {
	return &Registry{tables: make(map[string]*Table), defaultID: defaultID}
}

// Add registers t. Table ids must be unique.
func (r *Registry) Add(t *Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tables[t.ID()]; exists {
		return fmt.Errorf("table %q already registered", t.ID())
	}
	r.tables[t.ID()] = t
	return nil
}

// Get returns the table with the given id.
func (r *Registry) Get(id string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, game.Errorf(game.ErrTableNotFound, "table %q not found", id)
	}
	return t, nil
}

// Default returns the table served on the legacy single-table routes.
func (r *Registry) Default() (*Table, error) {
	return r.Get(r.defaultID)
}

// IDs returns the registered table ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.tables))
	for id := range r.tables {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Close stops every table's turn timer.
func (r *Registry) Close() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tables {
		t.Close()
	}
}
