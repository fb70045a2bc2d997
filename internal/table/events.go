package table

import (
	"sync"

	"github.com/lox/pokertable/internal/game"
)

// Event types published by tables.
const (
	EventHandStarted   = "hand_started"
	EventAction        = "action"
	EventStreetDealt   = "street_dealt"
	EventHandCompleted = "hand_completed"
	EventTimeoutFold   = "timeout_fold"
)

// Event is a committed change to a table's hand.
type Event struct {
	Type    string          `json:"type"`
	TableID string          `json:"table_id"`
	Version uint64          `json:"version"`
	State   *game.GameState `json:"game_state"`
}

// Hub fans table events out to subscribers. Publishing never blocks: a
// subscriber whose buffer is full misses the event.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscription receives events for one table, or for all tables when
// created with an empty table id.
type Subscription struct {
	C <-chan Event

	ch      chan Event
	hub     *Hub
	tableID string
	once    sync.Once
}

// Subscribe registers a subscriber with the given buffer size.
func (h *Hub) Subscribe(tableID string, buffer int) *Subscription {
	ch := make(chan Event, max(buffer, 1))
	sub := &Subscription{C: ch, ch: ch, hub: h, tableID: tableID}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Close unsubscribes and closes C.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		s.hub.mu.Unlock()
		close(s.ch)
	})
}

// Publish delivers ev to every matching subscriber that has room.
// It returns how many subscribers dropped the event.
func (h *Hub) Publish(ev Event) (dropped int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if sub.tableID != "" && sub.tableID != ev.TableID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			dropped++
		}
	}
	return dropped
}
