// Package table runs hands at a poker table. A Table owns the current hand,
// serialises every mutation, records completed hands and publishes each
// committed change.
package table

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/handhistory"
	"github.com/lox/pokertable/internal/handid"
	"github.com/lox/pokertable/internal/randutil"
	"github.com/lox/pokertable/poker"
)

const recordTimeout = 5 * time.Second

// Config describes one table.
type Config struct {
	ID          string
	MinBet      int
	MaxPlayers  int
	TurnTimeout time.Duration // zero disables the turn timer
}

// Table is a single-writer table. Mutating calls never wait for each other:
// if another mutation is in flight they fail with game.ErrBusy and change
// nothing.
type Table struct {
	cfg    Config
	store  handhistory.Store
	ranker poker.Ranker
	clock  quartz.Clock
	logger *log.Logger
	hub    *Hub
	newID  func() string
	seed   func() int64

	mu       sync.Mutex
	state    *game.GameState
	setup    game.Setup
	started  time.Time
	recorded bool
	button   int
	timer    *quartz.Timer
}

// Option configures a Table.
type Option func(*Table)

func WithStore(store handhistory.Store) Option { return func(t *Table) { t.store = store } }
func WithRanker(r poker.Ranker) Option { return func(t *Table) { t.ranker = r } }
func WithClock(c quartz.Clock) Option { return func(t *Table) { t.clock = c } }
func WithLogger(l *log.Logger) Option { return func(t *Table) { t.logger = l } }
func WithHub(h *Hub) Option { return func(t *Table) { t.hub = h } }

// WithSeeds overrides where deck seeds come from, for deterministic tests.
func WithSeeds(seed func() int64) Option { return func(t *Table) { t.seed = seed } }

// WithHandIDs overrides hand id generation.
func WithHandIDs(newID func() string) Option { return func(t *Table) { t.newID = newID } }

// New creates a table. Without options it keeps history in memory, ranks
// with poker.Evaluator and uses the real clock.
func New(cfg Config, opts ...Option) *Table {
	t := &Table{
		cfg:    cfg,
		button: -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.store == nil {
		t.store = handhistory.NewMemoryStore()
	}
	if t.ranker == nil {
		t.ranker = poker.NewEvaluator()
	}
	if t.clock == nil {
		t.clock = quartz.NewReal()
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard)
	}
	t.logger = t.logger.WithPrefix("table").With("id", cfg.ID)
	if t.hub == nil {
		t.hub = NewHub()
	}
	if t.newID == nil {
		t.newID = handid.New
	}
	if t.seed == nil {
		t.seed = randutil.NewSeed
	}
	return t
}

func (t *Table) ID() string { return t.cfg.ID }
func (t *Table) Config() Config { return t.cfg }
func (t *Table) Events() *Hub { return t.hub }

// State returns a copy of the current hand.
func (t *Table) State() (*game.GameState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == nil {
		return nil, game.Errorf(game.ErrNoHandInProgress, "no hand has been started at table %s", t.cfg.ID)
	}
	return t.state.Snapshot(), nil
}

// StartHand seats players and deals a new hand, moving the button one seat.
// An unfinished hand is abandoned.
func (t *Table) StartHand(seats []game.Seat) (*game.GameState, error) {
	if !t.mu.TryLock() {
		return nil, game.ErrBusy
	}
	defer t.mu.Unlock()

	if len(seats) < game.MinPlayers {
		return nil, game.Errorf(game.ErrInvalid, "need between %d and %d players, got %d", game.MinPlayers, t.maxPlayers(), len(seats))
	}
	setup := game.Setup{
		HandID: t.newID(),
		Seats:  append([]game.Seat(nil), seats...),
		Dealer: (t.button + 1) % len(seats),
		MinBet: t.cfg.MinBet,
		Seed:   t.seed(),
	}
	if err := setup.Validate(t.maxPlayers()); err != nil {
		return nil, err
	}
	state, err := game.NewHand(setup)
	if err != nil {
		return nil, err
	}

	if t.state != nil && !t.state.IsComplete() {
		t.logger.Warn("Abandoning unfinished hand", "hand", t.state.HandID, "street", t.state.Street)
	}
	t.button = setup.Dealer
	t.setup = setup
	t.started = t.clock.Now()
	t.recorded = false
	t.logger.Info("Hand started",
		"hand", setup.HandID,
		"players", len(seats),
		"dealer", setup.Dealer,
		"min_bet", setup.MinBet)
	t.commit(state, EventHandStarted)
	return state.Snapshot(), nil
}

// Act applies a player action to the current hand.
func (t *Table) Act(a game.Action) (*game.GameState, error) {
	if !t.mu.TryLock() {
		return nil, game.ErrBusy
	}
	defer t.mu.Unlock()

	if t.state == nil {
		return nil, game.Errorf(game.ErrNoHandInProgress, "no hand has been started at table %s", t.cfg.ID)
	}
	next, err := game.Apply(t.state, a)
	if err != nil {
		t.logger.Debug("Action rejected", "hand", t.state.HandID, "player", a.Player, "action", a.Kind, "error", err)
		return nil, err
	}

	logged := next.Actions[len(next.Actions)-1]
	t.logger.Debug("Action applied",
		"hand", next.HandID,
		"player", logged.Player,
		"action", logged.Kind,
		"amount", logged.Amount,
		"street", logged.Street)
	t.commit(next, EventAction)
	return next.Snapshot(), nil
}

// Deal moves the current hand to street, returning the new community cards.
func (t *Table) Deal(street game.Street) (*game.GameState, []poker.Card, error) {
	if !t.mu.TryLock() {
		return nil, nil, game.ErrBusy
	}
	defer t.mu.Unlock()

	if t.state == nil {
		return nil, nil, game.Errorf(game.ErrNoHandInProgress, "no hand has been started at table %s", t.cfg.ID)
	}
	next, cards, err := game.Deal(t.state, street)
	if err != nil {
		return nil, nil, err
	}
	t.logger.Debug("Street dealt", "hand", next.HandID, "street", street, "cards", poker.Strings(cards))
	t.commit(next, EventStreetDealt)
	return next.Snapshot(), cards, nil
}

// Complete resolves the current hand and records it. Completing a hand that
// is already complete returns it again; recording is retried if it failed
// the first time.
func (t *Table) Complete(ctx context.Context) (*game.GameState, error) {
	if !t.mu.TryLock() {
		return nil, game.ErrBusy
	}
	defer t.mu.Unlock()

	if t.state == nil {
		return nil, game.Errorf(game.ErrNoHandInProgress, "no hand has been started at table %s", t.cfg.ID)
	}
	next, err := game.Complete(t.state, t.ranker)
	if err != nil {
		return nil, err
	}
	if next != t.state {
		if w, ok := next.Result.Winner(); ok {
			t.logger.Info("Hand complete", "hand", next.HandID, "winner", w.Name, "amount", w.Amount, "reason", next.Result.Reason)
		}
		t.commit(next, EventHandCompleted)
	}

	if err := t.record(ctx); err != nil {
		return nil, err
	}
	return t.state.Snapshot(), nil
}

// Close stops the turn timer.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopTimer()
}

func (t *Table) record(ctx context.Context) error {
	if t.recorded {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	rec := &handhistory.Record{
		HandID:      t.state.HandID,
		TableID:     t.cfg.ID,
		Setup:       t.setup,
		Final:       t.state.Snapshot(),
		StartedAt:   t.started,
		CompletedAt: t.clock.Now(),
	}
	if err := t.store.Save(ctx, rec); err != nil {
		t.logger.Error("Failed to record hand", "hand", rec.HandID, "error", err)
		return fmt.Errorf("record hand %s: %w", rec.HandID, err)
	}
	t.recorded = true
	return nil
}

// commit installs a new state. The caller holds t.mu.
func (t *Table) commit(next *game.GameState, eventType string) {
	t.state = next
	t.armTimer()
	if dropped := t.hub.Publish(Event{
		Type:    eventType,
		TableID: t.cfg.ID,
		Version: next.Version,
		State:   next.Snapshot(),
	}); dropped > 0 {
		t.logger.Debug("Slow subscribers missed an event", "dropped", dropped, "version", next.Version)
	}
}

func (t *Table) maxPlayers() int {
	if t.cfg.MaxPlayers <= 0 {
		return game.MaxSeats
	}
	return t.cfg.MaxPlayers
}
