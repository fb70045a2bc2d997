package handhistory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/poker"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// playedHand plays a short hand to completion: p0 raises, p1 folds, p2
// calls, then both check down to showdown.
func playedHand(t *testing.T, id string, offset time.Duration) *Record {
	t.Helper()

	setup := game.Setup{
		HandID: id,
		Seats:  []game.Seat{{Name: "alice", Stack: 1000}, {Name: "bob", Stack: 1000}, {Name: "carol", Stack: 1000}},
		MinBet: 40,
		Seed:   int64(len(id)),
	}
	s, err := game.NewHand(setup)
	require.NoError(t, err)

	apply := func(kind game.ActionKind, amount int) {
		t.Helper()
		s, err = game.Apply(s, game.Action{Player: s.ToAct, Kind: kind, Amount: amount})
		require.NoError(t, err)
	}
	apply(game.Raise, 120)
	apply(game.Fold, 0)
	apply(game.Call, 0)
	for s.Street != game.River {
		s, _, err = game.Deal(s, s.Street+1)
		require.NoError(t, err)
		for s.ToAct >= 0 {
			apply(game.Check, 0)
		}
	}
	s, err = game.Complete(s, poker.NewEvaluator())
	require.NoError(t, err)

	return &Record{
		HandID:      id,
		TableID:     "main",
		Setup:       setup,
		Final:       s,
		StartedAt:   baseTime.Add(offset),
		CompletedAt: baseTime.Add(offset + time.Minute),
	}
}

func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	first := playedHand(t, "hand-1", 0)
	require.NoError(t, store.Save(ctx, first))

	got, err := store.Get(ctx, "hand-1")
	require.NoError(t, err)
	assert.Equal(t, "main", got.TableID)
	assert.Equal(t, first.Setup, got.Setup)
	assert.Equal(t, first.Final.Actions, got.Final.Actions)
	assert.Equal(t, first.Final.Community, got.Final.Community)
	assert.Equal(t, first.Final.Result, got.Final.Result)
	assert.True(t, first.CompletedAt.Equal(got.CompletedAt))

	// A replay of the stored transcript gives the stored outcome.
	replayed, matches, err := got.Replay(poker.NewEvaluator())
	require.NoError(t, err)
	assert.True(t, matches, "replay reproduces the stored state")
	assert.Equal(t, got.Final.Result, replayed.Result)

	actions, err := store.Actions(ctx, "hand-1")
	require.NoError(t, err)
	assert.Equal(t, first.Final.Actions, actions)

	// Saving the same id again keeps the first record.
	dup := playedHand(t, "hand-1", time.Hour)
	dup.TableID = "other"
	require.NoError(t, store.Save(ctx, dup))
	got, err = store.Get(ctx, "hand-1")
	require.NoError(t, err)
	assert.Equal(t, "main", got.TableID)

	for i := 2; i <= 4; i++ {
		require.NoError(t, store.Save(ctx, playedHand(t, fmt.Sprintf("hand-%d", i), time.Duration(i)*time.Hour)))
	}

	list, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hand-4", list[0].HandID)
	assert.Equal(t, "hand-3", list[1].HandID)
	assert.Equal(t, []string{"alice", "bob", "carol"}, list[0].Players)
	assert.Equal(t, 260, list[0].Pot)
	assert.Len(t, list[0].Board, 5)

	all, err := store.List(ctx, -1)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	// Hands completed at the same instant list in reverse save order.
	require.NoError(t, store.Save(ctx, playedHand(t, "tie-a", 10*time.Hour)))
	require.NoError(t, store.Save(ctx, playedHand(t, "tie-b", 10*time.Hour)))
	ties, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, ties, 2)
	assert.Equal(t, "tie-b", ties[0].HandID)
	assert.Equal(t, "tie-a", ties[1].HandID)

	_, err = store.Get(ctx, "missing")
	require.ErrorIs(t, err, game.ErrHandNotFound)
	_, err = store.Actions(ctx, "missing")
	require.ErrorIs(t, err, game.ErrHandNotFound)

	unfinished := playedHand(t, "hand-5", 0)
	unfinished.Final = unfinished.Final.Clone()
	unfinished.Final.Street = game.River
	require.ErrorIs(t, store.Save(ctx, unfinished), game.ErrInvalid)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	runStoreContract(t, NewMemoryStore())
}

func TestSQLiteStoreInMemory(t *testing.T) {
	t.Parallel()

	store, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	runStoreContract(t, store)
}

func TestSQLiteStorePersists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "hands.db")

	store, err := Open(ctx, "sqlite://"+path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, playedHand(t, "persisted", 0)))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	rec, err := reopened.Get(ctx, "persisted")
	require.NoError(t, err)
	assert.True(t, rec.Final.IsComplete())
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("POKERTABLE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POKERTABLE_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	store, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	_, err = store.pool.Exec(ctx, `TRUNCATE hands CASCADE`)
	require.NoError(t, err)

	runStoreContract(t, store)
}

func TestOpenRejectsUnknownDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "mysql://localhost/hands")
	require.Error(t, err)

	store, err := Open(context.Background(), "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
}
