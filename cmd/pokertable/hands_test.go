package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/handhistory"
	"github.com/lox/pokertable/internal/statistics"
	"github.com/lox/pokertable/internal/table"
)

// recordHand plays a heads-up hand where the button folds and records it in
// a SQLite file, returning the DSN and hand id.
func recordHand(t *testing.T) (string, string) {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hands.db")

	store, err := handhistory.OpenSQLite(ctx, path)
	require.NoError(t, err)
	tbl := table.New(table.Config{ID: "main", MinBet: 40}, table.WithStore(store))
	defer tbl.Close()

	s, err := tbl.StartHand([]game.Seat{{Name: "alice", Stack: 500}, {Name: "bob", Stack: 500}})
	require.NoError(t, err)
	_, err = tbl.Act(game.Action{Player: s.ToAct, Kind: game.Fold})
	require.NoError(t, err)
	_, err = tbl.Complete(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	return "sqlite://" + path, s.HandID
}

func TestHandsExportWritesPHH(t *testing.T) {
	t.Parallel()
	dsn, handID := recordHand(t)

	out := filepath.Join(t.TempDir(), "export", handID+".phh")
	cmd := HandsExportCmd{HandID: handID, Output: out}
	require.NoError(t, cmd.Run(&CLI{DB: dsn}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `variant = "NT"`)
	assert.Contains(t, string(data), handID)
}

func TestHandsExportUnknownHand(t *testing.T) {
	t.Parallel()
	dsn, _ := recordHand(t)

	cmd := HandsExportCmd{HandID: "missing", Output: filepath.Join(t.TempDir(), "x.phh")}
	require.ErrorIs(t, cmd.Run(&CLI{DB: dsn}), game.ErrHandNotFound)
}

func TestHandsReplay(t *testing.T) {
	t.Parallel()
	dsn, handID := recordHand(t)

	cmd := HandsReplayCmd{HandID: handID}
	require.NoError(t, cmd.Run(&CLI{DB: dsn}))
}

func TestHandsStats(t *testing.T) {
	t.Parallel()
	dsn, _ := recordHand(t)

	cmd := HandsStatsCmd{Limit: 10}
	require.NoError(t, cmd.Run(&CLI{DB: dsn}))
}

func TestRenderStats(t *testing.T) {
	t.Parallel()

	out := renderStats([]statistics.Summary{
		{Name: "bob", Hands: 1, NetChips: 20, BBPer100: 50, NonShowdownWins: 1},
		{Name: "alice", Hands: 1, NetChips: -20, BBPer100: -50},
	})
	for _, want := range []string{"PLAYER", "BB/100", "bob", "alice", "50.0", "-50.0", "0/1"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderHands(t *testing.T) {
	t.Parallel()

	out := renderHands([]handhistory.Summary{{
		HandID:      "01jabc",
		TableID:     "main",
		Players:     []string{"alice", "bob"},
		Pot:         60,
		Winner:      "bob",
		Reason:      game.ReasonFolds,
		Board:       []string{},
		CompletedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}})

	for _, want := range []string{"HAND", "WINNER", "01jabc", "alice, bob", "60", "bob", game.ReasonFolds} {
		assert.Contains(t, out, want)
	}
}
