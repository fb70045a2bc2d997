package handhistory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/poker"
)

// Record is a hand as it was played: the setup that started it and the final
// state. The action log and board live inside Final.
type Record struct {
	HandID      string          `json:"hand_id"`
	TableID     string          `json:"table_id"`
	Setup       game.Setup      `json:"setup"`
	Final       *game.GameState `json:"final_state"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
}

// Transcript returns the replayable form of the record.
func (r *Record) Transcript() game.Transcript {
	return game.TranscriptOf(r.Setup, r.Final)
}

// Replay rebuilds the hand from its transcript and reports whether the
// rebuilt state matches the recorded one. States are compared in their
// stored form.
func (r *Record) Replay(ranker poker.Ranker) (*game.GameState, bool, error) {
	replayed, err := game.Replay(r.Transcript(), ranker)
	if err != nil {
		return nil, false, fmt.Errorf("replay hand %s: %w", r.HandID, err)
	}
	want, err := json.Marshal(r.Final)
	if err != nil {
		return nil, false, err
	}
	got, err := json.Marshal(replayed.Snapshot())
	if err != nil {
		return nil, false, err
	}
	return replayed, bytes.Equal(want, got), nil
}

// Summary is the listing view of a record.
type Summary struct {
	HandID      string    `json:"hand_id"`
	TableID     string    `json:"table_id"`
	Players     []string  `json:"players"`
	Pot         int       `json:"pot"`
	Winner      string    `json:"winner,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Board       []string  `json:"board"`
	CompletedAt time.Time `json:"completed_at"`
}

// Summarize builds the listing view of a record.
func (r *Record) Summarize() Summary {
	s := Summary{
		HandID:      r.HandID,
		TableID:     r.TableID,
		CompletedAt: r.CompletedAt,
		Board:       []string{},
	}
	if r.Final == nil {
		return s
	}
	for _, p := range r.Final.Players {
		s.Players = append(s.Players, p.Name)
		s.Pot += p.TotalBet
	}
	for _, c := range r.Final.Community {
		s.Board = append(s.Board, c.String())
	}
	if res := r.Final.Result; res != nil {
		s.Reason = res.Reason
		if w, ok := res.Winner(); ok {
			s.Winner = w.Name
		}
	}
	return s
}

func (r *Record) validate() error {
	if r.HandID == "" {
		return game.Errorf(game.ErrInvalid, "hand record has no id")
	}
	if r.Final == nil || !r.Final.IsComplete() {
		return game.Errorf(game.ErrInvalid, "hand %s is not complete", r.HandID)
	}
	return nil
}
