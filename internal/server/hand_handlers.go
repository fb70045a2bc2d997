package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/handhistory"
	"github.com/lox/pokertable/internal/handid"
	"github.com/lox/pokertable/internal/phh"
	"github.com/lox/pokertable/internal/statistics"
)

// queryLimit reads the optional limit parameter. An absent limit is -1,
// which the store reads as its default.
func queryLimit(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, game.Errorf(game.ErrInvalid, "limit must be an integer, got %q", v)
	}
	if n < 0 {
		return 0, game.Errorf(game.ErrInvalid, "limit must not be negative, got %d", n)
	}
	return n, nil
}

// handParam returns the hand id from the URL, rejecting malformed ids
// before they reach the store.
func handParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "hand")
	if err := handid.Validate(id); err != nil {
		return "", game.Errorf(game.ErrInvalid, "%v", err)
	}
	return id, nil
}

func (s *Server) loadHand(w http.ResponseWriter, r *http.Request) (*handhistory.Record, bool) {
	id, err := handParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return rec, true
}

func (s *Server) handleListHands(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	hands, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hands": hands})
}

func (s *Server) handleGetHand(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadHand(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hand_id":     rec.HandID,
		"summary":     rec.Summarize(),
		"setup":       rec.Setup,
		"final_state": rec.Final,
		"actions":     rec.Final.Actions,
		"winner":      rec.Final.Result,
	})
}

func (s *Server) handleHandActions(w http.ResponseWriter, r *http.Request) {
	id, err := handParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	actions, err := s.store.Actions(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if actions == nil {
		actions = []game.Action{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hand_id": id,
		"actions": actions,
	})
}

func (s *Server) handleHandPHH(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadHand(w, r)
	if !ok {
		return
	}
	hand, err := phh.FromRecord(rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := phh.EncodeToBytes(hand)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/toml")
	w.Header().Set("Content-Disposition", `attachment; filename="`+rec.HandID+`.phh"`)
	_, _ = w.Write(data)
}

// handleHandReplay rebuilds a recorded hand and reports whether the replay
// reproduces it.
func (s *Server) handleHandReplay(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadHand(w, r)
	if !ok {
		return
	}
	replayed, matches, err := rec.Replay(s.ranker)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !matches {
		s.logger.Warn("Replay diverged from recorded hand", "hand", rec.HandID)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hand_id":        rec.HandID,
		"matches":        matches,
		"replayed_state": replayed.Snapshot(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := statistics.Collect(r.Context(), s.store, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": report.Summaries()})
}
