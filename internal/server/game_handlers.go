package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/table"
	"github.com/lox/pokertable/poker"
)

type seatRequest struct {
	Name  string `json:"name"`
	Stack int    `json:"stack"`
}

type startHandRequest struct {
	Players []seatRequest `json:"players"`
}

type actionRequest struct {
	PlayerIndex *int   `json:"player_index"`
	ActionType  string `json:"action_type"`
	Amount      *int   `json:"amount"`
}

// stateView is a game state as served to clients, with the options open to
// the player to act.
type stateView struct {
	*game.GameState
	LegalActions []game.ActionOption `json:"legal_actions"`
}

func viewOf(s *game.GameState) stateView {
	legal := game.LegalActions(s)
	if legal == nil {
		legal = []game.ActionOption{}
	}
	return stateView{GameState: s, LegalActions: legal}
}

// tableFor resolves the table a request addresses. Routes without a table
// parameter use the default table.
func (s *Server) tableFor(r *http.Request) (*table.Table, error) {
	if id := chi.URLParam(r, "table"); id != "" {
		return s.tables.Get(id)
	}
	return s.tables.Default()
}

func (s *Server) handleStartHand(w http.ResponseWriter, r *http.Request) {
	t, err := s.tableFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seats, err := decodeSeats(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	state, err := t.StartHand(seats)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hand_id":    state.HandID,
		"message":    "New hand started",
		"game_state": viewOf(state),
	})
}

// decodeSeats accepts either a bare array of players or {"players": [...]}.
func decodeSeats(r *http.Request) ([]game.Seat, error) {
	raw, err := readBody(r)
	if err != nil {
		return nil, err
	}

	var players []seatRequest
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := unmarshalBody(trimmed, &players); err != nil {
			return nil, err
		}
	} else {
		var req startHandRequest
		if err := unmarshalBody(trimmed, &req); err != nil {
			return nil, err
		}
		players = req.Players
	}

	seats := make([]game.Seat, len(players))
	for i, p := range players {
		seats[i] = game.Seat{Name: strings.TrimSpace(p.Name), Stack: p.Stack}
	}
	return seats, nil
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	t, err := s.tableFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req actionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	action, err := req.action()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	state, err := t.Act(action)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Action successful",
		"game_state": viewOf(state),
	})
}

func (req actionRequest) action() (game.Action, error) {
	if req.PlayerIndex == nil {
		return game.Action{}, game.Errorf(game.ErrInvalid, "player_index is required")
	}
	kind, err := game.ParseActionKind(req.ActionType)
	if err != nil {
		return game.Action{}, err
	}
	a := game.Action{Player: *req.PlayerIndex, Kind: kind}
	if req.Amount != nil {
		a.Amount = *req.Amount
	}
	return a, nil
}

func (s *Server) handleTimeout(w http.ResponseWriter, r *http.Request) {
	t, err := s.tableFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req actionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.PlayerIndex == nil {
		s.writeError(w, r, game.Errorf(game.ErrInvalid, "player_index is required"))
		return
	}

	state, err := t.TimeoutFold(*req.PlayerIndex)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Player timed out",
		"game_state": viewOf(state),
	})
}

func (s *Server) handleDeal(street game.Street) http.HandlerFunc {
	message := strings.ToUpper(street.String()[:1]) + street.String()[1:] + " dealt"
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := s.tableFor(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		state, cards, err := t.Deal(street)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if cards == nil {
			cards = []poker.Card{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":               message,
			"community_cards_delta": cards,
			"game_state":            viewOf(state),
		})
	}
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	t, err := s.tableFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	state, err := t.Complete(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "Hand completed",
		"winner":           state.Result,
		"final_game_state": viewOf(state),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	t, err := s.tableFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	state, err := t.State()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(state))
}
