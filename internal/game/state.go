package game

import "github.com/lox/pokertable/poker"

// GameState is the complete state of one hand. Engine operations never
// modify a state in place: they return a new state, leaving the input
// untouched when they fail.
type GameState struct {
	HandID      string       `json:"hand_id"`
	Version     uint64       `json:"version"`
	Players     []*Player    `json:"players"`
	Community   []poker.Card `json:"community_cards"`
	Pot         int          `json:"pot_amount"`
	Street      Street       `json:"current_street"`
	ToAct       int          `json:"current_player_index"` // -1 when nobody is to act
	Dealer      int          `json:"dealer_index"`
	SmallBlind  int          `json:"small_blind_index"`
	BigBlind    int          `json:"big_blind_index"`
	MinBet      int          `json:"min_bet"`
	MaxBet      int          `json:"max_bet"`
	LastRaise   int          `json:"last_raise_amount"`
	RoundClosed bool         `json:"round_complete"`
	Actions     []Action     `json:"actions"`
	Result      *Result      `json:"result,omitempty"`

	deck *poker.Deck
}

// Clone returns a deep copy, including the undealt deck.
func (s *GameState) Clone() *GameState {
	cp := *s
	cp.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		cp.Players[i] = p.clone()
	}
	cp.Community = append([]poker.Card(nil), s.Community...)
	cp.Actions = append([]Action(nil), s.Actions...)
	if s.Result != nil {
		cp.Result = s.Result.clone()
	}
	cp.deck = s.deck.Clone()
	return &cp
}

// Snapshot returns a deep copy without the undealt deck, suitable for
// handing to readers and for persisting.
func (s *GameState) Snapshot() *GameState {
	cp := s.Clone()
	cp.deck = nil
	return cp
}

// IsComplete reports whether the hand has been resolved.
func (s *GameState) IsComplete() bool { return s.Street == Complete }

// Chips returns every chip on the table: stacks plus the pot. It is constant
// over the life of a hand.
func (s *GameState) Chips() int {
	total := s.Pot
	for _, p := range s.Players {
		total += p.Stack
	}
	return total
}

// ActiveCount returns how many players have not folded.
func (s *GameState) ActiveCount() int {
	n := 0
	for _, p := range s.Players {
		if p.IsActive {
			n++
		}
	}
	return n
}

// Player returns the player at index i, or nil if out of range.
func (s *GameState) Player(i int) *Player {
	if i < 0 || i >= len(s.Players) {
		return nil
	}
	return s.Players[i]
}

// roundClosed reports whether the current street's betting is finished.
func (s *GameState) roundClosed() bool {
	var open []*Player
	for _, p := range s.Players {
		if p.canAct() {
			open = append(open, p)
		}
	}
	switch len(open) {
	case 0:
		return true
	case 1:
		return open[0].CurrentBet >= s.MaxBet
	}
	for _, p := range open {
		if !p.Acted || p.CurrentBet != s.MaxBet {
			return false
		}
	}
	return true
}

// owesAction reports whether p still has a decision to make on this street.
func (s *GameState) owesAction(p *Player) bool {
	return p.canAct() && (!p.Acted || p.CurrentBet < s.MaxBet)
}

// nextToAct scans clockwise starting at from.
func (s *GameState) nextToAct(from int) int {
	n := len(s.Players)
	for i := range n {
		idx := (from + i) % n
		if s.owesAction(s.Players[idx]) {
			return idx
		}
	}
	return -1
}

// settle recomputes whose turn it is after a change, starting the search at from.
func (s *GameState) settle(from int) {
	s.RoundClosed = s.roundClosed()
	if s.RoundClosed {
		s.ToAct = -1
		return
	}
	s.ToAct = s.nextToAct(from)
}

// commit moves chips from a player's stack into the pot.
func (s *GameState) commit(p *Player, amount int) {
	p.Stack -= amount
	p.CurrentBet += amount
	p.TotalBet += amount
	s.Pot += amount
	if p.Stack == 0 {
		p.IsAllIn = true
	}
}

// reopen gives every other player who can act the right to act again after
// a full bet or raise.
func (s *GameState) reopen(aggressor *Player) {
	for _, p := range s.Players {
		if p != aggressor && p.canAct() {
			p.Acted = false
		}
	}
}

// raiseIncrement is the smallest legal raise increment on this street.
func (s *GameState) raiseIncrement() int {
	return max(s.LastRaise, s.MinBet)
}

// positionOrder returns player indices clockwise starting left of the dealer.
func (s *GameState) positionOrder() []int {
	n := len(s.Players)
	order := make([]int, n)
	for i := range n {
		order[i] = (s.Dealer + 1 + i) % n
	}
	return order
}
