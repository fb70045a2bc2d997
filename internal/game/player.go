package game

import "github.com/lox/pokertable/poker"

// Player is a seat in a hand.
type Player struct {
	Index      int          `json:"index"`
	Name       string       `json:"name"`
	Stack      int          `json:"stack"`
	Cards      []poker.Card `json:"cards"`
	CurrentBet int          `json:"current_bet"` // chips committed on the current street
	TotalBet   int          `json:"total_bet"`   // chips committed over the whole hand
	IsActive   bool         `json:"is_active"`   // false once folded
	IsAllIn    bool         `json:"is_all_in"`

	// Acted is set once the player has acted since the last full bet or
	// raise. A player who has acted may not raise again until the action is
	// reopened.
	Acted bool `json:"-"`
}

// canAct reports whether the player can still make decisions in this hand.
func (p *Player) canAct() bool {
	return p.IsActive && !p.IsAllIn
}

func (p *Player) clone() *Player {
	cp := *p
	cp.Cards = append([]poker.Card(nil), p.Cards...)
	return &cp
}
