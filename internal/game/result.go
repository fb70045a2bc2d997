package game

import (
	"fmt"
	"slices"

	"github.com/lox/pokertable/poker"
)

// Reasons a hand was resolved.
const (
	ReasonFolds    = "all others folded"
	ReasonShowdown = "showdown"
)

// Award is what one player won across all pots.
type Award struct {
	Player   int    `json:"player_index"`
	Name     string `json:"name"`
	Amount   int    `json:"amount"`
	HandRank string `json:"hand_rank,omitempty"`
}

// PotResult records how a single pot was split.
type PotResult struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
	Winners  []int `json:"winners"`
	Shares   []int `json:"shares"`
}

// Result is the outcome of a completed hand.
type Result struct {
	Reason   string      `json:"reason"`
	Winners  []Award     `json:"winners"`
	Pots     []PotResult `json:"pots"`
	HandRank string      `json:"hand_rank,omitempty"`
}

// Winner returns the largest award, preferring the earliest listed on ties.
func (r *Result) Winner() (Award, bool) {
	if r == nil || len(r.Winners) == 0 {
		return Award{}, false
	}
	best := r.Winners[0]
	for _, w := range r.Winners[1:] {
		if w.Amount > best.Amount {
			best = w
		}
	}
	return best, true
}

func (r *Result) clone() *Result {
	cp := *r
	cp.Winners = slices.Clone(r.Winners)
	cp.Pots = make([]PotResult, len(r.Pots))
	for i, p := range r.Pots {
		cp.Pots[i] = PotResult{
			Amount:   p.Amount,
			Eligible: slices.Clone(p.Eligible),
			Winners:  slices.Clone(p.Winners),
			Shares:   slices.Clone(p.Shares),
		}
	}
	return &cp
}

// Complete resolves a hand whose river betting has closed: pots are built,
// each is awarded to the best eligible hand and split on ties, and the
// street becomes Complete. Completing an already complete hand returns it
// unchanged.
func Complete(s *GameState, ranker poker.Ranker) (*GameState, error) {
	if s.Street == Complete {
		return s, nil
	}
	if s.Street != River {
		return nil, Errorf(ErrWrongStreet, "cannot complete the hand on the %s", s.Street)
	}
	if !s.roundClosed() {
		return nil, Errorf(ErrStreetNotComplete, "river betting is still open")
	}

	next := s.Clone()
	values := make(map[int]poker.HandValue)
	for _, p := range next.Players {
		if !p.IsActive {
			continue
		}
		v, err := ranker.Rank(p.Cards, next.Community)
		if err != nil {
			return nil, fmt.Errorf("rank player %d: %w", p.Index, err)
		}
		values[p.Index] = v
	}

	won := make([]int, len(next.Players))
	result := &Result{Reason: ReasonShowdown}
	for _, pot := range BuildPots(next.Players) {
		winners := next.bestOf(pot.Eligible, values)
		shares := splitPot(pot.Amount, len(winners))
		for i, w := range winners {
			won[w] += shares[i]
		}
		result.Pots = append(result.Pots, PotResult{
			Amount:   pot.Amount,
			Eligible: pot.Eligible,
			Winners:  winners,
			Shares:   shares,
		})
	}

	for i, amount := range won {
		if amount == 0 {
			continue
		}
		p := next.Players[i]
		p.Stack += amount
		result.Winners = append(result.Winners, Award{
			Player:   i,
			Name:     p.Name,
			Amount:   amount,
			HandRank: values[i].Description,
		})
	}
	if len(result.Pots) > 0 && len(result.Pots[0].Winners) > 0 {
		result.HandRank = values[result.Pots[0].Winners[0]].Description
	}

	next.finish(result)
	next.Version++
	return next, nil
}

// bestOf returns the eligible players holding the strongest hand, in
// position order starting left of the dealer.
func (s *GameState) bestOf(eligible []int, values map[int]poker.HandValue) []int {
	var (
		best    int
		winners []int
	)
	for _, idx := range s.positionOrder() {
		if !slices.Contains(eligible, idx) {
			continue
		}
		score := values[idx].Score
		switch {
		case winners == nil || score > best:
			best = score
			winners = []int{idx}
		case score == best:
			winners = append(winners, idx)
		}
	}
	return winners
}

// splitPot divides amount evenly; odd chips go to the first share.
func splitPot(amount, ways int) []int {
	shares := make([]int, ways)
	for i := range shares {
		shares[i] = amount / ways
	}
	shares[0] += amount % ways
	return shares
}

// awardUncontested gives the whole pot to the last player standing.
func (s *GameState) awardUncontested() {
	var winner *Player
	for _, p := range s.Players {
		if p.IsActive {
			winner = p
		}
	}

	winner.Stack += s.Pot
	s.finish(&Result{
		Reason:  ReasonFolds,
		Winners: []Award{{Player: winner.Index, Name: winner.Name, Amount: s.Pot}},
		Pots: []PotResult{{
			Amount:   s.Pot,
			Eligible: []int{winner.Index},
			Winners:  []int{winner.Index},
			Shares:   []int{s.Pot},
		}},
	})
}

func (s *GameState) finish(r *Result) {
	s.Result = r
	s.Pot = 0
	s.Street = Complete
	s.ToAct = -1
	s.RoundClosed = true
}
