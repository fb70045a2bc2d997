package game

import (
	"slices"
)

// Pot is a main or side pot and the players who can win it.
type Pot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"` // player indices, ascending
}

// BuildPots splits every chip committed in the hand into layered pots.
//
// Layers are cut at each distinct total commitment of an active all-in
// player, plus a top layer for whatever was committed above the last cut.
// Folded players' chips fill the layers they reached but folded players are
// never eligible. Adjacent layers contested by the same players are merged.
// The amounts always sum to the total committed.
func BuildPots(players []*Player) []Pot {
	var cuts []int
	top := 0
	for _, p := range players {
		top = max(top, p.TotalBet)
		if p.IsActive && p.IsAllIn && p.TotalBet > 0 {
			cuts = append(cuts, p.TotalBet)
		}
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)
	if len(cuts) == 0 || cuts[len(cuts)-1] < top {
		cuts = append(cuts, top)
	}

	var pots []Pot
	carry := 0
	prev := 0
	for _, level := range cuts {
		pot := Pot{Amount: carry}
		carry = 0
		for _, p := range players {
			pot.Amount += min(p.TotalBet, level) - min(p.TotalBet, prev)
			if p.IsActive && p.TotalBet > prev {
				pot.Eligible = append(pot.Eligible, p.Index)
			}
		}
		prev = level

		switch {
		case pot.Amount == 0:
			continue
		case len(pot.Eligible) == 0:
			// Nobody left contests this layer; it goes to the layer below.
			if len(pots) > 0 {
				pots[len(pots)-1].Amount += pot.Amount
			} else {
				carry = pot.Amount
			}
		case len(pots) > 0 && slices.Equal(pots[len(pots)-1].Eligible, pot.Eligible):
			pots[len(pots)-1].Amount += pot.Amount
		default:
			pots = append(pots, pot)
		}
	}
	return pots
}
