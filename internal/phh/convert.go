package phh

import (
	"fmt"
	"strings"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/handhistory"
	"github.com/lox/pokertable/poker"
)

// FromRecord converts a completed hand into PHH. Seats are rotated so the
// small blind comes first, as PHH expects.
func FromRecord(rec *handhistory.Record) (*HandHistory, error) {
	final := rec.Final
	if final == nil || !final.IsComplete() {
		return nil, fmt.Errorf("phh: hand %s is not complete", rec.HandID)
	}
	n := len(final.Players)
	if len(rec.Setup.Seats) != n {
		return nil, fmt.Errorf("phh: hand %s has %d seats but %d players", rec.HandID, len(rec.Setup.Seats), n)
	}

	// order[k] is the player index shown as p(k+1).
	order := make([]int, n)
	pos := make(map[int]int, n)
	for k := range n {
		order[k] = (final.SmallBlind + k) % n
		pos[order[k]] = k + 1
	}

	hand := &HandHistory{
		Variant:           "NT",
		Table:             rec.TableID,
		SeatCount:         n,
		MinBet:            final.MinBet,
		HandID:            rec.HandID,
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
	}
	if !rec.StartedAt.IsZero() {
		ts := rec.StartedAt.UTC()
		hand.Time = ts.Format("15:04:05")
		hand.TimeZone = "UTC"
		hand.Day, hand.Month, hand.Year = ts.Day(), int(ts.Month()), ts.Year()
	}

	won := make(map[int]int)
	for _, w := range final.Result.Winners {
		won[w.Player] += w.Amount
	}

	streetBets := make([]int, n)
	for k, idx := range order {
		p := final.Players[idx]
		hand.Seats = append(hand.Seats, idx+1)
		hand.Players = append(hand.Players, p.Name)
		hand.StartingStacks = append(hand.StartingStacks, rec.Setup.Seats[idx].Stack)
		hand.FinishingStacks = append(hand.FinishingStacks, p.Stack)
		hand.Winnings = append(hand.Winnings, won[idx])
		hand.Actions = append(hand.Actions, fmt.Sprintf("d dh p%d %s", k+1, joinCards(p.Cards)))
	}

	// Blinds as posted, capped at the poster's stack.
	sb := min(final.MinBet/2, rec.Setup.Seats[final.SmallBlind].Stack)
	bb := min(final.MinBet, rec.Setup.Seats[final.BigBlind].Stack)
	hand.BlindsOrStraddles[pos[final.SmallBlind]-1] = sb
	hand.BlindsOrStraddles[pos[final.BigBlind]-1] = bb
	streetBets[final.SmallBlind] = sb
	streetBets[final.BigBlind] = bb
	high := final.MinBet

	street := game.Preflop
	dealt := 0
	for _, a := range final.Actions {
		for street < a.Street {
			street++
			dealt = dealBoard(hand, final.Community, street, dealt)
			clear(streetBets)
			high = 0
		}

		total := streetBets[a.Player] + a.Amount
		if a.Kind == game.Bet || a.Kind == game.Raise {
			total = a.Amount
		}
		streetBets[a.Player] = total
		raised := total > high
		hand.Actions = append(hand.Actions, FormatAction(pos[a.Player], a, total, raised))
		high = max(high, total)
	}
	for street < game.River && dealt < len(final.Community) {
		street++
		dealt = dealBoard(hand, final.Community, street, dealt)
	}

	if final.Result.Reason == game.ReasonShowdown {
		for _, idx := range order {
			if p := final.Players[idx]; p.IsActive {
				hand.Actions = append(hand.Actions, fmt.Sprintf("p%d sm %s", pos[idx], joinCards(p.Cards)))
			}
		}
	}
	return hand, nil
}

// dealBoard appends the board deal for street and returns how many
// community cards have now been shown.
func dealBoard(hand *HandHistory, community []poker.Card, street game.Street, dealt int) int {
	want := map[game.Street]int{game.Flop: 3, game.Turn: 4, game.River: 5}[street]
	if want > len(community) || want <= dealt {
		return dealt
	}
	hand.Actions = append(hand.Actions, "d db "+joinCards(community[dealt:want]))
	return want
}

func joinCards(cards []poker.Card) string {
	return strings.Join(poker.Strings(cards), "")
}
