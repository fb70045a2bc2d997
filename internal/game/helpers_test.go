package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/poker"
)

// testSetup seats players p0..pN with the given stacks at 20/40 blinds.
func testSetup(dealer int, stacks ...int) Setup {
	seats := make([]Seat, len(stacks))
	for i, stack := range stacks {
		seats[i] = Seat{Name: fmt.Sprintf("p%d", i), Stack: stack}
	}
	return Setup{HandID: "test-hand", Seats: seats, Dealer: dealer, MinBet: 40, Seed: 42}
}

// stackedDeck deals the given cards first: two hole cards per seat in seat
// order, then the flop, turn and river.
func stackedDeck(t *testing.T, cards string) *poker.Deck {
	t.Helper()
	deck, err := poker.NewStackedDeck(poker.MustParseCards(cards)...)
	require.NoError(t, err)
	return deck
}

func newTestHand(t *testing.T, setup Setup, opts ...HandOption) *GameState {
	t.Helper()
	s, err := NewHand(setup, opts...)
	require.NoError(t, err)
	return s
}

// act applies an action for the player to act and fails the test on error.
func act(t *testing.T, s *GameState, kind ActionKind, amount int) *GameState {
	t.Helper()
	require.GreaterOrEqual(t, s.ToAct, 0, "nobody is to act")
	next, err := Apply(s, Action{Player: s.ToAct, Kind: kind, Amount: amount})
	require.NoError(t, err)
	return next
}

func deal(t *testing.T, s *GameState) *GameState {
	t.Helper()
	next, _, err := Deal(s, s.Street+1)
	require.NoError(t, err)
	return next
}

// checkDown checks every remaining street through to the end of the river.
func checkDown(t *testing.T, s *GameState) *GameState {
	t.Helper()
	for !s.IsComplete() {
		for s.ToAct >= 0 {
			s = act(t, s, Check, 0)
		}
		if s.Street == River {
			return s
		}
		s = deal(t, s)
	}
	return s
}

func committed(s *GameState) int {
	total := 0
	for _, p := range s.Players {
		total += p.TotalBet
	}
	return total
}
