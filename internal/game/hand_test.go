package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandPostsBlinds(t *testing.T) {
	t.Parallel()

	s := newTestHand(t, testSetup(0, 1000, 1000, 1000))

	assert.Equal(t, Preflop, s.Street)
	assert.Equal(t, 1, s.SmallBlind)
	assert.Equal(t, 2, s.BigBlind)
	assert.Equal(t, 0, s.ToAct)
	assert.Equal(t, 60, s.Pot)
	assert.Equal(t, 40, s.MaxBet)
	assert.Equal(t, 40, s.LastRaise)
	assert.Equal(t, 980, s.Players[1].Stack)
	assert.Equal(t, 960, s.Players[2].Stack)
	assert.Equal(t, uint64(1), s.Version)
	assert.Equal(t, 3000, s.Chips())

	seen := map[string]bool{}
	for _, p := range s.Players {
		require.Len(t, p.Cards, 2)
		for _, c := range p.Cards {
			assert.False(t, seen[c.String()], "card %s dealt twice", c)
			seen[c.String()] = true
		}
	}
}

func TestNewHandHeadsUp(t *testing.T) {
	t.Parallel()

	s := newTestHand(t, testSetup(0, 1000, 1000))

	assert.Equal(t, 0, s.SmallBlind, "dealer posts the small blind heads-up")
	assert.Equal(t, 1, s.BigBlind)
	assert.Equal(t, 0, s.ToAct, "dealer acts first preflop")

	s = act(t, s, Call, 0)
	assert.Equal(t, 1, s.ToAct, "big blind keeps the option")
	s = act(t, s, Check, 0)
	assert.True(t, s.RoundClosed)

	s = deal(t, s)
	assert.Equal(t, 1, s.ToAct, "big blind acts first after the flop")
}

func TestNewHandShortBlinds(t *testing.T) {
	t.Parallel()

	s := newTestHand(t, testSetup(0, 1000, 10, 30))

	assert.True(t, s.Players[1].IsAllIn)
	assert.Equal(t, 10, s.Players[1].CurrentBet)
	assert.True(t, s.Players[2].IsAllIn)
	assert.Equal(t, 30, s.Players[2].CurrentBet)
	assert.Equal(t, 40, s.MaxBet, "the table bet stays at the big blind")
	assert.Equal(t, 0, s.ToAct)

	s = act(t, s, Call, 0)
	assert.True(t, s.RoundClosed)
	assert.Equal(t, 80, s.Pot)
}

func TestNewHandSeedIsDeterministic(t *testing.T) {
	t.Parallel()

	a := newTestHand(t, testSetup(1, 500, 500, 500))
	b := newTestHand(t, testSetup(1, 500, 500, 500))
	assert.Equal(t, a.Snapshot(), b.Snapshot())

	other := testSetup(1, 500, 500, 500)
	other.Seed = 7
	c := newTestHand(t, other)
	assert.NotEqual(t, a.Players[0].Cards, c.Players[0].Cards)
}

func TestSetupValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Setup)
	}{
		{"one player", func(s *Setup) { s.Seats = s.Seats[:1] }},
		{"too many players", func(s *Setup) {
			for range MaxSeats {
				s.Seats = append(s.Seats, Seat{Name: "x" + string(rune('a'+len(s.Seats))), Stack: 100})
			}
		}},
		{"zero big blind", func(s *Setup) { s.MinBet = 0 }},
		{"dealer out of range", func(s *Setup) { s.Dealer = 3 }},
		{"empty name", func(s *Setup) { s.Seats[0].Name = "" }},
		{"duplicate name", func(s *Setup) { s.Seats[1].Name = s.Seats[0].Name }},
		{"no chips", func(s *Setup) { s.Seats[2].Stack = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			setup := testSetup(0, 1000, 1000, 1000)
			tt.mutate(&setup)
			_, err := NewHand(setup)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}

func TestSetupValidateTableLimit(t *testing.T) {
	t.Parallel()

	setup := testSetup(0, 100, 100, 100)
	require.NoError(t, setup.Validate(3))
	require.ErrorIs(t, setup.Validate(2), ErrInvalid)
}

func TestDealSequence(t *testing.T) {
	t.Parallel()

	s := newTestHand(t, testSetup(0, 1000, 1000, 1000))

	_, _, err := Deal(s, Flop)
	require.ErrorIs(t, err, ErrStreetNotComplete)

	s = act(t, s, Call, 0)
	s = act(t, s, Call, 0)
	s = act(t, s, Check, 0)

	_, _, err = Deal(s, Turn)
	require.ErrorIs(t, err, ErrWrongStreet)
	assert.Equal(t, KindSequence, KindOf(err))

	s, flop, err := Deal(s, Flop)
	require.NoError(t, err)
	assert.Len(t, flop, 3)
	assert.Len(t, s.Community, 3)
	assert.Equal(t, 0, s.MaxBet)
	assert.Equal(t, 1, s.ToAct, "first active player left of the dealer")
	for _, p := range s.Players {
		assert.Zero(t, p.CurrentBet)
	}

	_, _, err = Deal(s, Flop)
	require.ErrorIs(t, err, ErrWrongStreet)

	s = checkDown(t, s)
	assert.Equal(t, River, s.Street)
	assert.Len(t, s.Community, 5)

	_, _, err = Deal(s, Complete)
	require.ErrorIs(t, err, ErrWrongStreet)
}

func TestDealSkipsAllInPlayers(t *testing.T) {
	t.Parallel()

	s := newTestHand(t, testSetup(0, 1000, 1000, 1000))
	s = act(t, s, AllIn, 0) // p0 shoves
	s = act(t, s, Call, 0)  // p1 calls all-in
	s = act(t, s, Call, 0)  // p2 calls all-in
	require.True(t, s.RoundClosed)

	for s.Street != River {
		s = deal(t, s)
		assert.Equal(t, -1, s.ToAct, "nobody can act with everyone all-in")
		assert.True(t, s.RoundClosed)
	}
}
