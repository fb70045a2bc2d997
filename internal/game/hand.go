package game

import (
	"fmt"

	"github.com/lox/pokertable/internal/randutil"
	"github.com/lox/pokertable/poker"
)

const (
	// MinPlayers and MaxSeats bound the number of players in a hand.
	MinPlayers = 2
	MaxSeats   = 10
)

// Seat is a player joining a hand and the chips they bring.
type Seat struct {
	Name  string `json:"name"`
	Stack int    `json:"stack"`
}

// Setup is everything needed to start a hand deterministically.
type Setup struct {
	HandID string `json:"hand_id"`
	Seats  []Seat `json:"seats"`
	Dealer int    `json:"dealer"`
	MinBet int    `json:"min_bet"` // the big blind; the small blind is half
	Seed   int64  `json:"seed"`
}

// Validate checks the setup. maxPlayers caps the seat count; zero means MaxSeats.
func (s Setup) Validate(maxPlayers int) error {
	if maxPlayers <= 0 || maxPlayers > MaxSeats {
		maxPlayers = MaxSeats
	}
	if len(s.Seats) < MinPlayers || len(s.Seats) > maxPlayers {
		return Errorf(ErrInvalid, "need between %d and %d players, got %d", MinPlayers, maxPlayers, len(s.Seats))
	}
	if s.MinBet < 2 {
		return Errorf(ErrInvalid, "big blind must be at least 2, got %d", s.MinBet)
	}
	if s.Dealer < 0 || s.Dealer >= len(s.Seats) {
		return Errorf(ErrInvalid, "dealer %d out of range", s.Dealer)
	}
	names := make(map[string]bool, len(s.Seats))
	for i, seat := range s.Seats {
		if seat.Name == "" {
			return Errorf(ErrInvalid, "player %d has no name", i)
		}
		if names[seat.Name] {
			return Errorf(ErrInvalid, "duplicate player name %q", seat.Name)
		}
		names[seat.Name] = true
		if seat.Stack <= 0 {
			return Errorf(ErrInvalid, "player %q has no chips", seat.Name)
		}
	}
	return nil
}

// HandOption configures hand creation.
type HandOption func(*handConfig)

type handConfig struct {
	deck *poker.Deck
}

// WithDeck deals from the given deck instead of one shuffled from the seed.
func WithDeck(deck *poker.Deck) HandOption {
	return func(c *handConfig) {
		c.deck = deck
	}
}

// NewHand deals a new hand: hole cards go out two at a time in seat order,
// blinds are posted (capped at the poster's stack) and the first player to
// act is chosen. Heads-up, the dealer posts the small blind and acts first
// before the flop.
func NewHand(setup Setup, opts ...HandOption) (*GameState, error) {
	if err := setup.Validate(MaxSeats); err != nil {
		return nil, err
	}

	cfg := &handConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	deck := cfg.deck.Clone()
	if deck == nil {
		deck = poker.NewDeck(randutil.New(setup.Seed))
	}

	n := len(setup.Seats)
	s := &GameState{
		HandID:    setup.HandID,
		Version:   1,
		Players:   make([]*Player, n),
		Street:    Preflop,
		Dealer:    setup.Dealer,
		MinBet:    setup.MinBet,
		MaxBet:    setup.MinBet,
		LastRaise: setup.MinBet,
		deck:      deck,
	}
	for i, seat := range setup.Seats {
		cards, err := deck.Deal(2)
		if err != nil {
			return nil, fmt.Errorf("deal hole cards: %w", err)
		}
		s.Players[i] = &Player{
			Index:    i,
			Name:     seat.Name,
			Stack:    seat.Stack,
			Cards:    cards,
			IsActive: true,
		}
	}

	if n == 2 {
		s.SmallBlind = setup.Dealer
	} else {
		s.SmallBlind = (setup.Dealer + 1) % n
	}
	s.BigBlind = (s.SmallBlind + 1) % n

	sb := s.Players[s.SmallBlind]
	s.commit(sb, min(setup.MinBet/2, sb.Stack))
	bb := s.Players[s.BigBlind]
	s.commit(bb, min(setup.MinBet, bb.Stack))

	s.settle(s.BigBlind + 1)
	return s, nil
}

// Deal moves a hand whose current street's betting has closed to the next
// street: three cards for the flop, one each for the turn and river. Street
// bets reset and the first player left of the dealer who can act is to act.
func Deal(s *GameState, street Street) (*GameState, []poker.Card, error) {
	if s.Street == Complete {
		return nil, nil, Errorf(ErrHandAlreadyComplete, "hand %s is complete", s.HandID)
	}
	if street < Flop || street > River || street != s.Street+1 {
		return nil, nil, Errorf(ErrWrongStreet, "cannot deal the %s on the %s", street, s.Street)
	}
	if !s.roundClosed() {
		return nil, nil, Errorf(ErrStreetNotComplete, "betting on the %s is still open", s.Street)
	}
	if s.deck == nil {
		return nil, nil, Errorf(ErrActionNotAllowedInState, "hand %s has no deck", s.HandID)
	}

	next := s.Clone()
	cards, err := next.deck.Deal(street.boardCards())
	if err != nil {
		return nil, nil, fmt.Errorf("deal %s: %w", street, err)
	}
	next.Community = append(next.Community, cards...)
	next.Street = street
	next.MaxBet = 0
	next.LastRaise = 0
	for _, p := range next.Players {
		p.CurrentBet = 0
		p.Acted = false
	}
	next.Version++
	next.settle(next.Dealer + 1)
	return next, cards, nil
}
