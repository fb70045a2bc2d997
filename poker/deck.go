package poker

import (
	"errors"
	"math/rand/v2"
)

// ErrDeckExhausted is returned when more cards are requested than remain.
var ErrDeckExhausted = errors.New("poker: deck exhausted")

// Deck represents a standard 52-card deck. Cards are issued in shuffled order
// and never repeat until the deck is reset.
type Deck struct {
	cards [DeckSize]Card // Fixed size array
	next  int
	rng   *rand.Rand // Random source for deterministic shuffling
}

// NewDeck creates a new shuffled deck with explicit RNG
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for suit := range uint8(4) {
		for rank := range uint8(13) {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.Shuffle()
	return d
}

// NewStackedDeck returns a deck that deals the given cards first, in order,
// followed by the remaining cards in a fixed order. Used to script deals.
func NewStackedDeck(top ...Card) (*Deck, error) {
	d := &Deck{}
	seen := make(map[Card]bool, DeckSize)
	i := 0
	for _, c := range top {
		if !c.Valid() || seen[c] {
			return nil, errors.New("poker: stacked deck has invalid or duplicate card " + c.String())
		}
		seen[c] = true
		d.cards[i] = c
		i++
	}
	for c := range Card(DeckSize) {
		if !seen[c] {
			d.cards[i] = c
			i++
		}
	}
	return d, nil
}

// Shuffle shuffles the deck using Fisher-Yates
func (d *Deck) Shuffle() {
	d.next = 0
	if d.rng == nil {
		return
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards from the deck
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 || d.next+n > len(d.cards) {
		return nil, ErrDeckExhausted
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards, nil
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}

// Clone returns an independent copy that will deal the same remaining cards.
// The copy shares the RNG, so only the original should be reshuffled.
func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	cp := *d
	return &cp
}
