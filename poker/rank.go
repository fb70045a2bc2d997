package poker

import (
	"fmt"

	ph "github.com/paulhankin/poker"
)

// HandValue is the strength of a seven-card hand. Higher scores are stronger;
// equal scores tie.
type HandValue struct {
	Score       int
	Description string
}

// Ranker ranks a player's hole cards together with a full board.
type Ranker interface {
	Rank(hole, board []Card) (HandValue, error)
}

// Evaluator is the production Ranker backed by github.com/paulhankin/poker.
type Evaluator struct{}

// NewEvaluator returns the default hand ranking oracle.
func NewEvaluator() Evaluator { return Evaluator{} }

// Rank evaluates the best five-card hand from two hole cards and five board cards.
func (Evaluator) Rank(hole, board []Card) (HandValue, error) {
	if len(hole) != 2 || len(board) != 5 {
		return HandValue{}, fmt.Errorf("poker: need 2 hole and 5 board cards, got %d and %d", len(hole), len(board))
	}

	var seven [7]ph.Card
	all := make([]ph.Card, 0, 7)
	for i, c := range append(append([]Card{}, board...), hole...) {
		pc, err := toLibraryCard(c)
		if err != nil {
			return HandValue{}, err
		}
		seven[i] = pc
		all = append(all, pc)
	}

	value := HandValue{Score: int(ph.Eval7(&seven))}
	if desc, err := ph.Describe(all); err == nil {
		value.Description = desc
	}
	return value, nil
}

// toLibraryCard converts to the library's representation, where ranks run
// 1..13 with the ace as 1.
func toLibraryCard(c Card) (ph.Card, error) {
	if !c.Valid() {
		return 0, fmt.Errorf("poker: invalid card %d", uint8(c))
	}

	var suit ph.Suit
	switch c.Suit() {
	case Clubs:
		suit = ph.Club
	case Diamonds:
		suit = ph.Diamond
	case Hearts:
		suit = ph.Heart
	default:
		suit = ph.Spade
	}

	rank := ph.Rank(c.Rank() + 2)
	if c.Rank() == Ace {
		rank = ph.Rank(1)
	}
	return ph.MakeCard(suit, rank)
}
