package game

import (
	"fmt"

	"github.com/lox/pokertable/poker"
)

// Transcript is the minimal record from which a hand can be rebuilt.
type Transcript struct {
	Setup     Setup    `json:"setup"`
	Actions   []Action `json:"actions"`
	BoardSize int      `json:"board_size"`
	Completed bool     `json:"completed"`
}

// TranscriptOf extracts the transcript of a hand started from setup.
func TranscriptOf(setup Setup, s *GameState) Transcript {
	return Transcript{
		Setup:     setup,
		Actions:   append([]Action(nil), s.Actions...),
		BoardSize: len(s.Community),
		Completed: s.IsComplete(),
	}
}

// Replay rebuilds a hand by starting it from the transcript's setup and
// re-applying every recorded action, dealing streets as the log moves on.
// Given the same setup and deck the result is identical to the original.
func Replay(t Transcript, ranker poker.Ranker, opts ...HandOption) (*GameState, error) {
	s, err := NewHand(t.Setup, opts...)
	if err != nil {
		return nil, err
	}

	for i, a := range t.Actions {
		for s.Street < a.Street {
			if s, _, err = Deal(s, s.Street+1); err != nil {
				return nil, fmt.Errorf("replay action %d: %w", i, err)
			}
		}
		if s, err = Apply(s, a); err != nil {
			return nil, fmt.Errorf("replay action %d (%s): %w", i, a, err)
		}
	}

	for s.Street != Complete && len(s.Community) < t.BoardSize {
		if s, _, err = Deal(s, s.Street+1); err != nil {
			return nil, fmt.Errorf("replay board: %w", err)
		}
	}
	if t.Completed && s.Street != Complete {
		if s, err = Complete(s, ranker); err != nil {
			return nil, fmt.Errorf("replay completion: %w", err)
		}
	}
	return s, nil
}
