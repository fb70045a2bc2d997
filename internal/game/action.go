package game

import "fmt"

// ActionKind is the closed set of player actions.
type ActionKind int

const (
	Fold ActionKind = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

var actionNames = [...]string{"fold", "check", "call", "bet", "raise", "all_in"}

func (a ActionKind) String() string {
	if a < Fold || a > AllIn {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseActionKind converts the wire name of an action.
func ParseActionKind(s string) (ActionKind, error) {
	for i, name := range actionNames {
		if name == s {
			return ActionKind(i), nil
		}
	}
	return 0, Errorf(ErrInvalid, "unknown action type %q", s)
}

func (a ActionKind) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *ActionKind) UnmarshalText(text []byte) error {
	k, err := ParseActionKind(string(text))
	if err != nil {
		return err
	}
	*a = k
	return nil
}

// needsAmount reports whether the caller has to supply an amount.
func (a ActionKind) needsAmount() bool { return a == Bet || a == Raise }

// Action is one entry of the hand's action log. It is immutable once recorded.
//
// Amount semantics: for bet and raise it is the player's new total commitment
// for the street; for call and all_in the log records the chips actually
// paid, which the engine derives itself.
type Action struct {
	Player  int        `json:"player_index"`
	Kind    ActionKind `json:"action_type"`
	Amount  int        `json:"amount"`
	Street  Street     `json:"street"`
	Timeout bool       `json:"timeout,omitempty"`
}

func (a Action) String() string {
	switch a.Kind {
	case Fold, Check:
		return fmt.Sprintf("p%d %s", a.Player, a.Kind)
	default:
		return fmt.Sprintf("p%d %s %d", a.Player, a.Kind, a.Amount)
	}
}

// ActionOption describes one action the player to act may take, with the
// inclusive amount range where an amount applies.
type ActionOption struct {
	Kind ActionKind `json:"action_type"`
	Min  int        `json:"min_amount,omitempty"`
	Max  int        `json:"max_amount,omitempty"`
}
