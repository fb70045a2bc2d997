package phh

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lox/pokertable/internal/game"
)

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf strings.Builder
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// FormatAction renders one logged action for the PHH player numbered pos
// (1-based). streetTotal is the player's street commitment after the action
// and raised reports whether it went over the previous high bet.
func FormatAction(pos int, a game.Action, streetTotal int, raised bool) string {
	player := fmt.Sprintf("p%d", pos)
	var out string
	switch a.Kind {
	case game.Fold:
		out = player + " f"
	case game.Check, game.Call:
		out = player + " cc"
	case game.Bet, game.Raise:
		out = fmt.Sprintf("%s cbr %d", player, streetTotal)
	case game.AllIn:
		if raised {
			out = fmt.Sprintf("%s cbr %d", player, streetTotal)
		} else {
			out = player + " cc"
		}
	default:
		return fmt.Sprintf("# %s %s %d", player, a.Kind, a.Amount)
	}
	if a.Timeout {
		out += " # timeout"
	}
	return out
}
