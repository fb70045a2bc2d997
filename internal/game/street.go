package game

import "fmt"

// Street is the betting round a hand is on.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Complete
)

var streetNames = [...]string{"preflop", "flop", "turn", "river", "complete"}

func (s Street) String() string {
	if s < Preflop || s > Complete {
		return fmt.Sprintf("street(%d)", int(s))
	}
	return streetNames[s]
}

// ParseStreet converts the wire name of a street.
func ParseStreet(s string) (Street, error) {
	for i, name := range streetNames {
		if name == s {
			return Street(i), nil
		}
	}
	return 0, Errorf(ErrInvalid, "unknown street %q", s)
}

func (s Street) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Street) UnmarshalText(text []byte) error {
	st, err := ParseStreet(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// boardCards is the number of community cards dealt when moving to s.
func (s Street) boardCards() int {
	switch s {
	case Flop:
		return 3
	case Turn, River:
		return 1
	default:
		return 0
	}
}

