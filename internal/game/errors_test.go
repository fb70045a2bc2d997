package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatching(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("apply: %w", Errorf(ErrOutOfTurn, "player %d is to act", 2))

	assert.True(t, errors.Is(err, ErrOutOfTurn))
	assert.False(t, errors.Is(err, ErrPlayerNotActive))
	assert.Equal(t, KindIllegalAction, KindOf(err))
	assert.Equal(t, "apply: OutOfTurn: player 2 is to act", err.Error())
	assert.False(t, IsRetryable(err))

	assert.True(t, IsRetryable(ErrBusy))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestActionWireNames(t *testing.T) {
	t.Parallel()

	for _, kind := range []ActionKind{Fold, Check, Call, Bet, Raise, AllIn} {
		parsed, err := ParseActionKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
	_, err := ParseActionKind("shove")
	require.ErrorIs(t, err, ErrInvalid)

	var a Action
	require.NoError(t, json.Unmarshal([]byte(`{"player_index":1,"action_type":"all_in","street":"turn"}`), &a))
	assert.Equal(t, Action{Player: 1, Kind: AllIn, Street: Turn}, a)

	require.Error(t, json.Unmarshal([]byte(`{"action_type":"limp"}`), &a))
}
