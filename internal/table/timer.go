package table

import (
	"github.com/lox/pokertable/internal/game"
)

// armTimer starts the turn clock for whoever is to act. The caller holds t.mu.
func (t *Table) armTimer() {
	t.stopTimer()
	if t.cfg.TurnTimeout <= 0 || t.state == nil || t.state.IsComplete() || t.state.ToAct < 0 {
		return
	}

	version, player := t.state.Version, t.state.ToAct
	t.timer = t.clock.AfterFunc(t.cfg.TurnTimeout, func() {
		t.expire(version, player)
	}, "turn", t.cfg.ID)
}

func (t *Table) stopTimer() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// expire folds player if the hand is still waiting on them at version. It
// waits for the lock rather than failing busy, so a timeout is never lost
// to a concurrent request; a request that got there first changes the
// version and the fold is skipped.
func (t *Table) expire(version uint64, player int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == nil || t.state.Version != version || t.state.ToAct != player {
		return
	}
	next, err := game.TimeoutFold(t.state, player)
	if err != nil {
		t.logger.Error("Timeout fold rejected", "hand", t.state.HandID, "player", player, "error", err)
		return
	}
	t.logger.Warn("Player timed out, folding",
		"hand", next.HandID,
		"player", player,
		"name", next.Players[player].Name,
		"timeout", t.cfg.TurnTimeout)
	t.commit(next, EventTimeoutFold)
}

// TimeoutFold folds player on behalf of an external turn clock. It is
// rejected like any fold when player is not the one to act.
func (t *Table) TimeoutFold(player int) (*game.GameState, error) {
	if !t.mu.TryLock() {
		return nil, game.ErrBusy
	}
	defer t.mu.Unlock()

	if t.state == nil {
		return nil, game.Errorf(game.ErrNoHandInProgress, "no hand has been started at table %s", t.cfg.ID)
	}
	next, err := game.TimeoutFold(t.state, player)
	if err != nil {
		return nil, err
	}
	t.logger.Info("Timeout fold requested", "hand", next.HandID, "player", player)
	t.commit(next, EventTimeoutFold)
	return next.Snapshot(), nil
}
