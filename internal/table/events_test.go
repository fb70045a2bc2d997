package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubFiltersByTable(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	main := hub.Subscribe("main", 4)
	all := hub.Subscribe("", 4)
	defer main.Close()
	defer all.Close()

	hub.Publish(Event{Type: EventAction, TableID: "main"})
	hub.Publish(Event{Type: EventAction, TableID: "side"})

	assert.Len(t, main.C, 1)
	assert.Len(t, all.C, 2)
}

func TestHubDropsForSlowSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	sub := hub.Subscribe("main", 1)
	defer sub.Close()

	assert.Zero(t, hub.Publish(Event{TableID: "main", Version: 1}))
	assert.Equal(t, 1, hub.Publish(Event{TableID: "main", Version: 2}))

	ev := <-sub.C
	assert.Equal(t, uint64(1), ev.Version)
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	sub := hub.Subscribe("main", 1)
	sub.Close()
	sub.Close()

	_, open := <-sub.C
	require.False(t, open)
	assert.Zero(t, hub.Publish(Event{TableID: "main"}))
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := NewRegistry("main")
	require.NoError(t, reg.Add(New(Config{ID: "main", MinBet: 40})))
	require.NoError(t, reg.Add(New(Config{ID: "high", MinBet: 400})))
	require.Error(t, reg.Add(New(Config{ID: "main", MinBet: 10})))

	def, err := reg.Default()
	require.NoError(t, err)
	assert.Equal(t, "main", def.ID())

	_, err = reg.Get("missing")
	require.Error(t, err)
	assert.Equal(t, []string{"high", "main"}, reg.IDs())
	reg.Close()
}
