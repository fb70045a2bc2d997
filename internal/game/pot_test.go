package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func contributor(index, total int, active, allIn bool) *Player {
	return &Player{Index: index, TotalBet: total, IsActive: active, IsAllIn: allIn}
}

func TestBuildPots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		players []*Player
		want    []Pot
	}{
		{
			name: "no all-ins",
			players: []*Player{
				contributor(0, 100, true, false),
				contributor(1, 100, true, false),
				contributor(2, 40, false, false),
			},
			want: []Pot{{Amount: 240, Eligible: []int{0, 1}}},
		},
		{
			name: "short stack all-in against two callers",
			players: []*Player{
				contributor(0, 100, true, true),
				contributor(1, 300, true, true),
				contributor(2, 300, true, false),
			},
			want: []Pot{
				{Amount: 300, Eligible: []int{0, 1, 2}},
				{Amount: 400, Eligible: []int{1, 2}},
			},
		},
		{
			name: "three all-in levels",
			players: []*Player{
				contributor(0, 50, true, true),
				contributor(1, 150, true, true),
				contributor(2, 400, true, false),
				contributor(3, 400, true, false),
			},
			want: []Pot{
				{Amount: 200, Eligible: []int{0, 1, 2, 3}},
				{Amount: 300, Eligible: []int{1, 2, 3}},
				{Amount: 500, Eligible: []int{2, 3}},
			},
		},
		{
			name: "folded chips fill layers without eligibility",
			players: []*Player{
				contributor(0, 50, false, false),
				contributor(1, 100, true, true),
				contributor(2, 200, true, false),
				contributor(3, 200, true, false),
			},
			want: []Pot{
				{Amount: 350, Eligible: []int{1, 2, 3}},
				{Amount: 200, Eligible: []int{2, 3}},
			},
		},
		{
			name: "equal all-ins share one layer",
			players: []*Player{
				contributor(0, 200, true, true),
				contributor(1, 200, true, true),
				contributor(2, 200, true, false),
			},
			want: []Pot{{Amount: 600, Eligible: []int{0, 1, 2}}},
		},
		{
			name: "uncontested top layer returns to the last eligible pot",
			players: []*Player{
				contributor(0, 100, true, true),
				contributor(1, 100, true, false),
				contributor(2, 300, false, false),
			},
			want: []Pot{{Amount: 500, Eligible: []int{0, 1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pots := BuildPots(tt.players)
			assert.Equal(t, tt.want, pots)

			total, committed := 0, 0
			for _, p := range pots {
				total += p.Amount
			}
			for _, p := range tt.players {
				committed += p.TotalBet
			}
			assert.Equal(t, committed, total, "pots must account for every chip")
		})
	}
}
