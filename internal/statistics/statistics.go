// Package statistics aggregates per-player results over completed hands.
package statistics

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/handhistory"
)

// BigPotBB is the pot size, in big blinds, from which a pot counts as big.
const BigPotBB = 50

// HandResult is one player's outcome in one completed hand.
type HandResult struct {
	HandID         string
	NetChips       int     // chips won minus chips committed
	NetBB          float64 // NetChips in big blinds
	Position       int     // seats after the button; 0 is the button
	WentToShowdown bool
	PotChips       int
	BigBlind       int
}

// Statistics accumulates the results of one player.
type Statistics struct {
	Hands    int       `json:"hands"`
	NetChips int       `json:"net_chips"`
	SumBB    float64   `json:"-"`
	SumBB2   float64   `json:"-"` // sum of squares for variance
	Values   []float64 `json:"-"`

	ShowdownWins    int     `json:"showdown_wins"`
	NonShowdownWins int     `json:"non_showdown_wins"`
	ShowdownBB      float64 `json:"showdown_bb"`
	NonShowdownBB   float64 `json:"non_showdown_bb"`

	MaxPotChips int `json:"max_pot_chips"`
	BigPots     int `json:"big_pots"`
}

// Mean returns the average result in big blinds per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of the per-hand results.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median per-hand result.
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// BBPer100 is the win rate in big blinds per hundred hands.
func (s *Statistics) BBPer100() float64 {
	return s.Mean() * 100
}

// Add incorporates a hand result.
func (s *Statistics) Add(r HandResult) {
	s.Hands++
	s.NetChips += r.NetChips
	s.SumBB += r.NetBB
	s.SumBB2 += r.NetBB * r.NetBB
	s.Values = append(s.Values, r.NetBB)

	if r.WentToShowdown {
		s.ShowdownBB += r.NetBB
		if r.NetChips > 0 {
			s.ShowdownWins++
		}
	} else {
		s.NonShowdownBB += r.NetBB
		if r.NetChips > 0 {
			s.NonShowdownWins++
		}
	}

	s.MaxPotChips = max(s.MaxPotChips, r.PotChips)
	if r.BigBlind > 0 && r.PotChips >= BigPotBB*r.BigBlind {
		s.BigPots++
	}
}

// Validate checks that the accumulated figures are consistent.
func (s *Statistics) Validate() error {
	if math.Abs(s.SumBB-s.ShowdownBB-s.NonShowdownBB) > 1e-6 {
		return fmt.Errorf("ledger mismatch: total=%.6f, showdown=%.6f, non-showdown=%.6f",
			s.SumBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values length (%d) does not match hands count (%d)", len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("total wins (%d) exceeds total hands (%d)", wins, s.Hands)
	}
	return nil
}

// Results extracts every seated player's result from a completed hand,
// keyed by player name.
func Results(handID string, final *game.GameState) (map[string]HandResult, error) {
	if final == nil || !final.IsComplete() || final.Result == nil {
		return nil, fmt.Errorf("hand %s is not complete", handID)
	}

	won := make(map[int]int, len(final.Players))
	for _, a := range final.Result.Winners {
		won[a.Player] += a.Amount
	}
	pot := 0
	for _, p := range final.Players {
		pot += p.TotalBet
	}
	showdown := final.Result.Reason == game.ReasonShowdown

	n := len(final.Players)
	out := make(map[string]HandResult, n)
	for _, p := range final.Players {
		net := won[p.Index] - p.TotalBet
		out[p.Name] = HandResult{
			HandID:         handID,
			NetChips:       net,
			NetBB:          float64(net) / float64(final.MinBet),
			Position:       (p.Index - final.Dealer + n) % n,
			WentToShowdown: showdown && p.IsActive,
			PotChips:       pot,
			BigBlind:       final.MinBet,
		}
	}
	return out, nil
}

// Report holds statistics per player name.
type Report map[string]*Statistics

// Add folds a completed hand into the report.
func (r Report) Add(handID string, final *game.GameState) error {
	results, err := Results(handID, final)
	if err != nil {
		return err
	}
	for name, res := range results {
		st, ok := r[name]
		if !ok {
			st = &Statistics{}
			r[name] = st
		}
		st.Add(res)
	}
	return nil
}

// Players returns the player names ordered by net chips, best first.
func (r Report) Players() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if d := cmp.Compare(r[b].NetChips, r[a].NetChips); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return names
}

// Collect builds a report from the most recent hands in a store and checks
// every player's figures are consistent.
func Collect(ctx context.Context, store handhistory.Store, limit int) (Report, error) {
	list, err := store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	report := Report{}
	for _, h := range list {
		rec, err := store.Get(ctx, h.HandID)
		if err != nil {
			return nil, fmt.Errorf("load hand %s: %w", h.HandID, err)
		}
		if err := report.Add(rec.HandID, rec.Final); err != nil {
			return nil, err
		}
	}
	for _, name := range report.Players() {
		if err := report[name].Validate(); err != nil {
			return nil, fmt.Errorf("statistics for %s: %w", name, err)
		}
	}
	return report, nil
}

// Summary is the reported view of one player's statistics.
type Summary struct {
	Name            string  `json:"name"`
	Hands           int     `json:"hands"`
	NetChips        int     `json:"net_chips"`
	BBPer100        float64 `json:"bb_per_100"`
	StdDev          float64 `json:"std_dev_bb"`
	CILow           float64 `json:"ci95_low"`
	CIHigh          float64 `json:"ci95_high"`
	Median          float64 `json:"median_bb"`
	ShowdownWins    int     `json:"showdown_wins"`
	NonShowdownWins int     `json:"non_showdown_wins"`
	BigPots         int     `json:"big_pots"`
}

// Summaries returns one summary per player, in Players order.
func (r Report) Summaries() []Summary {
	out := make([]Summary, 0, len(r))
	for _, name := range r.Players() {
		st := r[name]
		lo, hi := st.ConfidenceInterval95()
		out = append(out, Summary{
			Name:            name,
			Hands:           st.Hands,
			NetChips:        st.NetChips,
			BBPer100:        st.BBPer100(),
			StdDev:          st.StdDev(),
			CILow:           lo,
			CIHigh:          hi,
			Median:          st.Median(),
			ShowdownWins:    st.ShowdownWins,
			NonShowdownWins: st.NonShowdownWins,
			BigPots:         st.BigPots,
		})
	}
	return out
}
