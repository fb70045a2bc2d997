package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/pokertable/internal/fileutil"
	"github.com/lox/pokertable/internal/handhistory"
	"github.com/lox/pokertable/internal/phh"
	"github.com/lox/pokertable/internal/server"
	"github.com/lox/pokertable/internal/statistics"
	"github.com/lox/pokertable/poker"
)

// HandsCmd groups the hand history commands.
type HandsCmd struct {
	List   HandsListCmd   `cmd:"" help:"List recently completed hands"`
	Export HandsExportCmd `cmd:"" help:"Export a hand as PHH"`
	Replay HandsReplayCmd `cmd:"" help:"Replay a recorded hand and check it reproduces"`
	Stats  HandsStatsCmd  `cmd:"" help:"Show per-player results over recent hands"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
)

func openStore(ctx context.Context, cli *CLI) (handhistory.Store, error) {
	dsn := cli.DB
	if dsn == "" {
		cfg, err := server.LoadConfig(cli.Config)
		if err != nil {
			return nil, err
		}
		cfg.ApplyEnv()
		dsn = cfg.HistoryDSN()
	}
	store, err := handhistory.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open hand history: %w", err)
	}
	return store, nil
}

// HandsListCmd prints a table of recent hands.
type HandsListCmd struct {
	Limit int `short:"n" default:"10" help:"Number of hands to show (max 100)"`
}

func (c *HandsListCmd) Run(cli *CLI) error {
	ctx := context.Background()
	store, err := openStore(ctx, cli)
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.List(ctx, c.Limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No hands recorded yet")
		return nil
	}
	fmt.Println(renderHands(list))
	return nil
}

// renderHands lays summaries out as a table.
func renderHands(list []handhistory.Summary) string {
	rows := make([][]string, 0, len(list))
	for _, h := range list {
		rows = append(rows, []string{
			h.HandID,
			h.TableID,
			h.CompletedAt.Local().Format(time.DateTime),
			strings.Join(h.Players, ", "),
			strings.Join(h.Board, " "),
			strconv.Itoa(h.Pot),
			h.Winner,
			h.Reason,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))).
		Headers("HAND", "TABLE", "COMPLETED", "PLAYERS", "BOARD", "POT", "WINNER", "REASON").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 6:
				return winnerStyle
			default:
				return cellStyle
			}
		}).
		String()
}

// HandsExportCmd writes a hand as a PHH file.
type HandsExportCmd struct {
	HandID string `arg:"" name:"hand-id" help:"Hand to export"`
	Output string `short:"o" help:"Output file (default <hand-id>.phh, - for stdout)"`
}

func (c *HandsExportCmd) Run(cli *CLI) error {
	ctx := context.Background()
	store, err := openStore(ctx, cli)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(ctx, c.HandID)
	if err != nil {
		return err
	}
	hand, err := phh.FromRecord(rec)
	if err != nil {
		return err
	}

	if c.Output == "-" {
		return phh.Encode(os.Stdout, hand)
	}
	out := c.Output
	if out == "" {
		out = filepath.Clean(rec.HandID + ".phh")
	}
	if err := fileutil.WriteAtomic(out, 0o644, func(w io.Writer) error {
		return phh.Encode(w, hand)
	}); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Println(successStyle.Render("Exported"), rec.HandID, "to", out)
	return nil
}

// HandsReplayCmd rebuilds a recorded hand from its setup and actions.
type HandsReplayCmd struct {
	HandID string `arg:"" name:"hand-id" help:"Hand to replay"`
}

func (c *HandsReplayCmd) Run(cli *CLI) error {
	ctx := context.Background()
	store, err := openStore(ctx, cli)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(ctx, c.HandID)
	if err != nil {
		return err
	}
	replayed, matches, err := rec.Replay(poker.NewEvaluator())
	if err != nil {
		return err
	}
	if !matches {
		fmt.Println(errorStyle.Render("Replay diverged"), rec.HandID)
		return fmt.Errorf("replay of hand %s does not match the recorded hand", rec.HandID)
	}

	fmt.Println(successStyle.Render("Replay matches"), rec.HandID)
	if w, ok := replayed.Result.Winner(); ok {
		fmt.Printf("  %s wins %d (%s)\n", w.Name, w.Amount, replayed.Result.Reason)
	}
	return nil
}

// HandsStatsCmd prints per-player results over recent hands.
type HandsStatsCmd struct {
	Limit int `short:"n" default:"100" help:"Number of recent hands to include (max 100)"`
}

func (c *HandsStatsCmd) Run(cli *CLI) error {
	ctx := context.Background()
	store, err := openStore(ctx, cli)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := statistics.Collect(ctx, store, c.Limit)
	if err != nil {
		return err
	}
	if len(report) == 0 {
		fmt.Println("No hands recorded yet")
		return nil
	}
	fmt.Println(renderStats(report.Summaries()))
	return nil
}

func renderStats(players []statistics.Summary) string {
	rows := make([][]string, 0, len(players))
	for _, p := range players {
		rows = append(rows, []string{
			p.Name,
			strconv.Itoa(p.Hands),
			strconv.Itoa(p.NetChips),
			fmt.Sprintf("%.1f", p.BBPer100),
			fmt.Sprintf("[%.2f, %.2f]", p.CILow, p.CIHigh),
			fmt.Sprintf("%d/%d", p.ShowdownWins, p.NonShowdownWins),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))).
		Headers("PLAYER", "HANDS", "NET", "BB/100", "95% CI (BB)", "WINS SD/NSD").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == 0 && col == 0:
				return winnerStyle
			default:
				return cellStyle
			}
		}).
		String()
}
