package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-pass-metrics/internal/aggregator"
	"github.com/pable/go-pass-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// shortHash trims a hash for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// PrintMatchSummary prints a one-line header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	teams := "—"
	if len(s.Teams) > 0 {
		teams = strings.Join(s.Teams, " vs ")
	}
	fmt.Fprintf(w, "\nMatch: %s  |  Teams: %s  |  Rows: %d  |  Sep: %q  |  Hash: %s\n\n",
		s.DisplayName, teams, s.RowCount, s.Delimiter, shortHash(s.FileHash))
}

// PrintPassSummary prints the headline metrics for one player: volume with
// completion rate, key passes, assists and successful progressive passes.
func PrintPassSummary(w io.Writer, player string, s model.PassSummary) {
	table := newTable(w)
	table.Header("PLAYER", "VOLUME", "SUCCESS%", "KEY", "ASSISTS", "PROGRESSIVE")
	table.Append(
		player,
		fmt.Sprintf("%d/%d", s.Successful, s.Total),
		fmt.Sprintf("%.0f%%", s.SuccessPct()),
		strconv.Itoa(s.KeyPasses),
		strconv.Itoa(s.Assists),
		strconv.Itoa(s.ProgressiveSuccessful),
	)
	table.Render()
}

// PrintPassTable prints one display category.
// Columns: MIN | FROM | TO | RECEIVER | PROG
func PrintPassTable(w io.Writer, category model.PassCategory, passes []model.ClassifiedPass) {
	fmt.Fprintf(w, "\n--- %s (%d) ---\n\n", category, len(passes))
	if len(passes) == 0 {
		return
	}
	table := newTable(w)
	table.Header("MIN", "FROM", "TO", "RECEIVER", "PROG")
	for _, p := range passes {
		prog := ""
		if p.IsProgressive {
			prog = "✓"
		}
		table.Append(
			p.MinuteLabel(),
			coord(p.X, p.Y),
			coord(p.EndX, p.EndY),
			p.Receiver,
			prog,
		)
	}
	table.Render()
}

// PrintReport prints the summary and every non-empty category in display order.
func PrintReport(w io.Writer, rep aggregator.Report) {
	PrintPassSummary(w, rep.Player, rep.Summary)
	if rep.Filter.SuccessfulOnly || rep.Filter.ProgressiveOnly {
		fmt.Fprintf(w, "\nFilters: %s  (%d passes shown)\n", filterLabel(rep.Filter), len(rep.Passes))
	}
	for _, c := range model.Categories {
		if len(rep.Categories[c]) == 0 {
			continue
		}
		PrintPassTable(w, c, rep.Categories[c])
	}
}

// PrintRoster prints the selectable players. If focus is non-empty, that
// player's row is marked with ">".
func PrintRoster(w io.Writer, pool aggregator.Pool, team, focus string) {
	switch {
	case pool.Kind == aggregator.PoolTeam:
		fmt.Fprintf(w, "Players (%s):\n", team)
	case team != "":
		fmt.Fprintf(w, "Players (no rows for %q, showing all):\n", team)
	default:
		fmt.Fprintln(w, "Players:")
	}
	for _, name := range pool.Roster() {
		marker := " "
		if name == focus {
			marker = ">"
		}
		fmt.Fprintf(w, "%s %s\n", marker, name)
	}
}

// PrintMatchList prints cached matches.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("HASH", "MATCH", "TEAMS", "ROWS", "SEP", "LOADED")
	for _, m := range matches {
		table.Append(
			shortHash(m.FileHash),
			m.DisplayName,
			strings.Join(m.Teams, " / "),
			strconv.Itoa(m.RowCount),
			m.Delimiter,
			m.LoadedAt,
		)
	}
	table.Render()
}

// PrintRaw prints an arbitrary result set.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
}

func filterLabel(f aggregator.Filter) string {
	var parts []string
	if f.SuccessfulOnly {
		parts = append(parts, "successful")
	}
	if f.ProgressiveOnly {
		parts = append(parts, "progressive")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " + ")
}

func coord(x, y float64) string {
	return fmt.Sprintf("(%s, %s)", num(x), num(y))
}

func num(f float64) string {
	if math.IsNaN(f) {
		return "—"
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}
