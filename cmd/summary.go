package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

// summaryCmd is the cobra command for displaying a high-level cache overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the load cache",
	Long: `Display aggregate statistics about every match table in the cache:
match count, load date range, event rows, distinct players and a per-team
breakdown of matches and pass events.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalMatches == 0 {
		fmt.Fprintln(os.Stdout, "No matches cached yet. Run 'passmetrics load <match>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Cache Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Matches cached : %d\n", ov.TotalMatches)
	fmt.Fprintf(os.Stdout, "  Loaded         : %s → %s\n", ov.EarliestLoad, ov.LatestLoad)
	fmt.Fprintf(os.Stdout, "  Event rows     : %d\n", ov.TotalEvents)
	fmt.Fprintf(os.Stdout, "  Players seen   : %d\n", ov.UniquePlayers)

	teams, err := db.GetTeamCounts()
	if err != nil {
		return fmt.Errorf("get team counts: %w", err)
	}
	if len(teams) == 0 {
		return nil
	}
	fmt.Fprintf(os.Stdout, "\n--- Teams ---\n\n")
	tt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	tt.Header("TEAM", "MATCHES", "PASSES")
	for _, t := range teams {
		tt.Append(t.TeamName, fmt.Sprintf("%d", t.Matches), fmt.Sprintf("%d", t.Passes))
	}
	tt.Render()
	return nil
}
