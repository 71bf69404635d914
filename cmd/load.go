package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pass-metrics/internal/aggregator"
	"github.com/pable/go-pass-metrics/internal/report"
)

var loadCmd = &cobra.Command{
	Use:   "load <match>",
	Short: "Load a match table into the cache and show its roster",
	Long: `Load a match table and print its header and the focus team's roster.
<match> is a path or a file name in the data directory, with or without ".csv".
Tables already cached under the same content hash are not re-parsed.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	db, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	match, err := loadMatch(db, mets, cfg.DataDir, args[0])
	if noData(os.Stdout, err) {
		return nil
	}
	if err != nil {
		return err
	}

	report.PrintMatchSummary(os.Stdout, match.Summary)
	report.PrintRoster(os.Stdout, aggregator.SelectPool(match, cfg.Team), cfg.Team, "")
	return nil
}
