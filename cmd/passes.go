package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pass-metrics/internal/aggregator"
	"github.com/pable/go-pass-metrics/internal/report"
)

var (
	passesSuccessful  bool
	passesProgressive bool
)

var passesCmd = &cobra.Command{
	Use:   "passes <match> <player>",
	Short: "Show a player's pass summary and pass tables",
	Long: `Classify every pass by <player> in <match> and print:
  - volume (successful/total and completion rate), key passes, assists and
    successful progressive passes, always over all of the player's passes;
  - the passes grouped as missed, assists, key passes and completed, each with
    its receiver ("Perte" when the next event belongs to the other team).

--successful and --progressive narrow the tables, not the summary.`,
	Args: cobra.ExactArgs(2),
	RunE: runPasses,
}

func init() {
	passesCmd.Flags().BoolVar(&passesSuccessful, "successful", false, "show successful passes only")
	passesCmd.Flags().BoolVar(&passesProgressive, "progressive", false, "show progressive passes only")
}

func runPasses(cmd *cobra.Command, args []string) error {
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

	player := args[1]
	rep := analyze(mets, match, player, aggregator.Filter{
		SuccessfulOnly:  passesSuccessful,
		ProgressiveOnly: passesProgressive,
	})
	report.PrintMatchSummary(os.Stdout, match.Summary)
	if rep.Summary.Total == 0 {
		fmt.Fprintf(os.Stdout, "No passes by %q in this match.\n", player)
		return nil
	}
	if !match.Columns.CanClassify() {
		fmt.Fprintln(os.Stdout, "Table is missing the columns progressive detection needs; no pass is flagged progressive.")
	}
	report.PrintReport(os.Stdout, rep)
	return nil
}
