package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pass-metrics/internal/aggregator"
	"github.com/pable/go-pass-metrics/internal/report"
)

var playersCmd = &cobra.Command{
	Use:   "players <match>",
	Short: "List the selectable players of a match",
	Long: `List the players of the focus team (--team). When the table has no
team name column or the team does not appear, every player is listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlayers,
}

func runPlayers(cmd *cobra.Command, args []string) error {
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
	report.PrintRoster(os.Stdout, aggregator.SelectPool(match, cfg.Team), cfg.Team, "")
	return nil
}
