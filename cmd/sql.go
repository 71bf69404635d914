package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-pass-metrics/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the load cache",
	Long: `Run an arbitrary SQL query against the load cache and print results as a table.

Schema overview:
  matches(hash, file_name, display_name, delimiter, row_count, teams, columns, loaded_at)
  events(match_hash, row_pos, event_index, team_id, team_name, name, type, outcome,
    x, y, end_x, end_y, minute, qualifiers, prog_pass)

Only raw rows are cached. Progressive, key pass and assist flags are derived on
every run and are not stored. Missing numeric cells are NULL.

Example: passmetrics sql "SELECT name, COUNT(*) FROM events WHERE type = 'Pass' GROUP BY name"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	report.PrintRaw(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
