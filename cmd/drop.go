package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pass-metrics/internal/storage"
)

var (
	dropForce bool
	dropMatch string
)

// dropCmd deletes the load cache, or a single match from it.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the load cache",
	Long: `Permanently delete the SQLite load cache. Match tables in the data directory
are untouched; they are re-parsed on next use. With --match, only the cached
rows of the match whose hash starts with the given prefix are removed.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().StringVar(&dropMatch, "match", "", "drop one cached match by hash prefix")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if dropMatch != "" {
		return dropOne(dropMatch)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", cfg.DBPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(cfg.DBPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Cache does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove cache: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", cfg.DBPath)
	return nil
}

func dropOne(prefix string) error {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	m, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if m == nil {
		fmt.Fprintf(os.Stderr, "No cached match with hash prefix %q\n", prefix)
		return nil
	}
	if err := db.DeleteMatch(m.FileHash); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Dropped %s (%s)\n", m.DisplayName, m.FileHash[:12])
	return nil
}
