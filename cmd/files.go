package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pass-metrics/internal/parser"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List match tables in the data directory",
	Args:  cobra.NoArgs,
	RunE:  runFiles,
}

func runFiles(cmd *cobra.Command, args []string) error {
	files, err := parser.ListMatchFiles(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stdout, "No match tables in %s. Add .csv files there first.\n", cfg.DataDir)
		return nil
	}
	for _, f := range files {
		fmt.Fprintf(os.Stdout, "  %-40s  %s\n", parser.DisplayName(f), f)
	}
	return nil
}
