package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pass-metrics/internal/config"
	"github.com/pable/go-pass-metrics/internal/logger"
	"github.com/pable/go-pass-metrics/internal/metrics"
)

var (
	cfgFile     string
	dbPath      string
	dataDir     string
	logLevel    string
	metricsFile string
	teamName    string
)

var (
	cfg  *config.Config
	mets = metrics.New()
)

var rootCmd = &cobra.Command{
	Use:   "passmetrics",
	Short: "Football pass metrics tool",
	Long: `Load match event tables (CSV, optionally gzip or zstd compressed),
classify each player's passes as progressive, key passes or assists, resolve
who received them and print per-player pass summaries.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./passmetrics.yaml if present)")
	pf.StringVar(&dbPath, "db", "", "path to the SQLite load cache (default ~/.passmetrics/cache.db)")
	pf.StringVar(&dataDir, "data-dir", "", "directory holding match tables (default ./data)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&metricsFile, "metrics-file", "", "write Prometheus counters to this file after the run")
	pf.StringVar(&teamName, "team", "", "focus team for player selection (default Le Havre)")

	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(passesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

// setup loads the configuration, lets explicitly set flags override it and
// initialises the logger.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, c)
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	logger.Init(cfg.LogLevel)
	logger.Debug("config: data_dir=%s db=%s team=%q", cfg.DataDir, cfg.DBPath, cfg.Team)
	return nil
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DBPath = dbPath
	}
	if flags.Changed("data-dir") {
		c.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("metrics-file") {
		c.MetricsFile = metricsFile
	}
	if flags.Changed("team") {
		c.Team = teamName
	}
}

// teardown writes the run's counters when a metrics file is configured.
func teardown(_ *cobra.Command, _ []string) error {
	if cfg == nil || cfg.MetricsFile == "" {
		return nil
	}
	if err := mets.WriteTextfile(cfg.MetricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	logger.Debug("metrics written to %s", cfg.MetricsFile)
	return nil
}
