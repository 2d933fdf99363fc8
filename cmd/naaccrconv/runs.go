package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/naaccrconv/internal/db"
	"github.com/gyeh/naaccrconv/internal/exitcode"
	"github.com/gyeh/naaccrconv/internal/ledger"
	"github.com/gyeh/naaccrconv/internal/logging"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent conversion runs from the ledger",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := cmd.Context()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or NAACCRCONV_DB_URL is required")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBError)
	}
	defer pool.Close()

	runs, err := ledger.New(pool, log).Recent(ctx, runsLimit)
	if err != nil {
		log.Error().Err(err).Msg("list runs failed")
		os.Exit(exitcode.DBError)
	}
	renderRuns(os.Stdout, runs)
	return nil
}
