package main

import (
	"fmt"
	"os"

	crdb "github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/naaccrconv/internal/catalog"
	"github.com/gyeh/naaccrconv/internal/convert"
	"github.com/gyeh/naaccrconv/internal/db"
	"github.com/gyeh/naaccrconv/internal/exitcode"
	"github.com/gyeh/naaccrconv/internal/ledger"
	"github.com/gyeh/naaccrconv/internal/logging"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a CSV or Parquet extract into a NAACCR XML document",
	RunE:  runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringVar(&cfg.OutputPath, "xml", "", "Output XML path, gzipped when it ends in .gz (required)")
	f.StringVar(&cfg.InputPath, "csv", "", "Input CSV or Parquet path (default derived from --xml)")
	f.StringVar(&cfg.InputEncoding, "input-encoding", "", "CSV encoding: utf-8, windows-1252 or iso-8859-1")
	f.BoolVar(&cfg.Cleanup, "cleanup", false, "Delete the input after a successful conversion")
	f.BoolVar(&cfg.Force, "force", false, "Convert even if the ledger shows this input already converted")
	addCatalogFlags(convertCmd)
	_ = convertCmd.MarkFlagRequired("xml")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := cmd.Context()

	if err := cfg.ValidateWithOutput(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	var rec convert.Recorder
	if cfg.DSN != "" {
		pool, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBError)
		}
		defer pool.Close()
		rec = ledger.New(pool, log)
	}

	summary, err := convert.Run(ctx, log, &cfg, catalog.FileResolver{Dir: cfg.CatalogDir}, rec)
	if err != nil {
		exitOnError(log, err, "conversion failed")
	}

	if summary.Skipped {
		fmt.Printf("Skipped: %s was already converted (sha256 %s); use --force to convert again\n",
			summary.InputPath, summary.InputSHA256)
		return nil
	}
	fmt.Printf("Conversion complete: %d rows, %d patients, %d tumors → %s (%.1fs)\n",
		summary.RowsRead, summary.Patients, summary.Tumors, summary.OutputPath, summary.DurationTotal.Seconds())
	return nil
}

// exitOnError logs err with its phase and hints and exits with the code for
// its kind.
func exitOnError(log zerolog.Logger, err error, msg string) {
	code := exitcode.For(err)
	ev := log.Error().Err(err)
	var pe *convert.PipelineError
	if crdb.As(err, &pe) {
		ev = ev.Str("phase", pe.Phase)
		if pe.Phase == "ledger" {
			code = exitcode.DBError
		}
	}
	ev.Int("exit_code", code).Msg(msg)
	if hint := crdb.FlattenHints(err); hint != "" {
		fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
	}
	os.Exit(code)
}
