package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/naaccrconv/internal/catalog"
	"github.com/gyeh/naaccrconv/internal/config"
	"github.com/gyeh/naaccrconv/internal/convert"
	"github.com/gyeh/naaccrconv/internal/exitcode"
	"github.com/gyeh/naaccrconv/internal/logging"
	"github.com/gyeh/naaccrconv/internal/normalize"
	"github.com/gyeh/naaccrconv/internal/rows"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry run: show how an input would be converted (no writes)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.OutputPath, "xml", "", "Output XML path the input is derived from")
	f.StringVar(&cfg.InputPath, "csv", "", "Input CSV or Parquet path")
	f.StringVar(&cfg.InputEncoding, "input-encoding", "", "CSV encoding: utf-8, windows-1252 or iso-8859-1")
	addCatalogFlags(planCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	report, err := buildPlan(&cfg)
	if err != nil {
		exitOnError(log, err, "plan failed")
	}

	if in := report.Inspection; !in.Clustered() {
		log.Warn().
			Strs("reopened", in.Reopened).
			Int64("patient_elements", in.Patients).
			Int64("distinct_patients", in.DistinctPatients).
			Msg("rows are not clustered by patientIdNumber; some patients would be split")
	}

	renderPlan(os.Stdout, report)
	return nil
}

// buildPlan resolves the catalog and scans the input. The input is closed
// before it returns.
func buildPlan(c *config.Config) (planReport, error) {
	fields, err := catalog.FileResolver{Dir: c.CatalogDir}.Resolve(catalog.Request{
		Version:        c.NaaccrVersion,
		RecordType:     c.RecordType,
		DictionaryPath: c.DictionaryPath,
		Fields:         c.Fields,
	})
	if err != nil {
		return planReport{}, err
	}

	sha, size, err := normalize.FileHash(c.InputPath)
	if err != nil {
		return planReport{}, err
	}

	src, err := rows.Open(c.InputPath, rows.Options{Encoding: c.InputEncoding})
	if err != nil {
		return planReport{}, err
	}
	defer src.Close()

	in, err := convert.Inspect(src, catalog.PartitionFields(fields))
	if err != nil {
		return planReport{}, err
	}

	return planReport{
		InputPath:     c.InputPath,
		InputSHA256:   sha,
		InputSize:     size,
		NaaccrVersion: c.NaaccrVersion,
		RecordType:    c.RecordType,
		CatalogFields: len(fields),
		Inspection:    in,
	}, nil
}
