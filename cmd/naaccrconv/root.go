package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/naaccrconv/internal/catalog"
	"github.com/gyeh/naaccrconv/internal/config"
	"github.com/gyeh/naaccrconv/internal/exitcode"
	"github.com/gyeh/naaccrconv/internal/logging"
)

var (
	cfg        config.Config
	configPath string
	fieldList  string
)

var rootCmd = &cobra.Command{
	Use:   "naaccrconv",
	Short: "Tumor registry extract → NAACCR XML converter",
	Long: "Streams a flat CSV or Parquet tumor extract, one row per tumor, into a NAACCR XML\n" +
		"document grouped by patient, optionally recording each run in Postgres.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("NAACCRCONV_DB_URL"), "Postgres connection string for the run ledger (or set NAACCRCONV_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pf.StringVar(&configPath, "config", "", "YAML file with catalog settings")
}

// addCatalogFlags registers the flags that select the field catalog.
func addCatalogFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&cfg.NaaccrVersion, "naaccr-version", "", "NAACCR version, e.g. 180 (default "+config.DefaultNaaccrVersion+")")
	f.StringVar(&cfg.RecordType, "record-type", "", "Record type: A, M, C or I (default "+config.DefaultRecordType+")")
	f.StringVar(&cfg.DictionaryPath, "dictionary", "", "User dictionary (NAACCR XML dictionary or editor CSV)")
	f.StringVar(&fieldList, "fields", "", "Comma-separated NAACCR ids to keep (default all)")
	f.StringVar(&cfg.CatalogDir, "catalog-dir", "", "Directory with naaccr-<version>-fields.csv base catalogs")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if fieldList != "" {
		cfg.Fields = catalog.ParseFieldList(fieldList)
	}
	if configPath != "" {
		if err := cfg.LoadFromFile(configPath); err != nil {
			log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
			log.Error().Err(err).Str("config", configPath).Msg("config file rejected")
			os.Exit(exitcode.UsageError)
		}
	}
	cfg.ApplyDefaults()
	return nil
}
