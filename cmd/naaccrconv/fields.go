package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/naaccrconv/internal/catalog"
	"github.com/gyeh/naaccrconv/internal/exitcode"
	"github.com/gyeh/naaccrconv/internal/logging"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Print the resolved field catalog",
	RunE:  runFields,
}

func init() {
	addCatalogFlags(fieldsCmd)
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.ValidateCatalog(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	fields, err := catalog.FileResolver{Dir: cfg.CatalogDir}.Resolve(catalog.Request{
		Version:        cfg.NaaccrVersion,
		RecordType:     cfg.RecordType,
		DictionaryPath: cfg.DictionaryPath,
		Fields:         cfg.Fields,
	})
	if err != nil {
		exitOnError(log, err, "catalog resolution failed")
	}

	renderFields(os.Stdout, fields)
	return nil
}
