package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for a naaccrconv run.
type Config struct {
	DSN            string
	LogFormat      string // "text" or "json"
	LogLevel       string
	OutputPath     string
	InputPath      string // derived from OutputPath when empty
	NaaccrVersion  string
	RecordType     string
	DictionaryPath string
	Fields         []string // allow-list of NAACCR ids; empty means all
	CatalogDir     string
	InputEncoding  string
	Cleanup        bool // remove the input after a successful run
	Force          bool // convert even if the ledger has seen this input
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	NaaccrVersion  string   `yaml:"naaccr_version"`
	RecordType     string   `yaml:"record_type"`
	DictionaryPath string   `yaml:"dictionary"`
	Fields         []string `yaml:"fields"`
	CatalogDir     string   `yaml:"catalog_dir"`
	InputEncoding  string   `yaml:"input_encoding"`
}

// LoadFromFile reads a YAML config file and fills the settings that are not
// already set, so values given on the command line win.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	setIfEmpty(&c.NaaccrVersion, yc.NaaccrVersion)
	setIfEmpty(&c.RecordType, yc.RecordType)
	setIfEmpty(&c.DictionaryPath, yc.DictionaryPath)
	setIfEmpty(&c.CatalogDir, yc.CatalogDir)
	setIfEmpty(&c.InputEncoding, yc.InputEncoding)
	if len(c.Fields) == 0 {
		for _, f := range yc.Fields {
			if f = strings.TrimSpace(f); f != "" {
				c.Fields = append(c.Fields, f)
			}
		}
	}
	return nil
}

// Defaults used when neither a flag nor the config file sets a value.
const (
	DefaultNaaccrVersion = "180"
	DefaultRecordType    = "I"
)

// ApplyDefaults fills the catalog settings still empty after flags and the
// config file were read.
func (c *Config) ApplyDefaults() {
	setIfEmpty(&c.NaaccrVersion, DefaultNaaccrVersion)
	setIfEmpty(&c.RecordType, DefaultRecordType)
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = strings.TrimSpace(v)
	}
}

// ValidateCatalog checks the settings needed to resolve the field catalog.
// The dictionary file is checked by the resolver.
func (c *Config) ValidateCatalog() error {
	if c.NaaccrVersion == "" {
		return fmt.Errorf("--naaccr-version is required")
	}
	if c.RecordType == "" {
		return fmt.Errorf("--record-type is required")
	}
	return nil
}

// Validate checks required fields, resolves the input path and returns an
// error if the config is invalid.
func (c *Config) Validate() error {
	if err := c.ValidateCatalog(); err != nil {
		return err
	}
	if c.OutputPath == "" && c.InputPath == "" {
		return fmt.Errorf("--xml is required")
	}
	c.InputPath = ResolveInputPath(c.InputPath, c.OutputPath)
	if _, err := os.Stat(c.InputPath); err != nil {
		return fmt.Errorf("input file not accessible: %w", err)
	}
	return nil
}

// ValidateWithOutput checks the catalog, the input and the output path.
func (c *Config) ValidateWithOutput() error {
	if c.OutputPath == "" {
		return fmt.Errorf("--xml is required")
	}
	return c.Validate()
}

// DeriveInputPath returns the input file conventionally written next to an
// output document: "x.xml" reads "x.csv" and "x.xml.gz" reads "x.csv.gz".
func DeriveInputPath(outputPath string) string {
	lower := strings.ToLower(outputPath)
	switch {
	case strings.HasSuffix(lower, ".xml.gz"):
		return outputPath[:len(outputPath)-len(".xml.gz")] + ".csv.gz"
	case strings.HasSuffix(lower, ".xml"):
		return outputPath[:len(outputPath)-len(".xml")] + ".csv"
	}
	return outputPath + ".csv"
}

// ResolveInputPath picks the input file for a run. An empty input is derived
// from the output path. A ".gz" suffix is stripped when the uncompressed file
// exists or neither does; otherwise the compressed file is read as is.
func ResolveInputPath(inputPath, outputPath string) string {
	p := inputPath
	if p == "" {
		p = DeriveInputPath(outputPath)
	}
	if !strings.HasSuffix(strings.ToLower(p), ".gz") {
		return p
	}
	stripped := p[:len(p)-len(".gz")]
	if _, err := os.Stat(stripped); err == nil {
		return stripped
	}
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return stripped
}
