package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile_Valid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("naaccr_version: \"180\"\nrecord_type: I\nfields:\n  - nameLast\n  - primarySite\n"), 0644)

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.NaaccrVersion != "180" || c.RecordType != "I" {
		t.Errorf("unexpected version/record type: %q %q", c.NaaccrVersion, c.RecordType)
	}
	if len(c.Fields) != 2 || c.Fields[0] != "nameLast" || c.Fields[1] != "primarySite" {
		t.Errorf("unexpected fields: %v", c.Fields)
	}
}

func TestLoadFromFile_FlagsWin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("naaccr_version: \"160\"\nrecord_type: A\nfields: [sex]\ninput_encoding: windows-1252\n"), 0644)

	c := Config{NaaccrVersion: "210", Fields: []string{"nameLast"}}
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.NaaccrVersion != "210" {
		t.Errorf("flag value overwritten: %q", c.NaaccrVersion)
	}
	if c.RecordType != "A" || c.InputEncoding != "windows-1252" {
		t.Errorf("file values not applied: %+v", c)
	}
	if len(c.Fields) != 1 || c.Fields[0] != "nameLast" {
		t.Errorf("unexpected fields: %v", c.Fields)
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("fields: [unclosed\n"), 0644)

	var c Config
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var c Config
	err := c.LoadFromFile("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDeriveInputPath(t *testing.T) {
	tests := map[string]string{
		"/data/out.xml":    "/data/out.csv",
		"/data/out.XML":    "/data/out.csv",
		"/data/out.xml.gz": "/data/out.csv.gz",
		"/data/out":        "/data/out.csv",
	}
	for in, want := range tests {
		if got := DeriveInputPath(in); got != want {
			t.Errorf("DeriveInputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveInputPath(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "tumors.xml.gz")

	// neither exists: stripped name
	if got, want := ResolveInputPath("", out), filepath.Join(dir, "tumors.csv"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// only the compressed file exists
	gz := filepath.Join(dir, "tumors.csv.gz")
	os.WriteFile(gz, []byte{}, 0644)
	if got := ResolveInputPath("", out); got != gz {
		t.Errorf("got %q, want %q", got, gz)
	}

	// uncompressed file wins
	plain := filepath.Join(dir, "tumors.csv")
	os.WriteFile(plain, []byte{}, 0644)
	if got := ResolveInputPath("", out); got != plain {
		t.Errorf("got %q, want %q", got, plain)
	}

	// explicit input is kept
	explicit := filepath.Join(dir, "other.parquet")
	if got := ResolveInputPath(explicit, out); got != explicit {
		t.Errorf("got %q, want %q", got, explicit)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "run.csv"), []byte("patientIdNumber\n"), 0644)

	c := Config{OutputPath: filepath.Join(dir, "run.xml"), NaaccrVersion: "180", RecordType: "I"}
	if err := c.ValidateWithOutput(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.InputPath != filepath.Join(dir, "run.csv") {
		t.Errorf("input not derived: %q", c.InputPath)
	}

	missing := Config{OutputPath: filepath.Join(dir, "other.xml"), NaaccrVersion: "180", RecordType: "I"}
	if err := missing.ValidateWithOutput(); err == nil {
		t.Error("expected error for missing input")
	}

	noVersion := Config{OutputPath: filepath.Join(dir, "run.xml"), RecordType: "I"}
	if err := noVersion.ValidateWithOutput(); err == nil {
		t.Error("expected error for missing version")
	}
}

func TestApplyDefaults(t *testing.T) {
	c := Config{RecordType: "A"}
	c.ApplyDefaults()
	if c.NaaccrVersion != DefaultNaaccrVersion {
		t.Errorf("version = %q, want %q", c.NaaccrVersion, DefaultNaaccrVersion)
	}
	if c.RecordType != "A" {
		t.Errorf("record type overwritten: %q", c.RecordType)
	}
}

func TestValidateCatalog_MissingDictionaryLeftToResolver(t *testing.T) {
	c := Config{
		NaaccrVersion:  "180",
		RecordType:     "I",
		DictionaryPath: filepath.Join(t.TempDir(), "missing.xml"),
	}
	if err := c.ValidateCatalog(); err != nil {
		t.Errorf("ValidateCatalog: %v", err)
	}
}
