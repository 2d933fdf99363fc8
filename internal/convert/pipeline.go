// Package convert turns a tabular NAACCR extract into a NAACCR XML document.
package convert

import (
	"context"
	"fmt"
	"time"

	crdb "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/naaccrconv/internal/catalog"
	"github.com/gyeh/naaccrconv/internal/config"
	"github.com/gyeh/naaccrconv/internal/emit"
	"github.com/gyeh/naaccrconv/internal/model"
	"github.com/gyeh/naaccrconv/internal/rows"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Recorder keeps a record of conversion runs. The ledger implements it.
type Recorder interface {
	Register(ctx context.Context, run model.RunInfo, force bool) (alreadyConverted bool, err error)
	Finish(ctx context.Context, s *model.ConversionSummary) error
	Fail(ctx context.Context, runID uuid.UUID, cause error) error
}

const (
	resolveHint = "check --naaccr-version, --record-type and --dictionary"
	formatHint  = "every row needs the header's field count and a patientIdNumber, with each patient's rows contiguous"
)

// Run executes the conversion pipeline: resolve → preflight → convert →
// finalize → cleanup. rec may be nil, in which case no ledger is kept.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config, resolver catalog.Resolver, rec Recorder) (*model.ConversionSummary, error) {
	totalStart := time.Now()
	runID := uuid.New()
	log = log.With().Str("run_id", runID.String()).Logger()

	// Phase 1: Resolve
	log.Info().
		Str("naaccr_version", cfg.NaaccrVersion).
		Str("record_type", cfg.RecordType).
		Str("dictionary", cfg.DictionaryPath).
		Int("requested_fields", len(cfg.Fields)).
		Msg("resolving field catalog")
	fields, err := resolver.Resolve(catalog.Request{
		Version:        cfg.NaaccrVersion,
		RecordType:     cfg.RecordType,
		DictionaryPath: cfg.DictionaryPath,
		Fields:         cfg.Fields,
	})
	if err != nil {
		return nil, &PipelineError{Phase: "resolve", Err: crdb.WithHint(err, resolveHint)}
	}
	part := catalog.PartitionFields(fields)
	log.Info().
		Int("root_fields", part.Root.Len()).
		Int("patient_fields", part.Patient.Len()).
		Int("tumor_fields", part.Tumor.Len()).
		Msg("catalog resolved")

	// Phase 2: Preflight
	pf, err := Preflight(ctx, log, cfg, runID, rec)
	if err != nil {
		return nil, err
	}
	summary := &model.ConversionSummary{
		RunID:         runID,
		InputPath:     pf.InputPath,
		InputSHA256:   pf.InputSHA256,
		OutputPath:    cfg.OutputPath,
		NaaccrVersion: cfg.NaaccrVersion,
		RecordType:    cfg.RecordType,
	}
	if pf.AlreadyConverted {
		log.Info().
			Str("sha256", pf.InputSHA256).
			Msg("input already converted, skipping (use --force to convert again)")
		summary.Skipped = true
		summary.DurationTotal = time.Since(totalStart)
		return summary, nil
	}

	// Phase 3: Convert
	log.Info().Str("input", pf.InputPath).Str("output", cfg.OutputPath).Msg("starting conversion")
	readStart := time.Now()
	stats, err := convertFile(log, cfg, part)
	if err != nil {
		log.Warn().Str("output", cfg.OutputPath).Msg("conversion failed, partial output must be discarded")
		if rec != nil {
			if ferr := rec.Fail(ctx, runID, err); ferr != nil {
				log.Warn().Err(ferr).Msg("ledger failure status update failed (non-fatal)")
			}
		}
		var fe *model.FormatError
		if crdb.As(err, &fe) {
			err = crdb.WithHint(err, formatHint)
		}
		return nil, &PipelineError{Phase: "convert", Err: err}
	}
	summary.DurationRead = time.Since(readStart)
	summary.RowsRead = stats.Rows
	summary.Patients = stats.Patients
	summary.Tumors = stats.Tumors
	summary.ItemsByScope = stats.ItemsByScope
	summary.ItemsByField = stats.ItemsByField
	summary.Fields = fieldUsage(part, stats.ItemsByField)

	// Phase 4: Finalize
	if rec != nil {
		if err := rec.Finish(ctx, summary); err != nil {
			log.Warn().Err(err).Msg("ledger finalize failed (non-fatal)")
		}
	}

	// Phase 5: Cleanup input
	if cfg.Cleanup {
		if err := Cleanup(log, pf.InputPath); err != nil {
			log.Warn().Err(err).Msg("unable to cleanup input file (non-fatal)")
		}
	}

	summary.DurationTotal = time.Since(totalStart)
	log.Info().
		Int64("rows", summary.RowsRead).
		Int64("patients", summary.Patients).
		Int64("tumors", summary.Tumors).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("conversion complete")

	return summary, nil
}

// convertFile streams the input through a transducer into the output file.
// Both files are released on every path; a failed run leaves its partial
// output in place.
func convertFile(log zerolog.Logger, cfg *config.Config, part catalog.Partition) (Stats, error) {
	src, err := rows.Open(cfg.InputPath, rows.Options{Encoding: cfg.InputEncoding})
	if err != nil {
		return Stats{}, err
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Warn().Err(err).Msg("close input")
		}
	}()

	em, err := emit.Create(cfg.OutputPath)
	if err != nil {
		return Stats{}, err
	}

	t := NewTransducer(em, part, DocumentInfo{NaaccrVersion: cfg.NaaccrVersion, RecordType: cfg.RecordType})
	stats, runErr := t.Run(src)
	finishErr := em.Finish()
	if runErr != nil {
		return stats, runErr
	}
	if finishErr != nil {
		return stats, finishErr
	}
	if stats.Rows == 0 {
		log.Warn().Str("input", cfg.InputPath).Msg("input has no data rows, output document is empty")
	}
	return stats, nil
}

func fieldUsage(part catalog.Partition, counts map[string]int64) []model.FieldUsage {
	var out []model.FieldUsage
	for _, scope := range model.AllScopes {
		part.For(scope).Each(func(_, naaccrID string) {
			if n := counts[naaccrID]; n > 0 {
				out = append(out, model.FieldUsage{NaaccrID: naaccrID, Scope: scope, Items: n})
			}
		})
	}
	return out
}
