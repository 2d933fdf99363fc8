package convert

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/naaccrconv/internal/config"
	"github.com/gyeh/naaccrconv/internal/model"
	"github.com/gyeh/naaccrconv/internal/normalize"
)

// PreflightResult holds what is known about the input before conversion.
type PreflightResult struct {
	InputPath string
	InputSize int64
	// InputSHA256 is only computed when a ledger is kept.
	InputSHA256 string
	// AlreadyConverted is true when the ledger has a successful run of the
	// same input, version and record type and force mode is off.
	AlreadyConverted bool
}

// Preflight checks the input and, when rec is set, registers the run.
func Preflight(ctx context.Context, log zerolog.Logger, cfg *config.Config, runID uuid.UUID, rec Recorder) (*PreflightResult, error) {
	start := time.Now()

	stat, err := os.Stat(cfg.InputPath)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}
	res := &PreflightResult{InputPath: cfg.InputPath, InputSize: stat.Size()}

	if rec != nil {
		sha, _, err := normalize.FileHash(cfg.InputPath)
		if err != nil {
			return nil, &PipelineError{Phase: "preflight", Err: err}
		}
		res.InputSHA256 = sha

		already, err := rec.Register(ctx, model.RunInfo{
			ID:            runID,
			InputPath:     cfg.InputPath,
			InputSHA256:   sha,
			InputSize:     stat.Size(),
			OutputPath:    cfg.OutputPath,
			NaaccrVersion: cfg.NaaccrVersion,
			RecordType:    cfg.RecordType,
		}, cfg.Force)
		if err != nil {
			return nil, &PipelineError{Phase: "ledger", Err: err}
		}
		res.AlreadyConverted = already
	}

	log.Info().
		Str("file", filepath.Base(cfg.InputPath)).
		Int64("size", res.InputSize).
		Str("sha256", res.InputSHA256).
		Dur("duration", time.Since(start)).
		Msg("preflight complete")

	return res, nil
}
