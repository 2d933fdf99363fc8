// Package ledger records conversion runs in Postgres.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/naaccrconv/internal/db"
	"github.com/gyeh/naaccrconv/internal/model"
	"github.com/gyeh/naaccrconv/internal/sql"
)

const maxErrorText = 2000

// Ledger implements convert.Recorder on a connection pool.
type Ledger struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// New returns a ledger using pool. Migrations must already be applied.
func New(pool *pgxpool.Pool, log zerolog.Logger) *Ledger {
	return &Ledger{pool: pool, log: log}
}

// Register records a new run in status "converting". Unless force is set, a
// previous successful run of the same input digest, version and record type
// short-circuits it: nothing is inserted and alreadyConverted is true.
func (l *Ledger) Register(ctx context.Context, run model.RunInfo, force bool) (bool, error) {
	if !force {
		var prev uuid.UUID
		err := l.pool.QueryRow(ctx, sql.LookupConvertedRun,
			run.InputSHA256, run.NaaccrVersion, run.RecordType).Scan(&prev)
		switch {
		case err == nil:
			l.log.Info().Str("previous_run", prev.String()).Msg("input already converted")
			return true, nil
		case !errors.Is(err, pgx.ErrNoRows):
			return false, fmt.Errorf("lookup converted run: %w", err)
		}
	}

	_, err := l.pool.Exec(ctx, sql.RegisterRun,
		run.ID, run.InputPath, run.InputSHA256, run.InputSize,
		run.OutputPath, run.NaaccrVersion, run.RecordType)
	if err != nil {
		return false, fmt.Errorf("register run: %w", err)
	}
	return false, nil
}

// Finish marks the run converted and stores its per-field item counts in
// one transaction.
func (l *Ledger) Finish(ctx context.Context, s *model.ConversionSummary) error {
	start := time.Now()

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin finish: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, sql.FinishRun, s.RunID, s.RowsRead, s.Patients, s.Tumors)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finish run: run %s not registered", s.RunID)
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"naaccr", "run_field_counts"},
		db.FieldCountColumns,
		db.NewFieldCountSource(s.RunID, s.Fields),
	)
	if err != nil {
		return fmt.Errorf("copy field counts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit finish: %w", err)
	}

	l.log.Info().
		Int64("field_counts", copied).
		Dur("duration", time.Since(start)).
		Msg("ledger run finished")
	return nil
}

// Fail marks the run failed and keeps the (truncated) error text.
func (l *Ledger) Fail(ctx context.Context, runID uuid.UUID, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if len(msg) > maxErrorText {
		msg = strings.ToValidUTF8(msg[:maxErrorText], "")
	}
	if _, err := l.pool.Exec(ctx, sql.FailRun, runID, msg); err != nil {
		return fmt.Errorf("fail run: %w", err)
	}
	return nil
}

// Run is one row of the run history.
type Run struct {
	ID            uuid.UUID
	InputPath     string
	NaaccrVersion string
	RecordType    string
	Status        string
	RowsRead      int64
	Patients      int64
	Tumors        int64
	Error         string
	StartedAt     time.Time
}

// Recent returns up to limit runs, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := l.pool.Query(ctx, sql.RecentRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.InputPath, &r.NaaccrVersion, &r.RecordType, &r.Status,
			&r.RowsRead, &r.Patients, &r.Tumors, &r.Error, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
