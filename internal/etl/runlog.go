package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/retailops/salesdw/internal/logging"
)

// createInfraSQL creates the etl schema and its two append-only artifact
// tables: the run log and the quality-check results.
const createInfraSQL = `
CREATE SCHEMA IF NOT EXISTS etl;

CREATE TABLE IF NOT EXISTS etl.run_log (
    log_id     BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    table_name TEXT NOT NULL,
    layer      TEXT NOT NULL,
    status     TEXT NOT NULL,
    message    TEXT,
    batch_tag  TEXT NOT NULL,
    logged_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS etl.quality_check_results (
    result_id      BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    check_category TEXT NOT NULL,
    check_name     TEXT NOT NULL,
    table_name     TEXT NOT NULL,
    status         TEXT NOT NULL,
    total_rows     BIGINT NOT NULL,
    issue_count    BIGINT NOT NULL,
    issue_pct      NUMERIC(6,2) NOT NULL,
    message        TEXT,
    batch_tag      TEXT NOT NULL,
    checked_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_run_log_batch ON etl.run_log(batch_tag);
CREATE INDEX IF NOT EXISTS idx_quality_results_batch ON etl.quality_check_results(batch_tag);
`

const dropInfraSQL = `DROP SCHEMA IF EXISTS etl CASCADE`

// EnsureInfra creates the etl schema and artifact tables.
func EnsureInfra(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, createInfraSQL)
	return err
}

// DropInfra drops the etl schema and everything in it.
func DropInfra(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, dropInfraSQL)
	return err
}

// LogEntry is one row of the run log: the outcome of one table-level step
// within one batch.
type LogEntry struct {
	TableName string
	Layer     string
	Status    string
	Message   string
	BatchTag  string
	LoggedAt  time.Time
}

// Record appends a log entry to etl.run_log.
func Record(ctx context.Context, db DB, e LogEntry) error {
	_, err := db.Exec(ctx, `
        INSERT INTO etl.run_log (table_name, layer, status, message, batch_tag)
        VALUES ($1, $2, $3, $4, $5)
    `, e.TableName, e.Layer, e.Status, e.Message, e.BatchTag)
	if err != nil {
		return fmt.Errorf("failed to record log entry for %s: %w", e.TableName, err)
	}
	return nil
}

// RecentLogs returns the most recent run-log entries, newest first.
func RecentLogs(ctx context.Context, db DB, limit int) ([]LogEntry, error) {
	rows, err := db.Query(ctx, `
        SELECT table_name, layer, status, COALESCE(message, ''), batch_tag, logged_at
        FROM etl.run_log
        ORDER BY log_id DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.TableName, &e.Layer, &e.Status, &e.Message, &e.BatchTag, &e.LoggedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Step is one table-level unit of work within a layer load. Run returns a
// human-readable success message recorded in the run log.
type Step struct {
	Table string
	Run   func(ctx context.Context, db DB) (string, error)
}

// RunSteps executes steps strictly in sequence. A failing step is logged
// (run log + structured log) and the sequence continues with the next step;
// the returned error aggregates how many steps failed. Log-write failures
// abort immediately since the run would otherwise be unaccounted for.
func RunSteps(ctx context.Context, db DB, layer, batchTag string, steps []Step) error {
	failed := 0
	for _, step := range steps {
		msg, err := step.Run(ctx, db)

		entry := LogEntry{
			TableName: step.Table,
			Layer:     layer,
			BatchTag:  batchTag,
		}
		if err != nil {
			failed++
			entry.Status = StatusFailed
			entry.Message = err.Error()
			logging.Error().
				Err(err).
				Str("layer", layer).
				Str("table", step.Table).
				Str("batch", batchTag).
				Msg("Step failed")
		} else {
			entry.Status = StatusSuccess
			entry.Message = msg
			logging.Info().
				Str("layer", layer).
				Str("table", step.Table).
				Str("batch", batchTag).
				Msg(msg)
		}

		if err := Record(ctx, db, entry); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%s layer: %d of %d steps failed", layer, failed, len(steps))
	}
	return nil
}
