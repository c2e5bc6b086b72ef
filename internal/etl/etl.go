// Package etl defines the shared pipeline types: the database interface,
// batch tags, the run log, and the sequential step runner used by every
// layer loader.
package etl

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is an interface that both *pgxpool.Pool and *pgx.Conn satisfy.
// This allows layer loaders to work with either a connection pool or
// a dedicated single connection.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Step statuses recorded in the run log.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Pipeline layers, recorded with every run-log entry.
const (
	LayerRaw       = "raw"
	LayerStaging   = "staging"
	LayerWarehouse = "warehouse"
)

// BatchTag formats a timestamp as a batch tag grouping one pipeline
// run's log and quality-check rows.
func BatchTag(t time.Time) string {
	return "run_" + t.UTC().Format("20060102_150405")
}

// NewBatchTag returns a batch tag for the current time.
func NewBatchTag() string {
	return BatchTag(time.Now())
}
