package etl

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestBatchTag(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC)
	got := BatchTag(ts)
	want := "run_20240315_093045"
	if got != want {
		t.Errorf("BatchTag = %q, want %q", got, want)
	}
}

func TestBatchTagUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2024, 3, 15, 9, 30, 45, 0, loc)
	got := BatchTag(ts)
	want := "run_20240315_043045"
	if got != want {
		t.Errorf("BatchTag = %q, want %q", got, want)
	}
}

// fakeDB records Exec calls; the other methods are unused by RunSteps.
type fakeDB struct {
	execSQL  []string
	execArgs [][]any
	execErr  error
}

func (f *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }

func (f *fakeDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, arguments)
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func (f *fakeDB) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not implemented")
}

func TestRunStepsAllSucceed(t *testing.T) {
	db := &fakeDB{}
	steps := []Step{
		{Table: "customers", Run: func(ctx context.Context, db DB) (string, error) {
			return "staged 10 rows", nil
		}},
		{Table: "orders", Run: func(ctx context.Context, db DB) (string, error) {
			return "staged 20 rows", nil
		}},
	}

	err := RunSteps(context.Background(), db, LayerStaging, "run_20240101_000000", steps)
	if err != nil {
		t.Fatalf("RunSteps returned error: %v", err)
	}

	// One log insert per step
	if len(db.execSQL) != 2 {
		t.Fatalf("expected 2 log inserts, got %d", len(db.execSQL))
	}
	for i, args := range db.execArgs {
		if args[2] != StatusSuccess {
			t.Errorf("step %d logged status %v, want SUCCESS", i, args[2])
		}
		if args[4] != "run_20240101_000000" {
			t.Errorf("step %d logged batch %v", i, args[4])
		}
	}
}

func TestRunStepsContinuesAfterFailure(t *testing.T) {
	db := &fakeDB{}
	var ran []string
	steps := []Step{
		{Table: "customers", Run: func(ctx context.Context, db DB) (string, error) {
			ran = append(ran, "customers")
			return "", errors.New("boom")
		}},
		{Table: "orders", Run: func(ctx context.Context, db DB) (string, error) {
			ran = append(ran, "orders")
			return "staged 20 rows", nil
		}},
	}

	err := RunSteps(context.Background(), db, LayerStaging, "run_x", steps)
	if err == nil {
		t.Fatal("expected aggregate error, got nil")
	}
	if !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("unexpected error message: %v", err)
	}

	// The failing step must not stop the sequence
	if len(ran) != 2 {
		t.Fatalf("expected both steps to run, got %v", ran)
	}

	// First entry FAILED with the error as message, second SUCCESS
	if db.execArgs[0][2] != StatusFailed {
		t.Errorf("first entry status = %v, want FAILED", db.execArgs[0][2])
	}
	if db.execArgs[0][3] != "boom" {
		t.Errorf("first entry message = %v, want error text", db.execArgs[0][3])
	}
	if db.execArgs[1][2] != StatusSuccess {
		t.Errorf("second entry status = %v, want SUCCESS", db.execArgs[1][2])
	}
}

func TestRunStepsAbortsWhenLogWriteFails(t *testing.T) {
	db := &fakeDB{execErr: errors.New("log table missing")}
	calls := 0
	steps := []Step{
		{Table: "a", Run: func(ctx context.Context, db DB) (string, error) { calls++; return "ok", nil }},
		{Table: "b", Run: func(ctx context.Context, db DB) (string, error) { calls++; return "ok", nil }},
	}

	err := RunSteps(context.Background(), db, LayerRaw, "run_x", steps)
	if err == nil {
		t.Fatal("expected error when run log cannot be written")
	}
	if calls != 1 {
		t.Errorf("expected abort after first step, ran %d", calls)
	}
}
