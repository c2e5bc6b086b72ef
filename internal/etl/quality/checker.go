package quality

import (
	"context"
	"fmt"

	"github.com/retailops/salesdw/internal/etl"
	"github.com/retailops/salesdw/internal/logging"
)

// Check result statuses.
const (
	StatusPass    = "PASS"
	StatusFail    = "FAIL"
	StatusWarning = "WARNING"
)

// Result is the outcome of one check, persisted to
// etl.quality_check_results.
type Result struct {
	Category   string
	Name       string
	Table      string
	Status     string
	TotalRows  int64
	IssueCount int64
	IssuePct   float64
	Message    string
}

// Checker runs the quality battery against the loaded layers.
type Checker struct{}

// NewChecker creates a new quality checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Run executes every check in the battery, persists one result row per
// check, and returns the results. A check whose query errors is recorded
// as FAIL with the error text and the battery continues; the returned
// error reports how many checks could not be evaluated. A result-write
// failure aborts immediately.
func (c *Checker) Run(ctx context.Context, db etl.DB, batchTag string) ([]Result, error) {
	checks := Battery()
	results := make([]Result, 0, len(checks))
	errored := 0

	for _, check := range checks {
		res := Result{
			Category: check.Category,
			Name:     check.Name,
			Table:    check.Table,
		}

		var total, issues int64
		if err := db.QueryRow(ctx, check.Query).Scan(&total, &issues); err != nil {
			errored++
			res.Status = StatusFail
			res.Message = fmt.Sprintf("check query failed: %v", err)
			logging.Error().
				Err(err).
				Str("check", check.Name).
				Str("table", check.Table).
				Msg("Quality check query failed")
		} else {
			res.TotalRows = total
			res.IssueCount = issues
			res.IssuePct = issuePct(total, issues)
			res.Status = classify(issues, check.WarnOnly)
			if issues > 0 {
				res.Message = fmt.Sprintf("%d %s", issues, check.Detail)
			}
		}

		if err := c.record(ctx, db, res, batchTag); err != nil {
			return results, err
		}
		results = append(results, res)

		logging.Debug().
			Str("check", check.Name).
			Str("status", res.Status).
			Int64("issues", res.IssueCount).
			Msg("Quality check complete")
	}

	if errored > 0 {
		return results, fmt.Errorf("%d of %d quality checks could not be evaluated", errored, len(checks))
	}
	return results, nil
}

func (c *Checker) record(ctx context.Context, db etl.DB, r Result, batchTag string) error {
	_, err := db.Exec(ctx, `
        INSERT INTO etl.quality_check_results
            (check_category, check_name, table_name, status, total_rows, issue_count, issue_pct, message, batch_tag)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, r.Category, r.Name, r.Table, r.Status, r.TotalRows, r.IssueCount, r.IssuePct, r.Message, batchTag)
	if err != nil {
		return fmt.Errorf("failed to record result for check %q: %w", r.Name, err)
	}
	return nil
}

// classify maps an issue count to a result status. Advisory checks warn
// instead of failing.
func classify(issues int64, warnOnly bool) string {
	if issues == 0 {
		return StatusPass
	}
	if warnOnly {
		return StatusWarning
	}
	return StatusFail
}

// issuePct returns the issue share as a percentage, guarding the
// empty-table case.
func issuePct(total, issues int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(issues) / float64(total) * 100
}

// RecentResults returns the most recent persisted check results, newest
// first.
func RecentResults(ctx context.Context, db etl.DB, limit int) ([]Result, error) {
	rows, err := db.Query(ctx, `
        SELECT check_category, check_name, table_name, status, total_rows, issue_count, issue_pct, COALESCE(message, '')
        FROM etl.quality_check_results
        ORDER BY result_id DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Category, &r.Name, &r.Table, &r.Status, &r.TotalRows, &r.IssueCount, &r.IssuePct, &r.Message); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Summary counts results by status.
type Summary struct {
	Passed   int
	Failed   int
	Warnings int
}

// Summarize tallies a result set by status.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		case StatusWarning:
			s.Warnings++
		}
	}
	return s
}
