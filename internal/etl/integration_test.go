package etl_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailops/salesdw/internal/config"
	"github.com/retailops/salesdw/internal/etl"
	"github.com/retailops/salesdw/internal/etl/quality"
	"github.com/retailops/salesdw/internal/etl/rawload"
	"github.com/retailops/salesdw/internal/etl/staging"
	"github.com/retailops/salesdw/internal/etl/warehouse"
	"github.com/retailops/salesdw/internal/seed"
	"github.com/retailops/salesdw/internal/testutil"
)

// setupPipelineDB creates a fresh test database with all four schemas.
func setupPipelineDB(t *testing.T, name string) *pgxpool.Pool {
	t.Helper()

	baseConnStr := testutil.SkipIfNoPostgres(t)
	connStr := testutil.CreateTestDB(t, baseConnStr, name)
	dbName := testutil.GetDBNameFromConnStr(connStr)

	cleanup := testutil.NewTestCleanup(t, baseConnStr, dbName)
	pool := testutil.ConnectTestDB(t, connStr)
	cleanup.SetPool(pool)
	t.Cleanup(cleanup.Cleanup)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := rawload.CreateSchema(ctx, pool); err != nil {
		t.Fatalf("failed to create raw schema: %v", err)
	}
	if err := staging.CreateSchema(ctx, pool); err != nil {
		t.Fatalf("failed to create staging schema: %v", err)
	}
	if err := warehouse.CreateSchema(ctx, pool); err != nil {
		t.Fatalf("failed to create warehouse schema: %v", err)
	}
	if err := etl.EnsureInfra(ctx, pool); err != nil {
		t.Fatalf("failed to create etl schema: %v", err)
	}
	return pool
}

func countRows(t *testing.T, pool *pgxpool.Pool, table string) int64 {
	t.Helper()
	var n int64
	if err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

func TestPipelineEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	pool := setupPipelineDB(t, "pipeline")
	ctx := context.Background()

	dir := t.TempDir()
	seedCfg := config.SeedConfig{
		Customers:  50,
		Products:   30,
		Orders:     100,
		Stores:     3,
		Staffs:     6,
		DirtyRate:  0.05,
		RandomSeed: 42,
	}
	if err := seed.NewSeeder(dir, seedCfg).Run(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	batchTag := etl.NewBatchTag()
	if err := rawload.NewLoader(dir).Run(ctx, pool, batchTag); err != nil {
		t.Fatalf("raw load failed: %v", err)
	}
	if err := staging.NewStager().Run(ctx, pool, batchTag); err != nil {
		t.Fatalf("staging failed: %v", err)
	}
	if err := warehouse.NewLoader().Run(ctx, pool, batchTag); err != nil {
		t.Fatalf("warehouse load failed: %v", err)
	}

	// Dirty rows are gone by staging: exactly one row per key survives.
	if got := countRows(t, pool, "staging.customers"); got != int64(seedCfg.Customers) {
		t.Errorf("staging.customers has %d rows, want %d", got, seedCfg.Customers)
	}
	if got := countRows(t, pool, "warehouse.dim_products"); got != int64(seedCfg.Products) {
		t.Errorf("warehouse.dim_products has %d rows, want %d", got, seedCfg.Products)
	}
	if got := countRows(t, pool, "warehouse.fact_sales"); got < int64(seedCfg.Orders) {
		t.Errorf("warehouse.fact_sales has %d rows, want at least %d", got, seedCfg.Orders)
	}
	if got := countRows(t, pool, "warehouse.fact_inventory"); got != int64(seedCfg.Stores*seedCfg.Products) {
		t.Errorf("warehouse.fact_inventory has %d rows", got)
	}
	if got := countRows(t, pool, "warehouse.dim_dates"); got == 0 {
		t.Error("warehouse.dim_dates is empty")
	}

	// The seeded data is referentially sound, so nothing may FAIL.
	results, err := quality.NewChecker().Run(ctx, pool, batchTag)
	if err != nil {
		t.Fatalf("quality checks failed to run: %v", err)
	}
	for _, r := range results {
		if r.Status == quality.StatusFail {
			t.Errorf("check %q failed: %s", r.Name, r.Message)
		}
	}

	// Every step of every layer was logged under the batch tag.
	var logged int64
	err = pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM etl.run_log
        WHERE batch_tag = $1 AND status = 'SUCCESS'
    `, batchTag).Scan(&logged)
	if err != nil {
		t.Fatalf("failed to count run log: %v", err)
	}
	if logged != 9+9+7 {
		t.Errorf("run log has %d SUCCESS rows for the batch, want 25", logged)
	}
}

func TestStagingDeduplication(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	pool := setupPipelineDB(t, "dedup")
	ctx := context.Background()

	// Two copies of customer 101, one null key, one clean row.
	_, err := pool.Exec(ctx, `
        INSERT INTO raw.customers (customer_id, first_name, last_name, phone, email, street, city, state, zip_code)
        VALUES
            ('101', ' Alice ', 'Nguyen', NULL, 'alice@example.com', '1 Main St', 'Austin', 'TX', '78701'),
            ('101', 'Alice', 'Nguyen', NULL, 'alice@example.com', '1 Main St', 'Austin', 'TX', '78701'),
            (NULL,  'Ghost', 'Row',    NULL, NULL, NULL, NULL, NULL, NULL),
            ('102', 'Bjorn', 'Olsen',  '5125550199', 'bjorn@example.com', '2 Oak Ave', 'Dallas', 'TX', '75201')
    `)
	if err != nil {
		t.Fatalf("failed to insert raw rows: %v", err)
	}

	batchTag := etl.NewBatchTag()
	if err := staging.NewStager().Run(ctx, pool, batchTag); err != nil {
		t.Fatalf("staging failed: %v", err)
	}

	if got := countRows(t, pool, "staging.customers"); got != 2 {
		t.Errorf("staging.customers has %d rows, want 2", got)
	}

	// Missing phone defaults to Unknown, names are trimmed and joined.
	var fullName, phone string
	err = pool.QueryRow(ctx, `
        SELECT full_name, phone FROM staging.customers WHERE customer_id = 101
    `).Scan(&fullName, &phone)
	if err != nil {
		t.Fatalf("failed to read staged customer: %v", err)
	}
	if fullName != "Alice Nguyen" {
		t.Errorf("full_name = %q, want %q", fullName, "Alice Nguyen")
	}
	if phone != "Unknown" {
		t.Errorf("phone = %q, want Unknown", phone)
	}

	// The removed duplicate is accounted for in the run log.
	var message string
	err = pool.QueryRow(ctx, `
        SELECT message FROM etl.run_log
        WHERE batch_tag = $1 AND table_name = 'staging.customers'
    `, batchTag).Scan(&message)
	if err != nil {
		t.Fatalf("failed to read run log: %v", err)
	}
	if !strings.Contains(message, "1 duplicate") {
		t.Errorf("run log message %q does not report the duplicate", message)
	}
}

func TestOrphanedCustomerCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	pool := setupPipelineDB(t, "orphans")
	ctx := context.Background()

	// A sale referencing a customer the dimension does not have.
	_, err := pool.Exec(ctx, `
        INSERT INTO warehouse.dim_customers (customer_id, full_name) VALUES (1, 'Known Customer');
        INSERT INTO warehouse.fact_sales (order_id, product_id, customer_id, quantity, list_price, discount, total_amount)
        VALUES
            (1, 1, 1,   1, 100.00, 0.00, 100.00),
            (2, 1, 999, 1, 100.00, 0.00, 100.00);
    `)
	if err != nil {
		t.Fatalf("failed to insert warehouse rows: %v", err)
	}

	batchTag := etl.NewBatchTag()
	results, err := quality.NewChecker().Run(ctx, pool, batchTag)
	if err != nil {
		t.Fatalf("quality checks failed to run: %v", err)
	}

	var found bool
	for _, r := range results {
		if r.Name != "Orphaned Customer Records" {
			continue
		}
		found = true
		if r.Status != quality.StatusFail {
			t.Errorf("orphan check status = %s, want FAIL", r.Status)
		}
		if r.IssueCount != 1 {
			t.Errorf("orphan check issue_count = %d, want 1", r.IssueCount)
		}
	}
	if !found {
		t.Fatal("Orphaned Customer Records result not returned")
	}

	// The result is persisted under the batch tag.
	var status string
	err = pool.QueryRow(ctx, `
        SELECT status FROM etl.quality_check_results
        WHERE batch_tag = $1 AND check_name = 'Orphaned Customer Records'
    `, batchTag).Scan(&status)
	if err != nil {
		t.Fatalf("failed to read persisted result: %v", err)
	}
	if status != quality.StatusFail {
		t.Errorf("persisted status = %s, want FAIL", status)
	}
}
