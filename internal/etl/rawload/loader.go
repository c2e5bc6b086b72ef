package rawload

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"

	"github.com/retailops/salesdw/internal/etl"
)

// fileSpec maps one source flat file onto one raw table.
type fileSpec struct {
	Table   string
	File    string
	Columns []string
}

// fileSpecs lists the source files in load order. One log row is written
// per table per batch.
var fileSpecs = []fileSpec{
	{Table: "brands", File: "brands.csv",
		Columns: []string{"brand_id", "brand_name"}},
	{Table: "categories", File: "categories.csv",
		Columns: []string{"category_id", "category_name"}},
	{Table: "customers", File: "customers.csv",
		Columns: []string{"customer_id", "first_name", "last_name", "phone", "email", "street", "city", "state", "zip_code"}},
	{Table: "products", File: "products.csv",
		Columns: []string{"product_id", "product_name", "brand_id", "category_id", "model_year", "list_price"}},
	{Table: "stores", File: "stores.csv",
		Columns: []string{"store_id", "store_name", "phone", "email", "street", "city", "state", "zip_code"}},
	{Table: "staffs", File: "staffs.csv",
		Columns: []string{"staff_id", "first_name", "last_name", "email", "phone", "active", "store_id", "manager_id"}},
	{Table: "orders", File: "orders.csv",
		Columns: []string{"order_id", "customer_id", "order_status", "order_date", "required_date", "shipped_date", "store_id", "staff_id"}},
	{Table: "order_items", File: "order_items.csv",
		Columns: []string{"order_id", "item_id", "product_id", "quantity", "list_price", "discount"}},
	{Table: "stocks", File: "stocks.csv",
		Columns: []string{"store_id", "product_id", "quantity"}},
}

// Loader reads source flat files into the raw layer.
type Loader struct {
	dir string
}

// NewLoader creates a loader reading files from dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Run truncates and reloads every raw table from its source file, logging
// one run-log row per table. A missing or malformed file fails that table
// only; the remaining tables still load.
func (l *Loader) Run(ctx context.Context, db etl.DB, batchTag string) error {
	steps := make([]etl.Step, 0, len(fileSpecs))
	for _, spec := range fileSpecs {
		steps = append(steps, etl.Step{
			Table: "raw." + spec.Table,
			Run: func(ctx context.Context, db etl.DB) (string, error) {
				return l.loadFile(ctx, db, spec)
			},
		})
	}
	return etl.RunSteps(ctx, db, etl.LayerRaw, batchTag, steps)
}

func (l *Loader) loadFile(ctx context.Context, db etl.DB, spec fileSpec) (string, error) {
	path := filepath.Join(l.dir, spec.File)
	rows, err := readSourceFile(path, len(spec.Columns))
	if err != nil {
		return "", err
	}

	if _, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE raw.%s", spec.Table)); err != nil {
		return "", fmt.Errorf("failed to truncate raw.%s: %w", spec.Table, err)
	}

	n, err := db.CopyFrom(ctx,
		pgx.Identifier{"raw", spec.Table},
		spec.Columns,
		pgx.CopyFromRows(rows))
	if err != nil {
		return "", fmt.Errorf("failed to copy into raw.%s: %w", spec.Table, err)
	}

	return fmt.Sprintf("loaded %d rows from %s", n, spec.File), nil
}

// readSourceFile parses one delimited source file. The header row is
// skipped and empty fields become NULLs.
func readSourceFile(path string, wantFields int) ([][]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = wantFields

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty, expected a header row", filepath.Base(path))
	}

	// Skip the header row.
	rows := make([][]any, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, recordToRow(record))
	}
	return rows, nil
}

// recordToRow converts a parsed record into CopyFrom values, mapping empty
// and literal NULL fields to SQL NULL. Field content is otherwise kept
// verbatim; trimming belongs to the staging layer.
func recordToRow(record []string) []any {
	row := make([]any, len(record))
	for i, field := range record {
		if field == "" || field == "NULL" {
			row[i] = nil
		} else {
			row[i] = field
		}
	}
	return row
}
