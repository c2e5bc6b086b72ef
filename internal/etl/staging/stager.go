package staging

import (
	"context"
	"fmt"

	"github.com/retailops/salesdw/internal/etl"
)

// tableSpec holds the hand-written transform for one staging table: the
// duplicate count over the source's natural key and the deduplicating,
// cleaning projection.
type tableSpec struct {
	Table     string
	Source    string
	DupSQL    string
	InsertSQL string
}

// dupCountSQL counts source rows beyond the first per natural key, ignoring
// rows with a null key (those are dropped by the projection's filter, not
// counted as duplicates).
func dupCountSQL(source, key string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) - COUNT(DISTINCT %[2]s) FROM raw.%[1]s WHERE %[3]s",
		source, key, keyNotNull(key))
}

func keyNotNull(key string) string {
	return key + " IS NOT NULL"
}

// specs returns the staging transforms in load order. Deduplication keeps
// the first physical occurrence per key (ORDER BY key, ctid), which is
// deterministic for a freshly reloaded raw table.
func specs() []tableSpec {
	brandKey := textExpr("brand_id")
	categoryKey := textExpr("category_id")
	customerKey := textExpr("customer_id")
	productKey := textExpr("product_id")
	storeKey := textExpr("store_id")
	staffKey := textExpr("staff_id")
	orderKey := textExpr("order_id")
	itemKey := fmt.Sprintf("(%s, %s)", textExpr("order_id"), textExpr("item_id"))
	stockKey := fmt.Sprintf("(%s, %s)", textExpr("store_id"), textExpr("product_id"))

	return []tableSpec{
		{
			Table:  "brands",
			Source: "brands",
			DupSQL: dupCountSQL("brands", brandKey),
			InsertSQL: fmt.Sprintf(`
INSERT INTO staging.brands (brand_id, brand_name)
SELECT DISTINCT ON (%[1]s)
       %[2]s,
       %[3]s
FROM raw.brands
WHERE %[1]s IS NOT NULL
ORDER BY %[1]s, ctid`,
				brandKey, intExpr("brand_id"), textExpr("brand_name")),
		},
		{
			Table:  "categories",
			Source: "categories",
			DupSQL: dupCountSQL("categories", categoryKey),
			InsertSQL: fmt.Sprintf(`
INSERT INTO staging.categories (category_id, category_name)
SELECT DISTINCT ON (%[1]s)
       %[2]s,
       %[3]s
FROM raw.categories
WHERE %[1]s IS NOT NULL
ORDER BY %[1]s, ctid`,
				categoryKey, intExpr("category_id"), textExpr("category_name")),
		},
		{
			Table:  "customers",
			Source: "customers",
			DupSQL: dupCountSQL("customers", customerKey),
			InsertSQL: fmt.Sprintf(`
INSERT INTO staging.customers (customer_id, full_name, phone, email, street, city, state, zip_code)
SELECT DISTINCT ON (%[1]s)
       %[2]s,
       %[3]s,
       COALESCE(%[4]s, 'Unknown'),
       %[5]s,
       %[6]s,
       %[7]s,
       %[8]s,
       %[9]s
FROM raw.customers
WHERE %[1]s IS NOT NULL
ORDER BY %[1]s, ctid`,
				customerKey,
				intExpr("customer_id"),
				fullNameExpr("first_name", "last_name"),
				textExpr("phone"),
				textExpr("email"),
				textExpr("street"),
				textExpr("city"),
				caseExpr("state", stateNames),
				textExpr("zip_code")),
		},
		{
			Table:  "products",
			Source: "products",
			DupSQL: dupCountSQL("products", productKey),
			InsertSQL: fmt.Sprintf(`
INSERT INTO staging.products (product_id, product_name, brand_id, category_id, model_year, list_price)
SELECT DISTINCT ON (%[1]s)
       %[2]s,
       %[3]s,
       %[4]s,
       %[5]s,
       %[6]s,
       %[7]s
FROM raw.products
WHERE %[1]s IS NOT NULL
ORDER BY %[1]s, ctid`,
				productKey,
				intExpr("product_id"),
				textExpr("product_name"),
				intExpr("brand_id"),
				intExpr("category_id"),
				intExpr("model_year"),
				numericExpr("list_price")),
		},
		{
			Table:  "stores",
			Source: "stores",
			DupSQL: dupCountSQL("stores", storeKey),
			InsertSQL: fmt.Sprintf(`
INSERT INTO staging.stores (store_id, store_name, phone, email, street, city, state, zip_code)
SELECT DISTINCT ON (%[1]s)
       %[2]s,
       %[3]s,
       %[4]s,
       %[5]s,
       %[6]s,
       %[7]s,
       %[8]s,
       %[9]s
FROM raw.stores
WHERE %[1]s IS NOT NULL
ORDER BY %[1]s, ctid`,
				storeKey,
				intExpr("store_id"),
				textExpr("store_name"),
				textExpr("phone"),
				textExpr("email"),
				textExpr("street"),
				textExpr("city"),
				caseExpr("state", stateNames),
				textExpr("zip_code")),
		},
		{
			Table:  "staffs",
			Source: "staffs",
			DupSQL: dupCountSQL("staffs", staffKey),
			// manager_id NULL marks the top of the reporting chain; the
			// staging convention substitutes 0 for the missing key.
			InsertSQL: fmt.Sprintf(`
INSERT INTO staging.staffs (staff_id, full_name, email, phone, active_status, store_id, manager_id)
SELECT DISTINCT ON (%[1]s)
       %[2]s,
       %[3]s,
       %[4]s,
       %[5]s,
       %[6]s,
       %[7]s,
       COALESCE(%[8]s, 0)
FROM raw.staffs
WHERE %[1]s IS NOT NULL
ORDER BY %[1]s, ctid`,
				staffKey,
				intExpr("staff_id"),
				fullNameExpr("first_name", "last_name"),
				textExpr("email"),
				textExpr("phone"),
				caseExpr("active", activeNames),
				intExpr("store_id"),
				intExpr("manager_id")),
		},
		{
			Table:  "orders",
			Source: "orders",
			DupSQL: dupCountSQL("orders", orderKey),
			InsertSQL: fmt.Sprintf(`
INSERT INTO staging.orders (order_id, customer_id, order_status, order_date, required_date, shipped_date, store_id, staff_id)
SELECT DISTINCT ON (%[1]s)
       %[2]s,
       %[3]s,
       %[4]s,
       %[5]s,
       %[6]s,
       %[7]s,
       %[8]s,
       %[9]s
FROM raw.orders
WHERE %[1]s IS NOT NULL
ORDER BY %[1]s, ctid`,
				orderKey,
				intExpr("order_id"),
				intExpr("customer_id"),
				caseExpr("order_status", orderStatusNames),
				dateExpr("order_date"),
				dateExpr("required_date"),
				dateExpr("shipped_date"),
				intExpr("store_id"),
				intExpr("staff_id")),
		},
		{
			Table:  "order_items",
			Source: "order_items",
			DupSQL: dupCountSQL("order_items", itemKey),
			InsertSQL: fmt.Sprintf(`
INSERT INTO staging.order_items (order_id, item_id, product_id, quantity, list_price, discount, sales)
SELECT DISTINCT ON %[1]s
       %[2]s,
       %[3]s,
       %[4]s,
       %[5]s,
       %[6]s,
       %[7]s,
       %[5]s * %[6]s * (1 - %[7]s)
FROM raw.order_items
WHERE %[8]s IS NOT NULL AND %[9]s IS NOT NULL
ORDER BY %[8]s, %[9]s, ctid`,
				itemKey,
				intExpr("order_id"),
				intExpr("item_id"),
				intExpr("product_id"),
				intExpr("quantity"),
				numericExpr("list_price"),
				numericExpr("discount"),
				textExpr("order_id"),
				textExpr("item_id")),
		},
		{
			Table:  "stocks",
			Source: "stocks",
			DupSQL: dupCountSQL("stocks", stockKey),
			InsertSQL: fmt.Sprintf(`
INSERT INTO staging.stocks (store_id, product_id, quantity)
SELECT DISTINCT ON %[1]s
       %[2]s,
       %[3]s,
       %[4]s
FROM raw.stocks
WHERE %[5]s IS NOT NULL AND %[6]s IS NOT NULL
ORDER BY %[5]s, %[6]s, ctid`,
				stockKey,
				intExpr("store_id"),
				intExpr("product_id"),
				intExpr("quantity"),
				textExpr("store_id"),
				textExpr("product_id")),
		},
	}
}

// Stager runs the raw -> staging transform.
type Stager struct{}

// NewStager creates a new stager.
func NewStager() *Stager {
	return &Stager{}
}

// Run transforms every staging table in sequence: count duplicates,
// truncate, repopulate with the deduplicated cleaned projection, and log
// the outcome. A failing table is logged and the run continues.
func (s *Stager) Run(ctx context.Context, db etl.DB, batchTag string) error {
	tableSpecs := specs()
	steps := make([]etl.Step, 0, len(tableSpecs))
	for _, spec := range tableSpecs {
		steps = append(steps, etl.Step{
			Table: "staging." + spec.Table,
			Run: func(ctx context.Context, db etl.DB) (string, error) {
				return s.stageTable(ctx, db, spec)
			},
		})
	}
	return etl.RunSteps(ctx, db, etl.LayerStaging, batchTag, steps)
}

func (s *Stager) stageTable(ctx context.Context, db etl.DB, spec tableSpec) (string, error) {
	var dups int64
	if err := db.QueryRow(ctx, spec.DupSQL).Scan(&dups); err != nil {
		return "", fmt.Errorf("failed to count duplicates in raw.%s: %w", spec.Source, err)
	}

	if _, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE staging.%s", spec.Table)); err != nil {
		return "", fmt.Errorf("failed to truncate staging.%s: %w", spec.Table, err)
	}

	tag, err := db.Exec(ctx, spec.InsertSQL)
	if err != nil {
		return "", fmt.Errorf("failed to populate staging.%s: %w", spec.Table, err)
	}

	return fmt.Sprintf("staged %d rows, removed %d duplicate rows", tag.RowsAffected(), dups), nil
}
