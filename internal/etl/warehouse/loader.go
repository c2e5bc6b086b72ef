package warehouse

import (
	"context"
	"fmt"

	"github.com/retailops/salesdw/internal/etl"
)

// tableSpec holds the hand-written derivation for one warehouse table.
type tableSpec struct {
	Table     string
	InsertSQL string
}

// specs returns the warehouse derivations in load order. dim_dates must
// precede fact_sales: the fact join resolves order dates against the
// freshly ranked date dimension.
func specs() []tableSpec {
	return []tableSpec{
		{
			Table: "dim_customers",
			InsertSQL: `
INSERT INTO warehouse.dim_customers (customer_id, full_name, phone, email, street, city, state, zip_code)
SELECT customer_id, full_name, phone, email, street, city, state, zip_code
FROM staging.customers`,
		},
		{
			Table: "dim_products",
			InsertSQL: `
INSERT INTO warehouse.dim_products (product_id, product_name, brand_name, category_name, model_year, list_price)
SELECT p.product_id,
       p.product_name,
       COALESCE(b.brand_name, 'Unknown'),
       COALESCE(c.category_name, 'Unknown'),
       p.model_year,
       p.list_price
FROM staging.products p
LEFT JOIN staging.brands b ON b.brand_id = p.brand_id
LEFT JOIN staging.categories c ON c.category_id = p.category_id`,
		},
		{
			Table: "dim_stores",
			InsertSQL: `
INSERT INTO warehouse.dim_stores (store_id, store_name, phone, email, street, city, state, zip_code)
SELECT store_id, store_name, phone, email, street, city, state, zip_code
FROM staging.stores`,
		},
		{
			Table: "dim_staffs",
			InsertSQL: `
INSERT INTO warehouse.dim_staffs (staff_id, full_name, email, phone, active_status, store_name, manager_id)
SELECT s.staff_id,
       s.full_name,
       s.email,
       s.phone,
       s.active_status,
       st.store_name,
       s.manager_id
FROM staging.staffs s
LEFT JOIN staging.stores st ON st.store_id = s.store_id`,
		},
		{
			// The date dimension is generated, not sourced: distinct order
			// dates are ranked into a dense surrogate key.
			Table: "dim_dates",
			InsertSQL: `
INSERT INTO warehouse.dim_dates (date_id, full_date, day_of_month, week_day, month_num, month_name, quarter, year)
SELECT DENSE_RANK() OVER (ORDER BY d)::INTEGER,
       d,
       EXTRACT(DAY FROM d)::INTEGER,
       TRIM(TO_CHAR(d, 'Day')),
       EXTRACT(MONTH FROM d)::INTEGER,
       TRIM(TO_CHAR(d, 'Month')),
       EXTRACT(QUARTER FROM d)::INTEGER,
       EXTRACT(YEAR FROM d)::INTEGER
FROM (
    SELECT DISTINCT order_date AS d
    FROM staging.orders
    WHERE order_date IS NOT NULL
) AS order_dates`,
		},
		{
			Table: "fact_sales",
			InsertSQL: `
INSERT INTO warehouse.fact_sales (order_id, product_id, customer_id, store_id, staff_id, date_id, order_status, quantity, list_price, discount, total_amount)
SELECT oi.order_id,
       oi.product_id,
       o.customer_id,
       o.store_id,
       o.staff_id,
       dd.date_id,
       o.order_status,
       oi.quantity,
       oi.list_price,
       oi.discount,
       oi.quantity * oi.list_price - oi.discount * oi.quantity * oi.list_price
FROM staging.order_items oi
JOIN staging.orders o ON o.order_id = oi.order_id
LEFT JOIN warehouse.dim_dates dd ON dd.full_date = o.order_date`,
		},
		{
			// Inventory facts carry the load time, not a source timestamp.
			Table: "fact_inventory",
			InsertSQL: `
INSERT INTO warehouse.fact_inventory (store_id, product_id, quantity_on_hand, last_updated)
SELECT store_id, product_id, quantity, NOW()
FROM staging.stocks`,
		},
	}
}

// Loader runs the staging -> warehouse derivation.
type Loader struct{}

// NewLoader creates a new warehouse loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Run truncates and repopulates every dimension and fact table in sequence,
// logging one run-log row per table. A failing table is logged and the run
// continues.
func (l *Loader) Run(ctx context.Context, db etl.DB, batchTag string) error {
	tableSpecs := specs()
	steps := make([]etl.Step, 0, len(tableSpecs))
	for _, spec := range tableSpecs {
		steps = append(steps, etl.Step{
			Table: "warehouse." + spec.Table,
			Run: func(ctx context.Context, db etl.DB) (string, error) {
				return l.loadTable(ctx, db, spec)
			},
		})
	}
	return etl.RunSteps(ctx, db, etl.LayerWarehouse, batchTag, steps)
}

func (l *Loader) loadTable(ctx context.Context, db etl.DB, spec tableSpec) (string, error) {
	if _, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE warehouse.%s", spec.Table)); err != nil {
		return "", fmt.Errorf("failed to truncate warehouse.%s: %w", spec.Table, err)
	}

	tag, err := db.Exec(ctx, spec.InsertSQL)
	if err != nil {
		return "", fmt.Errorf("failed to populate warehouse.%s: %w", spec.Table, err)
	}

	return fmt.Sprintf("loaded %d rows", tag.RowsAffected()), nil
}
