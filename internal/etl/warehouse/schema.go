// Package warehouse implements the modelling layer: star-schema dimension
// and fact tables derived from staging, truncated and reloaded per batch.
package warehouse

import (
	"context"

	"github.com/retailops/salesdw/internal/etl"
)

// Schema SQL for the warehouse layer. Foreign keys are natural keys and are
// validated by the quality checks rather than enforced by constraints, so a
// bad load surfaces as a FAIL result instead of a half-written table.
const createSchemaSQL = `
CREATE SCHEMA IF NOT EXISTS warehouse;

CREATE TABLE IF NOT EXISTS warehouse.dim_customers (
    customer_id INTEGER,
    full_name   TEXT,
    phone       TEXT,
    email       TEXT,
    street      TEXT,
    city        TEXT,
    state       TEXT,
    zip_code    TEXT
);

CREATE TABLE IF NOT EXISTS warehouse.dim_products (
    product_id    INTEGER,
    product_name  TEXT,
    brand_name    TEXT,
    category_name TEXT,
    model_year    INTEGER,
    list_price    NUMERIC(10,2)
);

CREATE TABLE IF NOT EXISTS warehouse.dim_stores (
    store_id   INTEGER,
    store_name TEXT,
    phone      TEXT,
    email      TEXT,
    street     TEXT,
    city       TEXT,
    state      TEXT,
    zip_code   TEXT
);

CREATE TABLE IF NOT EXISTS warehouse.dim_staffs (
    staff_id      INTEGER,
    full_name     TEXT,
    email         TEXT,
    phone         TEXT,
    active_status TEXT,
    store_name    TEXT,
    manager_id    INTEGER
);

CREATE TABLE IF NOT EXISTS warehouse.dim_dates (
    date_id      INTEGER,
    full_date    DATE,
    day_of_month INTEGER,
    week_day     TEXT,
    month_num    INTEGER,
    month_name   TEXT,
    quarter      INTEGER,
    year         INTEGER
);

CREATE TABLE IF NOT EXISTS warehouse.fact_sales (
    order_id     INTEGER,
    product_id   INTEGER,
    customer_id  INTEGER,
    store_id     INTEGER,
    staff_id     INTEGER,
    date_id      INTEGER,
    order_status TEXT,
    quantity     INTEGER,
    list_price   NUMERIC(10,2),
    discount     NUMERIC(4,2),
    total_amount NUMERIC(12,2)
);

CREATE TABLE IF NOT EXISTS warehouse.fact_inventory (
    store_id         INTEGER,
    product_id       INTEGER,
    quantity_on_hand INTEGER,
    last_updated     TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_fact_sales_date ON warehouse.fact_sales(date_id);
CREATE INDEX IF NOT EXISTS idx_fact_sales_customer ON warehouse.fact_sales(customer_id);
CREATE INDEX IF NOT EXISTS idx_fact_sales_product ON warehouse.fact_sales(product_id);
CREATE INDEX IF NOT EXISTS idx_fact_inventory_store ON warehouse.fact_inventory(store_id);
`

// Drop schema SQL
const dropSchemaSQL = `DROP SCHEMA IF EXISTS warehouse CASCADE`

// CreateSchema creates the warehouse layer schema.
func CreateSchema(ctx context.Context, db etl.DB) error {
	_, err := db.Exec(ctx, createSchemaSQL)
	return err
}

// DropSchema drops the warehouse layer schema.
func DropSchema(ctx context.Context, db etl.DB) error {
	_, err := db.Exec(ctx, dropSchemaSQL)
	return err
}
