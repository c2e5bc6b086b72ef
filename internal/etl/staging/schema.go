// Package staging implements the staging layer: deduplicated, cleaned,
// typed projections of the raw tables, one row per natural key.
package staging

import (
	"context"

	"github.com/retailops/salesdw/internal/etl"
)

// Schema SQL for the staging layer. Keys are typed but deliberately not
// constrained; key uniqueness is produced by the transform and verified by
// the quality checks.
const createSchemaSQL = `
CREATE SCHEMA IF NOT EXISTS staging;

CREATE TABLE IF NOT EXISTS staging.brands (
    brand_id   INTEGER,
    brand_name TEXT
);

CREATE TABLE IF NOT EXISTS staging.categories (
    category_id   INTEGER,
    category_name TEXT
);

CREATE TABLE IF NOT EXISTS staging.customers (
    customer_id INTEGER,
    full_name   TEXT,
    phone       TEXT,
    email       TEXT,
    street      TEXT,
    city        TEXT,
    state       TEXT,
    zip_code    TEXT
);

CREATE TABLE IF NOT EXISTS staging.products (
    product_id   INTEGER,
    product_name TEXT,
    brand_id     INTEGER,
    category_id  INTEGER,
    model_year   INTEGER,
    list_price   NUMERIC(10,2)
);

CREATE TABLE IF NOT EXISTS staging.stores (
    store_id   INTEGER,
    store_name TEXT,
    phone      TEXT,
    email      TEXT,
    street     TEXT,
    city       TEXT,
    state      TEXT,
    zip_code   TEXT
);

CREATE TABLE IF NOT EXISTS staging.staffs (
    staff_id      INTEGER,
    full_name     TEXT,
    email         TEXT,
    phone         TEXT,
    active_status TEXT,
    store_id      INTEGER,
    manager_id    INTEGER
);

CREATE TABLE IF NOT EXISTS staging.orders (
    order_id      INTEGER,
    customer_id   INTEGER,
    order_status  TEXT,
    order_date    DATE,
    required_date DATE,
    shipped_date  DATE,
    store_id      INTEGER,
    staff_id      INTEGER
);

CREATE TABLE IF NOT EXISTS staging.order_items (
    order_id   INTEGER,
    item_id    INTEGER,
    product_id INTEGER,
    quantity   INTEGER,
    list_price NUMERIC(10,2),
    discount   NUMERIC(4,2),
    sales      NUMERIC(12,2)
);

CREATE TABLE IF NOT EXISTS staging.stocks (
    store_id   INTEGER,
    product_id INTEGER,
    quantity   INTEGER
);
`

// Drop schema SQL
const dropSchemaSQL = `DROP SCHEMA IF EXISTS staging CASCADE`

// CreateSchema creates the staging layer schema.
func CreateSchema(ctx context.Context, db etl.DB) error {
	_, err := db.Exec(ctx, createSchemaSQL)
	return err
}

// DropSchema drops the staging layer schema.
func DropSchema(ctx context.Context, db etl.DB) error {
	_, err := db.Exec(ctx, dropSchemaSQL)
	return err
}
