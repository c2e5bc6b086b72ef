// Package rawload implements the raw layer: an all-TEXT, constraint-free
// mirror of the source flat files, truncated and reloaded per batch.
package rawload

import (
	"context"

	"github.com/retailops/salesdw/internal/etl"
)

// Schema SQL for the raw layer. Every column is TEXT on purpose: rows are
// loaded verbatim, duplicates and nulls included, and typing happens in the
// staging projections where failures can be caught and logged per table.
const createSchemaSQL = `
CREATE SCHEMA IF NOT EXISTS raw;

CREATE TABLE IF NOT EXISTS raw.brands (
    brand_id   TEXT,
    brand_name TEXT
);

CREATE TABLE IF NOT EXISTS raw.categories (
    category_id   TEXT,
    category_name TEXT
);

CREATE TABLE IF NOT EXISTS raw.customers (
    customer_id TEXT,
    first_name  TEXT,
    last_name   TEXT,
    phone       TEXT,
    email       TEXT,
    street      TEXT,
    city        TEXT,
    state       TEXT,
    zip_code    TEXT
);

CREATE TABLE IF NOT EXISTS raw.products (
    product_id   TEXT,
    product_name TEXT,
    brand_id     TEXT,
    category_id  TEXT,
    model_year   TEXT,
    list_price   TEXT
);

CREATE TABLE IF NOT EXISTS raw.stores (
    store_id   TEXT,
    store_name TEXT,
    phone      TEXT,
    email      TEXT,
    street     TEXT,
    city       TEXT,
    state      TEXT,
    zip_code   TEXT
);

CREATE TABLE IF NOT EXISTS raw.staffs (
    staff_id   TEXT,
    first_name TEXT,
    last_name  TEXT,
    email      TEXT,
    phone      TEXT,
    active     TEXT,
    store_id   TEXT,
    manager_id TEXT
);

CREATE TABLE IF NOT EXISTS raw.orders (
    order_id      TEXT,
    customer_id   TEXT,
    order_status  TEXT,
    order_date    TEXT,
    required_date TEXT,
    shipped_date  TEXT,
    store_id      TEXT,
    staff_id      TEXT
);

CREATE TABLE IF NOT EXISTS raw.order_items (
    order_id   TEXT,
    item_id    TEXT,
    product_id TEXT,
    quantity   TEXT,
    list_price TEXT,
    discount   TEXT
);

CREATE TABLE IF NOT EXISTS raw.stocks (
    store_id   TEXT,
    product_id TEXT,
    quantity   TEXT
);
`

// Drop schema SQL
const dropSchemaSQL = `DROP SCHEMA IF EXISTS raw CASCADE`

// CreateSchema creates the raw layer schema.
func CreateSchema(ctx context.Context, db etl.DB) error {
	_, err := db.Exec(ctx, createSchemaSQL)
	return err
}

// DropSchema drops the raw layer schema.
func DropSchema(ctx context.Context, db etl.DB) error {
	_, err := db.Exec(ctx, dropSchemaSQL)
	return err
}
