// Package quality implements the declarative quality-check battery run
// against the staging and warehouse layers after each load.
package quality

// Check categories. Every check belongs to exactly one family.
const (
	CategoryKeyIntegrity = "Key Integrity"
	CategoryReferential  = "Referential Integrity"
	CategoryRelationship = "Relationships"
	CategoryBusinessRule = "Business Rules"
)

// Check is one stateless assertion over current table contents. Query must
// return a single row of (total_rows, issue_count); a zero issue count
// classifies as PASS, anything else as FAIL, or WARNING when the check is
// advisory.
type Check struct {
	Category string
	Name     string
	Table    string
	Query    string
	WarnOnly bool
	Detail   string
}

// battery is the fixed check list, written out by hand per table. Checks
// are independent: no ordering, no short-circuiting.
var battery = []Check{
	// --- Key integrity: dimension natural keys are unique and non-null ---
	{
		Category: CategoryKeyIntegrity,
		Name:     "Duplicate Customer Keys",
		Table:    "warehouse.dim_customers",
		Query: `SELECT COUNT(*), COUNT(*) - COUNT(DISTINCT customer_id)
                FROM warehouse.dim_customers`,
		Detail: "customer_id values appearing more than once",
	},
	{
		Category: CategoryKeyIntegrity,
		Name:     "Null Customer Keys",
		Table:    "warehouse.dim_customers",
		Query: `SELECT COUNT(*), COUNT(*) FILTER (WHERE customer_id IS NULL)
                FROM warehouse.dim_customers`,
		Detail: "rows with a null customer_id",
	},
	{
		Category: CategoryKeyIntegrity,
		Name:     "Duplicate Product Keys",
		Table:    "warehouse.dim_products",
		Query: `SELECT COUNT(*), COUNT(*) - COUNT(DISTINCT product_id)
                FROM warehouse.dim_products`,
		Detail: "product_id values appearing more than once",
	},
	{
		Category: CategoryKeyIntegrity,
		Name:     "Null Product Keys",
		Table:    "warehouse.dim_products",
		Query: `SELECT COUNT(*), COUNT(*) FILTER (WHERE product_id IS NULL)
                FROM warehouse.dim_products`,
		Detail: "rows with a null product_id",
	},
	{
		Category: CategoryKeyIntegrity,
		Name:     "Duplicate Store Keys",
		Table:    "warehouse.dim_stores",
		Query: `SELECT COUNT(*), COUNT(*) - COUNT(DISTINCT store_id)
                FROM warehouse.dim_stores`,
		Detail: "store_id values appearing more than once",
	},
	{
		Category: CategoryKeyIntegrity,
		Name:     "Null Store Keys",
		Table:    "warehouse.dim_stores",
		Query: `SELECT COUNT(*), COUNT(*) FILTER (WHERE store_id IS NULL)
                FROM warehouse.dim_stores`,
		Detail: "rows with a null store_id",
	},
	{
		Category: CategoryKeyIntegrity,
		Name:     "Duplicate Staff Keys",
		Table:    "warehouse.dim_staffs",
		Query: `SELECT COUNT(*), COUNT(*) - COUNT(DISTINCT staff_id)
                FROM warehouse.dim_staffs`,
		Detail: "staff_id values appearing more than once",
	},
	{
		Category: CategoryKeyIntegrity,
		Name:     "Duplicate Date Keys",
		Table:    "warehouse.dim_dates",
		Query: `SELECT COUNT(*), COUNT(*) - COUNT(DISTINCT date_id)
                FROM warehouse.dim_dates`,
		Detail: "date_id values appearing more than once",
	},
	{
		Category: CategoryKeyIntegrity,
		Name:     "Duplicate Staging Customer Keys",
		Table:    "staging.customers",
		Query: `SELECT COUNT(*), COUNT(*) - COUNT(DISTINCT customer_id)
                FROM staging.customers`,
		Detail: "staging customer_id values appearing more than once",
	},
	{
		Category: CategoryKeyIntegrity,
		Name:     "Duplicate Staging Order Keys",
		Table:    "staging.orders",
		Query: `SELECT COUNT(*), COUNT(*) - COUNT(DISTINCT order_id)
                FROM staging.orders`,
		Detail: "staging order_id values appearing more than once",
	},

	// --- Referential integrity: fact keys resolve to dimension rows ---
	{
		Category: CategoryReferential,
		Name:     "Orphaned Customer Records",
		Table:    "warehouse.fact_sales",
		Query: `SELECT (SELECT COUNT(*) FROM warehouse.fact_sales), COUNT(*)
                FROM warehouse.fact_sales f
                LEFT JOIN warehouse.dim_customers d ON d.customer_id = f.customer_id
                WHERE d.customer_id IS NULL`,
		Detail: "sales rows whose customer_id has no dimension row",
	},
	{
		Category: CategoryReferential,
		Name:     "Orphaned Product Records",
		Table:    "warehouse.fact_sales",
		Query: `SELECT (SELECT COUNT(*) FROM warehouse.fact_sales), COUNT(*)
                FROM warehouse.fact_sales f
                LEFT JOIN warehouse.dim_products d ON d.product_id = f.product_id
                WHERE d.product_id IS NULL`,
		Detail: "sales rows whose product_id has no dimension row",
	},
	{
		Category: CategoryReferential,
		Name:     "Orphaned Store Records",
		Table:    "warehouse.fact_sales",
		Query: `SELECT (SELECT COUNT(*) FROM warehouse.fact_sales), COUNT(*)
                FROM warehouse.fact_sales f
                LEFT JOIN warehouse.dim_stores d ON d.store_id = f.store_id
                WHERE d.store_id IS NULL`,
		Detail: "sales rows whose store_id has no dimension row",
	},
	{
		Category: CategoryReferential,
		Name:     "Orphaned Staff Records",
		Table:    "warehouse.fact_sales",
		Query: `SELECT (SELECT COUNT(*) FROM warehouse.fact_sales), COUNT(*)
                FROM warehouse.fact_sales f
                LEFT JOIN warehouse.dim_staffs d ON d.staff_id = f.staff_id
                WHERE d.staff_id IS NULL`,
		Detail: "sales rows whose staff_id has no dimension row",
	},
	{
		Category: CategoryReferential,
		Name:     "Unresolved Sale Dates",
		Table:    "warehouse.fact_sales",
		Query: `SELECT (SELECT COUNT(*) FROM warehouse.fact_sales), COUNT(*)
                FROM warehouse.fact_sales f
                LEFT JOIN warehouse.dim_dates d ON d.date_id = f.date_id
                WHERE f.date_id IS NULL OR d.date_id IS NULL`,
		Detail: "sales rows without a resolvable date dimension row",
	},
	{
		Category: CategoryReferential,
		Name:     "Orphaned Inventory Stores",
		Table:    "warehouse.fact_inventory",
		Query: `SELECT (SELECT COUNT(*) FROM warehouse.fact_inventory), COUNT(*)
                FROM warehouse.fact_inventory f
                LEFT JOIN warehouse.dim_stores d ON d.store_id = f.store_id
                WHERE d.store_id IS NULL`,
		Detail: "inventory rows whose store_id has no dimension row",
	},
	{
		Category: CategoryReferential,
		Name:     "Orphaned Inventory Products",
		Table:    "warehouse.fact_inventory",
		Query: `SELECT (SELECT COUNT(*) FROM warehouse.fact_inventory), COUNT(*)
                FROM warehouse.fact_inventory f
                LEFT JOIN warehouse.dim_products d ON d.product_id = f.product_id
                WHERE d.product_id IS NULL`,
		Detail: "inventory rows whose product_id has no dimension row",
	},

	// --- Relationships: grain uniqueness and cardinality ---
	{
		Category: CategoryRelationship,
		Name:     "Duplicate Sales Grain",
		Table:    "warehouse.fact_sales",
		Query: `SELECT COUNT(*), COUNT(*) - COUNT(DISTINCT (order_id, product_id))
                FROM warehouse.fact_sales`,
		Detail: "fact rows sharing the same (order_id, product_id)",
	},
	{
		Category: CategoryRelationship,
		Name:     "Duplicate Inventory Grain",
		Table:    "warehouse.fact_inventory",
		Query: `SELECT COUNT(*), COUNT(*) - COUNT(DISTINCT (store_id, product_id))
                FROM warehouse.fact_inventory`,
		Detail: "inventory rows sharing the same (store_id, product_id)",
	},
	{
		Category: CategoryRelationship,
		Name:     "Sales Fact Cardinality",
		Table:    "warehouse.fact_sales",
		Query: `SELECT (SELECT COUNT(*) FROM staging.order_items),
                       ABS((SELECT COUNT(*) FROM staging.order_items) -
                           (SELECT COUNT(*) FROM warehouse.fact_sales))`,
		WarnOnly: true,
		Detail:   "staging order items without a corresponding fact row",
	},
	{
		Category: CategoryRelationship,
		Name:     "Unsold Products",
		Table:    "warehouse.dim_products",
		Query: `SELECT (SELECT COUNT(*) FROM warehouse.dim_products), COUNT(*)
                FROM warehouse.dim_products d
                LEFT JOIN warehouse.fact_sales f ON f.product_id = d.product_id
                WHERE f.product_id IS NULL`,
		WarnOnly: true,
		Detail:   "dimension products never appearing in a sale",
	},
	{
		Category: CategoryRelationship,
		Name:     "Customers Without Orders",
		Table:    "warehouse.dim_customers",
		Query: `SELECT (SELECT COUNT(*) FROM warehouse.dim_customers), COUNT(*)
                FROM warehouse.dim_customers d
                LEFT JOIN warehouse.fact_sales f ON f.customer_id = d.customer_id
                WHERE f.customer_id IS NULL`,
		WarnOnly: true,
		Detail:   "dimension customers never appearing in a sale",
	},

	// --- Business rules: measure bounds and recomputation ---
	{
		Category: CategoryBusinessRule,
		Name:     "Non-Positive Quantities",
		Table:    "warehouse.fact_sales",
		Query: `SELECT COUNT(*), COUNT(*) FILTER (WHERE quantity <= 0)
                FROM warehouse.fact_sales`,
		Detail: "sales rows without a positive quantity",
	},
	{
		Category: CategoryBusinessRule,
		Name:     "Negative List Prices",
		Table:    "warehouse.fact_sales",
		Query: `SELECT COUNT(*), COUNT(*) FILTER (WHERE list_price < 0)
                FROM warehouse.fact_sales`,
		Detail: "sales rows with a negative list price",
	},
	{
		Category: CategoryBusinessRule,
		Name:     "Discount Out of Range",
		Table:    "warehouse.fact_sales",
		Query: `SELECT COUNT(*), COUNT(*) FILTER (WHERE discount < 0 OR discount > 1)
                FROM warehouse.fact_sales`,
		Detail: "sales rows with a discount outside [0, 1]",
	},
	{
		Category: CategoryBusinessRule,
		Name:     "Total Amount Mismatch",
		Table:    "warehouse.fact_sales",
		Query: `SELECT COUNT(*),
                       COUNT(*) FILTER (WHERE ABS(total_amount - quantity * list_price * (1 - discount)) > 0.01)
                FROM warehouse.fact_sales`,
		Detail: "sales rows where total_amount deviates from quantity * list_price * (1 - discount) by more than 0.01",
	},
	{
		Category: CategoryBusinessRule,
		Name:     "Staging Sales Mismatch",
		Table:    "staging.order_items",
		Query: `SELECT COUNT(*),
                       COUNT(*) FILTER (WHERE ABS(sales - quantity * list_price * (1 - discount)) > 0.01)
                FROM staging.order_items`,
		Detail: "staging line items where the derived sales amount deviates by more than 0.01",
	},
	{
		Category: CategoryBusinessRule,
		Name:     "Negative Stock Levels",
		Table:    "warehouse.fact_inventory",
		Query: `SELECT COUNT(*), COUNT(*) FILTER (WHERE quantity_on_hand < 0)
                FROM warehouse.fact_inventory`,
		Detail: "inventory rows with a negative quantity on hand",
	},
}

// Battery returns the fixed check list.
func Battery() []Check {
	return battery
}
