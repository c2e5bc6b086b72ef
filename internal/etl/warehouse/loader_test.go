package warehouse

import (
	"strings"
	"testing"
)

func TestSpecs(t *testing.T) {
	tableSpecs := specs()
	if len(tableSpecs) != 7 {
		t.Fatalf("expected 7 warehouse tables, got %d", len(tableSpecs))
	}

	seen := make(map[string]bool)
	for _, spec := range tableSpecs {
		if seen[spec.Table] {
			t.Errorf("duplicate warehouse table %s", spec.Table)
		}
		seen[spec.Table] = true

		if !strings.Contains(createSchemaSQL, "warehouse."+spec.Table) {
			t.Errorf("warehouse.%s missing from schema DDL", spec.Table)
		}
		if !strings.Contains(spec.InsertSQL, "INSERT INTO warehouse."+spec.Table) {
			t.Errorf("%s insert does not target its warehouse table", spec.Table)
		}
		if !strings.Contains(spec.InsertSQL, "staging.") {
			t.Errorf("%s insert does not read from the staging layer", spec.Table)
		}
	}
}

func TestDimDatesPrecedesFactSales(t *testing.T) {
	// fact_sales resolves date_id against the freshly generated dim_dates,
	// so the date dimension must load first.
	var dates, sales int = -1, -1
	for i, spec := range specs() {
		switch spec.Table {
		case "dim_dates":
			dates = i
		case "fact_sales":
			sales = i
		}
	}
	if dates < 0 || sales < 0 {
		t.Fatal("dim_dates or fact_sales spec not found")
	}
	if dates > sales {
		t.Errorf("dim_dates (index %d) must load before fact_sales (index %d)", dates, sales)
	}
}

func TestDimDatesIsRanked(t *testing.T) {
	for _, spec := range specs() {
		if spec.Table != "dim_dates" {
			continue
		}
		if !strings.Contains(spec.InsertSQL, "DENSE_RANK() OVER (ORDER BY") {
			t.Error("dim_dates surrogate key is not a dense rank over dates")
		}
		if !strings.Contains(spec.InsertSQL, "SELECT DISTINCT order_date") {
			t.Error("dim_dates does not rank distinct order dates")
		}
		return
	}
	t.Fatal("dim_dates spec not found")
}

func TestFactSalesDerivesTotalAmount(t *testing.T) {
	for _, spec := range specs() {
		if spec.Table != "fact_sales" {
			continue
		}
		want := "oi.quantity * oi.list_price - oi.discount * oi.quantity * oi.list_price"
		if !strings.Contains(spec.InsertSQL, want) {
			t.Errorf("fact_sales does not derive total_amount as %q", want)
		}
		if !strings.Contains(spec.InsertSQL, "JOIN staging.orders o ON o.order_id = oi.order_id") {
			t.Error("fact_sales does not join order_items to orders")
		}
		if !strings.Contains(spec.InsertSQL, "LEFT JOIN warehouse.dim_dates dd ON dd.full_date = o.order_date") {
			t.Error("fact_sales does not resolve the date dimension by calendar date")
		}
		return
	}
	t.Fatal("fact_sales spec not found")
}

func TestDimProductsDenormalizes(t *testing.T) {
	for _, spec := range specs() {
		if spec.Table != "dim_products" {
			continue
		}
		if !strings.Contains(spec.InsertSQL, "LEFT JOIN staging.brands") ||
			!strings.Contains(spec.InsertSQL, "LEFT JOIN staging.categories") {
			t.Error("dim_products does not denormalize brand and category")
		}
		return
	}
	t.Fatal("dim_products spec not found")
}
