// Package seed generates sample source flat files so a pipeline run does
// not depend on an external data drop. The generated files match the layout
// the raw loader expects, including a configurable share of dirty rows for
// the staging transforms to clean.
package seed

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/retailops/salesdw/internal/config"
	"github.com/retailops/salesdw/internal/logging"
)

// Fixed reference lists. Brands and categories are small lookup feeds, so
// they are not sized by configuration.
var brandNames = []string{
	"Trailhead", "Velocity", "Ridgeline", "Pinion",
	"Cascade Cycles", "Ironwood", "Summit Gear", "Breakaway",
}

var categoryNames = []string{
	"Mountain Bikes", "Road Bikes", "Electric Bikes",
	"Cruisers", "Children Bikes", "Comfort Bikes", "Cyclocross",
}

// states carries the abbreviations the staging layer knows how to
// standardize.
var states = []string{"AZ", "CA", "CO", "FL", "GA", "IL", "NY", "OR", "TX", "WA"}

var discounts = []string{"0.00", "0.05", "0.10", "0.20"}

// Seeder writes sample source files into a directory.
type Seeder struct {
	dir   string
	cfg   config.SeedConfig
	faker *gofakeit.Faker
}

// NewSeeder creates a seeder writing into dir. A non-zero RandomSeed makes
// the output reproducible.
func NewSeeder(dir string, cfg config.SeedConfig) *Seeder {
	return &Seeder{
		dir:   dir,
		cfg:   cfg,
		faker: gofakeit.New(cfg.RandomSeed),
	}
}

// Run generates all nine source files. Files are written in dependency
// order so identifiers referenced by later files exist in earlier ones.
func (s *Seeder) Run() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create source directory: %w", err)
	}

	if err := s.writeBrands(); err != nil {
		return err
	}
	if err := s.writeCategories(); err != nil {
		return err
	}
	if err := s.writeCustomers(); err != nil {
		return err
	}
	prices, err := s.writeProducts()
	if err != nil {
		return err
	}
	if err := s.writeStores(); err != nil {
		return err
	}
	if err := s.writeStaffs(); err != nil {
		return err
	}
	if err := s.writeOrders(); err != nil {
		return err
	}
	if err := s.writeOrderItems(prices); err != nil {
		return err
	}
	return s.writeStocks()
}

func (s *Seeder) writeBrands() error {
	var rows [][]string
	for i, name := range brandNames {
		rows = s.appendRow(rows, []string{strconv.Itoa(i + 1), name}, 0)
	}
	return s.writeFile("brands.csv", []string{"brand_id", "brand_name"}, rows)
}

func (s *Seeder) writeCategories() error {
	var rows [][]string
	for i, name := range categoryNames {
		rows = s.appendRow(rows, []string{strconv.Itoa(i + 1), name}, 0)
	}
	return s.writeFile("categories.csv", []string{"category_id", "category_name"}, rows)
}

func (s *Seeder) writeCustomers() error {
	header := []string{"customer_id", "first_name", "last_name", "phone", "email", "street", "city", "state", "zip_code"}
	var rows [][]string
	for i := 1; i <= s.cfg.Customers; i++ {
		// A share of customers has no phone on file; staging fills in
		// 'Unknown'.
		phone := s.faker.Phone()
		if s.faker.Float64Range(0, 1) < 0.1 {
			phone = ""
		}
		rows = s.appendRow(rows, []string{
			strconv.Itoa(i),
			s.faker.FirstName(),
			s.faker.LastName(),
			phone,
			s.faker.Email(),
			s.faker.Street(),
			s.faker.City(),
			s.faker.RandomString(states),
			s.faker.Zip(),
		}, 0)
	}
	return s.writeFile("customers.csv", header, rows)
}

// writeProducts returns the generated list prices, indexed by product_id,
// so order items can quote the catalog price.
func (s *Seeder) writeProducts() (map[int]string, error) {
	header := []string{"product_id", "product_name", "brand_id", "category_id", "model_year", "list_price"}
	prices := make(map[int]string, s.cfg.Products)
	var rows [][]string
	for i := 1; i <= s.cfg.Products; i++ {
		year := s.faker.Number(2021, 2025)
		price := fmt.Sprintf("%.2f", s.faker.Float64Range(100, 4000))
		prices[i] = price
		rows = s.appendRow(rows, []string{
			strconv.Itoa(i),
			fmt.Sprintf("%s %s - %d", s.faker.RandomString(brandNames), s.faker.ProductName(), year),
			strconv.Itoa(s.faker.Number(1, len(brandNames))),
			strconv.Itoa(s.faker.Number(1, len(categoryNames))),
			strconv.Itoa(year),
			price,
		}, 0)
	}
	return prices, s.writeFile("products.csv", header, rows)
}

func (s *Seeder) writeStores() error {
	header := []string{"store_id", "store_name", "phone", "email", "street", "city", "state", "zip_code"}
	var rows [][]string
	for i := 1; i <= s.cfg.Stores; i++ {
		city := s.faker.City()
		rows = s.appendRow(rows, []string{
			strconv.Itoa(i),
			city + " Bikes",
			s.faker.Phone(),
			s.faker.Email(),
			s.faker.Street(),
			city,
			s.faker.RandomString(states),
			s.faker.Zip(),
		}, 0)
	}
	return s.writeFile("stores.csv", header, rows)
}

// writeStaffs assigns staff round-robin across stores. The first staff of
// each store is its manager and has no manager_id; staging defaults that
// to 0.
func (s *Seeder) writeStaffs() error {
	header := []string{"staff_id", "first_name", "last_name", "email", "phone", "active", "store_id", "manager_id"}
	var rows [][]string
	for i := 1; i <= s.cfg.Staffs; i++ {
		storeID := (i-1)%s.cfg.Stores + 1
		managerID := ""
		if i > s.cfg.Stores {
			managerID = strconv.Itoa(storeID)
		}
		active := "1"
		if s.faker.Float64Range(0, 1) < 0.1 {
			active = "0"
		}
		rows = s.appendRow(rows, []string{
			strconv.Itoa(i),
			s.faker.FirstName(),
			s.faker.LastName(),
			s.faker.Email(),
			s.faker.Phone(),
			active,
			strconv.Itoa(storeID),
			managerID,
		}, 0)
	}
	return s.writeFile("staffs.csv", header, rows)
}

func (s *Seeder) writeOrders() error {
	header := []string{"order_id", "customer_id", "order_status", "order_date", "required_date", "shipped_date", "store_id", "staff_id"}
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	var rows [][]string
	for i := 1; i <= s.cfg.Orders; i++ {
		status := s.faker.Number(1, 4)
		ordered := s.faker.DateRange(start, end)
		required := ordered.AddDate(0, 0, s.faker.Number(2, 10))
		// Only processed and completed orders have shipped.
		shipped := ""
		if status == 2 || status == 4 {
			shipped = ordered.AddDate(0, 0, s.faker.Number(1, 5)).Format("2006-01-02")
		}
		rows = s.appendRow(rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(s.faker.Number(1, s.cfg.Customers)),
			strconv.Itoa(status),
			ordered.Format("2006-01-02"),
			required.Format("2006-01-02"),
			shipped,
			strconv.Itoa(s.faker.Number(1, s.cfg.Stores)),
			strconv.Itoa(s.faker.Number(1, s.cfg.Staffs)),
		}, 0)
	}
	return s.writeFile("orders.csv", header, rows)
}

func (s *Seeder) writeOrderItems(prices map[int]string) error {
	header := []string{"order_id", "item_id", "product_id", "quantity", "list_price", "discount"}
	var rows [][]string
	for orderID := 1; orderID <= s.cfg.Orders; orderID++ {
		items := s.faker.Number(1, 3)
		// Distinct products per order keep the (order_id, product_id) grain
		// clean in the source itself.
		used := make(map[int]bool, items)
		for item := 1; item <= items; item++ {
			productID := s.faker.Number(1, s.cfg.Products)
			for used[productID] {
				productID = s.faker.Number(1, s.cfg.Products)
			}
			used[productID] = true
			rows = s.appendRow(rows, []string{
				strconv.Itoa(orderID),
				strconv.Itoa(item),
				strconv.Itoa(productID),
				strconv.Itoa(s.faker.Number(1, 3)),
				prices[productID],
				s.faker.RandomString(discounts),
			}, 0)
		}
	}
	return s.writeFile("order_items.csv", header, rows)
}

func (s *Seeder) writeStocks() error {
	header := []string{"store_id", "product_id", "quantity"}
	var rows [][]string
	for storeID := 1; storeID <= s.cfg.Stores; storeID++ {
		for productID := 1; productID <= s.cfg.Products; productID++ {
			rows = s.appendRow(rows, []string{
				strconv.Itoa(storeID),
				strconv.Itoa(productID),
				strconv.Itoa(s.faker.Number(0, 30)),
			}, 0)
		}
	}
	return s.writeFile("stocks.csv", header, rows)
}

// appendRow appends row, then injects dirt at the configured rate: a
// verbatim duplicate, a copy with a blanked key column, or whitespace
// padding on the last column. The staging layer is expected to remove all
// three.
func (s *Seeder) appendRow(rows [][]string, row []string, keyIdx int) [][]string {
	if s.cfg.DirtyRate > 0 && s.faker.Float64Range(0, 1) < s.cfg.DirtyRate {
		row[len(row)-1] = "  " + row[len(row)-1] + " "
	}
	rows = append(rows, row)

	if s.cfg.DirtyRate > 0 && s.faker.Float64Range(0, 1) < s.cfg.DirtyRate {
		dup := make([]string, len(row))
		copy(dup, row)
		rows = append(rows, dup)
	}
	if s.cfg.DirtyRate > 0 && s.faker.Float64Range(0, 1) < s.cfg.DirtyRate {
		bad := make([]string, len(row))
		copy(bad, row)
		bad[keyIdx] = ""
		rows = append(rows, bad)
	}
	return rows
}

func (s *Seeder) writeFile(name string, header []string, rows [][]string) error {
	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	logging.Info().
		Str("file", name).
		Int("rows", len(rows)).
		Msg("Generated source file")
	return nil
}
