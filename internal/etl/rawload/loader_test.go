package rawload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSpecs(t *testing.T) {
	if len(fileSpecs) != 9 {
		t.Fatalf("expected 9 source files, got %d", len(fileSpecs))
	}

	seenTables := make(map[string]bool)
	seenFiles := make(map[string]bool)
	for _, spec := range fileSpecs {
		if spec.Table == "" || spec.File == "" {
			t.Errorf("spec %+v missing table or file", spec)
		}
		if len(spec.Columns) == 0 {
			t.Errorf("spec %s has no columns", spec.Table)
		}
		if seenTables[spec.Table] {
			t.Errorf("duplicate table %s", spec.Table)
		}
		if seenFiles[spec.File] {
			t.Errorf("duplicate file %s", spec.File)
		}
		seenTables[spec.Table] = true
		seenFiles[spec.File] = true

		if !strings.HasSuffix(spec.File, ".csv") {
			t.Errorf("unexpected file extension for %s", spec.File)
		}
		// Each raw table DDL must mention every column the loader copies.
		for _, col := range spec.Columns {
			if !strings.Contains(createSchemaSQL, col) {
				t.Errorf("column %s of %s missing from schema DDL", col, spec.Table)
			}
		}
		if !strings.Contains(createSchemaSQL, "raw."+spec.Table) {
			t.Errorf("table raw.%s missing from schema DDL", spec.Table)
		}
	}
}

func TestRecordToRow(t *testing.T) {
	row := recordToRow([]string{"1", "", "NULL", "  Anna  ", "0.20"})

	if row[0] != "1" {
		t.Errorf("row[0] = %v, want \"1\"", row[0])
	}
	if row[1] != nil {
		t.Errorf("empty field should become nil, got %v", row[1])
	}
	if row[2] != nil {
		t.Errorf("literal NULL should become nil, got %v", row[2])
	}
	// Raw layer is verbatim; whitespace survives until staging.
	if row[3] != "  Anna  " {
		t.Errorf("row[3] = %q, want whitespace preserved", row[3])
	}
	if row[4] != "0.20" {
		t.Errorf("row[4] = %v", row[4])
	}
}

func TestReadSourceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brands.csv")
	content := "brand_id,brand_name\n1,Electra\n2,Haro\n3,\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rows, err := readSourceFile(path, 2)
	if err != nil {
		t.Fatalf("readSourceFile: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 data rows (header skipped), got %d", len(rows))
	}
	if rows[0][1] != "Electra" {
		t.Errorf("rows[0][1] = %v", rows[0][1])
	}
	if rows[2][1] != nil {
		t.Errorf("empty brand_name should be nil, got %v", rows[2][1])
	}
}

func TestReadSourceFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := readSourceFile(filepath.Join(dir, "nope.csv"), 2)
		if err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.csv")
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
		_, err := readSourceFile(path, 2)
		if err == nil {
			t.Error("expected error for empty file")
		}
	})

	t.Run("wrong field count", func(t *testing.T) {
		path := filepath.Join(dir, "bad.csv")
		if err := os.WriteFile(path, []byte("a,b\n1,2,3\n"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := readSourceFile(path, 2)
		if err == nil {
			t.Error("expected error for mismatched field count")
		}
	})
}
