package migrate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	if err := ValidateFS(Embedded, EmbeddedDir); err != nil {
		t.Fatalf("embedded migrations invalid: %v", err)
	}
}

func TestShoppingListItemsCascade(t *testing.T) {
	content := readMigration(t, "*_create_shopping_lists_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS shopping_lists",
		"CREATE TABLE IF NOT EXISTS shopping_list_items",
		"shopping_list_id uuid NOT NULL REFERENCES shopping_lists (id) ON DELETE CASCADE",
		"quantity integer NOT NULL DEFAULT 1",
		"checked boolean NOT NULL DEFAULT false",
		"DEFAULT 'Minha Lista'",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCatalogMigrationConstraints(t *testing.T) {
	content := readMigration(t, "*_create_catalog_tables.sql")
	for _, sub := range []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_barcode ON products (barcode)",
		"CREATE TABLE IF NOT EXISTS supermarkets",
		"latitude double precision",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}

	prices := readMigration(t, "*_create_price_entries_table.sql")
	if !strings.Contains(prices, "price numeric(10,2) NOT NULL") {
		t.Errorf("price column should be numeric(10,2)")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)

	path, err := CreateSQLMigration(dir, "Add Product Brand!", now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(path) != "20250402100000_add_product_brand.sql" {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
	if _, err := CreateSQLMigration(dir, "add product brand", now); err == nil {
		t.Fatal("expected error for an existing migration")
	}
	if _, err := CreateSQLMigration(dir, "!!!", now); err == nil {
		t.Fatal("expected error for empty sanitized name")
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "create_things.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename error")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := fs.Glob(Embedded, EmbeddedDir+"/"+pattern)
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s", pattern)
	}
	data, err := fs.ReadFile(Embedded, matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
