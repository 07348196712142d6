package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/migrate"
)

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestInventoryMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_inventory_items.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventory_items",
		"CHECK (price >= 0)",
		"CHECK (quantity >= 0)",
		"DROP TABLE IF EXISTS inventory_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestStockEntriesMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_stock_entries.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS stock_entries",
		"CHECK (entry_type IN ('in', 'out'))",
		"CHECK (quantity > 0)",
		"FOREIGN KEY (item_id) REFERENCES inventory_items(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS stock_entries",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOutboxMigrationHasUnpublishedIndex(t *testing.T) {
	content := readMigration(t, "*_create_outbox_events.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS outbox_events",
		"WHERE published_at IS NULL",
		"DROP TABLE IF EXISTS outbox_events",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
