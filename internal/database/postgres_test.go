package database

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrationVersion(t *testing.T) {
	tests := map[string]int{
		"001_initial_schema.sql": 1,
		"002_seed_data.sql":      2,
		"010_add_index.sql":      10,
		"README.md":              0,
		"abc_invalid.sql":        0,
		"001_notes.txt":          0,
		"x.sql":                  0,
	}
	for name, want := range tests {
		if got := migrationVersion(name); got != want {
			t.Fatalf("migrationVersion(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestPendingMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_seed_data.sql", "001_initial_schema.sql", "010_indexes.sql", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o755); err != nil {
		t.Fatal(err)
	}

	pending, err := pendingMigrations(dir, map[int]bool{1: true})
	if err != nil {
		t.Fatalf("pendingMigrations: %v", err)
	}
	if len(pending) != 2 || pending[0].version != 2 || pending[1].version != 10 {
		t.Fatalf("unexpected pending migrations %+v", pending)
	}

	if _, err := pendingMigrations(filepath.Join(dir, "missing"), nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
