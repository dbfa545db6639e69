package persist

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no migrations embedded")
	}
	for _, name := range files {
		raw, err := fs.ReadFile(migrations, name)
		if err != nil {
			t.Fatal(err)
		}
		src := string(raw)
		up := strings.Index(src, "-- +goose Up")
		down := strings.Index(src, "-- +goose Down")
		if up < 0 || down < 0 || down < up {
			t.Errorf("%s: missing or misordered goose annotations", name)
		}
	}
}

func TestJournalSchemaCoversRecord(t *testing.T) {
	raw, err := fs.ReadFile(migrations, "migrations/00001_battle_journal.sql")
	if err != nil {
		t.Fatal(err)
	}
	for _, col := range []string{"started_at", "ended_at", "rounds", "victory", "hero_name", "hero_health", "slot"} {
		if !strings.Contains(string(raw), col) {
			t.Errorf("schema lacks column %s", col)
		}
	}
}
