package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Combat.WeakFactor != 0.5 || cfg.Combat.VulnerableFactor != 1.5 {
		t.Fatalf("factors %v %v", cfg.Combat.WeakFactor, cfg.Combat.VulnerableFactor)
	}
	if cfg.Combat.Rounding != "floor" || cfg.Combat.StatusPolicy != "refresh" {
		t.Fatalf("policies %q %q", cfg.Combat.Rounding, cfg.Combat.StatusPolicy)
	}
	if cfg.Hero.MaxHealth != 50 || cfg.Hero.MaxEnergy != 3 || cfg.Hero.HandSize != 5 {
		t.Fatalf("hero %+v", cfg.Hero)
	}
	if cfg.Scheduler.Workers != 4 {
		t.Fatalf("workers %d", cfg.Scheduler.Workers)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deckbattle.toml")
	body := `
[combat]
rounding = "round"
vulnerable_factor = 2.0

[hero]
max_health = 80

[database]
write_timeout = "5s"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DECKBATTLE_HERO_MAX_HEALTH", "65")
	t.Setenv("DECKBATTLE_COMBAT_STATUS_POLICY", "stack")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Combat.Rounding != "round" || cfg.Combat.VulnerableFactor != 2.0 {
		t.Fatalf("file values not applied: %+v", cfg.Combat)
	}
	if cfg.Hero.MaxHealth != 65 {
		t.Fatalf("env override not applied: %d", cfg.Hero.MaxHealth)
	}
	if cfg.Combat.StatusPolicy != "stack" {
		t.Fatalf("status policy %q", cfg.Combat.StatusPolicy)
	}
	if cfg.Database.WriteTimeout != 5*time.Second {
		t.Fatalf("write timeout %v", cfg.Database.WriteTimeout)
	}
	if cfg.Hero.MaxEnergy != 3 {
		t.Fatalf("untouched default lost: %d", cfg.Hero.MaxEnergy)
	}
}

func TestLoadRejectsBadPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[combat]\nrounding = \"ceil\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "rounding") {
		t.Fatalf("expected rounding error, got %v", err)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[combat\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed file accepted")
	}
}
