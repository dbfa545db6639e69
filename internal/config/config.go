package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment override, e.g.
// DECKBATTLE_COMBAT_ROUNDING=round.
const EnvPrefix = "DECKBATTLE_"

type Config struct {
	Combat    CombatConfig    `toml:"combat" envPrefix:"COMBAT_"`
	Hero      HeroConfig      `toml:"hero" envPrefix:"HERO_"`
	Scheduler SchedulerConfig `toml:"scheduler" envPrefix:"SCHEDULER_"`
	Data      DataConfig      `toml:"data" envPrefix:"DATA_"`
	Scripting ScriptingConfig `toml:"scripting" envPrefix:"SCRIPTING_"`
	Database  DatabaseConfig  `toml:"database" envPrefix:"DATABASE_"`
	Logging   LoggingConfig   `toml:"logging" envPrefix:"LOGGING_"`
}

type CombatConfig struct {
	WeakFactor       float64 `toml:"weak_factor" env:"WEAK_FACTOR"`             // outgoing damage multiplier while Weak
	VulnerableFactor float64 `toml:"vulnerable_factor" env:"VULNERABLE_FACTOR"` // incoming damage multiplier while Vulnerable
	Rounding         string  `toml:"rounding" env:"ROUNDING"`                   // "floor" or "round"
	StatusPolicy     string  `toml:"status_policy" env:"STATUS_POLICY"`         // "refresh" or "stack"
	Seed             uint64  `toml:"seed" env:"SEED"`                           // 0 = seeded from the clock
}

type HeroConfig struct {
	Name      string `toml:"name" env:"NAME"`
	MaxHealth int    `toml:"max_health" env:"MAX_HEALTH"`
	MaxEnergy int    `toml:"max_energy" env:"MAX_ENERGY"`
	HandSize  int    `toml:"hand_size" env:"HAND_SIZE"`
}

type SchedulerConfig struct {
	Workers int `toml:"workers" env:"WORKERS"`
}

// DataConfig points at YAML overrides. Empty paths use the embedded tables.
type DataConfig struct {
	Cards   string `toml:"cards" env:"CARDS"`
	Enemies string `toml:"enemies" env:"ENEMIES"`
}

type ScriptingConfig struct {
	IntentScript string `toml:"intent_script" env:"INTENT_SCRIPT"` // "builtin", a .lua path, or empty for the weighted table
}

// DatabaseConfig configures the battle journal. An empty DSN disables it.
type DatabaseConfig struct {
	DSN             string        `toml:"dsn" env:"DSN"`
	MaxOpenConns    int           `toml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `toml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
	WriteTimeout    time.Duration `toml:"write_timeout" env:"WRITE_TIMEOUT"`
}

type LoggingConfig struct {
	Level  string `toml:"level" env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"` // "json" or "console"
	File   string `toml:"file" env:"FILE"`     // the terminal front end cannot log to stderr
}

// Load reads path (a missing file means defaults), then applies
// DECKBATTLE_* environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("config env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the combat rules cannot run with.
func (c *Config) Validate() error {
	switch c.Combat.Rounding {
	case "floor", "round":
	default:
		return fmt.Errorf("combat.rounding %q: want floor or round", c.Combat.Rounding)
	}
	switch c.Combat.StatusPolicy {
	case "refresh", "stack":
	default:
		return fmt.Errorf("combat.status_policy %q: want refresh or stack", c.Combat.StatusPolicy)
	}
	if c.Combat.WeakFactor < 0 || c.Combat.VulnerableFactor < 0 {
		return fmt.Errorf("combat factors must not be negative")
	}
	if c.Hero.MaxHealth <= 0 || c.Hero.MaxEnergy < 0 || c.Hero.HandSize <= 0 {
		return fmt.Errorf("hero stats out of range: health=%d energy=%d hand=%d",
			c.Hero.MaxHealth, c.Hero.MaxEnergy, c.Hero.HandSize)
	}
	if c.Scheduler.Workers < 1 {
		return fmt.Errorf("scheduler.workers must be at least 1, got %d", c.Scheduler.Workers)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Combat: CombatConfig{
			WeakFactor:       0.5,
			VulnerableFactor: 1.5,
			Rounding:         "floor",
			StatusPolicy:     "refresh",
		},
		Hero: HeroConfig{
			Name:      "Ironclad",
			MaxHealth: 50,
			MaxEnergy: 3,
			HandSize:  5,
		},
		Scheduler: SchedulerConfig{
			Workers: 4,
		},
		Scripting: ScriptingConfig{
			IntentScript: "builtin",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
			WriteTimeout:    2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "deckbattle.log",
		},
	}
}
