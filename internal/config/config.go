package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/la2go-combat/internal/model"
)

// Engine holds all configuration for the combat engine process.
//
// Values come from defaults, then the YAML file, then COMBAT_* environment
// variables, each layer overriding the previous one.
type Engine struct {
	LogLevel   string `yaml:"log_level" env:"COMBAT_LOG_LEVEL"`
	SpellsPath string `yaml:"spells_path" env:"COMBAT_SPELLS_PATH"`

	Tick     TickConfig     `yaml:"tick" envPrefix:"COMBAT_TICK_"`
	Tenacity TenacityConfig `yaml:"tenacity" envPrefix:"COMBAT_TENACITY_"`

	// Effect persistence across logout. Database is only used when enabled.
	PersistEffects bool           `yaml:"persist_effects" env:"COMBAT_PERSIST_EFFECTS"`
	Database       DatabaseConfig `yaml:"database" envPrefix:"COMBAT_DB_"`
}

// TickConfig controls the combat resolution loop.
type TickConfig struct {
	Interval time.Duration `yaml:"interval" env:"INTERVAL"`
	Workers  int           `yaml:"workers" env:"WORKERS"`
}

// TenacityConfig controls how tenacity shortens statuses on players.
type TenacityConfig struct {
	Exempt     []string `yaml:"exempt" env:"EXEMPT" envSeparator:","` // status kind names
	MaxPercent int32    `yaml:"max_percent" env:"MAX_PERCENT"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultEngine returns Engine config with sensible defaults.
func DefaultEngine() Engine {
	return Engine{
		LogLevel:   "info",
		SpellsPath: "config/spells.yaml",
		Tick: TickConfig{
			Interval: 100 * time.Millisecond,
			Workers:  4,
		},
		Tenacity: TenacityConfig{
			Exempt:     []string{"shield", "cleanse", "stealth", "invulnerable", "on_hit", "transform"},
			MaxPercent: 100,
		},
		PersistEffects: false,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "la2go",
			Password: "la2go",
			DBName:   "la2go",
			SSLMode:  "disable",
		},
	}
}

// LoadEngine loads engine config from a YAML file and applies environment
// overrides. If the file doesn't exist, defaults are used.
func LoadEngine(path string) (Engine, error) {
	cfg := DefaultEngine()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Engine) Validate() error {
	var errs []error

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	if c.SpellsPath == "" {
		errs = append(errs, errors.New("spells_path is empty"))
	}
	if c.Tick.Interval <= 0 {
		errs = append(errs, fmt.Errorf("tick.interval must be positive, got %s", c.Tick.Interval))
	}
	if c.Tick.Workers <= 0 {
		errs = append(errs, fmt.Errorf("tick.workers must be positive, got %d", c.Tick.Workers))
	}
	if c.Tenacity.MaxPercent < 0 || c.Tenacity.MaxPercent > 100 {
		errs = append(errs, fmt.Errorf("tenacity.max_percent must be in [0,100], got %d", c.Tenacity.MaxPercent))
	}
	if _, err := c.Tenacity.ExemptKinds(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ExemptKinds parses the exempt status kind names.
func (t TenacityConfig) ExemptKinds() ([]model.StatusKind, error) {
	kinds := make([]model.StatusKind, 0, len(t.Exempt))
	for _, name := range t.Exempt {
		kind, err := model.ParseStatusKind(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("tenacity.exempt: %w", err)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
