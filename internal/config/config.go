// Package config loads plant settings from YAML, .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/plants/internal/model"
)

// Environment variables that override file settings.
const (
	EnvDB          = "PLANTS_DB"
	EnvPlant       = "PLANTS_PLANT"
	EnvMinReWater  = "PLANTS_MIN_REWATER"
	EnvMaxSurvival = "PLANTS_MAX_SURVIVAL"
	EnvLogLevel    = "PLANTS_LOG_LEVEL"
	EnvConfig      = "PLANTS_CONFIG"
)

// ErrInvalidThresholds is returned when the watering thresholds are inconsistent.
var ErrInvalidThresholds = errors.New("invalid thresholds")

// Config is the full plants configuration.
type Config struct {
	DBPath      string   `yaml:"db_path"`
	Plant       string   `yaml:"plant"`
	MinReWater  Duration `yaml:"min_rewater"`
	MaxSurvival Duration `yaml:"max_survival"`
	LogLevel    string   `yaml:"log_level"`
}

// Duration is a time.Duration read from strings like "1h" or "90m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	t := model.DefaultThresholds()
	return &Config{
		DBPath:      DefaultDBPath(),
		Plant:       model.DefaultPlant,
		MinReWater:  Duration(t.MinReWater),
		MaxSurvival: Duration(t.MaxSurvival),
		LogLevel:    "warn",
	}
}

// DefaultDBPath returns ~/.plants/plants.db.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".plants", "plants.db")
}

// DefaultPath returns ~/.plants/config.yaml.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".plants", "config.yaml")
}

// LoadDotEnv loads .env from the working directory if present.
// Variables already set in the environment win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides and validates. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvDB); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvPlant); v != "" {
		c.Plant = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	for env, dst := range map[string]*Duration{EnvMinReWater: &c.MinReWater, EnvMaxSurvival: &c.MaxSurvival} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: invalid duration %q: %w", env, v, err)
		}
		*dst = Duration(d)
	}
	return nil
}

// Thresholds returns the engine thresholds.
func (c *Config) Thresholds() model.Thresholds {
	return model.Thresholds{
		MinReWater:  time.Duration(c.MinReWater),
		MaxSurvival: time.Duration(c.MaxSurvival),
	}
}

// Validate checks the thresholds, the plant name and the log level.
func (c *Config) Validate() error {
	if err := c.Thresholds().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidThresholds, err)
	}
	if strings.TrimSpace(c.Plant) == "" {
		return fmt.Errorf("plant name is required")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
