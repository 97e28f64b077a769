// Package config holds agentcost configuration, the model pricing catalog and
// the request template presets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all agentcost configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Server     ServerConfig     `toml:"server"`
	Logging    LoggingConfig    `toml:"logging"`
	Appearance AppearanceConfig `toml:"appearance"`
	Pricing    PricingOverrides `toml:"pricing"`
}

// GeneralConfig holds defaults applied to requests built on the command line.
type GeneralConfig struct {
	CurrencyRate float64 `toml:"currency_rate"`
	DefaultModel string  `toml:"default_model"`
	HourlyRate   float64 `toml:"hourly_rate"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	StorePath     string `toml:"store_path,omitempty"`
	RetentionDays int    `toml:"retention_days"`
	PruneSchedule string `toml:"prune_schedule,omitempty"`
	TemplatesFile string `toml:"templates_file,omitempty"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// PricingOverrides allows user-defined pricing for specific models.
type PricingOverrides struct {
	Overrides map[string]ModelPricingOverride `toml:"overrides,omitempty"`
}

// ModelPricingOverride holds per-model profile overrides.
type ModelPricingOverride struct {
	InputPerMTok         *float64 `toml:"input_per_mtok,omitempty"`
	OutputPerMTok        *float64 `toml:"output_per_mtok,omitempty"`
	CacheWritePerMTok    *float64 `toml:"cache_write_per_mtok,omitempty"`
	CacheReadPerMTok     *float64 `toml:"cache_read_per_mtok,omitempty"`
	SpeedMultiplier      *float64 `toml:"speed_multiplier,omitempty"`
	CapabilityMultiplier *float64 `toml:"capability_multiplier,omitempty"`
	AgenticCodingCapable *bool    `toml:"agentic_coding_capable,omitempty"`
}

func (o ModelPricingOverride) apply(p ModelProfile) ModelProfile {
	if o.InputPerMTok != nil {
		p.InputPerMTok = *o.InputPerMTok
	}
	if o.OutputPerMTok != nil {
		p.OutputPerMTok = *o.OutputPerMTok
	}
	if o.CacheWritePerMTok != nil {
		p.CacheWritePerMTok = *o.CacheWritePerMTok
	}
	if o.CacheReadPerMTok != nil {
		p.CacheReadPerMTok = *o.CacheReadPerMTok
	}
	if o.SpeedMultiplier != nil {
		p.SpeedMultiplier = *o.SpeedMultiplier
	}
	if o.CapabilityMultiplier != nil {
		p.CapabilityMultiplier = *o.CapabilityMultiplier
	}
	if o.AgenticCodingCapable != nil {
		p.AgenticCodingCapable = *o.AgenticCodingCapable
	}
	return p
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			CurrencyRate: 0.65,
			DefaultModel: DefaultModelID,
			HourlyRate:   150,
		},
		Server: ServerConfig{
			Addr:          "127.0.0.1:8787",
			RetentionDays: 90,
			PruneSchedule: "0 3 * * *",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "agentcost")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "agentcost")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory used for the estimate
// history database.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "agentcost")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "agentcost")
}

// StorePath returns the configured history database path or the default one.
func (c Config) StorePath() string {
	if c.Server.StorePath != "" {
		return c.Server.StorePath
	}
	return filepath.Join(DataDir(), "estimates.db")
}

// Catalog returns the default catalog with the configured overrides applied.
func (c Config) Catalog() *Catalog {
	return DefaultCatalog().WithOverrides(c.Pricing.Overrides)
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path, returning defaults if it doesn't
// exist. AGENTCOST_CURRENCY_RATE overrides the configured rate.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if raw := os.Getenv("AGENTCOST_CURRENCY_RATE"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return cfg, fmt.Errorf("parsing AGENTCOST_CURRENCY_RATE: %w", err)
		}
		cfg.General.CurrencyRate = rate
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}
