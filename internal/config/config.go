// Package config provides configuration management for the screener.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Data   DataConfig   `mapstructure:"data"`
	Screen ScreenConfig `mapstructure:"screen"`
	Report ReportConfig `mapstructure:"report"`

	// Verbosity is the log level (0 errors .. 3 trace). Flag-driven,
	// not read from the config file.
	Verbosity int `mapstructure:"-"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	ListenAddr  string        `mapstructure:"listen_addr"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	CacheWindow time.Duration `mapstructure:"cache_window"`
	CacheMax    int           `mapstructure:"cache_max"`
}

// DataConfig holds the data provider configuration.
type DataConfig struct {
	Provider      string        `mapstructure:"provider"` // "yahoo", "polygon", "mock"
	YahooBaseURL  string        `mapstructure:"yahoo_base_url"`
	PolygonAPIKey string        `mapstructure:"polygon_api_key"`
	Seed          int64         `mapstructure:"seed"` // 0 means time-seeded
	BatchSize     int           `mapstructure:"batch_size"`
	BatchDelay    time.Duration `mapstructure:"batch_delay"`
}

// ScreenConfig holds the screening universe and defaults.
type ScreenConfig struct {
	Universe   []string `mapstructure:"universe"`
	MaxResults int      `mapstructure:"max_results"`
}

// ReportConfig holds report output configuration.
type ReportConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads config.toml from the given directory (falling back to the
// working directory), applies defaults and env overrides, and validates.
// A missing config file is not an error; defaults apply.
func Load(configDir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.AddConfigPath(".")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.cache_ttl", 10*time.Minute)
	v.SetDefault("server.cache_window", 5*time.Minute)
	v.SetDefault("server.cache_max", 512)

	v.SetDefault("data.provider", "mock")
	v.SetDefault("data.yahoo_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("data.seed", int64(0))
	v.SetDefault("data.batch_size", 10)
	v.SetDefault("data.batch_delay", 500*time.Millisecond)

	v.SetDefault("screen.universe", []string{
		"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "AMD",
		"JPM", "V", "UNH", "HD", "PG", "XOM", "KO", "PEP", "COST", "AVGO",
	})
	v.SetDefault("screen.max_results", 20)

	v.SetDefault("report.dir", "reports")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.Data.PolygonAPIKey = v
	}
	if v := os.Getenv("SCREENER_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("SCREENER_PROVIDER"); v != "" {
		cfg.Data.Provider = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Data.Provider {
	case "yahoo", "polygon", "mock":
	default:
		return fmt.Errorf("invalid data provider: %s (must be 'yahoo', 'polygon' or 'mock')", c.Data.Provider)
	}
	if c.Data.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	if c.Server.CacheTTL < 0 || c.Server.CacheWindow < 0 {
		return fmt.Errorf("cache durations must be non-negative")
	}
	if c.Data.Provider == "polygon" && c.Data.PolygonAPIKey == "" {
		return fmt.Errorf("polygon provider requires an API key (POLYGON_API_KEY)")
	}
	return nil
}
