// Package config loads application configuration from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderYahoo      = "yahoo"
	ProviderTwelveData = "twelvedata"

	// DefaultPath is used when CONFIG_PATH is unset.
	DefaultPath = "configs/config.yaml"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr              string   `yaml:"addr"`
		LegacyErrorStatus bool     `yaml:"legacy_error_status"`
		CORSOrigins       []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Data struct {
		Dir string `yaml:"dir"`
	} `yaml:"data"`
	Ingest struct {
		Provider          string        `yaml:"provider"`
		Symbols           []string      `yaml:"symbols"`
		StripSuffixes     []string      `yaml:"strip_suffixes"`
		LookbackDays      int           `yaml:"lookback_days"`
		Schedule          string        `yaml:"schedule"`
		RequestsPerMinute int           `yaml:"requests_per_minute"`
		Timeout           time.Duration `yaml:"timeout"`
	} `yaml:"ingest"`
	Yahoo struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"yahoo"`
	TwelveData struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"twelvedata"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Password string `yaml:"password"`
		// TTL of cached tables; 0 means "until the next scheduled ingest".
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"redis"`
	Database struct {
		Driver     string `yaml:"driver"`
		DSN        string `yaml:"dsn"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
}

// Path returns the config file path from CONFIG_PATH or DefaultPath.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LEGACY_ERROR_STATUS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Server.LegacyErrorStatus = b
		}
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("INGEST_PROVIDER"); v != "" {
		c.Ingest.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("INGEST_SYMBOLS"); v != "" {
		c.Ingest.Symbols = splitList(v)
	}
	if v := os.Getenv("INGEST_SCHEDULE"); v != "" {
		c.Ingest.Schedule = v
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		c.Yahoo.BaseURL = v
	}
	if v := os.Getenv("TWELVE_DATA_API_KEY"); v != "" {
		c.TwelveData.APIKey = v
	}
	if v := os.Getenv("TWELVE_DATA_BASE_URL"); v != "" {
		c.TwelveData.BaseURL = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		c.Redis.Port = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":9000"
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
	if c.Ingest.Provider == "" {
		c.Ingest.Provider = ProviderYahoo
	}
	if len(c.Ingest.Symbols) == 0 {
		c.Ingest.Symbols = []string{"TCS.NS", "INFY.NS", "RELIANCE.NS"}
	}
	if c.Ingest.StripSuffixes == nil {
		c.Ingest.StripSuffixes = []string{".NS"}
	}
	if c.Ingest.LookbackDays <= 0 {
		c.Ingest.LookbackDays = 365
	}
	if c.Ingest.Schedule == "" {
		c.Ingest.Schedule = "0 0 8 * * 1-5"
	}
	if c.Ingest.Timeout <= 0 {
		c.Ingest.Timeout = 10 * time.Second
	}
	if c.Ingest.RequestsPerMinute == 0 && c.Ingest.Provider == ProviderTwelveData {
		// Twelve Data free plan
		c.Ingest.RequestsPerMinute = 8
	}
}

// Lookback returns the ingest history window.
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.Ingest.LookbackDays) * 24 * time.Hour
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.Ingest.Provider {
	case ProviderYahoo:
	case ProviderTwelveData:
		if c.TwelveData.APIKey == "" {
			return fmt.Errorf("twelvedata.api_key is required for provider %q", ProviderTwelveData)
		}
	default:
		return fmt.Errorf("ingest.provider must be %q or %q, got %q", ProviderYahoo, ProviderTwelveData, c.Ingest.Provider)
	}
	if c.Ingest.RequestsPerMinute < 0 {
		return fmt.Errorf("ingest.requests_per_minute must not be negative")
	}
	switch c.Database.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for postgres")
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
