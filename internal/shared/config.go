package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Catalog    CatalogConfig    `toml:"catalog"`
	Dispatcher DispatcherConfig `toml:"dispatcher"`
	Backend    BackendConfig    `toml:"backend"`
	Database   DatabaseConfig   `toml:"database"`
	Server     ServerConfig     `toml:"server"`
}

// CatalogConfig contains movie catalog API settings.
//
// AccessToken (a v4 read token) takes precedence over APIKey when both are set.
type CatalogConfig struct {
	BaseURL        string `toml:"base_url"`
	ImageBaseURL   string `toml:"image_base_url"`
	APIKey         string `toml:"api_key"`
	AccessToken    string `toml:"access_token"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-call transport timeout.
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DispatcherConfig contains admission control settings for catalog calls.
type DispatcherConfig struct {
	Quota        int `toml:"quota"`
	WindowMS     int `toml:"window_ms"`
	RetryDelayMS int `toml:"retry_delay_ms"`
	GapMS        int `toml:"gap_ms"`
	MinWaitMS    int `toml:"min_wait_ms"`
	MaxRetries   int `toml:"max_retries"`
}

func (d DispatcherConfig) Window() time.Duration     { return ms(d.WindowMS) }
func (d DispatcherConfig) RetryDelay() time.Duration { return ms(d.RetryDelayMS) }
func (d DispatcherConfig) Gap() time.Duration        { return ms(d.GapMS) }
func (d DispatcherConfig) MinWait() time.Duration    { return ms(d.MinWaitMS) }

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// BackendConfig contains settings for the list backend.
type BackendConfig struct {
	BaseURL   string  `toml:"base_url"`
	RateLimit float64 `toml:"rate_limit"` // Requests per second
	Burst     int     `toml:"burst"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port for [net/http].
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate reports settings that would stall the dispatcher or the backend client.
func (c *Config) Validate() error {
	if c.Dispatcher.Quota <= 0 {
		return fmt.Errorf("%w: dispatcher.quota must be positive", ErrInvalidConfig)
	}
	if c.Dispatcher.WindowMS <= 0 {
		return fmt.Errorf("%w: dispatcher.window_ms must be positive", ErrInvalidConfig)
	}
	if c.Dispatcher.MaxRetries < 0 {
		return fmt.Errorf("%w: dispatcher.max_retries cannot be negative", ErrInvalidConfig)
	}
	if c.Backend.RateLimit < 0 {
		return fmt.Errorf("%w: backend.rate_limit cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes config as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
