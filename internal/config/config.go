package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/grekz/tally/pkg/sheet"
)

// Backend names accepted in store.backend.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Environment variables that override values from tally.yml.
const (
	EnvInstanceName = "TALLY_INSTANCE_NAME"
	EnvRedisURL     = "TALLY_REDIS_URL"
	EnvAddr         = "TALLY_ADDR"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "tally.yml"

// DefaultHeaders are the columns of the sample contact form.
var DefaultHeaders = []string{"First", "Last", "Company", "Group", "Email"}

// TallyConfig represents the top-level tally.yml configuration
type TallyConfig struct {
	Version  string        `yaml:"version"`
	Instance string        `yaml:"instance,omitempty"` // Redis key namespace (default: "default")
	Store    *StoreConfig  `yaml:"store,omitempty"`
	Sheet    *SheetConfig  `yaml:"sheet,omitempty"`
	Server   *ServerConfig `yaml:"server,omitempty"`
}

// StoreConfig selects and configures the sheet backend
type StoreConfig struct {
	Backend    string `yaml:"backend,omitempty"`     // "redis" (default) or "sqlite"
	RedisURL   string `yaml:"redis_url,omitempty"`   // e.g. redis://localhost:6379/0
	SQLitePath string `yaml:"sqlite_path,omitempty"` // e.g. tally.db
}

// SheetConfig names the sheet served on /exec and the headers used when
// the sheet does not exist yet
type SheetConfig struct {
	Name    string   `yaml:"name,omitempty"`
	Headers []string `yaml:"headers,omitempty"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr            string `yaml:"addr,omitempty"`
	ReadTimeout     string `yaml:"read_timeout,omitempty"`
	WriteTimeout    string `yaml:"write_timeout,omitempty"`
	ShutdownTimeout string `yaml:"shutdown_timeout,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *TallyConfig {
	c := &TallyConfig{Version: "1.0"}
	if err := c.Validate(); err != nil {
		// Defaults are always valid.
		panic(err)
	}
	return c
}

// Validate applies defaults and performs strict validation on the configuration
func (c *TallyConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Instance == "" {
		c.Instance = "default"
	}
	if strings.ContainsAny(c.Instance, ": ") {
		return fmt.Errorf("instance name %q cannot contain ':' or spaces", c.Instance)
	}

	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}

	if c.Sheet == nil {
		c.Sheet = &SheetConfig{}
	}
	if c.Sheet.Name == "" {
		c.Sheet.Name = "Sheet1"
	}
	if err := sheet.ValidateName(c.Sheet.Name); err != nil {
		return fmt.Errorf("sheet.name: %w", err)
	}
	if len(c.Sheet.Headers) == 0 {
		c.Sheet.Headers = append([]string(nil), DefaultHeaders...)
	}
	if err := sheet.ValidateHeaders(c.Sheet.Headers); err != nil {
		return fmt.Errorf("sheet.headers: %w", err)
	}

	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	return c.Server.Validate()
}

// Validate checks the backend selection and its connection settings
func (s *StoreConfig) Validate() error {
	if s.Backend == "" {
		s.Backend = BackendRedis
	}

	switch s.Backend {
	case BackendRedis:
		if s.RedisURL == "" {
			s.RedisURL = "redis://localhost:6379/0"
		}
		if _, err := redis.ParseURL(s.RedisURL); err != nil {
			return fmt.Errorf("store.redis_url: invalid Redis URL %q: %w", s.RedisURL, err)
		}
	case BackendSQLite:
		if s.SQLitePath == "" {
			s.SQLitePath = "tally.db"
		}
	default:
		return fmt.Errorf("invalid store.backend: %s (must be '%s' or '%s')", s.Backend, BackendRedis, BackendSQLite)
	}

	return nil
}

// Validate checks listener settings and applies default timeouts
func (s *ServerConfig) Validate() error {
	if s.Addr == "" {
		s.Addr = ":8080"
	}
	if s.ReadTimeout == "" {
		s.ReadTimeout = "5s"
	}
	if s.WriteTimeout == "" {
		s.WriteTimeout = "5s"
	}
	if s.ShutdownTimeout == "" {
		s.ShutdownTimeout = "10s"
	}

	for name, value := range map[string]string{
		"read_timeout":     s.ReadTimeout,
		"write_timeout":    s.WriteTimeout,
		"shutdown_timeout": s.ShutdownTimeout,
	} {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("server.%s: invalid duration '%s'", name, value)
		}
		if d <= 0 {
			return fmt.Errorf("server.%s must be positive, got %s", name, value)
		}
	}

	return nil
}

// Timeouts returns the parsed read, write and shutdown timeouts.
// Call only after Validate has succeeded.
func (s *ServerConfig) Timeouts() (read, write, shutdown time.Duration) {
	read, _ = time.ParseDuration(s.ReadTimeout)
	write, _ = time.ParseDuration(s.WriteTimeout)
	shutdown, _ = time.ParseDuration(s.ShutdownTimeout)
	return read, write, shutdown
}

// ApplyEnv overrides configuration values from TALLY_* environment variables.
// It must be called before Validate.
func (c *TallyConfig) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvInstanceName); v != "" {
		c.Instance = v
	}
	if v := getenv(EnvRedisURL); v != "" {
		if c.Store == nil {
			c.Store = &StoreConfig{}
		}
		c.Store.RedisURL = v
	}
	if v := getenv(EnvAddr); v != "" {
		if c.Server == nil {
			c.Server = &ServerConfig{}
		}
		c.Server.Addr = v
	}
}

// Load reads tally.yml from the specified path, applies environment
// overrides and validates the result
func Load(path string) (*TallyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data, os.Getenv)
}

// LoadOrDefault loads path if it exists and falls back to the defaults
// (plus environment overrides) when it does not.
func LoadOrDefault(path string) (*TallyConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Parse([]byte(`version: "1.0"`), os.Getenv)
	}
	return Load(path)
}

// Parse decodes and validates configuration bytes.
func Parse(data []byte, getenv func(string) string) (*TallyConfig, error) {
	var config TallyConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if getenv != nil {
		config.ApplyEnv(getenv)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
