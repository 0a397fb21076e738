package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider names accepted in search.provider.
const (
	ProviderAlgolia = "AlgoliaSearch"
)

// Settings drivers.
const (
	SettingsDriverStatic = "static"
	SettingsDriverRedis  = "redis"
)

// Config holds the search provider service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Algolia  AlgoliaConfig  `yaml:"algolia"`
	Search   SearchConfig   `yaml:"search"`
	Settings SettingsConfig `yaml:"settings"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// AlgoliaConfig holds hosted search service credentials.
type AlgoliaConfig struct {
	AppID  string `yaml:"app_id"`
	APIKey string `yaml:"api_key"`
}

// SearchConfig selects the active search provider and the index name scope.
type SearchConfig struct {
	Scope    string `yaml:"scope"`
	Provider string `yaml:"provider"`
	Enabled  *bool  `yaml:"enabled"`
}

// IsEnabled reports whether the Algolia provider should serve requests.
func (c SearchConfig) IsEnabled() bool {
	if c.Enabled != nil && !*c.Enabled {
		return false
	}
	return strings.EqualFold(c.Provider, ProviderAlgolia)
}

// SettingsConfig holds the platform settings source.
type SettingsConfig struct {
	Driver string              `yaml:"driver"` // static, redis (default: static)
	Values map[string]any      `yaml:"values"`
	Redis  RedisSettingsConfig `yaml:"redis"`
}

// RedisSettingsConfig holds the Redis/Valkey settings store connection.
type RedisSettingsConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Search.Scope == "" {
		c.Search.Scope = "default"
	}
	if c.Search.Provider == "" {
		c.Search.Provider = ProviderAlgolia
	}
	if c.Settings.Driver == "" {
		c.Settings.Driver = SettingsDriverStatic
	}
	if c.Settings.Redis.ReadinessTimeout <= 0 {
		c.Settings.Redis.ReadinessTimeout = 10
	}
	if c.Settings.Redis.KeyPrefix == "" {
		c.Settings.Redis.KeyPrefix = "settings:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Settings.Driver {
	case SettingsDriverStatic:
	case SettingsDriverRedis:
		if len(c.Settings.Redis.Addrs) == 0 {
			return fmt.Errorf("settings.redis.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("settings.driver must be %q or %q, got %q",
			SettingsDriverStatic, SettingsDriverRedis, c.Settings.Driver)
	}
	if c.Search.IsEnabled() {
		if c.Algolia.AppID == "" {
			return fmt.Errorf("algolia.app_id is required when the provider is enabled")
		}
		if c.Algolia.APIKey == "" {
			return fmt.Errorf("algolia.api_key is required when the provider is enabled")
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
