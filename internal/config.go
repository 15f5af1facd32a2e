package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/quranhifz/hifzd/internal/mushaf"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Edition  EditionConfig     `yaml:"edition"`
	Upstream UpstreamConfig    `yaml:"upstream"`
	Cache    CacheConfig       `yaml:"cache"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Timings  TimingsConfig     `yaml:"timings"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Edition.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// EditionConfig selects the Mushaf edition to serve.
type EditionConfig struct {
	ID string `yaml:"id"`
}

// Validate checks the edition id against the registered fingerprints.
func (c *EditionConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.ID, validation.Required),
	); err != nil {
		return err
	}
	if _, ok := mushaf.FingerprintByID(c.ID); !ok {
		return fmt.Errorf("edition: unknown id %q", c.ID)
	}
	return nil
}

// UpstreamConfig holds the remote verse API endpoint. An empty base URL
// falls back to the public Quran.com API.
type UpstreamConfig struct {
	BaseURL string `yaml:"base_url"`
}

// CacheConfig holds the verse cache backend configuration.
//
// Backend controls where cached verses live:
//   - "memory" (default): process-local, lost on restart.
//   - "redis": persistent; RedisURI must be non-empty.
type CacheConfig struct {
	Backend  string `yaml:"backend"`
	RedisURI string `yaml:"redis_uri"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	if c.Backend == "" {
		c.Backend = CacheBackendMemory
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(CacheBackendMemory, CacheBackendRedis)),
	); err != nil {
		return err
	}
	if c.Backend == CacheBackendRedis && c.RedisURI == "" {
		return fmt.Errorf("cache: backend is %q but redis_uri is empty", CacheBackendRedis)
	}
	return nil
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// TimingsConfig holds the directory of recorded word timing files. An
// empty dir disables recorded timings; the heuristic estimator still runs.
type TimingsConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Edition: EditionConfig{
			ID: "madani-15",
		},
		Cache: CacheConfig{
			Backend: CacheBackendMemory,
		},
		SQLite: SQLiteConfig{
			Path: "./hifzd.db",
		},
		Timings: TimingsConfig{
			Watch: true,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
