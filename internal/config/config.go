// Package config loads server configuration from an optional yaml file,
// ORRERY_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/internal/observability"
	"github.com/signalsfoundry/orrery/model"
)

// EnvPrefix prefixes every environment override, e.g. ORRERY_SERVER_ADDRESS.
const EnvPrefix = "ORRERY"

// Config is the full server configuration.
type Config struct {
	Server    ServerConfig                `yaml:"server" mapstructure:"server"`
	Ephemeris EphemerisConfig             `yaml:"ephemeris" mapstructure:"ephemeris"`
	Cache     CacheConfig                 `yaml:"cache" mapstructure:"cache"`
	Tracing   observability.TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Logging   LoggingConfig               `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig covers the listeners.
type ServerConfig struct {
	Address string `yaml:"address" mapstructure:"address"`
	// HealthAddress enables the gRPC health endpoint when set.
	HealthAddress     string        `yaml:"health_address" mapstructure:"health_address"`
	WASMDir           string        `yaml:"wasm_dir" mapstructure:"wasm_dir"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// EphemerisConfig tunes the backend catalog.
type EphemerisConfig struct {
	// Rings overrides diagram ring radii by body id.
	Rings map[string]float64 `yaml:"rings" mapstructure:"rings"`
	// AnnotationsPath replaces the bundled annotations.
	AnnotationsPath string `yaml:"annotations_path" mapstructure:"annotations_path"`
}

// CacheConfig controls the SQLite snapshot cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	DSN     string `yaml:"dsn" mapstructure:"dsn"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:           ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   5 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			DSN:     "file:orrery-cache.db?_journal_mode=WAL",
		},
		Tracing: observability.DefaultTracingConfig(),
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// SetDefaults registers every default key on v. Environment overrides only
// apply to keys viper knows about.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.health_address", d.Server.HealthAddress)
	v.SetDefault("server.wasm_dir", d.Server.WASMDir)
	v.SetDefault("server.read_header_timeout", d.Server.ReadHeaderTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("ephemeris.annotations_path", d.Ephemeris.AnnotationsPath)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dsn", d.Cache.DSN)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.sample_ratio", d.Tracing.SampleRatio)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Load reads path (when non-empty) and the environment into a Config.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Tracing = observability.ApplyTracingEnv(cfg.Tracing)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address is required"))
	}
	if c.Cache.Enabled && c.Cache.DSN == "" {
		errs = append(errs, errors.New("cache.dsn is required when the cache is enabled"))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if !logging.ValidFormat(c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format %q is not text or json", c.Logging.Format))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("tracing.sample_ratio %v outside [0,1]", c.Tracing.SampleRatio))
	}
	for key, r := range c.Ephemeris.Rings {
		id, err := model.ParseBodyID(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("ephemeris.rings: %w", err))
			continue
		}
		if id == model.Sun || r <= 0 {
			errs = append(errs, fmt.Errorf("ephemeris.rings.%s: invalid radius %v", key, r))
		}
	}
	return errors.Join(errs...)
}
