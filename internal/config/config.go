package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/passdy/intake/internal/form"
	"github.com/samber/lo"
)

const (
	// DefaultAddressURL is empty; the built-in demo directory answers lookups.
	DefaultAddressURL = ""

	// DefaultOrderURL is empty; orders are accepted with a demo receipt.
	DefaultOrderURL = ""

	// DefaultRequestTimeout bounds each call to the address and order services.
	DefaultRequestTimeout = 8 * time.Second

	// DefaultMaxConcurrentLookups is the number of address lookups sent at once.
	DefaultMaxConcurrentLookups = 4

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// EnvPrefix is prepended to every environment variable name.
	EnvPrefix = "INTAKE_"
)

// Config holds the runtime settings of the intake tool.
type Config struct {
	LogLevel             string        `toml:"log_level" env:"LOG_LEVEL"`
	AddressURL           string        `toml:"address_url" env:"ADDRESS_URL"`
	OrderURL             string        `toml:"order_url" env:"ORDER_URL"`
	RequestTimeout       time.Duration `toml:"request_timeout" env:"REQUEST_TIMEOUT"`
	MaxConcurrentLookups int64         `toml:"max_concurrent_lookups" env:"MAX_CONCURRENT_LOOKUPS"`
	User                 UserConfig    `toml:"user" envPrefix:"USER_"`
}

// UserConfig describes the signed-in customer, if any.
type UserConfig struct {
	FullName string `toml:"full_name" env:"FULL_NAME"`
	Email    string `toml:"email" env:"EMAIL"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:             DefaultLogLevel,
		AddressURL:           DefaultAddressURL,
		OrderURL:             DefaultOrderURL,
		RequestTimeout:       DefaultRequestTimeout,
		MaxConcurrentLookups: DefaultMaxConcurrentLookups,
	}
}

// Load builds the configuration from defaults, the optional TOML file at
// path and INTAKE_* environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := DecodeTOML(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DecodeTOML decodes data into v and rejects keys v has no field for.
func DecodeTOML(data string, v any) error {
	md, err := toml.Decode(data, v)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := lo.Map(undecoded, func(k toml.Key, _ int) string { return k.String() })
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks the settings for values the clients cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.MaxConcurrentLookups < 1 {
		errs = append(errs, fmt.Errorf("max_concurrent_lookups must be at least 1, got %d", c.MaxConcurrentLookups))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// FormUser returns the configured customer, or nil when none is set.
func (c Config) FormUser() *form.User {
	if c.User.FullName == "" && c.User.Email == "" {
		return nil
	}
	return &form.User{FullName: c.User.FullName, Email: c.User.Email}
}
