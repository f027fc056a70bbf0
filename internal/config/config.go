// Package config loads httpkit settings from a YAML file, HTTPKIT_* environment variables and defaults.
package config

//go:generate go tool errtrace -w .

import (
	"log/slog"
	"strings"
	"time"

	"braces.dev/errtrace"
	"github.com/spf13/viper"

	"github.com/ghettovoice/httpkit/client"
	"github.com/ghettovoice/httpkit/internal/errorutil"
	"github.com/ghettovoice/httpkit/internal/log"
	"github.com/ghettovoice/httpkit/uri"
)

// EnvPrefix is the prefix of environment variables, e.g. HTTPKIT_LOG_LEVEL or HTTPKIT_CLIENT_TIMEOUT.
const EnvPrefix = "HTTPKIT"

// ErrInvalidConfig is returned by [Config.Validate].
const ErrInvalidConfig errorutil.Error = "invalid config"

// Config holds all settings.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// LogFormat is one of console, dev, json, text.
	LogFormat string `mapstructure:"log_format"`
	// Client configures the HTTP client.
	Client ClientConfig `mapstructure:"client"`
}

// ClientConfig holds settings of [client.Client].
type ClientConfig struct {
	// BaseURI is an absolute URI relative request URIs are resolved against.
	BaseURI      string        `mapstructure:"base_uri"`
	RetryMax     int           `mapstructure:"retry_max"`
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min"`
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		LogLevel:  "warn",
		LogFormat: log.FormatConsole,
		Client: ClientConfig{
			RetryMax:     3,
			RetryWaitMin: 100 * time.Millisecond,
			RetryWaitMax: 2 * time.Second,
			Timeout:      30 * time.Second,
			UserAgent:    "httpkit",
		},
	}
}

// SetDefaults registers defaults in v, so every key can be overridden from the environment.
func SetDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("client.base_uri", def.Client.BaseURI)
	v.SetDefault("client.retry_max", def.Client.RetryMax)
	v.SetDefault("client.retry_wait_min", def.Client.RetryWaitMin)
	v.SetDefault("client.retry_wait_max", def.Client.RetryWaitMax)
	v.SetDefault("client.timeout", def.Client.Timeout)
	v.SetDefault("client.user_agent", def.Client.UserAgent)
}

// Load reads the configuration into v and validates it.
// The file is optional, values of the file override defaults, environment variables override the file.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidConfig, err))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidConfig, err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &cfg, nil
}

// Validate checks all settings and reports every invalid one.
func (c *Config) Validate() error {
	var errs []error

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errs = append(errs, errorutil.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case log.FormatConsole, log.FormatDev, log.FormatJSON, log.FormatText:
	default:
		errs = append(errs, errorutil.Errorf("log_format: unknown format %q", c.LogFormat))
	}

	if c.Client.BaseURI != "" {
		if u, err := uri.Parse(c.Client.BaseURI); err != nil {
			errs = append(errs, errorutil.Errorf("client.base_uri: %v", err))
		} else if !u.IsAbsolute() {
			errs = append(errs, errorutil.Errorf("client.base_uri: %q is not absolute", c.Client.BaseURI))
		}
	}
	if c.Client.RetryMax < 0 {
		errs = append(errs, errorutil.Errorf("client.retry_max: %d is negative", c.Client.RetryMax))
	}
	if c.Client.RetryWaitMin < 0 || c.Client.RetryWaitMax < 0 {
		errs = append(errs, errorutil.Errorf("client.retry_wait_min, client.retry_wait_max: negative duration"))
	} else if c.Client.RetryWaitMax > 0 && c.Client.RetryWaitMin > c.Client.RetryWaitMax {
		errs = append(errs, errorutil.Errorf("client.retry_wait_min: %s is greater than client.retry_wait_max %s",
			c.Client.RetryWaitMin, c.Client.RetryWaitMax))
	}
	if c.Client.Timeout < 0 {
		errs = append(errs, errorutil.Errorf("client.timeout: %s is negative", c.Client.Timeout))
	}

	if len(errs) > 0 {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidConfig, errorutil.Join(errs...)))
	}
	return nil
}

// ClientOptions converts the client settings to [client.Options].
// The configuration must be valid.
func (c *Config) ClientOptions(logger *slog.Logger) *client.Options {
	opts := &client.Options{
		RetryMax:     c.Client.RetryMax,
		RetryWaitMin: c.Client.RetryWaitMin,
		RetryWaitMax: c.Client.RetryWaitMax,
		Timeout:      c.Client.Timeout,
		UserAgent:    c.Client.UserAgent,
		Logger:       logger,
	}
	if c.Client.BaseURI != "" {
		opts.BaseURI, _ = uri.Parse(c.Client.BaseURI)
	}
	return opts
}
