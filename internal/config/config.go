// Package config loads formbind settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/pkg/form"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "FORMBIND_"

var (
	// ErrParsingConfig is returned when variables cannot be parsed.
	ErrParsingConfig = errors.New("config: failed to parse environment")
	// ErrInvalidConfig is returned when a parsed value is out of range.
	ErrInvalidConfig = errors.New("config: invalid value")
)

// Config holds the settings shared by the CLI commands.
type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	Schema          string        `env:"SCHEMA"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`
	Mode            string        `env:"MODE" envDefault:"onChange"`
	CSRFField       string        `env:"CSRF_FIELD" envDefault:"_csrf"`
	Renderer        string        `env:"RENDERER" envDefault:"vanilla"`
	ThemeName       string        `env:"THEME_NAME"`
	ThemeVariant    string        `env:"THEME_VARIANT"`
	MetricsPath     string        `env:"METRICS_PATH" envDefault:"/metrics"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Option configures Load.
type Option func(*loadConfig)

type loadConfig struct {
	dotenv      []string
	environment map[string]string
}

// WithDotenv loads the named files before parsing. Missing files are skipped.
func WithDotenv(files ...string) Option {
	return func(c *loadConfig) {
		c.dotenv = append(c.dotenv, files...)
	}
}

// WithEnvironment parses vars instead of the process environment.
func WithEnvironment(vars map[string]string) Option {
	return func(c *loadConfig) {
		c.environment = vars
	}
}

// Load reads .env files, then parses FORMBIND_* variables into a Config.
func Load(options ...Option) (Config, error) {
	lc := &loadConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(lc)
		}
	}

	for _, file := range lc.dotenv {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return Config{}, errors.Join(ErrParsingConfig, err)
		}
	}

	var cfg Config
	opts := env.Options{Prefix: EnvPrefix}
	if lc.environment != nil {
		opts.Environment = lc.environment
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c Config) Validate() error {
	if _, err := form.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: negative shutdown timeout", ErrInvalidConfig)
	}
	return nil
}

// FormMode returns the parsed validation mode.
func (c Config) FormMode() form.Mode {
	mode, _ := form.ParseMode(c.Mode)
	return mode
}

// LoggingOptions converts the log settings into logging options.
func (c Config) LoggingOptions() []logging.Option {
	level, _ := logging.ParseLevel(c.LogLevel)
	format, _ := logging.ParseFormat(c.LogFormat)
	return []logging.Option{logging.WithLevel(level), logging.WithFormat(format)}
}
