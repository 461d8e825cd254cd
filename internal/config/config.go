// Package config loads folio's configuration from defaults, an optional YAML
// file, FOLIO_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

const EnvPrefix = "FOLIO"

// Config is the application configuration.
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Content  string        `mapstructure:"content"`
	Watch    bool          `mapstructure:"watch"`
	HTTP     HTTPConfig    `mapstructure:"http"`
	Session  SessionConfig `mapstructure:"session"`
	Tracker  TrackerConfig `mapstructure:"tracker"`
	TUI      TUIConfig     `mapstructure:"tui"`
}

// HTTPConfig holds web server configuration.
type HTTPConfig struct {
	Port   int    `mapstructure:"port"`
	Mode   string `mapstructure:"mode"`
	Assets string `mapstructure:"assets"`
}

// Address returns the listen address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SessionConfig controls visitor sessions of the web host.
type SessionConfig struct {
	Cookie string        `mapstructure:"cookie"`
	TTL    time.Duration `mapstructure:"ttl"`
	Sweep  time.Duration `mapstructure:"sweep"`
	Secure bool          `mapstructure:"secure"`
	// Max caps live sessions; the least recently seen one is dropped first.
	Max int `mapstructure:"max"`
}

// TrackerConfig holds the web reference line in CSS pixels.
type TrackerConfig struct {
	ReferenceLine float64 `mapstructure:"reference_line"`
}

// TUIConfig holds terminal host settings. ReferenceLine is in rows below
// the top of the scrolling viewport.
type TUIConfig struct {
	ReferenceLine int           `mapstructure:"reference_line"`
	Frame         time.Duration `mapstructure:"frame"`
	Mouse         bool          `mapstructure:"mouse"`
	LogFile       string        `mapstructure:"log_file"`
}

// Gin modes accepted in http.mode.
const (
	ModeDebug   = "debug"
	ModeRelease = "release"
	ModeTest    = "test"
)

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("content", "")
	v.SetDefault("watch", false)
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.mode", ModeRelease)
	v.SetDefault("http.assets", "public")
	v.SetDefault("session.cookie", "folio_session")
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.sweep", time.Minute)
	v.SetDefault("session.secure", false)
	v.SetDefault("session.max", 1000)
	v.SetDefault("tracker.reference_line", 100.0)
	v.SetDefault("tui.reference_line", 2)
	v.SetDefault("tui.frame", 16*time.Millisecond)
	v.SetDefault("tui.mouse", true)
	v.SetDefault("tui.log_file", "folio-tui.log")
}

// New returns a viper instance with defaults and environment binding. When
// file is empty, ./config.yaml is used if present.
func New(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PORT is what most hosts set; FOLIO_HTTP_PORT is checked first.
	_ = v.BindEnv("http.port", EnvPrefix+"_HTTP_PORT", "PORT")
	return v
}

// Load reads the config file (if any) and decodes the result.
// explicit reports whether the file was named by the user, in which case a
// missing file is an error.
func Load(v *viper.Viper, explicit bool) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case !explicit && errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Level returns the parsed log level.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.Required, validation.By(logLevel)),
	); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := c.Tracker.Validate(); err != nil {
		return fmt.Errorf("tracker: %w", err)
	}
	if err := c.TUI.Validate(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Mode, validation.Required, validation.In(ModeDebug, ModeRelease, ModeTest)),
	)
}

func (c *SessionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Cookie, validation.Required),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.Sweep, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.Max, validation.Required, validation.Min(1)),
	)
}

func (c *TrackerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ReferenceLine, validation.Min(0.0)),
	)
}

func (c *TUIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ReferenceLine, validation.Min(1)),
		validation.Field(&c.Frame, validation.Required, validation.Min(time.Millisecond)),
	)
}

func logLevel(value interface{}) error {
	s, _ := value.(string)
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("unknown log level %q", s)
	}
	return nil
}
