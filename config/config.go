// Package config loads the server configuration.
//
// Sources, lowest precedence first: built-in defaults, an optional YAML file,
// BOOKING_* environment variables (a .env file is read by cmd/server), and
// finally command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/warp/booking-timeline/logging"
	"github.com/warp/booking-timeline/timeline"
)

// LayoutConfig is the calendar geometry.
type LayoutConfig struct {
	HourHeight       float64 `yaml:"hour_height"`
	VisibleStartHour int     `yaml:"visible_start_hour"`
	VisibleEndHour   int     `yaml:"visible_end_hour"`
	MonthCellLimit   int     `yaml:"month_cell_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`

	// Timezone is the IANA zone bookings are composed in (e.g. "Europe/London").
	Timezone string `yaml:"timezone"`

	LogLevel string `yaml:"log_level"`
	Env      string `yaml:"env"`

	// LogOutputFile and LogErrorFile are only used when Env is production.
	// Empty means stdout and stderr.
	LogOutputFile string `yaml:"log_output_file"`
	LogErrorFile  string `yaml:"log_error_file"`

	AllowedOrigins     []string `yaml:"allowed_origins"`
	RateLimitPerSecond int      `yaml:"rate_limit_per_second"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	Layout LayoutConfig `yaml:"layout"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:             ":8080",
		DBPath:             "bookings.db",
		Timezone:           "Local",
		LogLevel:           "info",
		Env:                "development",
		AllowedOrigins:     []string{"*"},
		RateLimitPerSecond: 100,
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
		Layout: LayoutConfig{
			HourHeight:       timeline.DefaultHourHeight,
			VisibleStartHour: timeline.DefaultVisibleStartHour,
			VisibleEndHour:   timeline.DefaultVisibleEndHour,
			MonthCellLimit:   timeline.DefaultMonthCellLimit,
		},
	}
}

// Normalize fills in missing or zero values with defaults so that
// partially-filled files still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Env == "" {
		c.Env = def.Env
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = def.AllowedOrigins
	}
	if c.RateLimitPerSecond <= 0 {
		c.RateLimitPerSecond = def.RateLimitPerSecond
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = def.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}

	opts := c.LayoutOptions(time.Local).Normalize()
	c.Layout = LayoutConfig{
		HourHeight:       opts.HourHeight,
		VisibleStartHour: opts.VisibleStartHour,
		VisibleEndHour:   opts.VisibleEndHour,
		MonthCellLimit:   opts.MonthCellLimit,
	}
}

// Load reads the YAML file at path, applies BOOKING_* overrides and
// normalizes. A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
			// defaults
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.Normalize()

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Listen = getEnv("BOOKING_LISTEN", c.Listen)
	c.DBPath = getEnv("BOOKING_DB_PATH", c.DBPath)
	c.Timezone = getEnv("BOOKING_TIMEZONE", c.Timezone)
	c.LogLevel = getEnv("BOOKING_LOG_LEVEL", c.LogLevel)
	c.Env = getEnv("BOOKING_ENV", c.Env)
	c.LogOutputFile = getEnv("BOOKING_LOG_OUTPUT_FILE", c.LogOutputFile)
	c.LogErrorFile = getEnv("BOOKING_LOG_ERROR_FILE", c.LogErrorFile)
	c.AllowedOrigins = getEnvAsList("BOOKING_ALLOWED_ORIGINS", c.AllowedOrigins)
	c.RateLimitPerSecond = getEnvAsInt("BOOKING_RATE_LIMIT_PER_SECOND", c.RateLimitPerSecond)
	c.ReadTimeout = getEnvAsDuration("BOOKING_READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = getEnvAsDuration("BOOKING_WRITE_TIMEOUT", c.WriteTimeout)
	c.Layout.HourHeight = getEnvAsFloat("BOOKING_HOUR_HEIGHT", c.Layout.HourHeight)
	c.Layout.VisibleStartHour = getEnvAsInt("BOOKING_VISIBLE_START_HOUR", c.Layout.VisibleStartHour)
	c.Layout.VisibleEndHour = getEnvAsInt("BOOKING_VISIBLE_END_HOUR", c.Layout.VisibleEndHour)
	c.Layout.MonthCellLimit = getEnvAsInt("BOOKING_MONTH_CELL_LIMIT", c.Layout.MonthCellLimit)
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LayoutOptions converts the layout section into engine options.
func (c *Config) LayoutOptions(loc *time.Location) timeline.Options {
	return timeline.Options{
		HourHeight:       c.Layout.HourHeight,
		VisibleStartHour: c.Layout.VisibleStartHour,
		VisibleEndHour:   c.Layout.VisibleEndHour,
		MonthCellLimit:   c.Layout.MonthCellLimit,
		Location:         loc,
	}
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.LogLevel,
		Env:        c.Env,
		OutputFile: c.LogOutputFile,
		ErrorFile:  c.LogErrorFile,
	}
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
