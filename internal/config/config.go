package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SMTPConfig holds the outbound mail submission settings.
type SMTPConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	From     string `mapstructure:"from" yaml:"from"`

	// StartTLS selects STARTTLS submission instead of implicit TLS.
	StartTLS bool `mapstructure:"starttls" yaml:"starttls"`
}

// ReminderConfig holds reminder sweep settings.
type ReminderConfig struct {
	// SweepIntervalSec is how often (in seconds) due reminders are scanned.
	SweepIntervalSec int `mapstructure:"sweep_interval_sec" yaml:"sweep_interval_sec"`

	// SendTimeoutSec bounds a single outbound notification send.
	SendTimeoutSec int `mapstructure:"send_timeout_sec" yaml:"send_timeout_sec"`
}

// Config is the top-level application configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `mapstructure:"addr" yaml:"addr"`

	// DBPath is the SQLite database file location.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// Timezone names the location used to resolve "today" for due-date
	// views. Empty means the process-local timezone.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`

	SMTP     SMTPConfig     `mapstructure:"smtp" yaml:"smtp"`
	Reminder ReminderConfig `mapstructure:"reminder" yaml:"reminder"`
}

// DefaultPath returns the default configuration file location,
// ~/.config/webplanner/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "webplanner", "config.yaml")
}

// defaultConfig returns a sensible default configuration.
func defaultConfig() *Config {
	return &Config{
		Addr:   ":8080",
		DBPath: "webplanner.db",
		SMTP: SMTPConfig{
			Port: 465,
		},
		Reminder: ReminderConfig{
			SweepIntervalSec: 60,
			SendTimeoutSec:   15,
		},
	}
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("addr", ":8080")
	v.SetDefault("db_path", "webplanner.db")
	v.SetDefault("smtp.port", 465)
	v.SetDefault("reminder.sweep_interval_sec", 60)
	v.SetDefault("reminder.send_timeout_sec", 15)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Reminder.SweepIntervalSec <= 0 {
		cfg.Reminder.SweepIntervalSec = 60
	}
	if cfg.Reminder.SendTimeoutSec <= 0 {
		cfg.Reminder.SendTimeoutSec = 15
	}

	return cfg, nil
}
