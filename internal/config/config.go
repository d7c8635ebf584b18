// Package config provides functionality for managing configuration options
// for the server and client binaries using command-line flags, an optional
// JSON config file and environment variables, applied in that order.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"
)

// Duration is a time.Duration that reads from JSON strings such as "1h30m".
type Duration time.Duration

// UnmarshalJSON accepts either a Go duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("duration must be a string or integer: %w", err)
	}
	*d = Duration(n)
	return nil
}

// ServerOptions holds the configuration values for the record server.
type ServerOptions struct {
	// Address defines the server's listening address (ip:port).
	Address string `json:"address"`

	// DatabaseDriver selects the backend: "postgres" or "sqlite".
	DatabaseDriver string `json:"database_driver"`

	// DatabaseDSN holds the database connection string.
	DatabaseDSN string `json:"database_dsn"`

	// APIKey, when set, must be presented by clients in the X-API-Key header.
	APIKey string `json:"api_key"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	// LogLevel is passed to the zap logger.
	LogLevel string `json:"log_level"`

	// CleanupInterval is how often soft-deleted records are purged.
	CleanupInterval Duration `json:"cleanup_interval"`

	// Retention is how long a soft-deleted record is kept before purge.
	Retention Duration `json:"retention"`

	// Config is the path to the JSON config file.
	Config string `json:"-"`
}

// ClientOptions holds the configuration values for the terminal client.
type ClientOptions struct {
	// ServerURL is the base URL of the record server.
	ServerURL string `json:"server_url"`

	// APIKey is sent with every request when set.
	APIKey string `json:"api_key"`

	// CAFile is an optional PEM bundle used to verify the server certificate.
	CAFile string `json:"ca_file"`

	// Timeout bounds every store call.
	Timeout Duration `json:"timeout"`

	// RefreshInterval enables periodic list refresh when positive.
	RefreshInterval Duration `json:"refresh_interval"`

	// LogLevel is passed to the zap logger.
	LogLevel string `json:"log_level"`

	// Config is the path to the JSON config file.
	Config string `json:"-"`
}

// ParseServer parses server flags from args, then applies the config file
// and environment overrides.
func ParseServer(args []string) (*ServerOptions, error) {
	opts := &ServerOptions{}
	var cleanup, retention time.Duration

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&opts.Address, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&opts.DatabaseDriver, "driver", "postgres", "database driver: postgres | sqlite")
	fs.StringVar(&opts.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&opts.APIKey, "k", "", "api key required from clients")
	fs.StringVar(&opts.TLSCert, "tls-cert", "", "path to TLS certificate")
	fs.StringVar(&opts.TLSKey, "tls-key", "", "path to TLS key")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "log level")
	fs.DurationVar(&cleanup, "cleanup-interval", time.Hour, "soft-delete purge interval")
	fs.DurationVar(&retention, "retention", 30*24*time.Hour, "soft-delete retention")
	fs.StringVar(&opts.Config, "config", "config.json", "path to config file")
	fs.StringVar(&opts.Config, "c", "config.json", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.CleanupInterval = Duration(cleanup)
	opts.Retention = Duration(retention)

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		opts.Config = configPath
	}
	if err := loadFile(opts.Config, opts); err != nil {
		return nil, err
	}

	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		opts.Address = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		opts.DatabaseDriver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		opts.DatabaseDSN = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		opts.APIKey = v
	}

	switch opts.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unknown database driver %q", opts.DatabaseDriver)
	}
	if (opts.TLSCert == "") != (opts.TLSKey == "") {
		return nil, errors.New("tls-cert and tls-key must be set together")
	}
	if opts.CleanupInterval <= 0 {
		return nil, fmt.Errorf("cleanup-interval must be positive, got %s", time.Duration(opts.CleanupInterval))
	}
	if opts.Retention < 0 {
		return nil, fmt.Errorf("retention must not be negative, got %s", time.Duration(opts.Retention))
	}
	return opts, nil
}

// ParseClient parses client flags from args, then applies the config file
// and environment overrides.
func ParseClient(args []string) (*ClientOptions, error) {
	opts := &ClientOptions{}
	var timeout, refresh time.Duration

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.StringVar(&opts.ServerURL, "url", "http://localhost:8080", "server base URL")
	fs.StringVar(&opts.APIKey, "k", "", "api key")
	fs.StringVar(&opts.CAFile, "ca", "", "path to CA cert")
	fs.DurationVar(&timeout, "timeout", 10*time.Second, "store call timeout")
	fs.DurationVar(&refresh, "refresh", 0, "auto-refresh interval, 0 disables")
	fs.StringVar(&opts.LogLevel, "log-level", "warn", "log level")
	fs.StringVar(&opts.Config, "config", "client.json", "path to config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.Timeout = Duration(timeout)
	opts.RefreshInterval = Duration(refresh)

	if configPath := os.Getenv("CLIENT_CONFIG"); configPath != "" {
		opts.Config = configPath
	}
	if err := loadFile(opts.Config, opts); err != nil {
		return nil, err
	}

	if v := os.Getenv("SERVER_URL"); v != "" {
		opts.ServerURL = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		opts.APIKey = v
	}
	return opts, nil
}

// loadFile decodes path into dst. A missing file is not an error.
func loadFile(path string, dst any) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}
