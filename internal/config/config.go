// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `env:"SERVER_ADDRESS"`

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string `env:"DATABASE_DSN"`

	// LogLevel is the minimum zap level name.
	LogLevel string `env:"LOG_LEVEL"`

	// SessionTTL is how long a login session stays valid.
	SessionTTL time.Duration `env:"SESSION_TTL"`

	// CleanupInterval is how often expired sessions are purged.
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL"`

	// SecureCookie marks the session cookie Secure.
	SecureCookie bool `env:"SECURE_COOKIE"`

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`

	// Config is the path to the Config file.
	Config string
}

// fileOptions mirrors Options in the JSON config file. Durations are
// written as Go duration strings ("24h", "30m").
type fileOptions struct {
	Address         *string `json:"server_address"`
	DatabaseDSN     *string `json:"database_dsn"`
	LogLevel        *string `json:"log_level"`
	SessionTTL      *string `json:"session_ttl"`
	CleanupInterval *string `json:"session_cleanup_interval"`
	SecureCookie    *bool   `json:"secure_cookie"`
	TLSCertFile     *string `json:"tls_cert_file"`
	TLSKeyFile      *string `json:"tls_key_file"`
}

// TLSEnabled reports whether both TLS files are configured.
func (o *Options) TLSEnabled() bool {
	return o.TLSCertFile != "" && o.TLSKeyFile != ""
}

func registerFlags(fs *flag.FlagSet, o *Options) {
	fs.StringVar(&o.Address, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&o.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&o.LogLevel, "l", "info", "log level")
	fs.DurationVar(&o.SessionTTL, "session-ttl", 24*time.Hour, "login session lifetime")
	fs.DurationVar(&o.CleanupInterval, "cleanup-interval", time.Hour, "expired session cleanup interval")
	fs.BoolVar(&o.SecureCookie, "secure-cookie", false, "set the Secure flag on the session cookie")
	fs.StringVar(&o.TLSCertFile, "tls-cert", "", "path to TLS certificate")
	fs.StringVar(&o.TLSKeyFile, "tls-key", "", "path to TLS private key")
	fs.StringVar(&o.Config, "config", "config.json", "path to config file")
	fs.StringVar(&o.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, config file and environment variables
// to set configuration values. It exits the process on invalid configuration.
func Parse() *Options {
	options, err := load(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return options
}

func load(fs *flag.FlagSet, args []string) (*Options, error) {
	options := &Options{}
	registerFlags(fs, options)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			if err := applyFile(options, data); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	// Environment variables take precedence over flags and the config file.
	if err := env.Parse(options); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if options.SessionTTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	if options.CleanupInterval <= 0 {
		return nil, errors.New("cleanup interval must be positive")
	}
	return options, nil
}

func applyFile(o *Options, data []byte) error {
	var f fileOptions
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	setString(&o.Address, f.Address)
	setString(&o.DatabaseDSN, f.DatabaseDSN)
	setString(&o.LogLevel, f.LogLevel)
	setString(&o.TLSCertFile, f.TLSCertFile)
	setString(&o.TLSKeyFile, f.TLSKeyFile)
	if f.SecureCookie != nil {
		o.SecureCookie = *f.SecureCookie
	}
	if err := setDuration(&o.SessionTTL, f.SessionTTL); err != nil {
		return fmt.Errorf("session_ttl: %w", err)
	}
	if err := setDuration(&o.CleanupInterval, f.CleanupInterval); err != nil {
		return fmt.Errorf("session_cleanup_interval: %w", err)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
