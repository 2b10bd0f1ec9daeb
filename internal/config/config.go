// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

// Package config loads the layered application configuration: built-in
// defaults, then an optional YAML file, then environment variables.
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"fmt"
	"time"

	"github.com/mzheludkov/pinpoint/internal/logging"
)

// Config holds every tunable of the service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Breaker  BreakerConfig  `koanf:"breaker"`
	Logging  logging.Config `koanf:"logging"`
}

// ServerConfig covers the TCP listener, the worker pool and the HTTP
// wire limits.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// Workers is the pool size; 0 means one per CPU.
	Workers int `koanf:"workers"`
	// MaxQueueSize bounds the pending-connection queue.
	MaxQueueSize int `koanf:"max_queue_size"`

	MaxHeaderSize int           `koanf:"max_header_size"`
	MaxBodySize   int           `koanf:"max_body_size"`
	SocketTimeout time.Duration `koanf:"socket_timeout"`

	// AcceptRPS throttles the accept loop; 0 disables the limiter.
	AcceptRPS float64 `koanf:"accept_rps"`

	CORSEnabled bool   `koanf:"cors_enabled"`
	CORSOrigin  string `koanf:"cors_origin"`
	CORSMethods string `koanf:"cors_methods"`
	CORSHeaders string `koanf:"cors_headers"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `koanf:"path"`
	// WriteQueueSize bounds the asynchronous writer queue.
	WriteQueueSize int `koanf:"write_queue_size"`
}

// SecurityConfig covers token issuing and password hashing.
type SecurityConfig struct {
	// JWTSecret signs session tokens. Required.
	JWTSecret string `koanf:"jwt_secret"`
	// SessionTTL bounds token lifetime.
	SessionTTL time.Duration `koanf:"session_ttl"`
	// BcryptCost is the password hash cost; 0 means the bcrypt default.
	BcryptCost int `koanf:"bcrypt_cost"`
}

// BreakerConfig tunes the circuit breaker guarding store access.
type BreakerConfig struct {
	MaxFailures int           `koanf:"max_failures"`
	OpenTimeout time.Duration `koanf:"open_timeout"`
}

// defaultConfig returns the settings used when neither file nor
// environment overrides them.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:          "0.0.0.0",
			Port:          8080,
			Workers:       0,
			MaxQueueSize:  1024,
			MaxHeaderSize: 64 * 1024,
			MaxBodySize:   10 * 1024 * 1024,
			SocketTimeout: 10 * time.Second,
			AcceptRPS:     0,
			CORSEnabled:   true,
			CORSOrigin:    "*",
			CORSMethods:   "GET, POST, OPTIONS",
			CORSHeaders:   "Content-Type, Authorization",
		},
		Database: DatabaseConfig{
			Path:           "/data/pinpoint.db",
			WriteQueueSize: 256,
		},
		Security: SecurityConfig{
			JWTSecret:  "",
			SessionTTL: 24 * time.Hour,
			BcryptCost: 0,
		},
		Breaker: BreakerConfig{
			MaxFailures: 5,
			OpenTimeout: 30 * time.Second,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateBreaker()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Workers < 0 {
		return fmt.Errorf("SERVER_WORKERS must not be negative")
	}
	if c.Server.MaxQueueSize < 1 {
		return fmt.Errorf("SERVER_MAX_QUEUE_SIZE must be at least 1")
	}
	if c.Server.MaxHeaderSize < 1024 {
		return fmt.Errorf("SERVER_MAX_HEADER_SIZE must be at least 1024 bytes")
	}
	if c.Server.MaxBodySize < 0 {
		return fmt.Errorf("SERVER_MAX_BODY_SIZE must not be negative")
	}
	if c.Server.SocketTimeout < 0 {
		return fmt.Errorf("SERVER_SOCKET_TIMEOUT must not be negative")
	}
	if c.Server.AcceptRPS < 0 {
		return fmt.Errorf("SERVER_ACCEPT_RPS must not be negative")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.Database.WriteQueueSize < 1 {
		return fmt.Errorf("DATABASE_WRITE_QUEUE_SIZE must be at least 1")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.Security.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Security.BcryptCost != 0 && (c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31) {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, or 0 for the default")
	}
	return nil
}

func (c *Config) validateBreaker() error {
	if c.Breaker.MaxFailures < 1 {
		return fmt.Errorf("BREAKER_MAX_FAILURES must be at least 1")
	}
	if c.Breaker.OpenTimeout <= 0 {
		return fmt.Errorf("BREAKER_OPEN_TIMEOUT must be positive")
	}
	return nil
}
