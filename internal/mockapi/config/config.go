// Package config handles configuration for the mock backend,
// including defaults, environment, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the mock tag API.
//
// Fields:
//   - Addr: HTTP bind address.
//   - JWTSecret: HMAC secret for signing tokens (HS256). Development only.
//   - TokenTTL: lifetime of issued tokens.
//   - StubDelay: artificial latency of the notification and upload stubs.
//   - DemoEmail / DemoPassword: the seeded account.
//   - DemoTags: codes of the inactive tags created at startup.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Addr         string
	JWTSecret    string
	TokenTTL     time.Duration
	StubDelay    time.Duration
	DemoEmail    string
	DemoPassword string
	DemoTags     []string
	LogLevel     string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure and only meant for local runs.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.JWTSecret = "secretKey"
	c.TokenTTL = 24 * time.Hour
	c.StubDelay = 500 * time.Millisecond
	c.DemoEmail = "demo@example.com"
	c.DemoPassword = "password"
	c.DemoTags = []string{"QR001", "QR002", "QR003"}
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file and finally command-line flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
