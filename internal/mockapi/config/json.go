package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/qrtag/internal/flagx"
	"github.com/dmitrijs2005/qrtag/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations are timex.Duration so
// they can be written as "24h" or as integer nanoseconds.
type JsonConfig struct {
	Addr         string          `json:"addr"`
	JWTSecret    string          `json:"jwt_secret"`
	TokenTTL     *timex.Duration `json:"token_ttl"`
	StubDelay    *timex.Duration `json:"stub_delay"`
	DemoEmail    string          `json:"demo_email"`
	DemoPassword string          `json:"demo_password"`
	DemoTags     []string        `json:"demo_tags"`
	LogLevel     string          `json:"log_level"`
}

// parseJson loads the file named by -c/-config, if any, over config.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.JWTSecret != "" {
		config.JWTSecret = c.JWTSecret
	}
	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.StubDelay != nil {
		config.StubDelay = c.StubDelay.Duration
	}
	if c.DemoEmail != "" {
		config.DemoEmail = c.DemoEmail
	}
	if c.DemoPassword != "" {
		config.DemoPassword = c.DemoPassword
	}
	if c.DemoTags != nil {
		config.DemoTags = c.DemoTags
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	return nil
}
