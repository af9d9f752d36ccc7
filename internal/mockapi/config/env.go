package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "MOCKAPI_"

var dotEnvFiles = []string{".env"}

// parseEnv overlays cfg with MOCKAPI_* variables, after loading any .env
// file into the process environment.
func parseEnv(cfg *Config) error {
	for _, f := range dotEnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	str := map[string]*string{
		"ADDR":          &cfg.Addr,
		"JWT_SECRET":    &cfg.JWTSecret,
		"DEMO_EMAIL":    &cfg.DemoEmail,
		"DEMO_PASSWORD": &cfg.DemoPassword,
		"LOG_LEVEL":     &cfg.LogLevel,
	}
	for name, dst := range str {
		if v := os.Getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}

	dur := map[string]*time.Duration{
		"TOKEN_TTL":  &cfg.TokenTTL,
		"STUB_DELAY": &cfg.StubDelay,
	}
	for name, dst := range dur {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = d
	}

	if v := os.Getenv(envPrefix + "DEMO_TAGS"); v != "" {
		cfg.DemoTags = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
