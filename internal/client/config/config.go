package config

import "time"

// Config holds runtime settings for the qrtag CLI.
//
// Fields:
//   - APIBaseURL: base URL of the tag API, including any path prefix.
//   - RequestTimeout: upper bound for a single API request.
//   - MaxRetries, RetryDelay: retries of idempotent requests after transport
//     failures; zero retries disables them.
//   - DataPath: sqlite file holding the session token.
//   - LogLevel: debug, info, warn or error.
//   - DefaultCountry: ISO code used to complete phone numbers typed without
//     a leading '+'.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	MaxRetries     uint64
	RetryDelay     time.Duration
	DataPath       string
	LogLevel       string
	DefaultCountry string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080/api"
	c.RequestTimeout = 15 * time.Second
	c.MaxRetries = 0
	c.RetryDelay = 500 * time.Millisecond
	c.DataPath = "qrtag.db"
	c.LogLevel = "info"
	c.DefaultCountry = "US"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, a JSON file (if given) and command-line flags. Later sources
// take precedence over earlier ones.
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
