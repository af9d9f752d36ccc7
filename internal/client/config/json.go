package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/qrtag/internal/flagx"
	"github.com/dmitrijs2005/qrtag/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "15s" or as integer nanoseconds. Absent fields leave the
// runtime Config untouched.
type JsonConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	MaxRetries     *uint64         `json:"max_retries"`
	RetryDelay     *timex.Duration `json:"retry_delay"`
	DataPath       string          `json:"data_path"`
	LogLevel       string          `json:"log_level"`
	DefaultCountry string          `json:"default_country"`
}

// parseJson overlays cfg with values loaded from the JSON file named by -c or
// -config in args. Without either flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.MaxRetries != nil {
		cfg.MaxRetries = *jc.MaxRetries
	}
	if jc.RetryDelay != nil {
		cfg.RetryDelay = jc.RetryDelay.Duration
	}
	if jc.DataPath != "" {
		cfg.DataPath = jc.DataPath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.DefaultCountry != "" {
		cfg.DefaultCountry = jc.DefaultCountry
	}
	return nil
}
