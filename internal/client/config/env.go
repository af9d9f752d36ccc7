package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envPrefix namespaces every variable read by parseEnv.
const envPrefix = "QRTAG_"

// dotEnvFiles are loaded into the process environment before parseEnv reads
// it. Variables that are already set win over the files.
var dotEnvFiles = []string{".env"}

// parseEnv overlays cfg with QRTAG_* environment variables:
//
//	QRTAG_API_BASE_URL      QRTAG_REQUEST_TIMEOUT   QRTAG_MAX_RETRIES
//	QRTAG_RETRY_DELAY       QRTAG_DATA_PATH         QRTAG_LOG_LEVEL
//	QRTAG_DEFAULT_COUNTRY
func parseEnv(cfg *Config) error {
	for _, f := range dotEnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	if v, ok := lookup("API_BASE_URL"); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := lookup("REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := lookup("MAX_RETRIES"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_RETRIES: %w", envPrefix, err)
		}
		cfg.MaxRetries = n
	}
	if v, ok := lookup("RETRY_DELAY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sRETRY_DELAY: %w", envPrefix, err)
		}
		cfg.RetryDelay = d
	}
	if v, ok := lookup("DATA_PATH"); ok {
		cfg.DataPath = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup("DEFAULT_COUNTRY"); ok {
		cfg.DefaultCountry = v
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
