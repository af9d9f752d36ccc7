// Package config loads runtime configuration for the qrtag CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: QRTAG_* variables, optionally supplied through a .env file
//     in the working directory (joho/godotenv). Already-set variables win
//     over the file.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string     API base URL (e.g. http://localhost:8080/api)
//	-t duration   request timeout (e.g. 15s)
//	-r uint       retries for idempotent requests after transport failures
//	-d string     path of the local session database
//	-l string     log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "15s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8080/api",
//	  "request_timeout": "15s",
//	  "max_retries": 2,
//	  "retry_delay": "500ms",
//	  "data_path": "qrtag.db",
//	  "log_level": "info",
//	  "default_country": "US"
//	}
package config
