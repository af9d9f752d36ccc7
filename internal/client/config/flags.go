package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/qrtag/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     API base URL
//	-t duration   request timeout
//	-r uint       retries for idempotent requests
//	-d string     path of the local session database
//	-l string     log level
//
// Only the flags above are picked out of args with flagx.FilterArgs, so
// the JSON loader's -c/-config flags do not interfere.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-r", "-d", "-l"})

	fs := flag.NewFlagSet("qrtag", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.Uint64Var(&cfg.MaxRetries, "r", cfg.MaxRetries, "retries for idempotent requests")
	fs.StringVar(&cfg.DataPath, "d", cfg.DataPath, "path of the local session database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
