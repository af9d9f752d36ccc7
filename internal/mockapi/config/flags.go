package config

import (
	"flag"
	"io"
	"strings"

	"github.com/dmitrijs2005/qrtag/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-s string     JWT HMAC secret key
//	-t duration   token lifetime
//	-w duration   latency of the notification and upload stubs
//	-tags string  comma-separated codes of the seeded tags
//	-l string     log level
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-w", "-tags", "-l"})

	fs := flag.NewFlagSet("mockapi", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "secret key")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "token lifetime")
	fs.DurationVar(&config.StubDelay, "w", config.StubDelay, "stub latency")
	tags := fs.String("tags", strings.Join(config.DemoTags, ","), "seeded tag codes")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}
	config.DemoTags = splitList(*tags)
	return nil
}
