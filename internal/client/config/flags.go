package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/memberportal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     base URL of the portal API
//	-r string     API route prefix
//	-s string     session store file ("" keeps the session in memory)
//	-t duration   logout timeout, e.g. 5s
//	-l string     log level
//	-f string     log format: text, json or zap
//
// os.Args is filtered with flagx.FilterArgs first so that -c/-config and
// other components' flags do not cause parse errors.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-s", "-t", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the portal API")
	fs.StringVar(&cfg.RoutePrefix, "r", cfg.RoutePrefix, "API route prefix")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "session store file, empty for in-memory")
	fs.DurationVar(&cfg.LogoutTimeout, "t", cfg.LogoutTimeout, "logout timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (text, json, zap)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
