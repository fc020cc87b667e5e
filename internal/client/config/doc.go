// Package config loads runtime configuration for the member portal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. PORTAL_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the portal API
//	-r string     API route prefix
//	-s string     session store file
//	-t duration   logout timeout
//	-l string     log level
//	-f string     log format
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "5s" or
// integer nanoseconds:
//
//	{
//	  "base_url": "https://portal.example.com",
//	  "route_prefix": "api",
//	  "store_path": "portal.db",
//	  "logout_timeout": "5s",
//	  "log_level": "debug",
//	  "log_format": "json"
//	}
//
// # Environment
//
//	PORTAL_BASE_URL, PORTAL_ROUTE_PREFIX, PORTAL_STORE_PATH,
//	PORTAL_LOGOUT_TIMEOUT, PORTAL_LOG_LEVEL, PORTAL_LOG_FORMAT
//
// Malformed input in any source panics; LoadConfig is meant to run once at
// startup.
package config
