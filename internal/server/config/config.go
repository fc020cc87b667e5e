// Package config handles configuration for the stub portal server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the stub portal server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the HTTP API.
//   - RoutePrefix: path segment the API routes are mounted under.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenValidityDuration: lifetime of issued session tokens.
//   - OTPCode: the code every OTP challenge accepts. The stub sends no SMS.
//   - OTPValidityDuration: how long a challenge stays open.
type Config struct {
	EndpointAddrHTTP      string
	RoutePrefix           string
	SecretKey             string
	TokenValidityDuration time.Duration
	OTPCode               string
	OTPValidityDuration   time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure and should be overridden outside local use.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3000"
	c.RoutePrefix = "api"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 24 * time.Hour
	c.OTPCode = "1234"
	c.OTPValidityDuration = 5 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
