package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/memberportal/internal/flagx"
	"github.com/dmitrijs2005/memberportal/internal/timex"
)

// JsonConfig is the DTO read from the JSON config file. Durations use
// timex.Duration, so "24h" and integer nanoseconds both work.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	RoutePrefix           string         `json:"route_prefix"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	OTPCode               string         `json:"otp_code"`
	OTPValidityDuration   timex.Duration `json:"otp_validity_duration"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config into config. Without either flag nothing is loaded. The file
// replaces every field it declares; read or decode errors panic.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.RoutePrefix = c.RoutePrefix
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = c.TokenValidityDuration.Duration
	config.OTPCode = c.OTPCode
	config.OTPValidityDuration = c.OTPValidityDuration.Duration
}
