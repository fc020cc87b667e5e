package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/memberportal/internal/flagx"
	"github.com/dmitrijs2005/memberportal/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent
// fields leave the current value untouched; StorePath is a pointer so that
// an explicit "" can select the in-memory store.
type JsonConfig struct {
	BaseURL       string         `json:"base_url"`
	RoutePrefix   string         `json:"route_prefix"`
	StorePath     *string        `json:"store_path"`
	LogoutTimeout timex.Duration `json:"logout_timeout"`
	LogLevel      string         `json:"log_level"`
	LogFormat     string         `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing. Read and decode
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.RoutePrefix != "" {
		cfg.RoutePrefix = jc.RoutePrefix
	}
	if jc.StorePath != nil {
		cfg.StorePath = *jc.StorePath
	}
	if jc.LogoutTimeout.Duration > 0 {
		cfg.LogoutTimeout = jc.LogoutTimeout.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
}
