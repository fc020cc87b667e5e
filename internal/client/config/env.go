package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "PORTAL"

// parseEnv overlays Config with PORTAL_* environment variables. A variable
// that is set, even to an empty value, wins over the file.
func parseEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AllowEmptyEnv(true)

	strs := map[string]*string{
		"base_url":     &cfg.BaseURL,
		"route_prefix": &cfg.RoutePrefix,
		"store_path":   &cfg.StorePath,
		"log_level":    &cfg.LogLevel,
		"log_format":   &cfg.LogFormat,
	}
	for key, dst := range strs {
		_ = v.BindEnv(key)
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	_ = v.BindEnv("logout_timeout")
	if v.IsSet("logout_timeout") {
		d, err := time.ParseDuration(v.GetString("logout_timeout"))
		if err != nil {
			panic(fmt.Errorf("%s_LOGOUT_TIMEOUT: %w", envPrefix, err))
		}
		cfg.LogoutTimeout = d
	}
}
