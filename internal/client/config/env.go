package config

import "github.com/kelseyhightower/envconfig"

const envPrefix = "GOPHCONCIERGE"

// parseEnv overlays Config with GOPHCONCIERGE_* variables. Unset variables
// leave the current value untouched. It panics on malformed values.
func parseEnv(cfg *Config) {
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		panic(err)
	}
}
