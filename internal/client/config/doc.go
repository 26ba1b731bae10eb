// Package config loads runtime configuration for the GophConcierge CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables with the GOPHCONCIERGE_ prefix (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   database driver: sqlite, postgres or memory
//	-dsn string database DSN (file path for sqlite)
//	-delay dur  artificial delay before each mutating operation
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "300ms" or
// integer nanoseconds:
//
//	{
//	  "database_driver": "sqlite",
//	  "database_dsn": "concierge.db",
//	  "operation_delay": "300ms",
//	  "claim_window": "720h",
//	  "redeem_policy": "allow"
//	}
package config
