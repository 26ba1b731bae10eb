package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gophconcierge/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// os.Args is filtered with flagx.FilterArgs first so that flags owned by
// other components (e.g. -c) do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-dsn", "-delay", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDriver, "d", cfg.DatabaseDriver, "database driver (sqlite, postgres, memory)")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "database DSN")
	fs.DurationVar(&cfg.OperationDelay, "delay", cfg.OperationDelay, "delay before each mutating operation")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
