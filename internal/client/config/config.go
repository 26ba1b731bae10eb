package config

import "time"

// Config holds runtime settings for the GophConcierge CLI.
type Config struct {
	DatabaseDriver string `envconfig:"DATABASE_DRIVER"`
	DatabaseDSN    string `envconfig:"DATABASE_DSN"`

	// KeyPrefix namespaces every persisted key.
	KeyPrefix      string        `envconfig:"KEY_PREFIX"`
	OperationDelay time.Duration `envconfig:"OPERATION_DELAY"`
	ClaimWindow    time.Duration `envconfig:"CLAIM_WINDOW"`
	RedeemPolicy   string        `envconfig:"REDEEM_POLICY"`
	CodeAttempts   int           `envconfig:"CODE_ATTEMPTS"`

	LogLevel string `envconfig:"LOG_LEVEL"`

	// TokenSecret verifies tokens issued by the auth service.
	TokenSecret string `envconfig:"TOKEN_SECRET"`

	// Exports go to S3 when ExportS3Bucket is set, otherwise to ExportDir.
	ExportDir        string `envconfig:"EXPORT_DIR"`
	ExportS3Bucket   string `envconfig:"EXPORT_S3_BUCKET"`
	ExportS3Region   string `envconfig:"EXPORT_S3_REGION"`
	ExportS3Endpoint string `envconfig:"EXPORT_S3_ENDPOINT"`
	ExportS3User     string `envconfig:"EXPORT_S3_USER"`
	ExportS3Password string `envconfig:"EXPORT_S3_PASSWORD"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "concierge.db"
	c.KeyPrefix = "gc"
	c.OperationDelay = 300 * time.Millisecond
	c.ClaimWindow = 30 * 24 * time.Hour
	c.RedeemPolicy = "allow"
	c.CodeAttempts = 16
	c.LogLevel = "info"
	c.TokenSecret = "dev-secret"
	c.ExportDir = "exports"
	c.ExportS3Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
