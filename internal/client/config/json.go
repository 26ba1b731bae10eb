package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophconcierge/internal/flagx"
	"github.com/dmitrijs2005/gophconcierge/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value.
type JsonConfig struct {
	DatabaseDriver *string         `json:"database_driver"`
	DatabaseDSN    *string         `json:"database_dsn"`
	KeyPrefix      *string         `json:"key_prefix"`
	OperationDelay *timex.Duration `json:"operation_delay"`
	ClaimWindow    *timex.Duration `json:"claim_window"`
	RedeemPolicy   *string         `json:"redeem_policy"`
	CodeAttempts   *int            `json:"code_attempts"`
	LogLevel       *string         `json:"log_level"`
	TokenSecret    *string         `json:"token_secret"`

	Export *struct {
		Dir        *string `json:"dir"`
		S3Bucket   *string `json:"s3_bucket"`
		S3Region   *string `json:"s3_region"`
		S3Endpoint *string `json:"s3_endpoint"`
		S3User     *string `json:"s3_user"`
		S3Password *string `json:"s3_password"`
	} `json:"export"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing. It panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.JSONConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	set(&cfg.DatabaseDriver, jc.DatabaseDriver)
	set(&cfg.DatabaseDSN, jc.DatabaseDSN)
	set(&cfg.KeyPrefix, jc.KeyPrefix)
	set(&cfg.RedeemPolicy, jc.RedeemPolicy)
	set(&cfg.CodeAttempts, jc.CodeAttempts)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.TokenSecret, jc.TokenSecret)
	if jc.OperationDelay != nil {
		cfg.OperationDelay = jc.OperationDelay.Duration
	}
	if jc.ClaimWindow != nil {
		cfg.ClaimWindow = jc.ClaimWindow.Duration
	}

	if e := jc.Export; e != nil {
		set(&cfg.ExportDir, e.Dir)
		set(&cfg.ExportS3Bucket, e.S3Bucket)
		set(&cfg.ExportS3Region, e.S3Region)
		set(&cfg.ExportS3Endpoint, e.S3Endpoint)
		set(&cfg.ExportS3User, e.S3User)
		set(&cfg.ExportS3Password, e.S3Password)
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
