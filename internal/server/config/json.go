package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/collabogames/collabo-auth/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields let an
// absent key leave the current value alone.
type JsonConfig struct {
	EndpointAddrGRPC           *string         `json:"endpoint_addr_grpc"`
	MetricsAddr                *string         `json:"metrics_addr"`
	DatabaseDSN                *string         `json:"database_dsn"`
	SecretKey                  *string         `json:"secret_key"`
	Algorithm                  *string         `json:"algorithm"`
	AccessTokenTTL             *timex.Duration `json:"access_token_ttl"`
	PasswordScheme             *string         `json:"password_scheme"`
	BcryptCost                 *int            `json:"bcrypt_cost"`
	InsecurePlaintextPasswords *bool           `json:"insecure_plaintext_passwords"`
	FixedIdentityID            *int64          `json:"fixed_identity_id"`
	Debug                      *bool           `json:"debug"`
}

// parseJson overlays the file at path onto config. An empty path is a no-op.
func parseJson(config *Config, path string) error {

	// nothing to load
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.MetricsAddr, c.MetricsAddr)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SecretKey, c.SecretKey)
	set(&config.Algorithm, c.Algorithm)
	set(&config.PasswordScheme, c.PasswordScheme)
	set(&config.BcryptCost, c.BcryptCost)
	set(&config.InsecurePlaintextPasswords, c.InsecurePlaintextPasswords)
	set(&config.FixedIdentityID, c.FixedIdentityID)
	set(&config.Debug, c.Debug)
	if c.AccessTokenTTL != nil {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
