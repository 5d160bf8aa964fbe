package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig lists the recognised environment variables. Names follow the
// deployment environment of the wider CollaboGames backend.
type EnvConfig struct {
	EndpointAddrGRPC           *string `env:"GRPC_ADDR"`
	MetricsAddr                *string `env:"METRICS_ADDR"`
	DatabaseDSN                *string `env:"DATABASE_DSN"`
	SecretKey                  *string `env:"SECRET_KEY"`
	Algorithm                  *string `env:"ALGORITHM"`
	AccessTokenExpireMinutes   *int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	PasswordScheme             *string `env:"PASSWORD_SCHEME"`
	BcryptCost                 *int    `env:"BCRYPT_COST"`
	InsecurePlaintextPasswords *bool   `env:"INSECURE_PLAINTEXT_PASSWORDS"`
	FixedIdentityID            *int64  `env:"FIXED_IDENTITY_ID"`
	Debug                      *bool   `env:"DEBUG"`

	DB DBEnv
}

// DBEnv is the split-out database settings. They are used only when
// DATABASE_DSN is unset and DB_HOST is present.
type DBEnv struct {
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// DSN renders the settings as a PostgreSQL URL.
func (d DBEnv) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	switch {
	case d.User != "" && d.Password != "":
		u.User = url.UserPassword(d.User, d.Password)
	case d.User != "":
		u.User = url.User(d.User)
	}
	return u.String()
}

func parseEnv(config *Config) error {
	var e EnvConfig
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	set(&config.EndpointAddrGRPC, e.EndpointAddrGRPC)
	set(&config.MetricsAddr, e.MetricsAddr)
	set(&config.SecretKey, e.SecretKey)
	set(&config.Algorithm, e.Algorithm)
	set(&config.PasswordScheme, e.PasswordScheme)
	set(&config.BcryptCost, e.BcryptCost)
	set(&config.InsecurePlaintextPasswords, e.InsecurePlaintextPasswords)
	set(&config.FixedIdentityID, e.FixedIdentityID)
	set(&config.Debug, e.Debug)
	if e.AccessTokenExpireMinutes != nil {
		config.AccessTokenTTL = time.Duration(*e.AccessTokenExpireMinutes) * time.Minute
	}

	switch {
	case e.DatabaseDSN != nil:
		config.DatabaseDSN = *e.DatabaseDSN
	case e.DB.Host != "":
		config.DatabaseDSN = e.DB.DSN()
	}
	return nil
}
