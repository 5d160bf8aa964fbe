// Package config loads settings for the auth CLI: built-in defaults, then an
// optional JSON file named by -c or -config, then command-line flags.
//
// Flags:
//
//	-a string     address:port of the auth gRPC endpoint
//	-timeout dur  per-call deadline, e.g. 5s
//	-token path   file the session token is kept in between runs
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/collabogames/collabo-auth/internal/flagx"
)

type Config struct {
	ServerEndpointAddr string
	Timeout            time.Duration
	TokenFile          string
}

// LoadDefaults populates c with defaults. The token file lives under the
// user's config directory when one is available.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.Timeout = 5 * time.Second
	c.TokenFile = defaultTokenFile()
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".collabo-token"
	}
	return filepath.Join(dir, "collabo", "token")
}

// LoadConfig builds a Config from defaults, the JSON file and flags. Later
// sources take precedence.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, flagx.ConfigPath(args)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
