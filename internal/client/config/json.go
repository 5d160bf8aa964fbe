package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/collabogames/collabo-auth/internal/timex"
)

// JsonConfig is the on-disk shape of the CLI config file. Timeout accepts
// "5s" or integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	Timeout            *timex.Duration `json:"timeout"`
	TokenFile          *string         `json:"token_file"`
}

func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var c JsonConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if c.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *c.ServerEndpointAddr
	}
	if c.Timeout != nil {
		cfg.Timeout = c.Timeout.Duration
	}
	if c.TokenFile != nil {
		cfg.TokenFile = *c.TokenFile
	}
	return nil
}
