package config

import (
	"flag"
	"io"
	"time"

	"github.com/collabogames/collabo-auth/internal/flagx"
)

// parseFlags applies command-line flags:
//
//	-a string   gRPC bind address (e.g. ":50051")
//	-m string   metrics bind address, empty to disable
//	-d string   database DSN, or "memory"
//	-s string   token signing secret
//	-alg string token signing algorithm (HS256, HS384, HS512)
//	-t int      access token lifetime, minutes
//	-debug      debug logging
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-m", "-d", "-s", "-alg", "-t", "-debug"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port for /metrics")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	fs.StringVar(&config.Algorithm, "alg", config.Algorithm, "token signing algorithm")
	fs.BoolVar(&config.Debug, "debug", config.Debug, "debug logging")
	ttl := fs.Int("t", int(config.AccessTokenTTL/time.Minute), "access token lifetime (in minutes)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenTTL = time.Duration(*ttl) * time.Minute
		}
	})
	return nil
}
