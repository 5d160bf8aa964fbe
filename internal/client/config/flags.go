package config

import (
	"flag"
	"io"

	"github.com/collabogames/collabo-auth/internal/flagx"
)

// ValuedFlags lists every flag the CLI takes a value for, including the
// config file switches, so callers can find the command words around them.
var ValuedFlags = []string{"-a", "-timeout", "-token", "-c", "-config", "--config"}

// parseFlags reads the flags this package owns and ignores the rest, so the
// command words that follow do not trip the parser.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-timeout", "-token"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port of the auth server")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "deadline for each call")
	fs.StringVar(&cfg.TokenFile, "token", cfg.TokenFile, "file holding the session token")

	return fs.Parse(args)
}
