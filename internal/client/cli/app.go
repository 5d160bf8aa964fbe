// Package cli is the command-line client for the auth service. Each run
// executes one command; the session token survives between runs in a file
// readable only by the current user.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/collabogames/collabo-auth/internal/authrpc"
	"github.com/collabogames/collabo-auth/internal/client/config"
)

// AuthClient is the part of client.GRPCClient the commands use.
type AuthClient interface {
	Register(ctx context.Context, req *authrpc.RegisterRequest) (*authrpc.TokenResponse, error)
	Login(ctx context.Context, name, password string) (*authrpc.TokenResponse, error)
	WhoAmI(ctx context.Context) (*authrpc.UserProfile, error)
	Ping(ctx context.Context) (*authrpc.PingResponse, error)
	AccessToken() string
	SetAccessToken(token string)
}

type App struct {
	config *config.Config
	api    AuthClient
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config, api AuthClient, in io.Reader, out io.Writer) *App {
	return &App{config: c, api: api, reader: bufio.NewReader(in), out: out}
}

const usage = `usage: cli [-a addr] [-timeout dur] [-token file] [-c config.json] <command>

commands:
  register   create an account and keep its session
  login      sign in and keep the session
  whoami     show the signed-in account
  ping       check that the server answers
  logout     forget the kept session
`

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	switch args[0] {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "ping":
		return a.Ping(ctx)
	case "logout":
		return a.Logout()
	case "help", "-h", "-help", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.Timeout)
}
