package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/collabogames/collabo-auth/internal/client/cli"
	"github.com/collabogames/collabo-auth/internal/client/client"
	"github.com/collabogames/collabo-auth/internal/client/config"
	"github.com/collabogames/collabo-auth/internal/flagx"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	api, err := client.New(cfg.ServerEndpointAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer api.Close()

	app := cli.NewApp(cfg, api, os.Stdin, os.Stdout)

	if err := app.Run(ctx, flagx.Positional(os.Args[1:], config.ValuedFlags)); err != nil {
		if !errors.Is(err, cli.ErrUsage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		api.Close()
		os.Exit(1)
	}
}
