package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/collabogames/collabo-auth/internal/authrpc"
	"github.com/collabogames/collabo-auth/internal/common"
)

var ErrUsage = errors.New("usage error")

// Register prompts for a name, a password twice and optional categories,
// creates the account and keeps the returned session.
func (a *App) Register(ctx context.Context) error {
	name, err := askLine(a.reader, "User name", a.out)
	if err != nil {
		return err
	}

	password, err := askSecret("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := askSecret("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	categories, err := askLine(a.reader, "Categories, comma separated (optional)", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.api.Register(ctx, &authrpc.RegisterRequest{
		Name:            name,
		Password:        string(password),
		ConfirmPassword: string(confirm),
		Categories:      splitList(categories),
	})
	if err != nil {
		return err
	}

	if err := saveToken(a.config.TokenFile, resp.AccessToken); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered %s (id %d)\n", resp.UserName, resp.UserID)
	return nil
}

// Login prompts for credentials and keeps the session on success.
func (a *App) Login(ctx context.Context) error {
	name, err := askLine(a.reader, "User name", a.out)
	if err != nil {
		return err
	}

	password, err := askSecret("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.api.Login(ctx, name, string(password))
	if err != nil {
		return err
	}

	if err := saveToken(a.config.TokenFile, resp.AccessToken); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s, session valid until %s\n", resp.UserName, resp.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

// Logout forgets the kept session. There is nothing to tell the server.
func (a *App) Logout() error {
	if err := removeToken(a.config.TokenFile); err != nil {
		return err
	}
	a.api.SetAccessToken("")
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
