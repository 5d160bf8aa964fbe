package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/collabogames/collabo-auth/internal/client/client"
)

// WhoAmI prints the account behind the kept session.
func (a *App) WhoAmI(ctx context.Context) error {
	token, err := loadToken(a.config.TokenFile)
	if err != nil {
		return err
	}
	if token == "" {
		return client.ErrNotLoggedIn
	}
	a.api.SetAccessToken(token)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	me, err := a.api.WhoAmI(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "id:         %d\n", me.ID)
	fmt.Fprintf(a.out, "name:       %s\n", me.Name)
	fmt.Fprintf(a.out, "categories: %s\n", strings.Join(me.Categories, ", "))
	fmt.Fprintf(a.out, "points:     %d\n", me.Points)
	if me.LastLoginAt != nil {
		fmt.Fprintf(a.out, "last login: %s\n", me.LastLoginAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

// Ping checks the server answers and, when a session is kept, whether the
// server still accepts it.
func (a *App) Ping(ctx context.Context) error {
	token, err := loadToken(a.config.TokenFile)
	if err != nil {
		return err
	}
	a.api.SetAccessToken(token)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	pong, err := a.api.Ping(ctx)
	if err != nil {
		return err
	}
	if pong.User != "" {
		fmt.Fprintf(a.out, "%s, signed in as %s\n", pong.Status, pong.User)
		return nil
	}
	fmt.Fprintln(a.out, pong.Status)
	return nil
}
