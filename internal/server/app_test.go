package server

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/collabogames/collabo-auth/internal/logging"
	"github.com/collabogames/collabo-auth/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDSN = config.MemoryDSN
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.MetricsAddr = "127.0.0.1:0"
	c.SecretKey = "test-secret"
	c.BcryptCost = 4
	return c
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := newApp(context.Background(), memoryConfig(), logging.Nop{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestApp_RunFailsOnBadAddress(t *testing.T) {
	c := memoryConfig()
	c.EndpointAddrGRPC = "127.0.0.1:99999"
	c.MetricsAddr = ""

	app, err := newApp(context.Background(), c, logging.Nop{})
	require.NoError(t, err)

	require.Error(t, app.Run(context.Background()))
}

func TestApp_WarnsAboutInsecureSwitches(t *testing.T) {
	c := memoryConfig()
	c.InsecurePlaintextPasswords = true
	c.FixedIdentityID = 7

	var buf bytes.Buffer
	_, err := newApp(context.Background(), c, logging.NewJSONLogger(&buf, false))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, "plaintext")
	assert.Contains(t, out, "fixed identity")
	assert.NotContains(t, out, c.SecretKey)
}

func TestApp_NoWarningsByDefault(t *testing.T) {
	var buf bytes.Buffer
	_, err := newApp(context.Background(), memoryConfig(), logging.NewJSONLogger(&buf, false))
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "INSECURE")
}

func TestApp_RejectsBadSettings(t *testing.T) {
	tests := map[string]func(*config.Config){
		"non-hmac algorithm": func(c *config.Config) { c.Algorithm = "RS256" },
		"unknown scheme":     func(c *config.Config) { c.PasswordScheme = "md5" },
		"bcrypt cost":        func(c *config.Config) { c.BcryptCost = 99 },
		"empty secret":       func(c *config.Config) { c.SecretKey = "" },
		"zero lifetime":      func(c *config.Config) { c.AccessTokenTTL = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := memoryConfig()
			mutate(c)
			_, err := newApp(context.Background(), c, logging.Nop{})
			require.Error(t, err)
		})
	}
}

func TestApp_BadDSN(t *testing.T) {
	c := memoryConfig()
	c.DatabaseDSN = "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"

	_, err := newApp(context.Background(), c, logging.Nop{})
	require.Error(t, err)
}
