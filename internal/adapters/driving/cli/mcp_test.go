package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gengpt/internal/adapters/driving/mcp"
)

func TestMCPCmd_Structure(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
	assert.Equal(t, "serve", mcpServeCmd.Use)

	port := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.Equal(t, "0", port.DefValue)
	assert.NotNil(t, mcpServeCmd.Flags().Lookup("path"))
	assert.NotNil(t, mcpServeCmd.Flags().Lookup("store"))
}

func TestMCPServe_WithoutSession(t *testing.T) {
	SetSessionFactory(nil)

	_, err := execute(t, "mcp", "serve", "--path", t.TempDir())

	assert.ErrorIs(t, err, errSessionNotConfigured)
}

func TestMCPServe_InvalidSession(t *testing.T) {
	var opened []SessionOptions
	SetSessionFactory(func(_ context.Context, opts SessionOptions) (*Session, error) {
		opened = append(opened, opts)
		return &Session{Source: opts.Source}, nil
	})
	t.Cleanup(func() { SetSessionFactory(nil) })

	_, err := execute(t, "mcp", "serve", "--path", t.TempDir())

	assert.ErrorIs(t, err, mcp.ErrMissingQAService)
	require.Len(t, opened, 1)
	assert.True(t, opened[0].Ephemeral)
}
