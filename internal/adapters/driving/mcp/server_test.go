package mcp

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gengpt/internal/core/domain"
)

func TestNewServer(t *testing.T) {
	t.Run("nil qa service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Source: "/src"})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingQAService)
	})

	t.Run("missing source returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{QA: &mockQAService{}})
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingSourcePath)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{QA: &mockQAService{}, Source: "/src"})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingQAService)
	assert.ErrorIs(t, (&Ports{QA: &mockQAService{}}).Validate(), ErrMissingSourcePath)
	assert.NoError(t, (&Ports{QA: &mockQAService{}, Source: "/src"}).Validate())
}

// connect starts the server on an in-memory transport and returns a client session.
func connect(t *testing.T, ports *Ports) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server, err := NewServer(ports)
	require.NoError(t, err)

	ct, st := mcp.NewInMemoryTransports()
	_, err = server.server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestServer_AskOverSession(t *testing.T) {
	qa := &mockQAService{answer: domain.Answer{Text: "It greets the world.", Sources: []string{"/src/a.txt"}}}
	session := connect(t, &Ports{QA: qa, Source: "/src"})

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 1)
	assert.Equal(t, "ask", tools.Tools[0].Name)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "ask",
		Arguments: map[string]any{"question": "what does the file contain"},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	out, ok := result.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "It greets the world.", out["answer"])
	assert.Equal(t, []any{"/src/a.txt"}, out["sources"])
	assert.Equal(t, domain.Query{Text: "what does the file contain", Path: "/src"}, qa.lastQuery())
}

func TestServer_Handler(t *testing.T) {
	server, err := NewServer(&Ports{QA: &mockQAService{}, Source: "/src"})
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(context.Background(), &mcp.StreamableClientTransport{Endpoint: ts.URL}, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, tools.Tools, 1)
}

func TestServer_RunHTTP_StopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{QA: &mockQAService{}, Source: "/src"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.RunHTTP(ctx, "127.0.0.1:0") }()

	cancel()
	assert.NoError(t, <-done)
}
