package mcp

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gengpt/internal/core/domain"
)

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()
	source := filepath.FromSlash("/data/src")

	t.Run("returns answer and sources", func(t *testing.T) {
		qa := &mockQAService{answer: domain.Answer{Text: "hello", Sources: []string{"/data/src/a.txt"}}}
		server, err := NewServer(&Ports{QA: qa, Source: source})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "what is it"})

		require.NoError(t, err)
		assert.Equal(t, "hello", output.Answer)
		assert.Equal(t, []string{"/data/src/a.txt"}, output.Sources)
		assert.Equal(t, source, qa.lastQuery().Path)
	})

	t.Run("empty sources serialise as a list", func(t *testing.T) {
		server, err := NewServer(&Ports{QA: &mockQAService{}, Source: source})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: ""})

		require.NoError(t, err)
		assert.NotNil(t, output.Sources)
		assert.Empty(t, output.Sources)
	})

	t.Run("relative path resolves against source", func(t *testing.T) {
		qa := &mockQAService{}
		server, err := NewServer(&Ports{QA: qa, Source: source})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "q", Path: "pkg/main.go"})

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(source, "pkg", "main.go"), qa.lastQuery().Path)
	})

	t.Run("absolute path is used as is", func(t *testing.T) {
		qa := &mockQAService{}
		server, err := NewServer(&Ports{QA: qa, Source: source})
		require.NoError(t, err)
		other := filepath.FromSlash("/elsewhere/repo")
		if !filepath.IsAbs(other) {
			t.Skip("platform has no rooted slash paths")
		}

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "q", Path: other})

		require.NoError(t, err)
		assert.Equal(t, other, qa.lastQuery().Path)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		qa := &mockQAService{err: errors.New("llm unavailable")}
		server, err := NewServer(&Ports{QA: qa, Source: source})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "q"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "llm unavailable")
	})
}
