package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/core/ports/driven"
)

func drain(t *testing.T, c *Connector, ctx context.Context) ([]domain.RawDocument, []error) {
	t.Helper()
	docsChan, errsChan := c.FullSync(ctx)

	var docs []domain.RawDocument
	for doc := range docsChan {
		docs = append(docs, doc)
	}
	var errs []error
	for err := range errsChan {
		errs = append(errs, err)
	}
	return docs, errs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNew(t *testing.T) {
	t.Run("creates connector with valid parameters", func(t *testing.T) {
		c := New("run-1", "/tmp/test", WithSkipHidden(true), WithMaxFileSize(10))

		require.NotNil(t, c)
		assert.Equal(t, "run-1", c.SourceID())
		assert.Equal(t, "/tmp/test", c.rootPath)
		assert.True(t, c.skipHidden)
		assert.Equal(t, int64(10), c.maxFileSize)
		assert.Equal(t, "filesystem", c.Type())
	})

	t.Run("implements Connector interface", func(t *testing.T) {
		var _ driven.Connector = New("test", "/tmp")
	})

	t.Run("factory applies options", func(t *testing.T) {
		conn := Factory(WithSkipHidden(true))("run-2", "/src")

		c, ok := conn.(*Connector)
		require.True(t, ok)
		assert.Equal(t, "run-2", c.SourceID())
		assert.Equal(t, "/src", c.rootPath)
		assert.True(t, c.skipHidden)
	})
}

func TestConnector_FullSync(t *testing.T) {
	t.Run("syncs files recursively", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "file1.txt"), "content 1")
		writeFile(t, filepath.Join(dir, "sub", "deep", "file2.md"), "# Markdown")

		docs, errs := drain(t, New("s", dir), context.Background())

		assert.Empty(t, errs)
		assert.Len(t, docs, 2)
	})

	t.Run("collects hidden files by default", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "visible.txt"), "visible")
		writeFile(t, filepath.Join(dir, ".hidden.txt"), "hidden")

		docs, _ := drain(t, New("s", dir), context.Background())

		assert.Len(t, docs, 2)
	})

	t.Run("skips hidden files and directories when asked", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "visible.txt"), "visible")
		writeFile(t, filepath.Join(dir, ".hidden.txt"), "hidden")
		writeFile(t, filepath.Join(dir, ".git", "config"), "[core]")

		docs, _ := drain(t, New("s", dir, WithSkipHidden(true)), context.Background())

		require.Len(t, docs, 1)
		assert.Contains(t, docs[0].URI, "visible.txt")
	})

	t.Run("skips files over the size limit", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "small.txt"), "tiny")
		writeFile(t, filepath.Join(dir, "large.txt"), "this one is too large")

		docs, errs := drain(t, New("s", dir, WithMaxFileSize(8)), context.Background())

		assert.Empty(t, errs)
		require.Len(t, docs, 1)
		assert.Contains(t, docs[0].URI, "small.txt")
	})

	t.Run("skips unreadable files silently", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root can read any file")
		}
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "ok.txt"), "ok")
		locked := filepath.Join(dir, "locked.txt")
		writeFile(t, locked, "secret")
		require.NoError(t, os.Chmod(locked, 0o000))
		defer os.Chmod(locked, 0o644) //nolint:errcheck

		docs, errs := drain(t, New("s", dir), context.Background())

		assert.Empty(t, errs)
		require.Len(t, docs, 1)
		assert.Contains(t, docs[0].URI, "ok.txt")
	})

	t.Run("reports non-existent directory", func(t *testing.T) {
		docs, errs := drain(t, New("s", "/non/existent/path"), context.Background())

		assert.Empty(t, docs)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "does not exist")
	})

	t.Run("handles cancelled context", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.txt"), "a")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		docs, errs := drain(t, New("s", dir), ctx)

		assert.Empty(t, docs)
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], context.Canceled)
	})

	t.Run("includes file metadata", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "test.txt"), "hello")

		docs, _ := drain(t, New("test-source", dir), context.Background())

		require.Len(t, docs, 1)
		doc := docs[0]
		assert.Equal(t, "test-source", doc.SourceID)
		assert.Equal(t, filepath.Join(dir, "test.txt"), doc.URI)
		assert.Equal(t, "text/plain", doc.MIMEType)
		assert.Equal(t, []byte("hello"), doc.Content)
		assert.Equal(t, "test.txt", doc.Metadata["filename"])
		assert.Equal(t, "txt", doc.Metadata["extension"])
		assert.Equal(t, int64(5), doc.Metadata["size"])
	})
}

func TestConnector_Validate(t *testing.T) {
	t.Run("valid directory succeeds", func(t *testing.T) {
		assert.NoError(t, New("s", t.TempDir()).Validate(context.Background()))
	})

	t.Run("file instead of directory returns error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		writeFile(t, path, "content")

		err := New("s", path).Validate(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := New("s", t.TempDir()).Validate(ctx)

		assert.Equal(t, context.Canceled, err)
	})
}

func TestConnector_Close(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	c := New("s", dir)

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())

	docs, errs := drain(t, c, context.Background())
	assert.Empty(t, docs)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrClosed)
}

func TestWithSourceID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")

	t.Run("overrides the factory source ID", func(t *testing.T) {
		conn := Factory(WithSourceID("project"))(dir, dir)
		c, ok := conn.(*Connector)
		require.True(t, ok)

		docs, errs := drain(t, c, context.Background())

		assert.Empty(t, errs)
		require.Len(t, docs, 1)
		assert.Equal(t, "project", docs[0].SourceID)
		assert.Equal(t, "project", c.SourceID())
	})

	t.Run("empty ID keeps the original", func(t *testing.T) {
		assert.Equal(t, "run-1", New("run-1", dir, WithSourceID("")).SourceID())
	})
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		filename     string
		expectedMIME string
	}{
		{"Makefile", "text/plain"},
		{"doc.md", "text/markdown"},
		{"code.go", "text/x-go"},
		{"script.py", "text/x-python"},
		{"lib.rs", "text/x-rust"},
		{"app.ts", "text/typescript"},
		{"config.yml", "text/yaml"},
		{"config.toml", "text/toml"},
		{"query.sql", "text/x-sql"},
		{"data.json", "application/json"},
		{"image.png", "image/png"},
		{"file.zzzzunknown", "application/octet-stream"},
		{"FILE.GO", "text/x-go"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expectedMIME, detectMIMEType(tt.filename))
		})
	}

	t.Run("strips charset from mime type", func(t *testing.T) {
		for _, file := range []string{"file.html", "file.css", "file.js"} {
			assert.NotContains(t, detectMIMEType(file), ";")
		}
	})
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden(".git"))
	assert.True(t, isHidden(".env"))
	assert.False(t, isHidden("."))
	assert.False(t, isHidden(".."))
	assert.False(t, isHidden("file.hidden"))
	assert.False(t, isHidden(""))
}
