package plaintext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	var _ driven.Normaliser = normaliser
}

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()

	assert.Contains(t, mimeTypes, "text/plain")
	assert.Contains(t, mimeTypes, "text/x-go")
	assert.Contains(t, mimeTypes, "application/json")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 5, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	modified := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	raw := &domain.RawDocument{
		SourceID: "run-1",
		URI:      "/path/to/main.go",
		MIMEType: "text/x-go",
		Content:  []byte("package main\n"),
		Metadata: map[string]any{"filename": "main.go", "modified": modified},
	}

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	doc := result.Document
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "run-1", doc.SourceID)
	assert.Equal(t, "/path/to/main.go", doc.URI)
	assert.Equal(t, "main", doc.Title)
	assert.Equal(t, "package main\n", doc.Content)
	assert.Equal(t, "text/x-go", doc.Metadata["mime_type"])
	assert.Equal(t, "main.go", doc.Metadata["filename"])
	assert.Equal(t, modified, doc.UpdatedAt)

	// The raw metadata map is not mutated.
	_, leaked := raw.Metadata["mime_type"]
	assert.False(t, leaked)
}

func TestNormalise_AnyMIMETypeWithTextContent(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "/src/notes.unknownext",
		MIMEType: "application/octet-stream",
		Content:  []byte("just text"),
	}

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "just text", result.Document.Content)
}

func TestNormalise_StripsBOM(t *testing.T) {
	raw := &domain.RawDocument{URI: "/a.txt", Content: []byte("\xEF\xBB\xBFhello")}

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "hello", result.Document.Content)
}

func TestNormalise_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"binary with NUL", []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}},
		{"invalid utf-8", []byte{0xff, 0xfe, 'a'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &domain.RawDocument{URI: "/bin/file", Content: tt.content}

			_, err := New().Normalise(context.Background(), raw)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestNormalise_NilInput(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "readme", extractTitle("/x/readme.md"))
	assert.Equal(t, ".env", extractTitle("/x/.env"))
	assert.Equal(t, "Makefile", extractTitle("Makefile"))
}
