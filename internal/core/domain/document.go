package domain

import "time"

// Document represents a collected file and its decoded text.
// It exists only between collection and chunking.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceID identifies the collection run that produced this document.
	SourceID string

	// URI is the absolute file path.
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full UTF-8 text before chunking.
	Content string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was collected.
	CreatedAt time.Time

	// UpdatedAt is the file's modification time when known.
	UpdatedAt time.Time
}

// Chunk represents a bounded piece of a document's text.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation, set during ingest.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// MetadataSource is the chunk metadata key holding the originating file path.
const MetadataSource = "source"

// Source returns the originating file path recorded in the chunk metadata.
func (c Chunk) Source() string {
	if c.Metadata == nil {
		return ""
	}
	s, _ := c.Metadata[MetadataSource].(string)
	return s
}
