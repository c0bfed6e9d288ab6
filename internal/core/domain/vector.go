package domain

import "time"

// VectorRecord is an embedded chunk held by the vector store.
type VectorRecord struct {
	// ID is the chunk ID the record was created from.
	ID string

	// Dataset is the absolute directory the chunk was ingested from.
	Dataset string

	// Source is the originating file path.
	Source string

	// Position is the chunk's ordinal position within its file.
	Position int

	// Content is the chunk text.
	Content string

	// Embedding is the chunk vector.
	Embedding []float32

	// CreatedAt is when the record was added.
	CreatedAt time.Time
}

// VectorHit is a search candidate with its cosine similarity to the query.
type VectorHit struct {
	Record     VectorRecord
	Similarity float64
}

// NewVectorRecord builds a record from an embedded chunk.
func NewVectorRecord(dataset string, c Chunk) VectorRecord {
	return VectorRecord{
		ID:        c.ID,
		Dataset:   dataset,
		Source:    c.Source(),
		Position:  c.Position,
		Content:   c.Content,
		Embedding: c.Embedding,
		CreatedAt: time.Now(),
	}
}
