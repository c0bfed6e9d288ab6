package driven

import (
	"context"

	"github.com/custodia-labs/gengpt/internal/core/domain"
)

// VectorIndex stores embedded chunks and answers similarity queries.
type VectorIndex interface {
	// Add appends records to the index. Existing IDs are not deduplicated
	// against the content of other records.
	Add(ctx context.Context, records []domain.VectorRecord) error

	// Search returns up to k records ordered by descending cosine
	// similarity to the query vector.
	Search(ctx context.Context, query []float32, k int) ([]domain.VectorHit, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
