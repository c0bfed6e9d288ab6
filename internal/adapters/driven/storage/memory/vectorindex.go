package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory driven.VectorIndex with exact cosine search.
type VectorIndex struct {
	mu         sync.RWMutex
	records    []domain.VectorRecord
	dimensions int
	closed     bool
}

// NewVectorIndex creates an empty in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{}
}

// Add appends records. The first record fixes the index dimensions.
func (v *VectorIndex) Add(ctx context.Context, records []domain.VectorRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return domain.ErrVectorIndexUnavailable
	}

	dims := v.dimensions
	for i := range records {
		n := len(records[i].Embedding)
		if n == 0 {
			return fmt.Errorf("record %s has no embedding: %w", records[i].ID, domain.ErrInvalidInput)
		}
		if dims == 0 {
			dims = n
		}
		if n != dims {
			return fmt.Errorf("record %s has %d dimensions, index has %d: %w",
				records[i].ID, n, dims, domain.ErrDimensionMismatch)
		}
	}

	v.dimensions = dims
	v.records = append(v.records, records...)
	return nil
}

// Search returns the k records most similar to query.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]domain.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.closed {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if k <= 0 || len(v.records) == 0 {
		return nil, nil
	}
	if len(query) != v.dimensions {
		return nil, fmt.Errorf("query has %d dimensions, index has %d: %w",
			len(query), v.dimensions, domain.ErrDimensionMismatch)
	}

	hits := make([]domain.VectorHit, len(v.records))
	for i := range v.records {
		hits[i] = domain.VectorHit{
			Record:     v.records[i],
			Similarity: domain.CosineSimilarity(query, v.records[i].Embedding),
		}
	}
	domain.SortHits(hits)

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of stored records.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.records), nil
}

// Close marks the index closed. Later calls fail with ErrVectorIndexUnavailable.
func (v *VectorIndex) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	return nil
}
