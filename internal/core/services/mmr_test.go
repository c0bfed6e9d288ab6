package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/gengpt/internal/core/domain"
)

func hitsFor(query []float32, embeddings map[string][]float32, order []string) []domain.VectorHit {
	hits := make([]domain.VectorHit, 0, len(order))
	for _, id := range order {
		emb := embeddings[id]
		hits = append(hits, domain.VectorHit{
			Record:     domain.VectorRecord{ID: id, Embedding: emb},
			Similarity: domain.CosineSimilarity(query, emb),
		})
	}
	domain.SortHits(hits)
	return hits
}

func ids(hits []domain.VectorHit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Record.ID
	}
	return out
}

func TestMaximalMarginalRelevance(t *testing.T) {
	query := []float32{1, 0}
	embeddings := map[string][]float32{
		"a":       {1, 0.1},
		"near-a":  {1, 0.12},
		"diverse": {1, -1},
	}
	hits := hitsFor(query, embeddings, []string{"a", "near-a", "diverse"})

	t.Run("lambda one is top-k", func(t *testing.T) {
		got := MaximalMarginalRelevance(hits, 2, 1)
		assert.Equal(t, []string{"a", "near-a"}, ids(got))
	})

	t.Run("lambda below one prefers diversity", func(t *testing.T) {
		got := MaximalMarginalRelevance(hits, 2, 0.5)
		assert.Equal(t, []string{"a", "diverse"}, ids(got))
	})

	t.Run("k of one is the best hit", func(t *testing.T) {
		got := MaximalMarginalRelevance(hits, 1, 0.5)
		assert.Equal(t, []string{"a"}, ids(got))
	})

	t.Run("k larger than pool", func(t *testing.T) {
		got := MaximalMarginalRelevance(hits, 10, 0.5)
		assert.Len(t, got, 3)
	})

	t.Run("empty and zero k", func(t *testing.T) {
		assert.Nil(t, MaximalMarginalRelevance(nil, 3, 0.5))
		assert.Nil(t, MaximalMarginalRelevance(hits, 0, 0.5))
	})
}

func TestMaximalMarginalRelevance_UnsortedInput(t *testing.T) {
	hits := []domain.VectorHit{
		{Record: domain.VectorRecord{ID: "low", Embedding: []float32{0, 1}}, Similarity: 0.1},
		{Record: domain.VectorRecord{ID: "high", Embedding: []float32{1, 0}}, Similarity: 0.9},
	}

	got := MaximalMarginalRelevance(hits, 1, 0.5)
	assert.Equal(t, []string{"high"}, ids(got))
}
