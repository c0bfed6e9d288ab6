package services

import (
	"math"

	"github.com/custodia-labs/gengpt/internal/core/domain"
)

// MaximalMarginalRelevance picks up to k hits that are relevant to the
// query but unlike each other.
//
// The most similar hit is taken first. Each further pick maximises
//
//	lambda*sim(query, d) - (1-lambda)*max(sim(d, s) for s in selected)
//
// so lambda = 1 is a plain top-k and lambda = 0 is maximum diversity.
// Hits must carry their embeddings and query similarity.
func MaximalMarginalRelevance(hits []domain.VectorHit, k int, lambda float64) []domain.VectorHit {
	if k <= 0 || len(hits) == 0 {
		return nil
	}
	k = min(k, len(hits))

	first := 0
	for i := range hits {
		if hits[i].Similarity > hits[first].Similarity {
			first = i
		}
	}

	selected := []int{first}
	used := make([]bool, len(hits))
	used[first] = true

	for len(selected) < k {
		best, bestScore := -1, math.Inf(-1)
		for i := range hits {
			if used[i] {
				continue
			}
			redundancy := math.Inf(-1)
			for _, j := range selected {
				sim := domain.CosineSimilarity(hits[i].Record.Embedding, hits[j].Record.Embedding)
				redundancy = max(redundancy, sim)
			}
			score := lambda*hits[i].Similarity - (1-lambda)*redundancy
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		selected = append(selected, best)
		used[best] = true
	}

	out := make([]domain.VectorHit, len(selected))
	for i, idx := range selected {
		out[i] = hits[idx]
	}
	return out
}
