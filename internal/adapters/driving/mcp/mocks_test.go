package mcp

import (
	"context"
	"sync"

	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/core/ports/driving"
)

// mockQAService is a mock implementation of driving.RetrievalQAService.
type mockQAService struct {
	answer domain.Answer
	err    error

	mu      sync.Mutex
	queries []domain.Query
}

var _ driving.RetrievalQAService = (*mockQAService)(nil)

func (m *mockQAService) Ingest(_ context.Context, sourcePath string) (domain.IngestStats, error) {
	return domain.IngestStats{Dataset: sourcePath}, m.err
}

func (m *mockQAService) Answer(_ context.Context, _ string) (domain.Answer, error) {
	return m.answer, m.err
}

func (m *mockQAService) Ask(_ context.Context, query domain.Query) (domain.Answer, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	return m.answer, m.err
}

func (m *mockQAService) lastQuery() domain.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queries) == 0 {
		return domain.Query{}
	}
	return m.queries[len(m.queries)-1]
}
