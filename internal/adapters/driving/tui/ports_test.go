package tui

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/gengpt/internal/core/domain"
)

// MockQAService implements driving.RetrievalQAService for testing.
type MockQAService struct {
	AskFunc func(ctx context.Context, query domain.Query) (domain.Answer, error)

	mu      sync.Mutex
	queries []domain.Query
}

func (m *MockQAService) Ingest(_ context.Context, sourcePath string) (domain.IngestStats, error) {
	return domain.IngestStats{Dataset: sourcePath}, nil
}

func (m *MockQAService) Answer(ctx context.Context, question string) (domain.Answer, error) {
	return m.Ask(ctx, domain.Query{Text: question})
}

func (m *MockQAService) Ask(ctx context.Context, query domain.Query) (domain.Answer, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if m.AskFunc != nil {
		return m.AskFunc(ctx, query)
	}
	return domain.Answer{Text: "answer to " + query.Text}, nil
}

func (m *MockQAService) Queries() []domain.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Query(nil), m.queries...)
}

func TestPorts_Validate_AllSet(t *testing.T) {
	ports := &Ports{QA: &MockQAService{}, Source: "/src"}

	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate_Nil(t *testing.T) {
	var ports *Ports

	assert.ErrorIs(t, ports.Validate(), ErrInvalidPorts)
}

func TestPorts_Validate_MissingQA(t *testing.T) {
	ports := &Ports{Source: "/src"}

	err := ports.Validate()

	assert.ErrorIs(t, err, ErrInvalidPorts)
	assert.ErrorIs(t, err, ErrMissingQAService)
}

func TestPorts_Validate_MissingSource(t *testing.T) {
	ports := &Ports{QA: &MockQAService{}}

	err := ports.Validate()

	assert.ErrorIs(t, err, ErrMissingSourcePath)
}
