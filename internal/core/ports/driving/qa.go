package driving

import (
	"context"

	"github.com/custodia-labs/gengpt/internal/core/domain"
)

// RetrievalQAService answers questions about a directory.
type RetrievalQAService interface {
	// Ingest collects, chunks, embeds and stores every file under sourcePath.
	// Each call adds the records again.
	Ingest(ctx context.Context, sourcePath string) (domain.IngestStats, error)

	// Answer retrieves context for the question from the store and asks the model.
	Answer(ctx context.Context, question string) (domain.Answer, error)

	// Ask ingests the dataset for query.Path and then answers query.Text.
	// An empty query returns an empty answer and touches nothing.
	Ask(ctx context.Context, query domain.Query) (domain.Answer, error)
}
