package driven

import (
	"context"

	"github.com/custodia-labs/gengpt/internal/core/domain"
)

// PostProcessor turns a collected document into chunks ready to embed.
type PostProcessor interface {
	// Name identifies the processor in debug logs.
	Name() string

	// Process receives the chunks produced so far, nil for the first
	// processor, and returns the chunks to pass on. A splitter ignores its
	// input chunks and cuts doc.Content instead.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline runs a document through the ingest processors.
type PostProcessorPipeline interface {
	// Process returns the chunks left after the last processor.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
