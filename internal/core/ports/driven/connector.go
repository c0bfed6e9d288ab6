package driven

import (
	"context"

	"github.com/custodia-labs/gengpt/internal/core/domain"
)

// Connector reads raw documents from a data source.
type Connector interface {
	// Type returns the connector type identifier.
	Type() string

	// SourceID returns the configured source ID.
	SourceID() string

	// Validate checks that the source is reachable.
	Validate(ctx context.Context) error

	// FullSync emits every document in the source.
	// Both channels are closed when the walk ends.
	FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error)

	// Close releases resources.
	Close() error
}

// ConnectorFactory creates a connector rooted at a directory.
type ConnectorFactory func(sourceID, root string) Connector

// DocumentCollector turns a directory into decoded documents.
type DocumentCollector interface {
	// Collect returns one document per readable text file under root.
	// Files that cannot be read or decoded are skipped, never reported.
	Collect(ctx context.Context, root string) ([]domain.Document, error)
}
