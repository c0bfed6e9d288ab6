package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/core/ports/driven"
	"github.com/custodia-labs/gengpt/internal/logger"
)

// Ensure Collector implements the interface.
var _ driven.DocumentCollector = (*Collector)(nil)

// Collector walks a directory with a connector and normalises every file
// it yields. Anything that cannot be read or decoded is skipped.
type Collector struct {
	factory    driven.ConnectorFactory
	normaliser driven.Normaliser
}

// NewCollector creates a collector.
func NewCollector(factory driven.ConnectorFactory, normaliser driven.Normaliser) *Collector {
	return &Collector{
		factory:    factory,
		normaliser: normaliser,
	}
}

// Collect returns one document per readable text file under root.
// Only context cancellation is reported as an error. A missing root
// yields no documents.
func (c *Collector) Collect(ctx context.Context, root string) ([]domain.Document, error) {
	if c.factory == nil || c.normaliser == nil {
		return nil, errors.New("collector: connector factory and normaliser are required")
	}

	connector := c.factory(root, root)
	defer connector.Close()

	docsCh, errsCh := connector.FullSync(ctx)

	var docs []domain.Document
	skipped := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Debug("collect %s: %v", root, err)

		case raw, ok := <-docsCh:
			if !ok {
				logger.Debug("collected %d documents from %s (%d skipped)", len(docs), root, skipped)
				return docs, nil
			}

			result, err := c.normaliser.Normalise(ctx, &raw)
			if err != nil {
				skipped++
				logger.Debug("skipping %s: %v", raw.URI, err)
				continue
			}
			docs = append(docs, result.Document)
		}
	}
}
