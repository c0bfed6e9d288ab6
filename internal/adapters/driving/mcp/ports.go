package mcp

import (
	"github.com/custodia-labs/gengpt/internal/core/ports/driving"
)

// Ports aggregates what the MCP server needs from the rest of the application.
type Ports struct {
	// QA ingests a dataset and answers questions about it.
	QA driving.RetrievalQAService

	// Source is the directory used when a tool call names no path.
	Source string

	// Store is the vector store location, reported by the dataset resource.
	Store string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.QA == nil {
		return ErrMissingQAService
	}
	if p.Source == "" {
		return ErrMissingSourcePath
	}
	return nil
}
