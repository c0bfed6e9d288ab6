// Package tui provides the interactive terminal interface for gengpt.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"fmt"

	"github.com/custodia-labs/gengpt/internal/core/ports/driving"
)

// Ports aggregates what the TUI needs from the rest of the application.
type Ports struct {
	// QA ingests the selected dataset and answers questions about it.
	QA driving.RetrievalQAService

	// Source is the directory the file tree is rooted at.
	Source string

	// Store is the vector store location, shown in the header.
	Store string
}

// Validate checks that all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.QA == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingQAService)
	}
	if p.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingSourcePath)
	}
	return nil
}
