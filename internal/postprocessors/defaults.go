package postprocessors

import (
	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/postprocessors/chunker"
)

// FromSettings builds the ingest pipeline from chunking settings.
// Zero values fall back to the chunker defaults.
func FromSettings(s domain.ChunkingSettings) *Pipeline {
	var opts []chunker.Option
	if s.Size > 0 {
		opts = append(opts, chunker.WithChunkSize(s.Size))
	}
	if s.Overlap >= 0 {
		opts = append(opts, chunker.WithOverlap(s.Overlap))
	}
	return NewPipeline(chunker.New(opts...))
}
