// Package chunker provides a length-bounded text chunking processor.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// DefaultSeparator splits text into paragraphs before merging.
const DefaultSeparator = "\n\n"

// Processor splits document content into chunks of at most chunkSize
// characters. Lengths are counted in runes.
type Processor struct {
	chunkSize int
	overlap   int
	separator string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between hard-split windows in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparator sets the paragraph separator. An empty separator
// disables merging and splits purely by length.
func WithSeparator(sep string) Option {
	return func(p *Processor) {
		p.separator = sep
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		separator: DefaultSeparator,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the maximum chunk length in characters.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	texts := p.Split(doc.Content)
	chunks := make([]domain.Chunk, 0, len(texts))

	for i, text := range texts {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    text,
			Position:   i,
			Metadata: map[string]any{
				domain.MetadataSource: doc.URI,
			},
		})
	}

	return chunks, nil
}

// Split breaks text into pieces of at most chunkSize runes.
// Paragraphs are merged greedily while they fit; a paragraph longer than
// chunkSize is cut into fixed windows. Whitespace-only pieces are dropped.
func (p *Processor) Split(text string) []string {
	var pieces []string
	if p.separator == "" {
		pieces = []string{text}
	} else {
		pieces = strings.Split(text, p.separator)
	}

	sepLen := utf8.RuneCountInString(p.separator)
	var (
		out     []string
		current []string
		curLen  int
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		out = appendTrimmed(out, strings.Join(current, p.separator))
		current = current[:0]
		curLen = 0
	}

	for _, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		n := utf8.RuneCountInString(piece)

		if n > p.chunkSize {
			flush()
			for _, w := range p.windows(piece) {
				out = appendTrimmed(out, w)
			}
			continue
		}

		added := n
		if len(current) > 0 {
			added += sepLen
		}
		if curLen+added > p.chunkSize {
			flush()
			added = n
		}
		current = append(current, piece)
		curLen += added
	}
	flush()

	return out
}

// windows cuts s into chunkSize-rune windows, each starting
// chunkSize-overlap runes after the previous one.
func (p *Processor) windows(s string) []string {
	runes := []rune(s)
	step := p.chunkSize - p.overlap

	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + p.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

func appendTrimmed(out []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return out
	}
	return append(out, s)
}
