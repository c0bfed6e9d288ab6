package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/core/ports/driven"
)

// letterEmbedder embeds text as letter counts a-z. It is deterministic
// and gives related texts a positive cosine similarity.
type letterEmbedder struct {
	mu         sync.Mutex
	embedCalls int
	batchCalls int
	batchSizes []int
	err        error
}

func letterVector(text string) []float32 {
	v := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			v[r-'a']++
		}
	}
	return v
}

func (e *letterEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.embedCalls++
	if e.err != nil {
		return nil, e.err
	}
	return letterVector(text), nil
}

func (e *letterEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.batchCalls++
	e.batchSizes = append(e.batchSizes, len(texts))
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = letterVector(t)
	}
	return out, nil
}

func (e *letterEmbedder) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.embedCalls + e.batchCalls
}

func (e *letterEmbedder) Dimensions() int              { return 26 }
func (e *letterEmbedder) ModelName() string            { return "letters" }
func (e *letterEmbedder) Ping(_ context.Context) error { return nil }
func (e *letterEmbedder) Close() error                 { return nil }

// recordingLLM returns a fixed reply and records every conversation.
type recordingLLM struct {
	mu    sync.Mutex
	reply string
	err   error
	chats [][]driven.ChatMessage
}

func (l *recordingLLM) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return l.Chat(ctx, []driven.ChatMessage{{Role: driven.RoleUser, Content: prompt}}, driven.ChatOptions{})
}

func (l *recordingLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.chats = append(l.chats, messages)
	if l.err != nil {
		return "", l.err
	}
	return l.reply, nil
}

func (l *recordingLLM) last() []driven.ChatMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.chats) == 0 {
		return nil
	}
	return l.chats[len(l.chats)-1]
}

func (l *recordingLLM) ModelName() string            { return "recording" }
func (l *recordingLLM) Ping(_ context.Context) error { return nil }
func (l *recordingLLM) Close() error                 { return nil }

// countingIndex wraps a VectorIndex and counts calls.
type countingIndex struct {
	driven.VectorIndex
	mu       sync.Mutex
	adds     int
	searches int
}

func (c *countingIndex) Add(ctx context.Context, records []domain.VectorRecord) error {
	c.mu.Lock()
	c.adds++
	c.mu.Unlock()
	return c.VectorIndex.Add(ctx, records)
}

func (c *countingIndex) Search(ctx context.Context, query []float32, k int) ([]domain.VectorHit, error) {
	c.mu.Lock()
	c.searches++
	c.mu.Unlock()
	return c.VectorIndex.Search(ctx, query, k)
}

// stubCollector returns fixed documents and counts calls.
type stubCollector struct {
	docs  []domain.Document
	err   error
	roots []string
}

func (c *stubCollector) Collect(_ context.Context, root string) ([]domain.Document, error) {
	c.roots = append(c.roots, root)
	if c.err != nil {
		return nil, c.err
	}
	out := make([]domain.Document, len(c.docs))
	copy(out, c.docs)
	return out, nil
}

// staticPrompts serves prompts from a map.
type staticPrompts map[string]string

func (p staticPrompts) Load(name string) (string, error) {
	if v, ok := p[name]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func (p staticPrompts) Reload() {}

// sliceConnector emits fixed raw documents and then an optional error.
type sliceConnector struct {
	docs   []domain.RawDocument
	err    error
	closed bool
}

func (c *sliceConnector) Type() string                     { return "slice" }
func (c *sliceConnector) SourceID() string                 { return "slice" }
func (c *sliceConnector) Validate(_ context.Context) error { return nil }
func (c *sliceConnector) Close() error                     { c.closed = true; return nil }

func (c *sliceConnector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, 1)
	go func() {
		defer close(docs)
		defer close(errs)
		for _, d := range c.docs {
			select {
			case docs <- d:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
		if c.err != nil {
			errs <- c.err
		}
	}()
	return docs, errs
}
