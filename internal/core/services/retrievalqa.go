package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/core/ports/driven"
	"github.com/custodia-labs/gengpt/internal/core/ports/driving"
	"github.com/custodia-labs/gengpt/internal/logger"
)

// Ensure RetrievalQAService implements the interfaces.
var (
	_ driving.RetrievalQAService = (*RetrievalQAService)(nil)
	_ driven.PromptStoreAware    = (*RetrievalQAService)(nil)
)

// DefaultEmbedBatchSize is the number of chunks embedded per call.
const DefaultEmbedBatchSize = 64

// defaultQASystemPrompt is used when no PromptStore is configured.
const defaultQASystemPrompt = "Use the following pieces of context to answer the user's question. \n" +
	"If you don't know the answer, just say that you don't know, don't try to make up an answer.\n" +
	"----------------\n" +
	"%s"

// contextPlaceholder marks where retrieved context goes in the system prompt.
const contextPlaceholder = "%s"

// RetrievalQAService ingests directories into a vector index and answers
// questions from it.
type RetrievalQAService struct {
	collector   driven.DocumentCollector
	pipeline    driven.PostProcessorPipeline
	embedder    driven.EmbeddingService
	index       driven.VectorIndex
	llm         driven.LLMService
	retrieval   domain.RetrievalSettings
	defaultPath string
	batchSize   int
	promptStore driven.PromptStore
}

// QAOption configures a RetrievalQAService.
type QAOption func(*RetrievalQAService)

// WithDefaultPath sets the directory ingested when a query has no path.
func WithDefaultPath(path string) QAOption {
	return func(s *RetrievalQAService) {
		s.defaultPath = path
	}
}

// WithEmbedBatchSize sets how many chunks are embedded per call.
func WithEmbedBatchSize(n int) QAOption {
	return func(s *RetrievalQAService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// NewRetrievalQAService creates a retrieval QA service. A K below 1 falls
// back to 1 and FetchK is raised to at least K. Lambda is used as given,
// so callers start from domain.DefaultAppSettings().
func NewRetrievalQAService(
	collector driven.DocumentCollector,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	llm driven.LLMService,
	retrieval domain.RetrievalSettings,
	opts ...QAOption,
) *RetrievalQAService {
	if retrieval.K <= 0 {
		retrieval.K = domain.DefaultK
	}
	if retrieval.FetchK < retrieval.K {
		retrieval.FetchK = max(domain.DefaultFetchK, retrieval.K)
	}

	s := &RetrievalQAService{
		collector: collector,
		pipeline:  pipeline,
		embedder:  embedder,
		index:     index,
		llm:       llm,
		retrieval: retrieval,
		batchSize: DefaultEmbedBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPromptStore sets the prompt store for loading the system prompt.
// If not set, the built-in prompt is used.
func (s *RetrievalQAService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ask ingests the dataset for the query's path and answers the question.
// An empty query returns an empty answer without any other call.
func (s *RetrievalQAService) Ask(ctx context.Context, query domain.Query) (domain.Answer, error) {
	if query.IsEmpty() {
		return domain.Answer{}, nil
	}

	path := query.Path
	if path == "" {
		path = s.defaultPath
	}
	if path == "" {
		return domain.Answer{}, fmt.Errorf("no path to ingest: %w", domain.ErrInvalidInput)
	}

	if _, err := s.Ingest(ctx, DatasetDir(path)); err != nil {
		return domain.Answer{}, err
	}
	return s.Answer(ctx, query.Text)
}

// DatasetDir returns the directory to ingest for a selected path: the
// path itself for a directory, otherwise its parent.
func DatasetDir(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}

// Ingest collects every file under sourcePath, chunks, embeds and stores it.
func (s *RetrievalQAService) Ingest(ctx context.Context, sourcePath string) (domain.IngestStats, error) {
	dataset := sourcePath
	if abs, err := filepath.Abs(sourcePath); err == nil {
		dataset = abs
	}
	stats := domain.IngestStats{Dataset: dataset}

	logger.Section("Ingest")
	logger.Debug("dataset: %s", dataset)

	docs, err := s.collector.Collect(ctx, dataset)
	if err != nil {
		return stats, fmt.Errorf("collect: %w", err)
	}
	stats.Documents = len(docs)

	var chunks []domain.Chunk
	for i := range docs {
		docChunks, err := s.pipeline.Process(ctx, &docs[i])
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return stats, ctxErr
			}
			logger.Debug("skipping %s: %v", docs[i].URI, err)
			continue
		}
		chunks = append(chunks, docChunks...)
	}

	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))
		if err := s.store(ctx, dataset, chunks[start:end]); err != nil {
			return stats, err
		}
		stats.Chunks += end - start
	}

	logger.Debug("ingested %d documents as %d chunks", stats.Documents, stats.Chunks)
	return stats, nil
}

// store embeds a batch of chunks and adds them to the index.
func (s *RetrievalQAService) store(ctx context.Context, dataset string, batch []domain.Chunk) error {
	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = batch[i].Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbeddingUnavailable, len(vectors), len(batch))
	}

	records := make([]domain.VectorRecord, len(batch))
	for i := range batch {
		batch[i].Embedding = vectors[i]
		records[i] = domain.NewVectorRecord(dataset, batch[i])
	}

	if err := s.index.Add(ctx, records); err != nil {
		return fmt.Errorf("store vectors: %w", err)
	}
	return nil
}

// Answer retrieves context for question and asks the model.
// An empty question returns an empty answer.
func (s *RetrievalQAService) Answer(ctx context.Context, question string) (domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return domain.Answer{}, nil
	}

	logger.Section("Answer")

	queryVec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	candidates, err := s.index.Search(ctx, queryVec, s.retrieval.FetchK)
	if err != nil {
		if errors.Is(err, domain.ErrDimensionMismatch) {
			return domain.Answer{}, fmt.Errorf("search: %w (was the store built with another embedding model?)", err)
		}
		return domain.Answer{}, fmt.Errorf("search: %w", err)
	}

	hits := MaximalMarginalRelevance(candidates, s.retrieval.K, s.retrieval.Lambda)
	logger.Debug("retrieved %d of %d candidates", len(hits), len(candidates))

	contents := make([]string, len(hits))
	var sources []string
	seen := make(map[string]bool, len(hits))
	for i, h := range hits {
		contents[i] = h.Record.Content
		logger.Debug("context %d: %s #%d (similarity %.4f)", i+1, h.Record.Source, h.Record.Position, h.Similarity)
		if !seen[h.Record.Source] {
			seen[h.Record.Source] = true
			sources = append(sources, h.Record.Source)
		}
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: s.systemPrompt(strings.Join(contents, "\n\n"))},
		{Role: driven.RoleUser, Content: question},
	}

	text, err := s.llm.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	return domain.Answer{Text: text, Sources: sources}, nil
}

// systemPrompt fills the QA template with the retrieved context.
func (s *RetrievalQAService) systemPrompt(retrieved string) string {
	template := defaultQASystemPrompt
	if s.promptStore != nil {
		if p, err := s.promptStore.Load(driven.PromptQASystem); err == nil {
			if strings.Contains(p, contextPlaceholder) {
				template = p
			} else {
				logger.Warn("prompt %s has no %s placeholder, using default", driven.PromptQASystem, contextPlaceholder)
			}
		}
	}
	return strings.Replace(template, contextPlaceholder, retrieved, 1)
}
