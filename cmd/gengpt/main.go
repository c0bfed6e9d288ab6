// Command gengpt answers questions about a directory of code from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/gengpt/internal/adapters/driven/ai"
	"github.com/custodia-labs/gengpt/internal/adapters/driven/config/file"
	"github.com/custodia-labs/gengpt/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/gengpt/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/gengpt/internal/adapters/driving/cli"
	"github.com/custodia-labs/gengpt/internal/connectors/filesystem"
	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/core/ports/driven"
	"github.com/custodia-labs/gengpt/internal/core/services"
	"github.com/custodia-labs/gengpt/internal/logger"
	"github.com/custodia-labs/gengpt/internal/normalisers/plaintext"
	"github.com/custodia-labs/gengpt/internal/postprocessors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetSessionFactory(newSession)
	cli.SetConfigAccess(configAccess())

	if err := cli.Execute(ctx, version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func configAccess() *cli.ConfigAccess {
	return &cli.ConfigAccess{
		Open: func(path string) (driven.ConfigStore, error) {
			return file.NewConfigStore(path)
		},
		Resolve: file.LoadSettings,
		Check:   checkProviders,
	}
}

func checkProviders(ctx context.Context, settings domain.AppSettings) error {
	return errors.Join(
		ai.ValidateEmbeddingConfig(ctx, &settings.Embedding),
		ai.ValidateLLMConfig(ctx, &settings.LLM),
	)
}

// newSession wires the collector, chunker, providers and vector store
// into a retrieval QA service.
func newSession(ctx context.Context, opts cli.SessionOptions) (*cli.Session, error) {
	config, err := file.NewConfigStore(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settings, err := file.LoadSettings(config)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	aiServices, err := ai.NewServices(ctx, settings, false)
	if err != nil {
		return nil, err
	}

	index, err := openIndex(opts)
	if err != nil {
		aiServices.Close()
		return nil, err
	}

	collector := services.NewCollector(
		filesystem.Factory(
			filesystem.WithSourceID(opts.Source),
			filesystem.WithSkipHidden(settings.Collector.SkipHidden),
			filesystem.WithMaxFileSize(settings.Collector.MaxFileSize),
		),
		plaintext.New(),
	)

	qa := services.NewRetrievalQAService(
		collector,
		postprocessors.FromSettings(settings.Chunking),
		aiServices.Embedding,
		index,
		aiServices.LLM,
		settings.Retrieval,
		services.WithDefaultPath(opts.Source),
	)

	if prompts, err := file.NewPromptStore(""); err != nil {
		logger.Warn("prompt store unavailable, using built-in prompt: %v", err)
	} else {
		qa.SetPromptStore(prompts)
	}

	logger.Debug("session: source=%s store=%s embedding=%s llm=%s",
		opts.Source, storeLabel(opts), aiServices.Embedding.ModelName(), aiServices.LLM.ModelName())

	return &cli.Session{
		QA:     qa,
		Source: opts.Source,
		Store:  opts.Store,
		Close: func() error {
			aiServices.Close()
			return index.Close()
		},
	}, nil
}

func openIndex(opts cli.SessionOptions) (driven.VectorIndex, error) {
	if opts.Ephemeral || opts.Store == "" {
		return memory.NewVectorIndex(), nil
	}
	store, err := sqlite.NewStore(opts.Store)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	}
	return store, nil
}

func storeLabel(opts cli.SessionOptions) string {
	if opts.Ephemeral || opts.Store == "" {
		return "memory"
	}
	return opts.Store
}
