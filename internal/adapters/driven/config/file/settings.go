package file

import (
	"fmt"
	"os"

	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyEmbeddingProvider = "embedding.provider"
	KeyEmbeddingModel    = "embedding.model"
	KeyEmbeddingBaseURL  = "embedding.base_url"
	KeyEmbeddingAPIKey   = "embedding.api_key"

	KeyLLMProvider = "llm.provider"
	KeyLLMModel    = "llm.model"
	KeyLLMBaseURL  = "llm.base_url"
	KeyLLMAPIKey   = "llm.api_key"

	KeyRetrievalK      = "retrieval.k"
	KeyRetrievalFetchK = "retrieval.fetch_k"
	KeyRetrievalLambda = "retrieval.lambda"

	KeyChunkingSize    = "chunking.size"
	KeyChunkingOverlap = "chunking.overlap"

	KeyCollectorSkipHidden  = "collector.skip_hidden"
	KeyCollectorMaxFileSize = "collector.max_file_size"
)

// Environment variables consulted after the config file.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvOllamaHost   = "OLLAMA_HOST"
)

// LoadSettings builds AppSettings from defaults, then the store, then
// the process environment.
func LoadSettings(store driven.ConfigStore) (domain.AppSettings, error) {
	return LoadSettingsWithEnv(store, os.Getenv)
}

// LoadSettingsWithEnv is LoadSettings with an injectable environment lookup.
func LoadSettingsWithEnv(store driven.ConfigStore, getenv func(string) string) (domain.AppSettings, error) {
	s := domain.DefaultAppSettings()

	if store != nil {
		applyStore(&s, store)
	}
	applyEnv(&s, getenv)

	if err := validate(s); err != nil {
		return domain.AppSettings{}, err
	}
	return s, nil
}

func applyStore(s *domain.AppSettings, store driven.ConfigStore) {
	if p := store.GetString(KeyEmbeddingProvider); p != "" {
		s.Embedding.Provider = domain.AIProvider(p)
		s.Embedding.Model = domain.DefaultEmbeddingModels()[s.Embedding.Provider]
	}
	setString(&s.Embedding.Model, store, KeyEmbeddingModel)
	setString(&s.Embedding.BaseURL, store, KeyEmbeddingBaseURL)
	setString(&s.Embedding.APIKey, store, KeyEmbeddingAPIKey)

	if p := store.GetString(KeyLLMProvider); p != "" {
		s.LLM.Provider = domain.AIProvider(p)
		s.LLM.Model = domain.DefaultLLMModels()[s.LLM.Provider]
	}
	setString(&s.LLM.Model, store, KeyLLMModel)
	setString(&s.LLM.BaseURL, store, KeyLLMBaseURL)
	setString(&s.LLM.APIKey, store, KeyLLMAPIKey)

	if _, ok := store.Get(KeyRetrievalK); ok {
		s.Retrieval.K = store.GetInt(KeyRetrievalK)
	}
	if _, ok := store.Get(KeyRetrievalFetchK); ok {
		s.Retrieval.FetchK = store.GetInt(KeyRetrievalFetchK)
	}
	if _, ok := store.Get(KeyRetrievalLambda); ok {
		s.Retrieval.Lambda = store.GetFloat(KeyRetrievalLambda)
	}

	if _, ok := store.Get(KeyChunkingSize); ok {
		s.Chunking.Size = store.GetInt(KeyChunkingSize)
	}
	if _, ok := store.Get(KeyChunkingOverlap); ok {
		s.Chunking.Overlap = store.GetInt(KeyChunkingOverlap)
	}

	if _, ok := store.Get(KeyCollectorSkipHidden); ok {
		s.Collector.SkipHidden = store.GetBool(KeyCollectorSkipHidden)
	}
	if _, ok := store.Get(KeyCollectorMaxFileSize); ok {
		s.Collector.MaxFileSize = int64(store.GetInt(KeyCollectorMaxFileSize))
	}
}

func setString(dst *string, store driven.ConfigStore, key string) {
	if v := store.GetString(key); v != "" {
		*dst = v
	}
}

// applyEnv fills in API keys and hosts the config file left empty.
func applyEnv(s *domain.AppSettings, getenv func(string) string) {
	keyFor := func(p domain.AIProvider) string {
		switch p {
		case domain.AIProviderOpenAI:
			return getenv(EnvOpenAIKey)
		case domain.AIProviderAnthropic:
			return getenv(EnvAnthropicKey)
		default:
			return ""
		}
	}

	if s.Embedding.APIKey == "" {
		s.Embedding.APIKey = keyFor(s.Embedding.Provider)
	}
	if s.LLM.APIKey == "" {
		s.LLM.APIKey = keyFor(s.LLM.Provider)
	}

	if host := getenv(EnvOllamaHost); host != "" {
		if s.Embedding.Provider == domain.AIProviderOllama && s.Embedding.BaseURL == "" {
			s.Embedding.BaseURL = host
		}
		if s.LLM.Provider == domain.AIProviderOllama && s.LLM.BaseURL == "" {
			s.LLM.BaseURL = host
		}
	}
}

func validate(s domain.AppSettings) error {
	if !s.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidConfig, s.Embedding.Provider)
	}
	if !s.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: unknown llm provider %q", domain.ErrInvalidConfig, s.LLM.Provider)
	}
	if s.Retrieval.K < 1 {
		return fmt.Errorf("%w: retrieval.k must be at least 1", domain.ErrInvalidConfig)
	}
	if s.Retrieval.FetchK < s.Retrieval.K {
		return fmt.Errorf("%w: retrieval.fetch_k must be at least retrieval.k", domain.ErrInvalidConfig)
	}
	if s.Retrieval.Lambda < 0 || s.Retrieval.Lambda > 1 {
		return fmt.Errorf("%w: retrieval.lambda must be between 0 and 1", domain.ErrInvalidConfig)
	}
	if s.Chunking.Size < 1 {
		return fmt.Errorf("%w: chunking.size must be at least 1", domain.ErrInvalidConfig)
	}
	if s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.Size {
		return fmt.Errorf("%w: chunking.overlap must be in [0, chunking.size)", domain.ErrInvalidConfig)
	}
	if s.Collector.MaxFileSize < 0 {
		return fmt.Errorf("%w: collector.max_file_size must not be negative", domain.ErrInvalidConfig)
	}
	return nil
}
