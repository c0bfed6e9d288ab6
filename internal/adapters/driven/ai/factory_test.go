package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gengpt/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantErr  bool
		model    string
	}{
		{
			name:     "nil settings",
			settings: nil,
			wantErr:  true,
		},
		{
			name:     "ollama needs no key",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOllama},
			model:    "nomic-embed-text",
		},
		{
			name: "openai with key",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "sk",
				Model:    "text-embedding-ada-002",
			},
			model: "text-embedding-ada-002",
		},
		{
			name:     "openai without key",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI},
			wantErr:  true,
		},
		{
			name:     "anthropic has no embeddings",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			wantErr:  true,
		},
		{
			name:     "unknown provider",
			settings: &domain.EmbeddingSettings{Provider: "cohere"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, svc)
			assert.Equal(t, tt.model, svc.ModelName())
			assert.Positive(t, svc.Dimensions())
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantErr  bool
	}{
		{name: "nil settings", settings: nil, wantErr: true},
		{name: "ollama", settings: &domain.LLMSettings{Provider: domain.AIProviderOllama}},
		{name: "openai with key", settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "sk"}},
		{name: "openai without key", settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI}, wantErr: true},
		{name: "anthropic with key", settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"}},
		{name: "anthropic without key", settings: &domain.LLMSettings{Provider: domain.AIProviderAnthropic}, wantErr: true},
		{name: "unknown provider", settings: &domain.LLMSettings{Provider: "cohere"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, svc)
		})
	}
}

func TestNewServices_WithoutValidation(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Embedding.APIKey = "sk"
	settings.LLM.APIKey = "sk"

	s, err := NewServices(context.Background(), settings, false)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "text-embedding-ada-002", s.Embedding.ModelName())
	assert.Equal(t, "gpt-3.5-turbo", s.LLM.ModelName())
}

func TestNewServices_MissingKey(t *testing.T) {
	_, err := NewServices(context.Background(), domain.DefaultAppSettings(), false)
	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestNewServices_Validation(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	settings := domain.AppSettings{
		Embedding: domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: up.URL},
		LLM:       domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: up.URL},
	}

	t.Run("reachable", func(t *testing.T) {
		s, err := NewServices(context.Background(), settings, true)
		require.NoError(t, err)
		s.Close()
	})

	t.Run("llm unreachable", func(t *testing.T) {
		bad := settings
		bad.LLM.BaseURL = down.URL
		_, err := NewServices(context.Background(), bad, true)
		require.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("embedding unreachable", func(t *testing.T) {
		bad := settings
		bad.Embedding.BaseURL = down.URL
		_, err := NewServices(context.Background(), bad, true)
		require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})

	t.Run("validate helpers", func(t *testing.T) {
		require.NoError(t, ValidateEmbeddingConfig(context.Background(), &settings.Embedding))
		require.NoError(t, ValidateLLMConfig(context.Background(), &settings.LLM))
	})
}

func TestServices_CloseNil(t *testing.T) {
	s := &Services{}
	s.Close()
}
