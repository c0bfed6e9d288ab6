package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not available in this build.
	ErrNotImplemented = errors.New("not implemented")

	// ErrLLMUnavailable indicates the chat model is not configured or unreachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector store could not be opened or was closed.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrDimensionMismatch indicates an embedding does not match the store's dimensions.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrConfigNotFound indicates the config file does not exist.
	ErrConfigNotFound = errors.New("config not found")

	// ErrInvalidConfig indicates a config value could not be parsed.
	ErrInvalidConfig = errors.New("invalid config")
)
