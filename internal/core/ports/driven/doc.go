// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Connector: Reads raw files from a directory
//   - Normaliser: Decodes raw files into documents
//   - DocumentCollector: Collector used by the orchestrator
//   - PostProcessor: Splits documents into chunks
//   - EmbeddingService: Turns text into vectors
//   - VectorIndex: Stores vectors and runs similarity search
//   - LLMService: Chat completion
//   - ConfigStore / PromptStore: User configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
