// Package domain defines the core entities for gengpt.
//
// This package is the innermost layer of the hexagon. It defines:
//
//   - RawDocument: bytes read from a file before decoding
//   - Document: a file's path and its decoded text
//   - Chunk: a bounded slice of a document's text
//   - VectorRecord: an embedded chunk persisted in the vector store
//   - Query and Answer: one question/answer cycle
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
