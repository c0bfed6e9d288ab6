// Package sqlite provides a SQLite-backed implementation of driven.VectorIndex.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Applied versions are recorded in schema_migrations.
// Embeddings are stored as little-endian float32 blobs.
//
// # Search
//
// Search is an exact scan: every embedding is compared to the query by cosine
// similarity and the best k rows are loaded in full.
//
// # Data Location
//
// The database lives at <store>/vectors.db, where <store> is the store
// directory passed on the command line.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
