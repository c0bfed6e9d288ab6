// Package driving defines interfaces that external actors (TUI, CLI, MCP)
// use to interact with core services.
//
// Implementations of these interfaces live in internal/core/services.
package driving
