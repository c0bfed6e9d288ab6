// Package mcp provides an MCP (Model Context Protocol) server adapter for gengpt.
// It lets assistants ask questions about the source directory through an ask tool.
package mcp

import "errors"

// ErrMissingQAService is returned when the question answering service is not provided.
var ErrMissingQAService = errors.New("mcp: qa service is required")

// ErrMissingSourcePath is returned when no default source directory is provided.
var ErrMissingSourcePath = errors.New("mcp: source path is required")
