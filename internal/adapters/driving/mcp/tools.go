package mcp

import (
	"context"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/gengpt/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer about the source directory"`
	Path     string `json:"path,omitempty" jsonschema:"file or directory to ask about; relative paths resolve against the source directory"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ingest a directory and answer a question using its files as context",
	}, s.handleAsk)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	query := domain.Query{Text: input.Question, Path: s.resolvePath(input.Path)}

	answer, err := s.ports.QA.Ask(ctx, query)
	if err != nil {
		return nil, AskOutput{}, err
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	return nil, AskOutput{Answer: answer.Text, Sources: sources}, nil
}

// resolvePath applies the source directory default to a tool path.
func (s *Server) resolvePath(path string) string {
	switch {
	case path == "":
		return s.ports.Source
	case filepath.IsAbs(path):
		return path
	default:
		return filepath.Join(s.ports.Source, path)
	}
}
