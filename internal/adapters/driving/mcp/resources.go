package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriScheme = "gengpt://"

	// maxResourceSize caps file resources.
	maxResourceSize = 1 << 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "dataset",
		Name:        "dataset",
		Description: "Source directory and vector store used by the ask tool",
		MIMEType:    "application/json",
	}, s.handleDatasetResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "files/{+path}",
		Name:        "source-file",
		Description: "Text content of a file under the source directory",
		MIMEType:    "text/plain",
	}, s.handleFileResource)
}

// handleDatasetResource describes the configured dataset.
func (s *Server) handleDatasetResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	info := struct {
		Source string `json:"source"`
		Store  string `json:"store,omitempty"`
	}{
		Source: s.ports.Source,
		Store:  s.ports.Store,
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling dataset: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleFileResource returns a UTF-8 text file from inside the source directory.
// Reads go through an os.Root, so neither ".." nor a symlink can leave it.
func (s *Server) handleFileResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	rel := extractFilePath(req.Params.URI)
	if rel == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, ok := s.readSourceFile(filepath.FromSlash(rel))
	if !ok || isBinary(data) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     string(data),
		}},
	}, nil
}

// readSourceFile reads a regular file of at most maxResourceSize bytes
// relative to the source directory.
func (s *Server) readSourceFile(rel string) ([]byte, bool) {
	root, err := os.OpenRoot(s.ports.Source)
	if err != nil {
		return nil, false
	}
	defer root.Close()

	f, err := root.Open(rel)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() || info.Size() > maxResourceSize {
		return nil, false
	}

	data, err := io.ReadAll(io.LimitReader(f, maxResourceSize+1))
	if err != nil || len(data) > maxResourceSize {
		return nil, false
	}
	return data, true
}

// isBinary matches the collector: NUL bytes or invalid UTF-8.
func isBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data)
}

// extractFilePath extracts the relative path from a URI like gengpt://files/{path}.
func extractFilePath(uri string) string {
	const prefix = uriScheme + "files/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
