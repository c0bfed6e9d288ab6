// Package filesystem reads every regular file under a directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/core/ports/driven"
	"github.com/custodia-labs/gengpt/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// ConnectorType is the type identifier for this connector.
const ConnectorType = "filesystem"

// ErrClosed is returned by FullSync after Close.
var ErrClosed = errors.New("filesystem connector closed")

// Connector walks a directory tree and emits one RawDocument per file.
// Files that cannot be read are skipped without an error.
type Connector struct {
	sourceID    string
	rootPath    string
	skipHidden  bool
	maxFileSize int64

	mu     sync.Mutex
	closed bool
}

// Option configures the connector.
type Option func(*Connector)

// WithSkipHidden excludes files and directories whose name starts with a dot.
func WithSkipHidden(skip bool) Option {
	return func(c *Connector) {
		c.skipHidden = skip
	}
}

// WithSourceID labels every document with id instead of the ID the
// connector was created with. An empty id is ignored.
func WithSourceID(id string) Option {
	return func(c *Connector) {
		if id != "" {
			c.sourceID = id
		}
	}
}

// WithMaxFileSize skips files larger than size bytes. Zero disables the limit.
func WithMaxFileSize(size int64) Option {
	return func(c *Connector) {
		if size >= 0 {
			c.maxFileSize = size
		}
	}
}

// New creates a connector rooted at rootPath.
func New(sourceID, rootPath string, opts ...Option) *Connector {
	c := &Connector{
		sourceID: sourceID,
		rootPath: rootPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Factory returns a ConnectorFactory that applies opts to every connector.
func Factory(opts ...Option) driven.ConnectorFactory {
	return func(sourceID, root string) driven.Connector {
		return New(sourceID, root, opts...)
	}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return ConnectorType
}

// SourceID returns the configured source ID.
func (c *Connector) SourceID() string {
	return c.sourceID
}

// Validate checks the root exists and is a directory.
func (c *Connector) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(c.rootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", c.rootPath)
		}
		return fmt.Errorf("cannot access path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", c.rootPath)
	}
	return nil
}

// FullSync walks the root and emits every readable regular file.
// The error channel carries at most one error: a validation failure or
// context cancellation. Per-file failures are logged and skipped.
func (c *Connector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)
		defer close(errs)

		if c.isClosed() {
			errs <- ErrClosed
			return
		}
		if err := c.Validate(ctx); err != nil {
			errs <- err
			return
		}

		walkErr := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				logger.Debug("skipping %s: %v", path, err)
				return nil
			}

			if path != c.rootPath && c.skipHidden && isHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}

			raw, ok := c.read(path, d)
			if !ok {
				return nil
			}

			select {
			case docs <- raw:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if walkErr != nil {
			errs <- walkErr
		}
	}()

	return docs, errs
}

// read loads one file. It reports false when the file should be skipped.
func (c *Connector) read(path string, d fs.DirEntry) (domain.RawDocument, bool) {
	info, err := d.Info()
	if err != nil {
		logger.Debug("skipping %s: %v", path, err)
		return domain.RawDocument{}, false
	}
	if c.maxFileSize > 0 && info.Size() > c.maxFileSize {
		logger.Debug("skipping %s: %d bytes exceeds limit", path, info.Size())
		return domain.RawDocument{}, false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("skipping %s: %v", path, err)
		return domain.RawDocument{}, false
	}

	name := filepath.Base(path)
	return domain.RawDocument{
		SourceID: c.sourceID,
		URI:      path,
		MIMEType: detectMIMEType(name),
		Content:  content,
		Metadata: map[string]any{
			"filename":  name,
			"extension": strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."),
			"size":      info.Size(),
			"modified":  info.ModTime(),
		},
	}, true
}

// Close stops later FullSync calls. It is safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Connector) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// isHidden reports whether a file or directory name is a dotfile.
// "." and ".." are not hidden.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// mimeFallbacks covers source extensions the platform MIME table often lacks.
var mimeFallbacks = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".go":       "text/x-go",
	".py":       "text/x-python",
	".rs":       "text/x-rust",
	".java":     "text/x-java",
	".c":        "text/x-c",
	".h":        "text/x-c",
	".cpp":      "text/x-c++",
	".rb":       "text/x-ruby",
	".ts":       "text/typescript",
	".tsx":      "text/typescript-jsx",
	".jsx":      "text/javascript-jsx",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
	".sh":       "text/x-shellscript",
	".bash":     "text/x-shellscript",
	".sql":      "text/x-sql",
}

// detectMIMEType guesses a MIME type from the file extension.
// Files without an extension are assumed to be plain text.
func detectMIMEType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "text/plain"
	}
	if m, ok := mimeFallbacks[ext]; ok {
		return m
	}
	if m := mime.TypeByExtension(ext); m != "" {
		if i := strings.Index(m, ";"); i >= 0 {
			m = m[:i]
		}
		return strings.TrimSpace(m)
	}
	return "application/octet-stream"
}
