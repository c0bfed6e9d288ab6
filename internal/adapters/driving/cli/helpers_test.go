package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/core/ports/driving"
)

// fakeQA implements driving.RetrievalQAService for command tests.
type fakeQA struct {
	answer domain.Answer
	err    error

	mu      sync.Mutex
	queries []domain.Query
}

var _ driving.RetrievalQAService = (*fakeQA)(nil)

func (f *fakeQA) Ingest(_ context.Context, sourcePath string) (domain.IngestStats, error) {
	return domain.IngestStats{Dataset: sourcePath}, f.err
}

func (f *fakeQA) Answer(_ context.Context, _ string) (domain.Answer, error) {
	return f.answer, f.err
}

func (f *fakeQA) Ask(_ context.Context, query domain.Query) (domain.Answer, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.answer, f.err
}

func (f *fakeQA) Queries() []domain.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Query(nil), f.queries...)
}

// sessionRecorder captures the options each session was opened with.
type sessionRecorder struct {
	opts   []SessionOptions
	closed int
}

// setupTestSession installs a session factory backed by qa.
func setupTestSession(t *testing.T, qa *fakeQA) *sessionRecorder {
	t.Helper()
	rec := &sessionRecorder{}
	SetSessionFactory(func(_ context.Context, opts SessionOptions) (*Session, error) {
		rec.opts = append(rec.opts, opts)
		return &Session{
			QA:     qa,
			Source: opts.Source,
			Store:  opts.Store,
			Close: func() error {
				rec.closed++
				return nil
			},
		}, nil
	})
	t.Cleanup(func() { SetSessionFactory(nil) })
	return rec
}

// execute runs rootCmd with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(resetFlags)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores package flag variables between executions.
func resetFlags() {
	configPath, verbose, ephemeral = "", false, false
	askPath, askStore, askJSON = "", "", false
	mcpPort, mcpPath, mcpStore = 0, "", ""
	for _, name := range []string{"version", "help"} {
		if f := rootCmd.Flags().Lookup(name); f != nil {
			_ = f.Value.Set("false")
			f.Changed = false
		}
	}
}
