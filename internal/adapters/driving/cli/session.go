package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/core/ports/driven"
	"github.com/custodia-labs/gengpt/internal/core/ports/driving"
)

// SessionOptions describe the dataset a command works on.
type SessionOptions struct {
	// Source is the default path questions are asked about.
	Source string

	// Store is the vector store directory. Ignored when Ephemeral is set.
	Store string

	// Ephemeral keeps vectors in memory for the life of the session.
	Ephemeral bool

	// ConfigPath is the TOML config file; empty means the default location.
	ConfigPath string
}

// Session is a ready question answering stack.
type Session struct {
	QA     driving.RetrievalQAService
	Source string
	Store  string

	// Close releases the vector store and provider clients.
	Close func() error
}

// SessionFactory builds a Session. main wires the concrete adapters.
type SessionFactory func(ctx context.Context, opts SessionOptions) (*Session, error)

// ConfigAccess opens the config file and resolves the effective settings.
type ConfigAccess struct {
	Open    func(path string) (driven.ConfigStore, error)
	Resolve func(store driven.ConfigStore) (domain.AppSettings, error)

	// Check pings the providers named by settings. Optional.
	Check func(ctx context.Context, settings domain.AppSettings) error
}

var (
	sessionFactory SessionFactory
	configAccess   *ConfigAccess
)

var (
	errSessionNotConfigured = errors.New("qa service not configured")
	errConfigNotConfigured  = errors.New("config access not configured")
)

// SetSessionFactory sets how commands build their question answering stack.
func SetSessionFactory(f SessionFactory) {
	sessionFactory = f
}

// SetConfigAccess sets how the settings command reads and writes config.
func SetConfigAccess(c *ConfigAccess) {
	configAccess = c
}

func openSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	if sessionFactory == nil {
		return nil, errSessionNotConfigured
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = configPath
	}
	if ephemeral {
		opts.Ephemeral = true
	}
	if opts.Ephemeral {
		opts.Store = ""
	}

	session, err := sessionFactory(ctx, opts)
	if err != nil {
		return nil, err
	}
	if session.Close == nil {
		session.Close = func() error { return nil }
	}
	return session, nil
}
