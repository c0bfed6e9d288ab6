package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/gengpt/internal/adapters/driving/tui"
	"github.com/custodia-labs/gengpt/internal/logger"
)

// logFileName is written inside the store directory when --verbose is set.
const logFileName = "gengpt.log"

var errNotTerminal = errors.New("the terminal UI needs an interactive terminal; use `gengpt ask` instead")

// stdoutIsTerminal is replaced in tests.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// runTUI resolves source and store from args and runs the terminal UI.
func runTUI(cmd *cobra.Command, args []string) (err error) {
	if !stdoutIsTerminal() {
		return errNotTerminal
	}

	source, store, err := resolveTUIArgs(args)
	if err != nil {
		return err
	}

	if verbose {
		logDir := store
		if logDir == "" {
			logDir = os.TempDir()
		}
		closer, err := logger.ToFile(filepath.Join(logDir, logFileName))
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer closer.Close()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("panic in TUI: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	session, err := openSession(cmd.Context(), SessionOptions{Source: source, Store: store})
	if err != nil {
		return err
	}
	defer session.Close()

	app, err := tui.NewApp(&tui.Ports{
		QA:     session.QA,
		Source: session.Source,
		Store:  session.Store,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// resolveTUIArgs applies the positional defaults: the home directory for
// source and a new temp dir for store. An ephemeral run has no store.
func resolveTUIArgs(args []string) (source, store string, err error) {
	if len(args) > 0 {
		source = args[0]
	} else {
		source, err = os.UserHomeDir()
		if err != nil {
			return "", "", fmt.Errorf("finding home directory: %w", err)
		}
	}
	if source, err = filepath.Abs(source); err != nil {
		return "", "", fmt.Errorf("resolving source: %w", err)
	}

	if ephemeral {
		return source, "", nil
	}

	if len(args) > 1 {
		store = args[1]
	} else {
		store, err = os.MkdirTemp("", "gengpt-")
		if err != nil {
			return "", "", fmt.Errorf("creating store directory: %w", err)
		}
	}
	if store, err = filepath.Abs(store); err != nil {
		return "", "", fmt.Errorf("resolving store: %w", err)
	}
	return source, store, nil
}
