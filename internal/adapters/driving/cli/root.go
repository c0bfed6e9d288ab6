// Package cli provides the cobra command tree for gengpt.
// It is a driving adapter: commands reach the core only through the
// session and config access injected by main.
package cli

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/gengpt/internal/logger"
)

// version is overridden at build time via Execute.
var version = "dev"

var (
	configPath string
	verbose    bool
	ephemeral  bool
)

var rootCmd = &cobra.Command{
	Use:   "gengpt [source] [store]",
	Short: "Ask questions about a directory of code from the terminal",
	Long: `gengpt indexes a directory into a vector store and answers questions
about it with a chat model, using the most relevant file chunks as context.

Without a subcommand it opens the terminal UI:
  source  directory shown in the file tree (default: home directory)
  store   directory holding the vector store (default: a new temp dir)

Controls:
  tab      - Cycle focus between tree, results and input
  enter    - Submit prompt / open directory / select file
  esc      - Leave the input
  f        - Toggle the file tree
  q        - Quit (outside the input)
  ctrl+c   - Quit`,
	Args:              cobra.MaximumNArgs(2),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.gengpt/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep the vector store in memory")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("gengpt {{.Version}}\n")
}

// Execute runs the root command with the given build version.
// Commands observe ctx for shutdown.
func Execute(ctx context.Context, v string) error {
	if v != "" {
		version = v
		rootCmd.Version = v
	}
	return rootCmd.ExecuteContext(ctx)
}

// setup runs before every command.
func setup(_ *cobra.Command, _ []string) error {
	// A missing .env is not an error.
	_ = godotenv.Load()

	logger.SetVerbose(verbose)
	return nil
}
