package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gengpt/internal/adapters/driving/mcp"
)

var (
	mcpPort  int
	mcpPath  string
	mcpStore string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server exposing an "ask" tool.

By default the server communicates over stdio and can be used by any
MCP-compatible assistant. Use --port to serve streamable HTTP instead.

Examples:
  # Stdio mode
  gengpt mcp serve --path ~/src/project

  # HTTP mode
  gengpt mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "gengpt": {
        "command": "/path/to/gengpt",
        "args": ["mcp", "serve", "--path", "/path/to/project"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVar(&mcpPath, "path", "", "default directory for ask (default: current directory)")
	mcpServeCmd.Flags().StringVar(&mcpStore, "store", "", "vector store directory (default: in memory)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	source := mcpPath
	if source == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("finding working directory: %w", err)
		}
		source = wd
	}
	source, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	session, err := openSession(cmd.Context(), SessionOptions{
		Source:    source,
		Store:     mcpStore,
		Ephemeral: mcpStore == "",
	})
	if err != nil {
		return err
	}
	defer session.Close()

	server, err := mcp.NewServer(&mcp.Ports{
		QA:     session.QA,
		Source: session.Source,
		Store:  session.Store,
	})
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
