package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/gengpt/internal/core/domain"
)

var (
	askPath  string
	askStore string
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question about a directory",
	Long: `Ingests the directory containing --path and answers the question using
the most relevant chunks as context.

Without --store the vectors are kept in memory for this run only.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askPath, "path", "", "file or directory to ask about (default: current directory)")
	askCmd.Flags().StringVar(&askStore, "store", "", "vector store directory")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

// askResult is the JSON shape printed with --json.
type askResult struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	path := askPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("finding working directory: %w", err)
		}
		path = wd
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	session, err := openSession(cmd.Context(), SessionOptions{
		Source:    path,
		Store:     askStore,
		Ephemeral: askStore == "",
	})
	if err != nil {
		return err
	}
	defer session.Close()

	question := strings.Join(args, " ")
	answer, err := session.QA.Ask(cmd.Context(), domain.Query{Text: question, Path: path})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAskJSON(cmd, answer)
	}
	outputAskText(cmd, answer)
	return nil
}

func outputAskJSON(cmd *cobra.Command, answer domain.Answer) error {
	result := askResult{Answer: answer.Text, Sources: answer.Sources}
	if result.Sources == nil {
		result.Sources = []string{}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAskText(cmd *cobra.Command, answer domain.Answer) {
	if answer.Text == "" {
		return
	}
	cmd.Println(answer.Text)

	if len(answer.Sources) == 0 {
		return
	}
	heading := color.New(color.FgCyan, color.Bold).SprintFunc()
	source := color.New(color.FgHiBlack).SprintFunc()

	cmd.Println()
	cmd.Println(heading("Sources:"))
	for _, s := range answer.Sources {
		cmd.Printf("  - %s\n", source(s))
	}
}
