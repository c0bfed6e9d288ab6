// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/gengpt/internal/core/domain"
)

// PromptSubmitted is sent when the user submits the input box.
type PromptSubmitted struct {
	Text string
}

// AnswerCompleted carries the result of an Ask call back to the model.
type AnswerCompleted struct {
	Query  domain.Query
	Answer domain.Answer
	Err    error
}

// PathSelected is sent when a file or directory is chosen in the tree.
type PathSelected struct {
	Path string
}

// ResultsCleared is sent when the results pane should be emptied.
type ResultsCleared struct{}

// Pane identifies which pane currently has focus.
type Pane int

const (
	// PaneInput is the prompt input box.
	PaneInput Pane = iota
	// PaneTree is the directory tree.
	PaneTree
	// PaneResults is the results viewport.
	PaneResults
)

// String returns the string representation of the pane.
func (p Pane) String() string {
	switch p {
	case PaneInput:
		return "input"
	case PaneTree:
		return "tree"
	case PaneResults:
		return "results"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
