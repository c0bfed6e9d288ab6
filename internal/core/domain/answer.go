package domain

import "strings"

// Query is one question from the user together with the path selected
// when it was asked.
type Query struct {
	// Text is the question as typed.
	Text string

	// Path is the currently selected file or directory.
	Path string
}

// IsEmpty reports whether the query carries no question.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == ""
}

// Answer is the model output for a query.
type Answer struct {
	// Text is the model's reply, usually markdown.
	Text string

	// Sources lists the file paths of the chunks used as context.
	Sources []string
}

// IngestStats summarises one ingest run.
type IngestStats struct {
	// Dataset is the directory that was ingested.
	Dataset string

	// Documents is the number of files collected.
	Documents int

	// Chunks is the number of chunks embedded and stored.
	Chunks int
}
