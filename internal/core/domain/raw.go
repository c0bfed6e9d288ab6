package domain

// RawDocument represents opaque bytes read by a connector.
// It is the connector's output before normalisation.
type RawDocument struct {
	// SourceID identifies the collection run.
	SourceID string

	// URI is the absolute file path.
	URI string

	// MIMEType is the detected content type.
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains connector-specific key-value pairs.
	Metadata map[string]any
}
