package tui

import "errors"

// ErrMissingQAService is returned when the question answering service is not provided.
var ErrMissingQAService = errors.New("tui: qa service is required")

// ErrMissingSourcePath is returned when no source directory is provided.
var ErrMissingSourcePath = errors.New("tui: source path is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
