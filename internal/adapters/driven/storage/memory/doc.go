// Package memory provides in-process implementations of driven ports.
// Nothing here survives a restart.
package memory
