// Package connectors provides implementations of the Connector interface.
// A connector knows how to read raw documents from one kind of source;
// gengpt only reads local directories.
package connectors
