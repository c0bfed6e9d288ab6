// Package normalisers provides implementations of the Normaliser interface.
// A normaliser turns the bytes a connector read into document text.
package normalisers
