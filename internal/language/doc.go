// Package language provides language code normalization for the
// transcription and translation configuration surfaces.
package language
