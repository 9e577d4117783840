// Package translation batches transcript segments through an
// OpenAI-compatible chat completion API to produce Chinese text.
package translation
