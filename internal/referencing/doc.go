// Package referencing picks the best reference clip per speaker for
// voice-cloning TTS, composing multi-segment clips when no single
// segment is long enough.
package referencing
