// Package audio provides in-memory PCM tracks decoded from source files,
// millisecond-granularity clip views, frame-level loudness measurement,
// and WAV export. Tracks are read-only for the lifetime of an invocation;
// clip views alias the decoded buffer so nothing is copied until export.
package audio
