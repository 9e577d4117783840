// Package queue persists pipeline items in SQLite and tracks their
// status as episodes move from pending through transcription,
// reference extraction, translation, synthesis, and concatenation.
package queue
