// Package indextts drives IndexTTS2 voice-clone synthesis through its
// CLI, one invocation per segment, cloning each speaker's voice from the
// reference clips selected earlier in the pipeline.
package indextts
