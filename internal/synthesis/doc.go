// Package synthesis drives IndexTTS2 voice cloning to produce one
// Chinese audio clip per translated segment.
package synthesis
