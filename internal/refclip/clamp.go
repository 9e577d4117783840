package refclip

import "babel/internal/segment"

// clampBoundsMS maps a segment's [start, end) seconds onto a valid
// millisecond window inside a track of trackMs length, capped at maxMs.
// Degenerate geometry is corrected silently: the window always has at
// least one millisecond of span and never leaves the track.
func clampBoundsMS(seg segment.Segment, trackMs, maxMs int) (int, int) {
	startMs := int(seg.Start * 1000)
	if startMs < 0 {
		startMs = 0
	}
	endMs := int(seg.End * 1000)
	if endMs < startMs+1 {
		endMs = startMs + 1
	}
	if endMs > trackMs {
		endMs = trackMs
	}

	// Cap the span by trimming the tail, never the head.
	if endMs-startMs > maxMs {
		endMs = startMs + maxMs
	}

	// Shift the whole window backward when it would run past the end.
	if endMs > trackMs {
		endMs = trackMs
		startMs = endMs - maxMs
		if startMs < 0 {
			startMs = 0
		}
	}

	// Last resort: force a minimal window inside track bounds.
	if endMs <= startMs {
		startMs = min(startMs, max(trackMs-1, 0))
		if startMs < 0 {
			startMs = 0
		}
		endMs = min(trackMs, startMs+1)
	}

	return startMs, endMs
}
