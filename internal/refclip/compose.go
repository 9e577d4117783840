package refclip

import (
	"fmt"
	"strings"

	"babel/internal/audio"
	"babel/internal/segment"
)

// composition is a reference clip stitched from multiple short segments.
type composition struct {
	track   *audio.Track
	pieces  int
	refText string
	metrics Metrics
	score   float64
}

// needsComposition reports whether the speaker has nothing usable as a
// single reference: no segment inside the selection window and the
// longest one still shorter than the minimum.
func (e *Extractor) needsComposition(segments []segment.Segment) bool {
	var longest float64
	for _, seg := range segments {
		d := seg.Duration()
		if d >= e.tuning.MinSingleSeconds && d <= e.tuning.MaxSeconds {
			return false
		}
		if d > longest {
			longest = d
		}
	}
	return longest < e.tuning.MinSingleSeconds
}

// compose stitches the speaker's segments in chronological order with a
// short silence gap between pieces, accumulating until the minimum
// duration is reached. It stops before the cap would be exceeded or when
// material runs out; a best-effort result below the minimum is still
// accepted, so composition never fails.
func (e *Extractor) compose(track *audio.Track, segments []segment.Segment) composition {
	chronological := segment.SortByStart(segments)

	trackMs := track.Milliseconds()
	maxMs := int(e.tuning.MaxSeconds * 1000)
	targetMs := int(e.tuning.MinSingleSeconds * 1000)

	builder := audio.NewBuilderFor(track)
	texts := make([]string, 0, len(chronological))
	pieces := 0

	for _, seg := range chronological {
		if pieces > 0 && builder.Len() >= targetMs {
			break
		}
		startMs, endMs := clampBoundsMS(seg, trackMs, maxMs)
		pieceMs := endMs - startMs

		gapMs := 0
		if pieces > 0 {
			gapMs = e.tuning.ComposeGapMs
		}
		if pieces > 0 && builder.Len()+gapMs+pieceMs > maxMs {
			break
		}

		builder.AppendSilence(gapMs)
		builder.AppendClip(track.ClipMS(startMs, endMs))
		texts = append(texts, strings.TrimSpace(seg.Text))
		pieces++
	}

	composed := builder.Track()
	clip := composed.ClipMS(0, composed.Milliseconds())
	score, metrics := e.scorer.Score(clip, composed.Seconds())

	return composition{
		track:   composed,
		pieces:  pieces,
		refText: strings.Join(texts, " "),
		metrics: metrics,
		score:   score,
	}
}

// mode returns the metadata label for a composed reference.
func (c composition) mode() string {
	return fmt.Sprintf("composed/%d", c.pieces)
}
