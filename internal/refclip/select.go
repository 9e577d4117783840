package refclip

import (
	"babel/internal/audio"
	"babel/internal/segment"
)

// Candidate is a segment clamped against the track bounds.
type Candidate struct {
	Seg     segment.Segment
	StartMS int
	EndMS   int
}

// Duration returns the clamped window length in seconds.
func (c Candidate) Duration() float64 {
	return float64(c.EndMS-c.StartMS) / 1000.0
}

// ScoredCandidate pairs a candidate with its quality measurements.
type ScoredCandidate struct {
	Candidate
	Metrics Metrics
	Score   float64
}

// selectBest scores the speaker's viable segments and returns the winner.
// Segments whose duration falls inside [MinSingleSeconds, MaxSeconds]
// form the candidate pool; when none qualify the full duration-sorted
// list is used instead, so the pool is never empty for a non-empty group
// and no rescue path is needed. Ties on score go to the longer original
// segment (the raw duration, not the clamped window).
func (e *Extractor) selectBest(track *audio.Track, segments []segment.Segment) ScoredCandidate {
	sorted := segment.SortByDurationDesc(segments)

	pool := make([]segment.Segment, 0, len(sorted))
	for _, seg := range sorted {
		if d := seg.Duration(); d >= e.tuning.MinSingleSeconds && d <= e.tuning.MaxSeconds {
			pool = append(pool, seg)
		}
	}
	if len(pool) == 0 {
		pool = sorted
	}

	trackMs := track.Milliseconds()
	maxMs := int(e.tuning.MaxSeconds * 1000)

	var best ScoredCandidate
	var bestTie float64
	haveBest := false
	for _, seg := range pool {
		startMs, endMs := clampBoundsMS(seg, trackMs, maxMs)
		cand := Candidate{Seg: seg, StartMS: startMs, EndMS: endMs}
		clip := track.ClipMS(startMs, endMs)
		score, metrics := e.scorer.Score(clip, cand.Duration())
		tie := seg.Duration()

		if !haveBest || score > best.Score || (score == best.Score && tie > bestTie) {
			best = ScoredCandidate{Candidate: cand, Metrics: metrics, Score: score}
			bestTie = tie
			haveBest = true
		}
	}
	return best
}
