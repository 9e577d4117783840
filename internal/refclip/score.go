package refclip

import (
	"math"
	"sort"

	"babel/internal/audio"
)

// Metrics records the signal-quality measurements behind a score. Every
// scoring path produces a fully populated record, even for silent or
// degenerate clips, so candidates always stay comparable.
type Metrics struct {
	SpeechRatio   float64 `json:"speech_ratio"`
	SNRDB         float64 `json:"snr_db"`
	LoudnessDBFS  float64 `json:"loudness_dbfs"`
	DurationScore float64 `json:"duration_score"`
	ClipRatio     float64 `json:"clip_ratio"`
}

// Scorer turns a clip's frame-loudness profile and duration into a
// composite quality score. Scoring never fails; the worst inputs simply
// score badly (possibly below zero).
type Scorer struct {
	tuning Tuning
}

// NewScorer builds a Scorer with the given tuning.
func NewScorer(tuning Tuning) *Scorer {
	return &Scorer{tuning: tuning}
}

// Score evaluates one candidate clip. durationS is the clip duration in
// seconds after clamping.
func (s *Scorer) Score(clip audio.Clip, durationS float64) (float64, Metrics) {
	t := s.tuning

	levels := audio.FrameProfile(clip, t.FrameMs, t.HopMs)
	for i, v := range levels {
		if !isFinite(v) {
			levels[i] = t.SilenceFloorDBFS
		}
	}
	if len(levels) == 0 {
		return -1.0, Metrics{
			SpeechRatio:   0,
			SNRDB:         0,
			LoudnessDBFS:  t.SilenceFloorDBFS,
			DurationScore: s.durationScore(durationS),
			ClipRatio:     1,
		}
	}

	noiseFloor := percentile(levels, 20)
	maxLevel := levels[0]
	for _, v := range levels[1:] {
		if v > maxLevel {
			maxLevel = v
		}
	}

	speechThreshold := math.Max(noiseFloor+t.SpeechMarginDB, t.SpeechFloorDBFS)
	speechThreshold = math.Min(speechThreshold, maxLevel-t.SpeechHeadroomDB)

	var speechCount int
	var speechSum float64
	for _, v := range levels {
		if v >= speechThreshold {
			speechCount++
			speechSum += v
		}
	}
	speechRatio := float64(speechCount) / float64(len(levels))
	speechLevel := maxLevel
	if speechCount > 0 {
		speechLevel = speechSum / float64(speechCount)
	}

	noiseLevel := percentile(levels, 10)
	snrDB := math.Max(0, speechLevel-noiseLevel)
	// A tiny voiced fraction can fake a high SNR; weight it down.
	snrScore := normalize(snrDB, t.SNRLowDB, t.SNRHighDB) * speechRatio

	loudness := clip.DBFS()
	if !isFinite(loudness) {
		loudness = t.SilenceFloorDBFS
	}
	loudnessScore := 1.0 - math.Min(math.Abs(loudness-t.LoudnessTargetDBFS)/t.LoudnessWindowDB, 1.0)

	durationScore := s.durationScore(durationS)

	clipRatio := clippedRatio(clip, t.ClipLevelRatio)
	clipPenalty := math.Min(1.0, clipRatio/t.ClipSaturationRatio)

	score := t.SpeechWeight*speechRatio +
		t.SNRWeight*snrScore +
		t.LoudnessWeight*loudnessScore +
		t.DurationWeight*durationScore -
		t.ClipWeight*clipPenalty

	if durationS < t.ShortClipSeconds {
		score -= t.ShortClipPenalty
	}
	if speechRatio < t.LowSpeechRatio {
		score -= t.LowSpeechPenalty
	}

	return score, Metrics{
		SpeechRatio:   speechRatio,
		SNRDB:         snrDB,
		LoudnessDBFS:  loudness,
		DurationScore: durationScore,
		ClipRatio:     clipRatio,
	}
}

// durationScore prefers 4-8s clips: a linear ramp up from zero, a flat
// plateau, then a linear ramp back down that bottoms out at 12s.
func (s *Scorer) durationScore(durationS float64) float64 {
	switch {
	case durationS <= 0:
		return 0
	case durationS >= 4.0 && durationS <= 8.0:
		return 1
	case durationS < 4.0:
		return math.Max(0, durationS/4.0)
	default:
		return math.Max(0, 1.0-(durationS-8.0)/4.0)
	}
}

// clippedRatio reports the fraction of samples at or above levelRatio of
// full scale, a cheap proxy for waveform clipping.
func clippedRatio(clip audio.Clip, levelRatio float64) float64 {
	samples := clip.Samples()
	if len(samples) == 0 {
		return 1
	}
	threshold := float64(clip.MaxAmplitude()) * levelRatio
	if threshold <= 0 {
		return 0
	}
	clipped := 0
	for _, v := range samples {
		if math.Abs(float64(v)) >= threshold {
			clipped++
		}
	}
	return float64(clipped) / float64(len(samples))
}

// percentile returns the p-th percentile of values using linear
// interpolation between the two nearest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}

	idx := float64(len(sorted)-1) * (p / 100.0)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1.0-frac) + sorted[hi]*frac
}

// normalize maps value from [low, high] onto [0, 1], clamping outside.
func normalize(value, low, high float64) float64 {
	if high <= low {
		return 0
	}
	scaled := (value - low) / (high - low)
	return math.Max(0, math.Min(1, scaled))
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
