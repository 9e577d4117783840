package refclip

import (
	"context"
	"log/slog"
	"strings"

	"babel/internal/audio"
	"babel/internal/logging"
	"babel/internal/segment"
	"babel/internal/services"
)

// Reference is the selected clip for one speaker, ready for export.
type Reference struct {
	Speaker  string
	Duration float64
	Mode     string
	Score    float64
	Metrics  Metrics
	RefText  string

	clip     audio.Clip   // single-segment reference
	composed *audio.Track // stitched fallback reference
}

func (r Reference) export(path string) error {
	if r.composed != nil {
		return audio.EncodeWAV(path, r.composed)
	}
	return audio.EncodeClipWAV(path, r.clip)
}

// Extractor selects one reference clip per speaker from the source
// audio. Selection is a pure function of the track and the segment set:
// no randomness, no hidden state.
type Extractor struct {
	tuning Tuning
	scorer *Scorer
	loader *audio.Loader
	logger *slog.Logger
}

// NewExtractor builds an Extractor with the given tuning and loader.
func NewExtractor(tuning Tuning, loader *audio.Loader, logger *slog.Logger) *Extractor {
	if loader == nil {
		loader = audio.NewLoader("")
	}
	return &Extractor{
		tuning: tuning,
		scorer: NewScorer(tuning),
		loader: loader,
		logger: logging.NewComponentLogger(logger, "refclip"),
	}
}

// Extract picks a reference clip per speaker and writes the clips plus
// metadata under <workDir>/ref_audio. It returns the speaker-to-path
// mapping. An empty segment set or an undecodable source is fatal; per
// speaker selection itself cannot fail once those hold.
func (e *Extractor) Extract(ctx context.Context, sourcePath string, segments []segment.Segment, workDir string) (map[string]string, error) {
	if err := segment.ValidateAll(segments); err != nil {
		return nil, services.Wrap(services.ErrValidation, "refclip", "validate segments", "Transcript segments missing or malformed", err)
	}

	track, err := e.loader.Load(ctx, sourcePath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "refclip", "decode source", "Source audio could not be decoded", err)
	}

	writer, err := NewWriter(workDir)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "refclip", "prepare output", "Reference audio directory unavailable", err)
	}

	groups := segment.GroupBySpeaker(segments)
	for _, speaker := range segment.Speakers(segments) {
		ref := e.selectReference(track, speaker, groups[speaker])
		if err := writer.Add(ref); err != nil {
			return nil, services.Wrap(services.ErrExternalTool, "refclip", "write reference", "Reference clip could not be written", err)
		}
		e.logger.Info("reference clip selected",
			logging.String("speaker", speaker),
			logging.String("mode", ref.Mode),
			logging.Float64("duration_s", ref.Duration),
			logging.Float64("score", ref.Score),
			logging.Float64("speech_ratio", ref.Metrics.SpeechRatio),
			logging.Float64("snr_db", ref.Metrics.SNRDB),
		)
	}

	paths, err := writer.Flush()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "refclip", "write metadata", "Reference metadata could not be written", err)
	}
	return paths, nil
}

// selectReference picks the best single segment, or stitches short ones
// when no single segment can carry a reference.
func (e *Extractor) selectReference(track *audio.Track, speaker string, group []segment.Segment) Reference {
	if e.needsComposition(group) {
		comp := e.compose(track, group)
		return Reference{
			Speaker:  speaker,
			Duration: comp.track.Seconds(),
			Mode:     comp.mode(),
			Score:    comp.score,
			Metrics:  comp.metrics,
			RefText:  comp.refText,
			composed: comp.track,
		}
	}

	best := e.selectBest(track, group)
	return Reference{
		Speaker:  speaker,
		Duration: best.Duration(),
		Mode:     "single",
		Score:    best.Score,
		Metrics:  best.Metrics,
		RefText:  strings.TrimSpace(best.Seg.Text),
		clip:     track.ClipMS(best.StartMS, best.EndMS),
	}
}
