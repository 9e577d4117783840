package referencing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"

	"babel/internal/audio"
	"babel/internal/config"
	"babel/internal/logging"
	"babel/internal/queue"
	"babel/internal/refclip"
	"babel/internal/segment"
	"babel/internal/services"
	"babel/internal/stage"
)

// Stage selects one reference clip per speaker from the source audio and
// records the resulting clip paths on the queue item.
type Stage struct {
	cfg       *config.Config
	store     *queue.Store
	extractor *refclip.Extractor
	logger    *slog.Logger
}

// NewStage constructs the reference clip stage from configuration.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Stage {
	loader := audio.NewLoader(cfg.FFmpegBinary())
	extractor := refclip.NewExtractor(TuningFromConfig(cfg.RefClip), loader, logger)
	return NewStageWithExtractor(cfg, store, extractor, logger)
}

// NewStageWithExtractor constructs the stage with a prebuilt extractor (used in tests).
func NewStageWithExtractor(cfg *config.Config, store *queue.Store, extractor *refclip.Extractor, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:       cfg,
		store:     store,
		extractor: extractor,
		logger:    logging.NewComponentLogger(logger, "referencer"),
	}
}

// TuningFromConfig maps the [ref_clip] config section onto scoring tuning.
func TuningFromConfig(rc config.RefClip) refclip.Tuning {
	return refclip.Tuning{
		MinSingleSeconds:    rc.MinClipSeconds,
		MaxSeconds:          rc.MaxClipSeconds,
		ComposeGapMs:        rc.ComposeGapMS,
		FrameMs:             rc.FrameMS,
		HopMs:               rc.HopMS,
		SilenceFloorDBFS:    rc.SilenceFloorDBFS,
		SpeechMarginDB:      rc.SpeechMarginDB,
		SpeechFloorDBFS:     rc.SpeechFloorDBFS,
		SpeechHeadroomDB:    rc.SpeechHeadroomDB,
		SNRLowDB:            rc.SNRLowDB,
		SNRHighDB:           rc.SNRHighDB,
		LoudnessTargetDBFS:  rc.LoudnessTargetDBFS,
		LoudnessWindowDB:    rc.LoudnessWindowDB,
		ClipLevelRatio:      rc.ClipLevelRatio,
		ClipSaturationRatio: rc.ClipSaturationRatio,
		SpeechWeight:        rc.SpeechWeight,
		SNRWeight:           rc.SNRWeight,
		LoudnessWeight:      rc.LoudnessWeight,
		DurationWeight:      rc.DurationWeight,
		ClipWeight:          rc.ClipWeight,
		ShortClipSeconds:    rc.ShortClipSeconds,
		ShortClipPenalty:    rc.ShortClipPenalty,
		LowSpeechRatio:      rc.LowSpeechRatio,
		LowSpeechPenalty:    rc.LowSpeechPenalty,
	}
}

// Prepare validates the transcript exists and primes progress.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if s == nil || s.extractor == nil {
		return services.Wrap(services.ErrConfiguration, "referencing", "prepare", "reference stage is not configured", nil)
	}
	if item.WorkDir == "" {
		return services.Wrap(services.ErrValidation, "referencing", "prepare", "item has no work directory", nil)
	}
	item.InitProgress("Selecting references", "Scoring candidate clips per speaker")
	return s.store.UpdateProgress(ctx, item)
}

// Execute extracts one reference clip per speaker.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	transcriptPath := filepath.Join(item.WorkDir, segment.TranscriptionFile)
	segments, err := segment.LoadTranscript(transcriptPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "referencing", "load transcript", "transcript unavailable", err)
	}

	refPaths, err := s.extractor.Extract(ctx, item.SourcePath, segments, item.WorkDir)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "referencing", "extract", "reference extraction failed", err)
	}
	if len(refPaths) == 0 {
		return services.Wrap(services.ErrValidation, "referencing", "extract", "no speakers produced reference clips", nil)
	}

	encoded, err := json.Marshal(refPaths)
	if err != nil {
		return fmt.Errorf("encode reference paths: %w", err)
	}
	item.RefPathsJSON = string(encoded)

	logger.Info("reference clips selected", logging.Int("speakers", len(refPaths)))
	item.SetProgress(100, fmt.Sprintf("Selected reference clips for %d speakers", len(refPaths)))
	return s.store.UpdateProgress(ctx, item)
}

// HealthCheck verifies ffmpeg is available for audio decoding.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	const name = "referencing"
	if s == nil || s.extractor == nil {
		return stage.Unhealthy(name, "stage not configured")
	}
	if _, err := exec.LookPath(s.cfg.FFmpegBinary()); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("ffmpeg not found: %v", err))
	}
	return stage.Healthy(name)
}
