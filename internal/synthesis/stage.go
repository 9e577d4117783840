package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"babel/internal/config"
	"babel/internal/logging"
	"babel/internal/queue"
	"babel/internal/refclip"
	"babel/internal/segment"
	"babel/internal/services"
	"babel/internal/services/indextts"
	"babel/internal/stage"
)

// Stage synthesizes one Chinese clip per segment with IndexTTS2, cloning
// each speaker's voice from their reference clip.
type Stage struct {
	store   *queue.Store
	service *indextts.Service
	logger  *slog.Logger
}

// NewStage constructs the synthesis stage from configuration.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Stage {
	service := indextts.NewService(indextts.Config{
		IndexTTSDir: cfg.TTS.IndexTTSDir,
	})
	return NewStageWithService(store, service, logger)
}

// NewStageWithService constructs the stage with a prebuilt service (used in tests).
func NewStageWithService(store *queue.Store, service *indextts.Service, logger *slog.Logger) *Stage {
	return &Stage{
		store:   store,
		service: service,
		logger:  logging.NewComponentLogger(logger, "synthesizer"),
	}
}

// Prepare validates the TTS install and reference clips, then primes progress.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if s == nil || s.service == nil {
		return services.Wrap(services.ErrConfiguration, "synthesis", "prepare", "synthesis stage is not configured", nil)
	}
	if err := s.service.CheckInstall(); err != nil {
		return services.Wrap(services.ErrConfiguration, "synthesis", "prepare", "IndexTTS2 install not found", err)
	}
	if strings.TrimSpace(item.RefPathsJSON) == "" {
		return services.Wrap(services.ErrValidation, "synthesis", "prepare", "item has no reference clips", nil)
	}
	item.InitProgress("Synthesizing", "Generating Chinese speech per segment")
	return s.store.UpdateProgress(ctx, item)
}

// Execute synthesizes every translated segment into a WAV clip.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	segments, err := segment.LoadTranscript(filepath.Join(item.WorkDir, segment.TranslationFile))
	if err != nil {
		return services.Wrap(services.ErrValidation, "synthesis", "load transcript", "translated transcript unavailable", err)
	}

	var refPaths map[string]string
	if err := json.Unmarshal([]byte(item.RefPathsJSON), &refPaths); err != nil {
		return services.Wrap(services.ErrValidation, "synthesis", "decode references", "reference paths unreadable", err)
	}
	if len(refPaths) == 0 {
		return services.Wrap(services.ErrValidation, "synthesis", "decode references", "no reference clips recorded", nil)
	}

	meta, err := refclip.LoadMetadata(item.WorkDir)
	if err != nil {
		logger.Warn("reference metadata unreadable", logging.Error(err))
	}
	prompts := clonePrompts(segments, refPaths, meta)
	for speaker, prompt := range prompts {
		logger.Debug("clone prompt",
			logging.String(logging.FieldSpeaker, speaker),
			logging.String("ref_text", prompt.RefText))
	}

	clips, err := s.service.Synthesize(ctx, segments, prompts, item.WorkDir)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "synthesis", "indextts", "speech synthesis failed", err)
	}
	if len(clips) != len(segments) {
		return services.Wrap(services.ErrExternalTool, "synthesis", "indextts",
			fmt.Sprintf("synthesized %d clips for %d segments", len(clips), len(segments)), nil)
	}

	logger.Info("synthesis complete", logging.Int("clips", len(clips)))
	item.SetProgress(100, fmt.Sprintf("Synthesized %d clips", len(clips)))
	return s.store.UpdateProgress(ctx, item)
}

// clonePrompts resolves the text spoken in each speaker's reference
// clip: ref_metadata.json first, then the speaker's first non-empty
// transcript text, then the placeholder.
func clonePrompts(segments []segment.Segment, refPaths map[string]string, meta map[string]refclip.MetadataEntry) map[string]indextts.ClonePrompt {
	prompts := make(map[string]indextts.ClonePrompt, len(refPaths))
	for speaker, path := range refPaths {
		refText := ""
		if entry, ok := meta[speaker]; ok {
			refText = strings.TrimSpace(entry.RefText)
		}
		if refText == "" {
			refText = segment.FirstText(segments, speaker)
		}
		if refText == "" {
			refText = indextts.DefaultText
		}
		prompts[speaker] = indextts.ClonePrompt{AudioPath: path, RefText: refText}
	}
	return prompts
}

// HealthCheck reports whether the IndexTTS2 checkout is present.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	const name = "synthesis"
	if s == nil || s.service == nil {
		return stage.Unhealthy(name, "stage not configured")
	}
	if err := s.service.CheckInstall(); err != nil {
		return stage.Unhealthy(name, err.Error())
	}
	return stage.Healthy(name)
}
