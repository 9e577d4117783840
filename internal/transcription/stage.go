package transcription

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"babel/internal/config"
	"babel/internal/logging"
	"babel/internal/queue"
	"babel/internal/segment"
	"babel/internal/services"
	"babel/internal/services/whisperx"
	"babel/internal/stage"
)

// Stage runs WhisperX transcription with speaker diarization on the
// source audio and writes the transcript into the item work directory.
type Stage struct {
	cfg     *config.Config
	store   *queue.Store
	service *whisperx.Service
	logger  *slog.Logger
}

// NewStage constructs the transcription stage from configuration.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Stage {
	service := whisperx.NewService(whisperx.Config{
		Model:       cfg.WhisperX.Model,
		Language:    cfg.WhisperX.Language,
		CUDAEnabled: cfg.WhisperX.CUDAEnabled,
		VADMethod:   cfg.WhisperX.VADMethod,
		HFToken:     cfg.WhisperX.HuggingFaceToken,
		CacheDir:    cfg.WhisperX.CacheDir,
	}, cfg.FFmpegBinary())
	return NewStageWithService(cfg, store, service, logger)
}

// NewStageWithService constructs the stage with a prebuilt service (used in tests).
func NewStageWithService(cfg *config.Config, store *queue.Store, service *whisperx.Service, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:     cfg,
		store:   store,
		service: service,
		logger:  logging.NewComponentLogger(logger, "transcriber"),
	}
}

// Prepare provisions a work directory for the item and primes progress.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if s == nil || s.service == nil {
		return services.Wrap(services.ErrConfiguration, "transcription", "prepare", "transcription stage is not configured", nil)
	}
	if item.SourcePath == "" {
		return services.Wrap(services.ErrValidation, "transcription", "prepare", "item has no source path", nil)
	}
	if _, err := os.Stat(item.SourcePath); err != nil {
		return services.Wrap(services.ErrNotFound, "transcription", "prepare", fmt.Sprintf("source audio missing: %s", item.SourcePath), err)
	}
	if item.WorkDir == "" {
		item.WorkDir = filepath.Join(s.cfg.Paths.WorkDir, fmt.Sprintf("item-%d", item.ID))
	}
	if err := os.MkdirAll(item.WorkDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "transcription", "prepare", "create work directory", err)
	}
	item.InitProgress("Transcribing", fmt.Sprintf("Transcribing with WhisperX (%s)", s.service.Model()))
	return s.store.UpdateProgress(ctx, item)
}

// Execute transcribes the source audio and persists the transcript.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)
	if !s.service.DiarizationEnabled() {
		logger.Warn("no hugging face token configured, diarization disabled",
			logging.String("fallback_speaker", whisperx.FallbackSpeaker))
	}

	segments, err := s.service.Transcribe(ctx, item.SourcePath, item.WorkDir)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "transcription", "whisperx", "transcription failed", err)
	}
	if len(segments) == 0 {
		return services.Wrap(services.ErrValidation, "transcription", "whisperx", "transcript contains no usable segments", nil)
	}

	transcriptPath := filepath.Join(item.WorkDir, segment.TranscriptionFile)
	if err := segment.SaveTranscript(transcriptPath, segments); err != nil {
		return services.Wrap(services.ErrExternalTool, "transcription", "save", "write transcript", err)
	}

	speakers := segment.Speakers(segments)
	logger.Info("transcription complete",
		logging.Int("segments", len(segments)),
		logging.Int("speakers", len(speakers)))
	item.SetProgress(100, fmt.Sprintf("Transcribed %d segments across %d speakers", len(segments), len(speakers)))
	return s.store.UpdateProgress(ctx, item)
}

// HealthCheck verifies the uvx launcher is available.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	const name = "transcription"
	if s == nil || s.service == nil {
		return stage.Unhealthy(name, "stage not configured")
	}
	if _, err := exec.LookPath(s.cfg.UvxBinary()); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("uvx not found: %v", err))
	}
	if _, err := exec.LookPath(s.cfg.FFmpegBinary()); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("ffmpeg not found: %v", err))
	}
	return stage.Healthy(name)
}
