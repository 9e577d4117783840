package translation

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"babel/internal/config"
	"babel/internal/logging"
	"babel/internal/queue"
	"babel/internal/segment"
	"babel/internal/services"
	"babel/internal/services/translate"
	"babel/internal/stage"
)

// Stage translates the English transcript into Chinese using the
// configured chat-completion provider.
type Stage struct {
	store  *queue.Store
	client *translate.Client
	logger *slog.Logger
}

// NewStage constructs the translation stage from configuration.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Stage {
	client := translate.NewClient(translate.Config{
		Provider:       cfg.Translation.Provider,
		APIKey:         cfg.Translation.APIKey,
		BaseURL:        cfg.Translation.BaseURL,
		Model:          cfg.Translation.Model,
		Temperature:    cfg.Translation.Temperature,
		BatchSize:      cfg.Translation.BatchSize,
		TimeoutSeconds: cfg.Translation.TimeoutSeconds,
		MaxRetries:     cfg.Translation.MaxRetries,
	})
	return NewStageWithClient(store, client, logger)
}

// NewStageWithClient constructs the stage with a prebuilt client (used in tests).
func NewStageWithClient(store *queue.Store, client *translate.Client, logger *slog.Logger) *Stage {
	return &Stage{
		store:  store,
		client: client,
		logger: logging.NewComponentLogger(logger, "translator"),
	}
}

// Prepare checks provider credentials and primes progress.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if s == nil || s.client == nil {
		return services.Wrap(services.ErrConfiguration, "translation", "prepare", "translation stage is not configured", nil)
	}
	if err := s.client.HealthCheck(); err != nil {
		return services.Wrap(services.ErrConfiguration, "translation", "prepare", "translation provider not ready", err)
	}
	item.InitProgress("Translating", "Translating transcript to Chinese")
	return s.store.UpdateProgress(ctx, item)
}

// Execute translates the transcript and writes the translated copy.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	segments, err := segment.LoadTranscript(filepath.Join(item.WorkDir, segment.TranscriptionFile))
	if err != nil {
		return services.Wrap(services.ErrValidation, "translation", "load transcript", "transcript unavailable", err)
	}

	translated, err := s.client.Segments(ctx, logger, segments)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "translation", "provider", "translation request failed", err)
	}

	outPath := filepath.Join(item.WorkDir, segment.TranslationFile)
	if err := segment.SaveTranscript(outPath, translated); err != nil {
		return services.Wrap(services.ErrExternalTool, "translation", "save", "write translated transcript", err)
	}

	logger.Info("translation complete", logging.Int("segments", len(translated)))
	item.SetProgress(100, fmt.Sprintf("Translated %d segments", len(translated)))
	return s.store.UpdateProgress(ctx, item)
}

// HealthCheck reports whether the provider is configured.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	const name = "translation"
	if s == nil || s.client == nil {
		return stage.Unhealthy(name, "stage not configured")
	}
	if err := s.client.HealthCheck(); err != nil {
		return stage.Unhealthy(name, err.Error())
	}
	return stage.Healthy(name)
}
