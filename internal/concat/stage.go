package concat

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"babel/internal/config"
	"babel/internal/fileutil"
	"babel/internal/logging"
	"babel/internal/queue"
	"babel/internal/segment"
	"babel/internal/services"
	"babel/internal/services/indextts"
	"babel/internal/stage"
	"babel/internal/textutil"
)

// Stage assembles synthesized clips into the final dubbed episode MP3.
type Stage struct {
	cfg       *config.Config
	store     *queue.Store
	assembler *Assembler
	logger    *slog.Logger
}

// NewStage constructs the concatenation stage from configuration.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Stage {
	assembler := NewAssembler(Settings{
		MinGapMS:   cfg.Concat.MinGapMS,
		MaxGapMS:   cfg.Concat.MaxGapMS,
		FixedGapMS: cfg.Concat.FixedGapMS,
		Bitrate:    cfg.Concat.Bitrate,
	}, cfg.FFmpegBinary())
	return NewStageWithAssembler(cfg, store, assembler, logger)
}

// NewStageWithAssembler constructs the stage with a prebuilt assembler (used in tests).
func NewStageWithAssembler(cfg *config.Config, store *queue.Store, assembler *Assembler, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:       cfg,
		store:     store,
		assembler: assembler,
		logger:    logging.NewComponentLogger(logger, "assembler"),
	}
}

// Prepare verifies synthesized clips exist and primes progress.
func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	if s == nil || s.assembler == nil {
		return services.Wrap(services.ErrConfiguration, "concat", "prepare", "concat stage is not configured", nil)
	}
	clips, err := listClips(item.WorkDir)
	if err != nil || len(clips) == 0 {
		return services.Wrap(services.ErrValidation, "concat", "prepare", "no synthesized clips found", err)
	}
	item.InitProgress("Assembling", "Joining clips into the final episode")
	return s.store.UpdateProgress(ctx, item)
}

// Execute builds the padded timeline and exports the episode MP3.
func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	segments, err := segment.LoadTranscript(filepath.Join(item.WorkDir, segment.TranslationFile))
	if err != nil {
		return services.Wrap(services.ErrValidation, "concat", "load transcript", "translated transcript unavailable", err)
	}
	clips, err := listClips(item.WorkDir)
	if err != nil {
		return services.Wrap(services.ErrValidation, "concat", "list clips", "synthesized clips unavailable", err)
	}

	name := outputName(item.SourcePath)
	stagedPath := filepath.Join(item.WorkDir, name)
	if err := s.assembler.Assemble(ctx, clips, segments, stagedPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "concat", "assemble", "episode assembly failed", err)
	}

	outputPath := filepath.Join(s.cfg.Paths.OutputDir, name)
	if err := os.MkdirAll(s.cfg.Paths.OutputDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "concat", "publish", "create output directory", err)
	}
	if err := fileutil.CopyFileVerified(stagedPath, outputPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "concat", "publish", "copy episode to output", err)
	}
	_ = os.Remove(stagedPath)

	item.OutputPath = outputPath
	logger.Info("episode assembled",
		logging.Int("clips", len(clips)),
		logging.String("output", outputPath))
	item.SetProgress(100, fmt.Sprintf("Wrote %s", filepath.Base(outputPath)))
	return s.store.UpdateProgress(ctx, item)
}

// HealthCheck verifies ffmpeg is available for MP3 export.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	const name = "concat"
	if s == nil || s.assembler == nil {
		return stage.Unhealthy(name, "stage not configured")
	}
	if _, err := exec.LookPath(s.cfg.FFmpegBinary()); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("ffmpeg not found: %v", err))
	}
	return stage.Healthy(name)
}

// listClips returns the synthesized clip paths in segment order.
func listClips(workDir string) ([]string, error) {
	pattern := filepath.Join(workDir, indextts.ClipsDirName, "seg_*.wav")
	clips, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(clips)
	return clips, nil
}

// outputName derives the dubbed episode filename from the source audio.
func outputName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return textutil.SanitizeFileName(stem) + "_zh.mp3"
}
