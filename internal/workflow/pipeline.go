package workflow

import (
	"log/slog"

	"babel/internal/concat"
	"babel/internal/config"
	"babel/internal/queue"
	"babel/internal/referencing"
	"babel/internal/synthesis"
	"babel/internal/transcription"
	"babel/internal/translation"
)

// Stage names used by CLI flags and logs.
const (
	StageTranscribe  = "transcribe"
	StageRefClips    = "refclips"
	StageTranslate   = "translate"
	StageSynthesize  = "synthesize"
	StageConcatenate = "concat"
)

// NewPipeline builds a manager with the full dubbing pipeline registered
// in order.
func NewPipeline(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*Manager, error) {
	m := NewManager(cfg, store, logger)

	if err := m.Register(StageTranscribe, queue.StatusPending, queue.StatusTranscribing, queue.StatusTranscribed,
		transcription.NewStage(cfg, store, logger)); err != nil {
		return nil, err
	}
	if err := m.Register(StageRefClips, queue.StatusTranscribed, queue.StatusReferencing, queue.StatusReferenced,
		referencing.NewStage(cfg, store, logger)); err != nil {
		return nil, err
	}
	if err := m.Register(StageTranslate, queue.StatusReferenced, queue.StatusTranslating, queue.StatusTranslated,
		translation.NewStage(cfg, store, logger)); err != nil {
		return nil, err
	}
	if err := m.Register(StageSynthesize, queue.StatusTranslated, queue.StatusSynthesizing, queue.StatusSynthesized,
		synthesis.NewStage(cfg, store, logger)); err != nil {
		return nil, err
	}
	if err := m.Register(StageConcatenate, queue.StatusSynthesized, queue.StatusConcatenating, queue.StatusCompleted,
		concat.NewStage(cfg, store, logger)); err != nil {
		return nil, err
	}
	return m, nil
}
