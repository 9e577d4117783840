package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"babel/internal/config"
	"babel/internal/logging"
	"babel/internal/queue"
	"babel/internal/services"
	"babel/internal/stage"
)

// pipelineStage binds a stage handler to its queue status transitions.
type pipelineStage struct {
	name       string
	trigger    queue.Status
	processing queue.Status
	done       queue.Status
	handler    stage.Handler
}

// Manager advances queue items through the dubbing pipeline one stage at
// a time, persisting status transitions around each handler call.
type Manager struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger

	stages    []pipelineStage
	byTrigger map[queue.Status]pipelineStage
	byName    map[string]pipelineStage
}

// NewManager constructs an empty manager; stages are attached via Register.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:       cfg,
		store:     store,
		logger:    logging.NewComponentLogger(logger, "workflow"),
		byTrigger: make(map[queue.Status]pipelineStage),
		byName:    make(map[string]pipelineStage),
	}
}

// Register attaches a stage handler keyed by the resting status that
// triggers it. Stages run in registration order.
func (m *Manager) Register(name string, trigger, processing, done queue.Status, handler stage.Handler) error {
	if handler == nil {
		return fmt.Errorf("workflow: stage %s has no handler", name)
	}
	if _, exists := m.byTrigger[trigger]; exists {
		return fmt.Errorf("workflow: status %s already has a stage", trigger)
	}
	ps := pipelineStage{name: name, trigger: trigger, processing: processing, done: done, handler: handler}
	m.stages = append(m.stages, ps)
	m.byTrigger[trigger] = ps
	m.byName[name] = ps
	return nil
}

// StageNames lists registered stages in pipeline order.
func (m *Manager) StageNames() []string {
	names := make([]string, 0, len(m.stages))
	for _, ps := range m.stages {
		names = append(names, ps.name)
	}
	return names
}

// Startup rolls interrupted items back to their resting statuses.
func (m *Manager) Startup(ctx context.Context) error {
	if err := m.store.RollbackProcessing(ctx); err != nil {
		return fmt.Errorf("workflow: rollback interrupted items: %w", err)
	}
	return nil
}

// ProcessItem runs every remaining stage for the item until it reaches a
// terminal status or a stage fails.
func (m *Manager) ProcessItem(ctx context.Context, item *queue.Item) error {
	for !item.Status.Terminal() {
		if err := ctx.Err(); err != nil {
			return err
		}
		ps, ok := m.byTrigger[item.Status]
		if !ok {
			return fmt.Errorf("workflow: no stage handles status %s", item.Status)
		}
		if err := m.runStage(ctx, ps, item); err != nil {
			return err
		}
	}
	return nil
}

// ProcessNext picks the oldest actionable item and runs it to completion.
// It returns false when the queue has no actionable items.
func (m *Manager) ProcessNext(ctx context.Context) (bool, error) {
	triggers := make([]queue.Status, 0, len(m.stages))
	for _, ps := range m.stages {
		triggers = append(triggers, ps.trigger)
	}
	item, err := m.store.NextForStatuses(ctx, triggers...)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}
	return true, m.ProcessItem(ctx, item)
}

// ProcessAll drains the queue, stopping at the first stage failure.
func (m *Manager) ProcessAll(ctx context.Context) error {
	for {
		advanced, err := m.ProcessNext(ctx)
		if err != nil {
			return err
		}
		if !advanced {
			return nil
		}
	}
}

// RunSingle runs exactly one named stage for the item. The item must be
// resting at the stage's trigger status.
func (m *Manager) RunSingle(ctx context.Context, item *queue.Item, stageName string) error {
	ps, ok := m.byName[stageName]
	if !ok {
		return fmt.Errorf("workflow: unknown stage %q", stageName)
	}
	if item.Status != ps.trigger {
		return fmt.Errorf("workflow: stage %s expects status %s, item is %s", stageName, ps.trigger, item.Status)
	}
	return m.runStage(ctx, ps, item)
}

func (m *Manager) runStage(ctx context.Context, ps pipelineStage, item *queue.Item) error {
	ctx = services.WithItemID(ctx, item.ID)
	ctx = services.WithStage(ctx, ps.name)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, m.logger)

	start := time.Now()
	item.Status = ps.processing
	item.ErrorMessage = ""
	item.ReviewReason = ""
	if err := m.store.Update(ctx, item); err != nil {
		return fmt.Errorf("workflow: persist %s transition: %w", ps.processing, err)
	}
	logger.Info("stage started", logging.String("status", string(ps.processing)))

	if err := ps.handler.Prepare(ctx, item); err != nil {
		m.failItem(ctx, logger, ps, item, err)
		return err
	}
	if err := m.store.Update(ctx, item); err != nil {
		return fmt.Errorf("workflow: persist %s preparation: %w", ps.name, err)
	}

	if err := ps.handler.Execute(ctx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("stage interrupted by shutdown")
			return err
		}
		m.failItem(ctx, logger, ps, item, err)
		return err
	}

	if item.Status == ps.processing {
		item.Status = ps.done
	}
	if err := m.store.Update(ctx, item); err != nil {
		return fmt.Errorf("workflow: persist %s result: %w", ps.name, err)
	}
	logger.Info("stage completed",
		logging.String("next_status", string(item.Status)),
		logging.Duration("stage_duration", time.Since(start)))
	return nil
}

func (m *Manager) failItem(ctx context.Context, logger *slog.Logger, ps pipelineStage, item *queue.Item, stageErr error) {
	resolved := services.FailureStatus(stageErr)
	message := strings.TrimSpace(stageErr.Error())
	item.Status = resolved
	if resolved == queue.StatusReview {
		item.ReviewReason = message
	} else {
		item.ErrorMessage = message
	}

	logger.Error("stage failed",
		logging.Alert("stage_failure"),
		logging.String("resolved_status", string(resolved)),
		logging.Error(stageErr))

	if err := m.store.Update(ctx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("shutdown before failure could be persisted")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}
}

// Health aggregates readiness across registered stages.
func (m *Manager) Health(ctx context.Context) []stage.Health {
	healths := make([]stage.Health, 0, len(m.stages))
	for _, ps := range m.stages {
		healths = append(healths, ps.handler.HealthCheck(ctx))
	}
	return healths
}
