package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"babel/internal/config"
	"babel/internal/logging"
	"babel/internal/queue"
	"babel/internal/workflow"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

// withStore opens the queue store for the duration of fn.
func (c *commandContext) withStore(fn func(*config.Config, *queue.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := queue.Open(cfg.QueueDBPath())
	if err != nil {
		return fmt.Errorf("open queue: %w", err)
	}
	defer store.Close()
	return fn(cfg, store)
}

// withPipeline opens the store, takes the work-dir lock, and builds the
// full stage pipeline before invoking fn. The lock serializes pipeline
// runs against the same work directory.
func (c *commandContext) withPipeline(fn func(*config.Config, *queue.Store, *workflow.Manager) error) error {
	return c.withStore(func(cfg *config.Config, store *queue.Store) error {
		lock := flock.New(filepath.Join(cfg.Paths.WorkDir, "babel.lock"))
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire pipeline lock: %w", err)
		}
		if !locked {
			return fmt.Errorf("another babel run is already processing %s", cfg.Paths.WorkDir)
		}
		defer lock.Unlock()

		logger, err := c.newLogger()
		if err != nil {
			return err
		}
		manager, err := workflow.NewPipeline(cfg, store, logger)
		if err != nil {
			return err
		}
		return fn(cfg, store, manager)
	})
}
