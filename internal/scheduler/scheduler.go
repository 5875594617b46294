// Package scheduler drives the periodic sweeps: the fast evaluator cycle
// and the slower reconcile-then-save cycle.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/fromcord/fromcord/internal/services/guildconfig"
	"github.com/fromcord/fromcord/internal/services/session"
)

const (
	// sweepSpec is the evaluator cadence
	sweepSpec = "@every 5s"

	// reconcileSpec is the reconcile-and-persist cadence. Cron never fires
	// at startup, so the first reconciliation always happens after the
	// stores have been loaded into memory.
	reconcileSpec = "@every 25s"
)

// Config holds the configuration for the scheduler
type Config struct {
	// Sessions is swept and persisted
	Sessions session.Service

	// GuildConfigs is persisted alongside the sessions
	GuildConfigs guildconfig.Service
}

// Scheduler owns the cron driving the sweeps.
type Scheduler struct {
	cron         *cron.Cron
	sessions     session.Service
	guildConfigs guildconfig.Service
}

// New creates a new scheduler. Jobs are skipped, not stacked, when a
// previous run of the same job is still going.
func New(cfg *Config) (*Scheduler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session service cannot be nil")
	}
	if cfg.GuildConfigs == nil {
		return nil, errors.New("guild config service cannot be nil")
	}

	s := &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		sessions:     cfg.Sessions,
		guildConfigs: cfg.GuildConfigs,
	}

	if _, err := s.cron.AddFunc(sweepSpec, s.sweep); err != nil {
		return nil, fmt.Errorf("failed to schedule evaluator sweep: %w", err)
	}
	if _, err := s.cron.AddFunc(reconcileSpec, s.reconcileAndSave); err != nil {
		return nil, fmt.Errorf("failed to schedule reconciliation: %w", err)
	}
	return s, nil
}

// Start starts the cron.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started", "sweep", sweepSpec, "reconcile", reconcileSpec)
}

// Stop stops the cron and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) sweep() {
	s.sessions.Sweep(context.Background())
}

// reconcileAndSave prunes before persisting so a dropped session never
// makes it back to disk.
func (s *Scheduler) reconcileAndSave() {
	ctx := context.Background()
	s.sessions.Reconcile(ctx)
	if err := s.sessions.Save(ctx); err != nil {
		slog.Error("failed to save sessions", "error", err)
	}
	if err := s.guildConfigs.Save(ctx); err != nil {
		slog.Error("failed to save guild configs", "error", err)
	}
}
