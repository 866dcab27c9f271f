// Package revalidate triggers background refreshes of subscribed
// queries.
//
// The revalidate package follows go-datasync conventions:
// - Interface-driven design for testability
// - Uses logger.Logger interface for unified logging
// - Uses routine package for safe goroutine execution
// - Configuration with validation and defaults
// - Structured error handling
//
// A scheduler fires a target on any combination of four triggers: a
// fixed interval, a cron schedule, and focus/reconnect signals from the
// host environment. Triggered revalidations honor the query's freshness
// window, so overlapping triggers collapse instead of stampeding.
package revalidate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mybudget/go-datasync/logger"
	"github.com/mybudget/go-datasync/routine"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Target is the refresh to run on every trigger, typically a handle
// revalidation. It runs on scheduler goroutines and should respect the
// context.
type Target func(ctx context.Context)

// Scheduler drives one target from the configured triggers. Start it
// once; Stop releases every ticker, cron entry and signal subscription.
type Scheduler struct {
	// Dependencies
	logger logger.Logger
	target Target

	// Configuration
	name        string
	interval    time.Duration
	cronSpec    string
	onFocus     bool
	onReconnect bool
	source      SignalSource

	// Runtime state
	cron    *cron.Cron
	unsub   func()
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started atomic.Bool
	once    sync.Once // Ensures Stop is only executed once
}

// New creates a scheduler. It returns an error if the configuration is
// invalid or the target is nil.
func New(log logger.Logger, cfg *Config, target Target) (*Scheduler, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		defaults := DefaultConfig()
		if cfg.Name == "" {
			cfg.Name = defaults.Name
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNilTarget
	}

	return &Scheduler{
		logger:      log,
		target:      target,
		name:        cfg.Name,
		interval:    cfg.Interval,
		cronSpec:    cfg.CronSpec,
		onFocus:     cfg.OnFocus,
		onReconnect: cfg.OnReconnect,
		source:      cfg.Source,
	}, nil
}

// Start arms the configured triggers. It must be called at most once.
func (s *Scheduler) Start() error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())

	if s.interval > 0 {
		s.wg.Add(1)
		routine.GoNamedWithContext(s.ctx, s.logger, s.name+"-interval", func(ctx context.Context) {
			defer s.wg.Done()

			ticker := time.NewTicker(s.interval)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					s.fire(ctx, "interval")
				case <-ctx.Done():
					return
				}
			}
		})
	}

	if s.cronSpec != "" {
		c := cron.New(cron.WithSeconds())
		if _, err := c.AddFunc(s.cronSpec, func() {
			s.fire(s.ctx, "cron")
		}); err != nil {
			s.cancel()
			return ErrInvalidCronSpec(s.cronSpec, err)
		}
		c.Start()
		s.cron = c
	}

	if s.onFocus || s.onReconnect {
		signals, unsub := s.source.Subscribe()
		s.unsub = unsub

		s.wg.Add(1)
		routine.GoNamedWithContext(s.ctx, s.logger, s.name+"-signals", func(ctx context.Context) {
			defer s.wg.Done()

			for {
				select {
				case sig, ok := <-signals:
					if !ok {
						return
					}
					if sig == SignalFocus && !s.onFocus {
						continue
					}
					if sig == SignalReconnect && !s.onReconnect {
						continue
					}
					s.fire(ctx, sig.String())
				case <-ctx.Done():
					return
				}
			}
		})
	}

	s.logger.Debug("scheduler started",
		zap.String("scheduler", s.name),
		zap.Duration("interval", s.interval),
		zap.String("cron", s.cronSpec),
		zap.Bool("on_focus", s.onFocus),
		zap.Bool("on_reconnect", s.onReconnect),
	)
	return nil
}

// Stop disarms every trigger and waits for running loops to exit. It
// can be called multiple times safely.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		if s.cron != nil {
			// wait for any job mid-run before returning
			<-s.cron.Stop().Done()
		}
		if s.unsub != nil {
			s.unsub()
		}
		s.wg.Wait()

		s.logger.Debug("scheduler stopped", zap.String("scheduler", s.name))
	})
}

// fire runs the target for one trigger.
func (s *Scheduler) fire(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	s.logger.Debug("revalidation triggered",
		zap.String("scheduler", s.name),
		zap.String("trigger", trigger),
	)
	s.target(ctx)
}
