// Package jobs holds the background maintenance run on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Reconciler repairs institution decisions that were only partially applied
type Reconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

// TokenCleaner removes refresh tokens that can no longer be used
type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// Sweeper runs the maintenance pass on a schedule. Overlapping runs are skipped.
type Sweeper struct {
	cron       *cron.Cron
	reconciler Reconciler
	tokens     TokenCleaner
	timeout    time.Duration
	logger     zerolog.Logger
}

// NewSweeper parses schedule (standard cron or "@every 15m") and registers the pass
func NewSweeper(schedule string, reconciler Reconciler, tokens TokenCleaner, logger zerolog.Logger) (*Sweeper, error) {
	cl := cronLogger{logger: logger}
	s := &Sweeper{
		cron:       cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		reconciler: reconciler,
		tokens:     tokens,
		timeout:    4 * time.Minute,
		logger:     logger,
	}
	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RunOnce(ctx)
	}); err != nil {
		return nil, fmt.Errorf("invalid sweeper schedule %q: %w", schedule, err)
	}
	return s, nil
}

// RunOnce performs one pass. Each step logs its own failure and does not stop the other.
func (s *Sweeper) RunOnce(ctx context.Context) Result {
	var res Result

	repaired, err := s.reconciler.Reconcile(ctx)
	res.Repaired = repaired
	if err != nil {
		res.Errors = append(res.Errors, err)
		s.logger.Error().Err(err).Int("repaired", repaired).Msg("Institution decision sweep finished with errors")
	}

	removed, err := s.tokens.CleanupExpiredTokens(ctx)
	res.TokensRemoved = removed
	if err != nil {
		res.Errors = append(res.Errors, err)
		s.logger.Error().Err(err).Msg("Refresh token cleanup failed")
	}

	s.logger.Debug().Int("repaired", res.Repaired).Int64("tokensRemoved", res.TokensRemoved).Msg("Sweep complete")
	return res
}

// Result summarises one pass
type Result struct {
	Repaired      int
	TokensRemoved int64
	Errors        []error
}

// Start runs the schedule in its own goroutine
func (s *Sweeper) Start() {
	s.cron.Start()
	s.logger.Info().Msg("Sweeper started")
}

// Stop prevents new runs and waits for a running pass or ctx, whichever ends first
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("Sweeper stopped before the running pass finished")
	}
}

// cronLogger routes cron's own messages to zerolog
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
