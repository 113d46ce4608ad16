package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/nexus/usecase"
	"github.com/fastygo/nexus/usecase/insight"
)

// Analyzer produces and caches an insight for the current session.
type Analyzer interface {
	Analyze(ctx context.Context) insight.Insight
}

// ConnectionHealth abstracts the storage monitor.
type ConnectionHealth interface {
	IsOnline() bool
}

type DigestConfig struct {
	Interval time.Duration
	// Timeout bounds a single run. Defaults to the interval.
	Timeout time.Duration
}

// DigestJob refreshes the cached insight on a fixed schedule.
type DigestJob struct {
	analyzer Analyzer
	session  usecase.CurrentUser
	monitor  ConnectionHealth
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      DigestConfig
}

// NewDigestJob returns nil when the interval is not positive, which disables the job.
func NewDigestJob(
	analyzer Analyzer,
	session usecase.CurrentUser,
	monitor ConnectionHealth,
	logger *zap.Logger,
	cfg DigestConfig,
) *DigestJob {
	if cfg.Interval <= 0 {
		return nil
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	job := &DigestJob{
		analyzer: analyzer,
		session:  session,
		monitor:  monitor,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	if _, err := job.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		job.Run(ctx)
	}); err != nil {
		logger.Error("invalid digest schedule", zap.String("schedule", schedule), zap.Error(err))
	}

	return job
}

// Start launches the cron scheduler.
func (j *DigestJob) Start() {
	if j == nil || j.cron == nil {
		return
	}
	j.cron.Start()
	j.logger.Info("insight digest started", zap.Duration("interval", j.cfg.Interval))
}

// Stop waits for a running digest or ctx, whichever ends first.
func (j *DigestJob) Stop(ctx context.Context) {
	if j == nil || j.cron == nil {
		return
	}
	stopCtx := j.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	j.logger.Info("insight digest stopped")
}

// Run performs one digest synchronously. It reports whether the analyzer was called.
func (j *DigestJob) Run(ctx context.Context) bool {
	if j == nil || j.analyzer == nil {
		return false
	}
	if j.session != nil && j.session.Current() == nil {
		j.logger.Debug("skipping insight digest (no session)")
		return false
	}
	if j.monitor != nil && !j.monitor.IsOnline() {
		j.logger.Debug("skipping insight digest (storage offline)")
		return false
	}

	result := j.analyzer.Analyze(ctx)
	level := zap.InfoLevel
	if result.Outcome == insight.OutcomeFailed {
		level = zap.WarnLevel
	}
	j.logger.Log(level, "insight digest refreshed", zap.String("outcome", result.Outcome))
	return true
}
