package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/config"
)

// Reloader refreshes the data sheet records.
type Reloader interface {
	Reload(ctx context.Context) (int, error)
}

// Summarizer produces the weekly hatch summary text.
type Summarizer interface {
	WeeklySummary(now time.Time) string
}

// Notifier delivers the weekly summary.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron       *cron.Cron
	reloader   Reloader
	summarizer Summarizer
	notifier   Notifier
	cfg        config.ScheduleConfig
	loc        *time.Location
	logger     *zap.Logger
}

// NewScheduler creates a new scheduler instance running in loc. A nil
// notifier disables the weekly summary job.
func NewScheduler(cfg config.ScheduleConfig, loc *time.Location, reloader Reloader, summarizer Summarizer, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		reloader:   reloader,
		summarizer: summarizer,
		notifier:   notifier,
		cfg:        cfg,
		loc:        loc,
		logger:     logger,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.RefreshCron, s.refresh); err != nil {
		return fmt.Errorf("schedule refresh %q: %w", s.cfg.RefreshCron, err)
	}

	if s.notifier != nil && s.summarizer != nil && s.cfg.ReportCron != "" {
		if _, err := s.cron.AddFunc(s.cfg.ReportCron, s.sendWeeklySummary); err != nil {
			return fmt.Errorf("schedule weekly summary %q: %w", s.cfg.ReportCron, err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	count, err := s.reloader.Reload(ctx)
	if err != nil {
		// The reloader logs and notifies on its own.
		return
	}
	s.logger.Info("scheduled refresh completed", zap.Int("records", count))
}

func (s *Scheduler) sendWeeklySummary() {
	s.logger.Info("generating weekly summary")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary := s.summarizer.WeeklySummary(time.Now().In(s.loc))
	if err := s.notifier.Notify(ctx, "Weekly hatch summary", summary); err != nil {
		s.logger.Error("failed to send weekly summary", zap.Error(err))
		return
	}
	s.logger.Info("weekly summary sent successfully")
}
