package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/logger"
)

// refreshTimeout bounds one timer-driven recomputation.
const refreshTimeout = 30 * time.Second

// Refresher recomputes dashboard panels.
type Refresher interface {
	Panels() []dashboard.PanelID
	Refresh(ctx context.Context, id dashboard.PanelID, trigger dashboard.Trigger) (dashboard.View, error)
}

// Scheduler ticks every panel on its own job so a slow panel never delays the others.
type Scheduler struct {
	scheduler *gocron.Scheduler
	board     Refresher
	interval  time.Duration
	l         *logger.Logger
}

// New creates a new Scheduler.
func New(board Refresher, interval time.Duration, l *logger.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		board:     board,
		interval:  interval,
		l:         l,
	}
}

// Start schedules one job per panel and starts the underlying scheduler. Each
// job also runs once immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return errors.New("scheduler: refresh interval must be positive")
	}

	panels := s.board.Panels()
	if len(panels) == 0 {
		s.l.Warning("scheduler: no panels configured; nothing to schedule")
		return nil
	}

	for _, id := range panels {
		_, err := s.scheduler.Every(s.interval).Tag(string(id)).Do(s.tick, id)
		if err != nil {
			return err
		}
	}

	s.scheduler.StartAsync()
	s.l.Info("scheduler started", map[string]any{
		"panels":   len(panels),
		"interval": s.interval.String(),
	})
	return nil
}

func (s *Scheduler) tick(id dashboard.PanelID) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if _, err := s.board.Refresh(ctx, id, dashboard.TriggerTick); err != nil {
		s.l.Error(err, map[string]any{"panel": string(id)})
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
