package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Job - одна фоновая задача планировщика
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

type Scheduler struct {
	jobs     []Job
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler - конструктор планировщика фонового обновления опубликованных списков
func NewScheduler(jobs []Job, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		jobs:     jobs,
		interval: interval,
		logger:   logger,
	}
}

// Start - запускает задачи сразу и затем каждые interval до остановки контекста
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("scheduler started", slog.Int("jobs", len(s.jobs)))
	s.logger.Debug("scheduler interval configured", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// первый запуск сразу
	s.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		}
	}
}

// runOnce - задачи по очереди; ошибка одной не мешает остальным
func (s *Scheduler) runOnce(ctx context.Context) {
	for _, job := range s.jobs {
		if ctx.Err() != nil {
			return
		}
		started := time.Now()
		if err := job.Run(ctx); err != nil {
			s.logger.Error("tick: job failed", slog.String("job", job.Name), slog.Any("err", err))
			continue
		}
		s.logger.Debug("tick: job completed", slog.String("job", job.Name), slog.Duration("took", time.Since(started)))
	}
}
