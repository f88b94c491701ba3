package bot

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"social-service/internal/config"
)

// Scheduler drives the three recurring bot jobs: the general activity sweep,
// proactive outreach to the anchor account, and bot lounge chatter.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler wires the jobs onto a cron runner. Intervals come from
// configuration; each job runs with a background context and logs its own
// failures, so one broken job never stops the others.
func NewScheduler(svc *Service, cfg config.BotsConfig, logger *zap.Logger) (*Scheduler, error) {
	c := cron.New()

	jobs := []struct {
		name     string
		schedule string
		run      func(context.Context) error
	}{
		{"bot_sweep", fmt.Sprintf("@every %s", cfg.SweepInterval), func(ctx context.Context) error {
			svc.Sweep(ctx)
			return nil
		}},
		{"bot_proactive", fmt.Sprintf("@every %s", cfg.ProactiveInterval), svc.SendProactiveMessage},
		{"bot_chat", fmt.Sprintf("@every %s", cfg.BotChatInterval), svc.PostToBotChat},
	}

	for _, job := range jobs {
		job := job
		_, err := c.AddFunc(job.schedule, func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("bot job panic", zap.String("job", job.name), zap.Any("panic", r))
				}
			}()
			if err := job.run(context.Background()); err != nil {
				logger.Error("bot job failed", zap.String("job", job.name), zap.Error(err))
			}
		})
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", job.name, err)
		}
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start launches the cron runner.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("bot scheduler started")
}

// Stop halts scheduling and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("bot scheduler stopped")
}
