package server

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rm-hull/glitch-lab/internal/editor"
	"github.com/sirupsen/logrus"
)

// NewSessionSweeper starts a job that evicts sessions idle for longer than
// ttl. The eviction itself runs on the editor loop.
func NewSessionSweeper(loop *editor.Loop, manager *editor.Manager, ttl time.Duration, logger logrus.FieldLogger) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	interval := max(ttl/4, time.Second)
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(sweep, loop, manager, ttl, logger),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	scheduler.Start()
	return scheduler, nil
}

func sweep(loop *editor.Loop, manager *editor.Manager, ttl time.Duration, logger logrus.FieldLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := loop.Do(ctx, func() {
		manager.Evict(time.Now(), ttl)
	})
	if err != nil {
		logger.WithError(err).Warn("session sweep skipped")
	}
}
