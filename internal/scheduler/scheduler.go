package scheduler

import (
	"context"
	"cosbackup/logger"
	"fmt"
	"github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"time"
)

type (
	Task func(ctx context.Context) error

	Job struct {
		Name     string
		Interval string
		Task     Task
	}
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate parses a five field cron expression and returns the next activation after now.
func Validate(cronExpression string, now time.Time) (time.Time, error) {
	schedule, err := parser.Parse(cronExpression)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression: %w", err)
	}
	return schedule.Next(now), nil
}

// Run executes j on its schedule until ctx is done. Runs never overlap; a run
// that is still going when the next one is due makes the scheduler skip it.
// A failed run is logged and the schedule keeps going.
func Run(ctx context.Context, j Job, opts ...gocron.SchedulerOption) error {
	if _, err := Validate(j.Interval, time.Now()); err != nil {
		return err
	}

	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return errors.Wrap(err, "failed to create scheduler")
	}

	job, err := s.NewJob(
		gocron.CronJob(j.Interval, false),
		gocron.NewTask(func() {
			logger.Info("scheduled run started", zap.String("job", j.Name))
			if err := j.Task(ctx); err != nil {
				logger.Error("job returned error", zap.String("job", j.Name), zap.Error(err))
				return
			}
			logger.Info("scheduled run completed", zap.String("job", j.Name))
		}),
		gocron.WithName(j.Name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return errors.Wrap(err, "failed to schedule job")
	}

	s.Start()
	if next, err := job.NextRun(); err == nil {
		logger.Info("scheduled", zap.String("job", j.Name), zap.String("cron", j.Interval), zap.Time("next_run", next))
	}

	<-ctx.Done()
	logger.Info("stopping scheduler", zap.String("job", j.Name))
	return s.Shutdown()
}
