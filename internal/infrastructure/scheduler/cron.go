package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"NewsDigest/internal/ports"
)

// CronScheduler triggers jobs on a standard five-field cron expression.
type CronScheduler struct {
	mu       sync.Mutex
	spec     string
	location *time.Location
	cron     *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler validates spec up front so misconfiguration fails at startup.
func NewCronScheduler(spec string, location *time.Location) (*CronScheduler, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, errors.New("cron expression is empty")
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", spec, err)
	}
	if location == nil {
		location = time.UTC
	}
	return &CronScheduler{spec: spec, location: location}, nil
}

// Start registers job and begins cron execution. Calling Start twice is a no-op.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron != nil {
		return nil
	}

	runner := cron.New(cron.WithLocation(c.location))
	if _, err := runner.AddFunc(c.spec, func() {
		if ctx.Err() != nil {
			return
		}
		job(time.Now().In(c.location))
	}); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	runner.Start()
	c.cron = runner
	return nil
}

// Stop halts scheduling and waits for running jobs until ctx expires.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	runner := c.cron
	c.cron = nil
	c.mu.Unlock()

	if runner == nil {
		return nil
	}

	select {
	case <-runner.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next reports the next activation after from in the scheduler's location.
func (c *CronScheduler) Next(from time.Time) time.Time {
	schedule, err := cron.ParseStandard(c.spec)
	if err != nil {
		return time.Time{}
	}
	return schedule.Next(from.In(c.location))
}
