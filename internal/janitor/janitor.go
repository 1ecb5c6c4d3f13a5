// Package janitor removes expired plan drafts on a cron schedule.
package janitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/planora/internal/service"
	rcron "github.com/robfig/cron/v3"
)

const stopTimeout = 5 * time.Second

// Janitor purges expired drafts whenever its schedule fires.
type Janitor struct {
	purger   service.DraftPurger
	schedule rcron.Schedule
	spec     string
	logger   *slog.Logger
	now      func() time.Time

	mu   sync.Mutex
	cron *rcron.Cron
}

type Option func(*Janitor)

// WithClock overrides the time source used to decide expiry.
func WithClock(now func() time.Time) Option {
	return func(j *Janitor) { j.now = now }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(j *Janitor) {
		if l != nil {
			j.logger = l
		}
	}
}

// New validates spec (standard five-field cron or a descriptor such as
// "@hourly") and returns an idle janitor.
func New(purger service.DraftPurger, spec string, opts ...Option) (*Janitor, error) {
	schedule, err := rcron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parsing purge schedule %q: %w", spec, err)
	}
	j := &Janitor{
		purger:   purger,
		schedule: schedule,
		spec:     spec,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, o := range opts {
		o(j)
	}
	return j, nil
}

// Next reports when the schedule fires after t.
func (j *Janitor) Next(t time.Time) time.Time {
	return j.schedule.Next(t)
}

// RunOnce purges drafts expired at the current time.
func (j *Janitor) RunOnce(ctx context.Context) (int64, error) {
	n, err := j.purger.PurgeExpiredDrafts(ctx, j.now())
	if err != nil {
		j.logger.ErrorContext(ctx, "draft purge failed", "error", err)
		return 0, err
	}
	j.logger.InfoContext(ctx, "draft purge complete", "purged", n)
	return n, nil
}

// Start schedules the purge and returns immediately. The schedule stops
// when ctx is cancelled or Stop is called.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cron != nil {
		return fmt.Errorf("janitor already started")
	}

	c := rcron.New()
	c.Schedule(j.schedule, rcron.FuncJob(func() {
		_, _ = j.RunOnce(ctx)
	}))
	c.Start()
	j.cron = c
	j.logger.InfoContext(ctx, "janitor started", "schedule", j.spec, "next", j.Next(j.now()).Format(time.RFC3339))

	go func() {
		<-ctx.Done()
		j.Stop()
	}()
	return nil
}

// Stop halts the schedule and waits briefly for a running purge.
func (j *Janitor) Stop() {
	j.mu.Lock()
	c := j.cron
	j.cron = nil
	j.mu.Unlock()
	if c == nil {
		return
	}

	select {
	case <-c.Stop().Done():
	case <-time.After(stopTimeout):
		j.logger.Warn("janitor stop timed out waiting for a running purge")
	}
	j.logger.Info("janitor stopped")
}

// Run purges once, then on schedule until ctx is done.
func (j *Janitor) Run(ctx context.Context) error {
	if _, err := j.RunOnce(ctx); err != nil {
		return err
	}
	if err := j.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	j.Stop()
	return nil
}
