// Package jobs runs the scheduled maintenance of the analytics store
package jobs

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nibin-org/portfolio/internal/config"
)

// Purger deletes visitor records older than a cutoff
type Purger interface {
	PurgeVisitorsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Retention removes visitor data past the retention window
type Retention struct {
	store  Purger
	months int
	logger *zap.Logger
	now    func() time.Time
}

func NewRetention(store Purger, cfg config.RetentionConfig, logger *zap.Logger) *Retention {
	return &Retention{store: store, months: cfg.Months, logger: logger, now: time.Now}
}

// Cutoff is the oldest timestamp kept
func (r *Retention) Cutoff() time.Time {
	return r.now().AddDate(0, -r.months, 0)
}

// Run purges once
func (r *Retention) Run(ctx context.Context) (int64, error) {
	n, err := r.store.PurgeVisitorsBefore(ctx, r.Cutoff())
	if err != nil {
		r.logger.Error("privacy cleanup failed", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		r.logger.Info("privacy cleanup", zap.Int64("removed", n), zap.Int("months", r.months))
	}
	return n, nil
}

// Scheduler wraps cron with the retention job registered
type Scheduler struct {
	cron *cron.Cron
}

// Schedule registers r under spec, a standard cron expression or descriptor
// such as @daily
func Schedule(spec string, r *Retention) (*Scheduler, error) {
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)))
	if _, err := c.AddFunc(spec, func() { _, _ = r.Run(context.Background()) }); err != nil {
		return nil, errors.Wrapf(err, "parse retention schedule %q", spec)
	}
	return &Scheduler{cron: c}, nil
}

// Next is when the job runs next, zero before Start
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
