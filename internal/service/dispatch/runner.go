package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Runner triggers DispatchDue on a cron schedule.
type Runner struct {
	cron    *cron.Cron
	service *Service
	timeout time.Duration
}

func NewRunner(service *Service, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 50 * time.Second
	}
	return &Runner{
		cron:    cron.New(),
		service: service,
		timeout: timeout,
	}
}

// Schedule registers the dispatch pass. spec accepts the standard five field
// format and descriptors such as "@every 1m".
func (r *Runner) Schedule(ctx context.Context, spec string) error {
	_, err := r.cron.AddFunc(spec, func() {
		r.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid dispatch schedule %q: %w", spec, err)
	}
	return nil
}

func (r *Runner) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.service.DispatchDue(runCtx, time.Now()); err != nil {
		if errors.Is(err, ErrDispatchInProgress) {
			slog.DebugContext(ctx, "previous dispatch still running, skipping tick")
			return
		}
		slog.ErrorContext(ctx, "scheduled dispatch failed", slog.String("error", err.Error()))
	}
}

func (r *Runner) Start() {
	r.cron.Start()
}

// Stop halts the schedule and waits for a running pass to finish.
func (r *Runner) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		slog.WarnContext(ctx, "dispatch runner did not stop in time")
	}
}
