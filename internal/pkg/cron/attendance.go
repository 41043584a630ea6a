package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/crewops/ops-portal-go/internal/domain/attendance"
	"github.com/crewops/ops-portal-go/internal/pkg/clock"
)

type AttendanceJobs struct {
	sessionService attendance.SessionService
}

func NewAttendanceJobs(sessionService attendance.SessionService) *AttendanceJobs {
	return &AttendanceJobs{sessionService: sessionService}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_checkout_sweep", 1*time.Minute, j.AutoCheckoutSweep)
}

// AutoCheckoutSweep force-closes every session still open today. It fires in
// the civil 23:59 window; re-running is safe because the sweep only sees
// sessions that are still open.
func (j *AttendanceJobs) AutoCheckoutSweep(ctx context.Context) error {
	now := time.Now().UTC()
	parts := clock.PartsOf(now)
	if parts.Hour != 23 || parts.Minute != 59 {
		return nil
	}

	slog.Info("Cron: starting auto-checkout sweep", "date", clock.CivilDate(now))

	result, err := j.sessionService.AutoCheckout(ctx, now)
	if err != nil {
		return err
	}

	if result.Processed == 0 && result.Failed == 0 {
		slog.Info("Cron: no open sessions to auto-checkout")
		return nil
	}

	slog.Info("Cron: auto-checkout sweep done", "processed", result.Processed, "failed", result.Failed)
	return nil
}
