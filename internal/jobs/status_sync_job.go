package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// StatusSyncJob runs the consistency sweep on a fixed interval, repairing
// dispatch statuses that drifted from their assignments.
type StatusSyncJob struct {
	handler         commands.SyncStatusesCommandHandler
	cron            *cron.Cron
	intervalMinutes int
	logger          *slog.Logger
}

// NewStatusSyncJob creates the consistency sweep job. intervalMinutes values
// outside 1..59 fall back to the default of 5.
func NewStatusSyncJob(
	handler commands.SyncStatusesCommandHandler,
	intervalMinutes int,
	logger *slog.Logger,
) *StatusSyncJob {
	if intervalMinutes < 1 || intervalMinutes > 59 {
		intervalMinutes = 5
	}

	return &StatusSyncJob{
		handler:         handler,
		cron:            cron.New(cron.WithSeconds()),
		intervalMinutes: intervalMinutes,
		logger:          logger.With("component", "status_sync_job"),
	}
}

// Start begins the consistency sweep on its configured interval.
func (j *StatusSyncJob) Start() error {
	schedule := fmt.Sprintf("0 */%d * * * *", j.intervalMinutes)
	_, err := j.cron.AddFunc(schedule, func() {
		ctx := context.Background()
		cmd := commands.NewSyncStatusesCommand()

		repaired, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Status sync sweep failed", "error", err)
			return
		}

		if repaired > 0 {
			j.logger.InfoContext(ctx, "Status sync sweep repaired dispatches", "repaired", repaired)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(),
		"Status sync job started", "intervalMinutes", j.intervalMinutes)
	return nil
}

// Stop stops the consistency sweep job.
func (j *StatusSyncJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Status sync job stopped")
}
