package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// NotificationDeliveryJob drains the pending notification queue through the
// push backend. Runs every 15 seconds so status notifications reach devices
// shortly after the transition commits.
type NotificationDeliveryJob struct {
	handler   commands.DeliverNotificationsCommandHandler
	cron      *cron.Cron
	batchSize int
	logger    *slog.Logger
}

// NewNotificationDeliveryJob creates the delivery job. batchSize values
// below 1 fall back to the default of 50.
func NewNotificationDeliveryJob(
	handler commands.DeliverNotificationsCommandHandler,
	batchSize int,
	logger *slog.Logger,
) *NotificationDeliveryJob {
	if batchSize < 1 {
		batchSize = 50
	}

	return &NotificationDeliveryJob{
		handler:   handler,
		cron:      cron.New(cron.WithSeconds()),
		batchSize: batchSize,
		logger:    logger.With("component", "notification_delivery_job"),
	}
}

// Start begins the delivery job to run every 15 seconds.
func (j *NotificationDeliveryJob) Start() error {
	_, err := j.cron.AddFunc("*/15 * * * * *", func() {
		ctx := context.Background()
		cmd, cmdErr := commands.NewDeliverNotificationsCommand(j.batchSize)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Notification delivery job misconfigured", "error", cmdErr)
			return
		}

		delivered, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Notification delivery job failed", "error", err)
			return
		}

		if delivered > 0 {
			j.logger.InfoContext(ctx, "Notification delivery batch processed", "delivered", delivered)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(),
		"Notification delivery job started (running every 15 seconds)")
	return nil
}

// Stop stops the delivery job.
func (j *NotificationDeliveryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Notification delivery job stopped")
}
