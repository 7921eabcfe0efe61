package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/recipient"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// BulkSendResult reports the outcome of one recipient of a bulk send.
type BulkSendResult struct {
	RecipientKind string
	RecipientID   string
	Success       bool
	Error         string
}

// BulkSendReport aggregates the outcomes of a bulk send.
type BulkSendReport struct {
	TotalSent   int
	TotalFailed int
	Results     []BulkSendResult
}

// SendBulkNotificationsCommandHandler sends an ad-hoc notification to each
// recipient immediately, recording the outcome per recipient. One
// recipient's failure never aborts the rest; the caller gets a per-recipient
// report.
type SendBulkNotificationsCommandHandler struct {
	uowFactory  DeliveryUoWFactory
	pushSender  ports.PushSender
	sendTimeout time.Duration
	logger      *slog.Logger
}

// NewSendBulkNotificationsCommandHandler creates a handler for bulk sends.
func NewSendBulkNotificationsCommandHandler(
	uowFactory DeliveryUoWFactory,
	pushSender ports.PushSender,
	sendTimeout time.Duration,
	logger *slog.Logger,
) SendBulkNotificationsCommandHandler {
	return SendBulkNotificationsCommandHandler{
		uowFactory:  uowFactory,
		pushSender:  pushSender,
		sendTimeout: sendTimeout,
		logger:      logger.With("component", "send_bulk_notifications"),
	}
}

// Handle processes the bulk send. A recipient without a registered token
// yields a failed result ("No FCM token") and a notification record marked
// failed, matching the delivery loop's contract.
func (h SendBulkNotificationsCommandHandler) Handle(
	ctx context.Context,
	command SendBulkNotificationsCommand,
) (BulkSendReport, error) {
	if err := command.Validate(); err != nil {
		return BulkSendReport{}, err
	}

	uow := h.uowFactory.Create()

	report := BulkSendReport{
		Results: make([]BulkSendResult, 0, len(command.Recipients())),
	}

	for _, target := range command.Recipients() {
		result := h.sendOne(ctx, uow, command, target)
		if result.Success {
			report.TotalSent++
		} else {
			report.TotalFailed++
		}
		report.Results = append(report.Results, result)
	}

	return report, nil
}

func (h SendBulkNotificationsCommandHandler) sendOne(
	ctx context.Context,
	uow DeliveryUoW,
	command SendBulkNotificationsCommand,
	target BulkRecipient,
) BulkSendResult {
	result := BulkSendResult{
		RecipientKind: target.Kind.String(),
		RecipientID:   target.ID.String(),
	}

	ref, token, err := h.resolveTarget(ctx, uow, target)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	n, err := notification.NewNotification(
		kernel.NewUUID(),
		ref,
		command.Type(),
		command.Title(),
		command.Message(),
		nil,
		command.Priority(),
	)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if token == "" {
		result.Error = "No FCM token"
		_ = n.MarkFailed("no push token registered for recipient")
		h.persist(ctx, uow, n)
		return result
	}

	sendCtx, cancel := context.WithTimeout(ctx, h.sendTimeout)
	response, sendErr := h.pushSender.Send(sendCtx, ports.PushMessage{
		Token:        token,
		Title:        command.Title(),
		Body:         command.Message(),
		Data:         map[string]string{"type": command.Type(), "recipientId": target.ID.String()},
		HighPriority: command.Priority() == notification.HighPriority,
	})
	cancel()

	if sendErr != nil {
		result.Error = sendErr.Error()
		_ = n.MarkFailed(sendErr.Error())
	} else {
		result.Success = true
		_ = n.MarkSent(response)
	}

	h.persist(ctx, uow, n)
	return result
}

// resolveTarget validates the recipient exists and returns its notification
// reference and registered token (empty when none).
func (h SendBulkNotificationsCommandHandler) resolveTarget(
	ctx context.Context,
	uow DeliveryUoW,
	target BulkRecipient,
) (recipient.Ref, string, error) {
	switch target.Kind {
	case recipient.DriverKind:
		driver, err := uow.DriverRepository().Get(ctx, target.ID)
		if err != nil {
			return recipient.Ref{}, "", err
		}
		return driver.Ref(), driver.PushToken(), nil

	case recipient.CustomerKind:
		customer, err := uow.CustomerRepository().Get(ctx, target.ID)
		if err != nil {
			return recipient.Ref{}, "", err
		}
		return customer.Ref(), customer.PushToken(), nil

	default:
		return recipient.Ref{}, "", errs.NewValueIsInvalidError("recipient kind must be driver or customer")
	}
}

// persist writes the notification record with its outcome already recorded.
// Bulk sends are fire-and-forget from the log's perspective; a write failure
// is logged but does not change the reported result.
func (h SendBulkNotificationsCommandHandler) persist(
	ctx context.Context,
	uow DeliveryUoW,
	n *notification.Notification,
) {
	if err := uow.NotificationRepository().Add(ctx, n); err != nil {
		h.logger.ErrorContext(ctx, "Bulk notification write failed",
			"notification_id", n.ID().String(), "error", err)
	}
}
