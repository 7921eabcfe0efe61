package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/recipient"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// DeliverNotificationsCommandHandler is the push delivery loop. For each
// pending driver/customer notification it resolves the recipient's token,
// hands the message to the push backend once with a bounded timeout, and
// records the outcome on the record. There are no retries: a failed send is
// marked failed and the loop moves on.
type DeliverNotificationsCommandHandler struct {
	uowFactory  DeliveryUoWFactory
	pushSender  ports.PushSender
	sendTimeout time.Duration
	logger      *slog.Logger
}

// NewDeliverNotificationsCommandHandler creates a handler for the delivery loop.
// sendTimeout bounds each individual push call.
func NewDeliverNotificationsCommandHandler(
	uowFactory DeliveryUoWFactory,
	pushSender ports.PushSender,
	sendTimeout time.Duration,
	logger *slog.Logger,
) DeliverNotificationsCommandHandler {
	return DeliverNotificationsCommandHandler{
		uowFactory:  uowFactory,
		pushSender:  pushSender,
		sendTimeout: sendTimeout,
		logger:      logger.With("component", "deliver_notifications"),
	}
}

// Handle runs one delivery pass and returns the number of notifications
// processed (sent or failed). Outcome write failures are logged and skipped;
// the notification stays pending and the next pass picks it up again.
func (h DeliverNotificationsCommandHandler) Handle(
	ctx context.Context,
	command DeliverNotificationsCommand,
) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()

	pending, err := uow.NotificationRepository().GetAllPendingDelivery(ctx, command.Limit())
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, n := range pending {
		if err := h.deliverOne(ctx, uow, n); err != nil {
			h.logger.ErrorContext(ctx, "Delivery outcome write failed",
				"notification_id", n.ID().String(), "error", err)
			continue
		}
		processed++
	}

	return processed, nil
}

// deliverOne sends one notification and records the outcome. The returned
// error covers the outcome write only; send failures are an outcome, not an
// error.
//
// The outcome is written after the send, so a failed outcome write leaves a
// sent notification pending and the next tick re-sends it. Push delivery is
// at least once; the record's one-outcome rule applies to the record, not
// the wire.
func (h DeliverNotificationsCommandHandler) deliverOne(
	ctx context.Context,
	uow DeliveryUoW,
	n *notification.Notification,
) error {
	token, err := h.resolveToken(ctx, uow, n.Target())
	if err != nil {
		return err
	}

	if token == "" {
		if err := n.MarkFailed("no push token registered for recipient"); err != nil {
			return err
		}
		return uow.NotificationRepository().UpdateDeliveryOutcome(ctx, n)
	}

	sendCtx, cancel := context.WithTimeout(ctx, h.sendTimeout)
	response, sendErr := h.pushSender.Send(sendCtx, h.buildMessage(n, token))
	cancel()

	if sendErr != nil {
		h.logger.WarnContext(ctx, "Push send failed",
			"notification_id", n.ID().String(),
			"recipient_kind", n.Target().Kind().String(),
			"error", sendErr)
		if err := n.MarkFailed(sendErr.Error()); err != nil {
			return err
		}
	} else {
		if err := n.MarkSent(response); err != nil {
			return err
		}
	}

	return uow.NotificationRepository().UpdateDeliveryOutcome(ctx, n)
}

// resolveToken looks up the recipient's registered push token. A missing
// recipient resolves to an empty token rather than an error, so the
// notification is marked failed instead of staying pending forever.
func (h DeliverNotificationsCommandHandler) resolveToken(
	ctx context.Context,
	uow DeliveryUoW,
	target recipient.Ref,
) (string, error) {
	switch target.Kind() {
	case recipient.DriverKind:
		driver, err := uow.DriverRepository().Get(ctx, target.ID())
		if err != nil {
			if errors.Is(err, errs.ErrObjectNotFound) {
				return "", nil
			}
			return "", err
		}
		return driver.PushToken(), nil

	case recipient.CustomerKind:
		customer, err := uow.CustomerRepository().Get(ctx, target.ID())
		if err != nil {
			if errors.Is(err, errs.ErrObjectNotFound) {
				return "", nil
			}
			return "", err
		}
		return customer.PushToken(), nil

	default:
		return "", nil
	}
}

func (h DeliverNotificationsCommandHandler) buildMessage(
	n *notification.Notification,
	token string,
) ports.PushMessage {
	data := map[string]string{
		"type":        n.Type(),
		"recipientId": n.Target().ID().String(),
	}
	if n.DispatchID() != nil {
		data["dispatchId"] = n.DispatchID().String()
	}

	return ports.PushMessage{
		Token:        token,
		Title:        n.Title(),
		Body:         n.Message(),
		Data:         data,
		HighPriority: n.Priority() == notification.HighPriority,
	}
}
