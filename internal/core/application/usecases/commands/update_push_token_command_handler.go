package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/recipient"
)

// UpdatePushTokenCommandHandler registers a device push token on the
// addressed driver or customer.
type UpdatePushTokenCommandHandler struct {
	uowFactory RecipientUoWFactory
	logger     *slog.Logger
}

// NewUpdatePushTokenCommandHandler creates a handler for token registration.
func NewUpdatePushTokenCommandHandler(
	uowFactory RecipientUoWFactory,
	logger *slog.Logger,
) UpdatePushTokenCommandHandler {
	return UpdatePushTokenCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "update_push_token"),
	}
}

// Handle processes the token registration.
// Fails with an ObjectNotFoundError when the addressed recipient does not exist.
func (h UpdatePushTokenCommandHandler) Handle(ctx context.Context, command UpdatePushTokenCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if command.UserKind() == recipient.DriverKind {
		driver, err := uow.DriverRepository().Get(ctx, command.UserID())
		if err != nil {
			return err
		}
		if err = driver.UpdatePushToken(command.Token()); err != nil {
			return err
		}
		if err = uow.DriverRepository().Update(ctx, driver); err != nil {
			return err
		}
	} else {
		customer, err := uow.CustomerRepository().Get(ctx, command.UserID())
		if err != nil {
			return err
		}
		if err = customer.UpdatePushToken(command.Token()); err != nil {
			return err
		}
		if err = uow.CustomerRepository().Update(ctx, customer); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
