package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// CreateDispatchCommandHandler registers a new dispatch and announces it to
// administrators. The announcement is best-effort: it runs after the commit
// and its failure never fails the creation.
type CreateDispatchCommandHandler struct {
	uowFactory ReconcileUoWFactory
	fanout     services.NotificationFanout
	logger     *slog.Logger
}

// NewCreateDispatchCommandHandler creates a handler for dispatch creation.
func NewCreateDispatchCommandHandler(
	uowFactory ReconcileUoWFactory,
	fanout services.NotificationFanout,
	logger *slog.Logger,
) CreateDispatchCommandHandler {
	return CreateDispatchCommandHandler{
		uowFactory: uowFactory,
		fanout:     fanout,
		logger:     logger.With("component", "create_dispatch"),
	}
}

// Handle processes the creation command.
func (h CreateDispatchCommandHandler) Handle(ctx context.Context, command CreateDispatchCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	disp, err := dispatch.NewDispatch(
		command.DispatchID(),
		command.ExternalRef(),
		command.CustomerID(),
		command.Source(),
		command.Destination(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DispatchRepository().Add(ctx, disp); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.announce(ctx, disp)
	return nil
}

// announce writes the admin-only new-request notification on a fresh unit
// of work, outside the creation transaction.
func (h CreateDispatchCommandHandler) announce(ctx context.Context, disp *dispatch.Dispatch) {
	uow := h.uowFactory.Create()

	customerName := ""
	customer, err := uow.CustomerRepository().ResolveByExternalID(ctx, disp.CustomerID())
	switch {
	case err == nil:
		customerName = customer.Name()
	case errors.Is(err, errs.ErrObjectNotFound):
		h.logger.WarnContext(ctx, "Customer not found for new dispatch",
			"customer_id", disp.CustomerID(), "dispatch_id", disp.ID().String())
	default:
		h.logger.ErrorContext(ctx, "Customer lookup failed",
			"customer_id", disp.CustomerID(), "error", err)
	}

	n, err := h.fanout.PlanNewDispatch(disp, customerName)
	if err != nil {
		h.logger.ErrorContext(ctx, "New dispatch announcement planning failed",
			"dispatch_id", disp.ID().String(), "error", err)
		return
	}

	if err = uow.NotificationRepository().Add(ctx, n); err != nil {
		h.logger.ErrorContext(ctx, "New dispatch announcement write failed",
			"dispatch_id", disp.ID().String(), "error", err)
	}
}
