package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// ReconcileDispatchCommandHandler is the control core of the status engine.
// It recomputes the aggregate status from the assignment map inside a single
// transaction, updates the assignment mirror, and fans out notifications
// exactly once per applied transition.
//
// Calling Handle twice with the same assignment-map state is a no-op the
// second time: the derived status equals the stored status, nothing is
// written and no notifications are produced.
type ReconcileDispatchCommandHandler struct {
	uowFactory ReconcileUoWFactory
	fanout     services.NotificationFanout
	logger     *slog.Logger
}

// NewReconcileDispatchCommandHandler creates a handler for reconciliation operations.
func NewReconcileDispatchCommandHandler(
	uowFactory ReconcileUoWFactory,
	fanout services.NotificationFanout,
	logger *slog.Logger,
) ReconcileDispatchCommandHandler {
	return ReconcileDispatchCommandHandler{
		uowFactory: uowFactory,
		fanout:     fanout,
		logger:     logger.With("component", "reconcile_dispatch"),
	}
}

// Handle processes the reconciliation command.
// The status mutation and mirror sync commit atomically; the notification
// fan-out runs after the commit and its failures are logged, never
// propagated: the dispatch status is the source of truth and notifications
// are a best-effort side channel.
func (h ReconcileDispatchCommandHandler) Handle(ctx context.Context, command ReconcileDispatchCommand) error {
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

	disp, err := uow.DispatchRepository().Get(ctx, command.DispatchID())
	if err != nil {
		return err
	}

	transition, changed, err := reconcileAndPersist(ctx, uow, disp, h.logger)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	fanOutTransition(ctx, h.uowFactory.Create(), h.fanout, disp, transition, h.logger)
	return nil
}

// reconcileAndPersist applies the derivation rule to the dispatch and, when
// the status changed, persists the aggregate and points the mirror records
// at the new status within uow's transaction. Shared by the event-triggered
// handlers and the sync job so there is exactly one reconciliation rule.
func reconcileAndPersist(
	ctx context.Context,
	uow ReconcileUoW,
	disp *dispatch.Dispatch,
	logger *slog.Logger,
) (dispatch.Transition, bool, error) {
	transition, changed, fallback := disp.Reconcile()
	if fallback {
		logger.WarnContext(ctx, "Mixed assignment statuses normalized to assigned",
			"dispatch_id", disp.ID().String())
	}
	if !changed {
		return dispatch.Transition{}, false, nil
	}

	if err := uow.DispatchRepository().Update(ctx, disp); err != nil {
		return dispatch.Transition{}, false, err
	}

	if err := uow.AssignmentRepository().UpdateStatusByDispatchID(ctx, disp.ID(), transition.To); err != nil {
		return dispatch.Transition{}, false, err
	}

	return transition, true, nil
}

// fanOutTransition writes the notifications for an applied transition.
// It runs outside the status transaction on a fresh unit of work; each
// recipient's write is independent and a failure is logged without aborting
// the sibling writes.
func fanOutTransition(
	ctx context.Context,
	uow ReconcileUoW,
	fanout services.NotificationFanout,
	disp *dispatch.Dispatch,
	transition dispatch.Transition,
	logger *slog.Logger,
) {
	customer, err := uow.CustomerRepository().ResolveByExternalID(ctx, disp.CustomerID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			logger.WarnContext(ctx, "Customer not found for dispatch",
				"customer_id", disp.CustomerID(), "dispatch_id", disp.ID().String())
		} else {
			logger.ErrorContext(ctx, "Customer lookup failed",
				"customer_id", disp.CustomerID(), "error", err)
		}
		customer = nil
	}

	notifications, err := fanout.PlanTransition(transition, disp, customer)
	if err != nil {
		logger.ErrorContext(ctx, "Notification fan-out planning failed",
			"dispatch_id", disp.ID().String(), "error", err)
		return
	}

	notificationRepo := uow.NotificationRepository()
	for _, n := range notifications {
		if err := notificationRepo.Add(ctx, n); err != nil {
			logger.ErrorContext(ctx, "Notification write failed",
				"dispatch_id", disp.ID().String(),
				"recipient_kind", n.Target().Kind().String(),
				"error", err)
		}
	}
}
