package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/services"
)

// AssignDriversCommandHandler adds drivers to a dispatch and reconciles the
// aggregate status. Assigning drivers to a pending dispatch moves it to
// assigned; that transition is a non-event for every recipient, so the
// fan-out plans nothing for it and the handler still calls it for uniformity.
type AssignDriversCommandHandler struct {
	uowFactory ReconcileUoWFactory
	fanout     services.NotificationFanout
	logger     *slog.Logger
}

// NewAssignDriversCommandHandler creates a handler for driver assignment.
func NewAssignDriversCommandHandler(
	uowFactory ReconcileUoWFactory,
	fanout services.NotificationFanout,
	logger *slog.Logger,
) AssignDriversCommandHandler {
	return AssignDriversCommandHandler{
		uowFactory: uowFactory,
		fanout:     fanout,
		logger:     logger.With("component", "assign_drivers"),
	}
}

// Handle processes the assignment.
// Assigning a driver already on the dispatch fails the whole command and
// nothing is persisted.
func (h AssignDriversCommandHandler) Handle(ctx context.Context, command AssignDriversCommand) error {
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

	for _, driverID := range command.DriverIDs() {
		if err = disp.AddDriver(driverID); err != nil {
			return err
		}

		assignment, err := disp.Assignment(driverID)
		if err != nil {
			return err
		}

		record := dispatch.NewAssignmentRecord(disp.ID(), assignment)
		if err = uow.AssignmentRepository().Upsert(ctx, record); err != nil {
			return err
		}
	}

	if err = uow.DispatchRepository().Update(ctx, disp); err != nil {
		return err
	}

	transition, changed, err := reconcileAndPersist(ctx, uow, disp, h.logger)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if changed {
		fanOutTransition(ctx, h.uowFactory.Create(), h.fanout, disp, transition, h.logger)
	}

	return nil
}
