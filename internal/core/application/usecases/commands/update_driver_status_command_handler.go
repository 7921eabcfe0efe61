package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/services"
)

// UpdateDriverStatusCommandHandler applies a driver's status change to the
// assignment map and then delegates to the single reconciliation rule; it
// never decides the aggregate status itself.
//
// The assignment mutation, its mirror record and any resulting aggregate
// transition commit in one transaction; the fan-out runs after the commit.
type UpdateDriverStatusCommandHandler struct {
	uowFactory ReconcileUoWFactory
	fanout     services.NotificationFanout
	logger     *slog.Logger
}

// NewUpdateDriverStatusCommandHandler creates a handler for driver status updates.
func NewUpdateDriverStatusCommandHandler(
	uowFactory ReconcileUoWFactory,
	fanout services.NotificationFanout,
	logger *slog.Logger,
) UpdateDriverStatusCommandHandler {
	return UpdateDriverStatusCommandHandler{
		uowFactory: uowFactory,
		fanout:     fanout,
		logger:     logger.With("component", "update_driver_status"),
	}
}

// Handle processes the status change.
// Fails with an ObjectNotFoundError when the dispatch does not exist or the
// driver has no assignment entry on it; nothing is mutated in that case.
// Returns the updated assignment's mirror record.
func (h UpdateDriverStatusCommandHandler) Handle(
	ctx context.Context,
	command UpdateDriverStatusCommand,
) (dispatch.AssignmentRecord, error) {
	if err := command.Validate(); err != nil {
		return dispatch.AssignmentRecord{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return dispatch.AssignmentRecord{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	disp, err := uow.DispatchRepository().Get(ctx, command.DispatchID())
	if err != nil {
		return dispatch.AssignmentRecord{}, err
	}

	if err = disp.SetAssignmentStatus(command.DriverID(), command.NewStatus()); err != nil {
		return dispatch.AssignmentRecord{}, err
	}

	if err = uow.DispatchRepository().Update(ctx, disp); err != nil {
		return dispatch.AssignmentRecord{}, err
	}

	assignment, err := disp.Assignment(command.DriverID())
	if err != nil {
		return dispatch.AssignmentRecord{}, err
	}

	record := dispatch.NewAssignmentRecord(disp.ID(), assignment)
	if err = uow.AssignmentRepository().Upsert(ctx, record); err != nil {
		return dispatch.AssignmentRecord{}, err
	}

	transition, changed, err := reconcileAndPersist(ctx, uow, disp, h.logger)
	if err != nil {
		return dispatch.AssignmentRecord{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return dispatch.AssignmentRecord{}, err
	}

	if changed {
		fanOutTransition(ctx, h.uowFactory.Create(), h.fanout, disp, transition, h.logger)
	}

	return record, nil
}
