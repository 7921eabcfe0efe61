package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"
)

// SyncStatusesCommandHandler is the consistency sync sweep. It visits every
// live dispatch and applies the same reconciliation rule as the
// event-triggered path, repairing drift left by missed or failed event
// handling.
//
// The sweep is repair-only: it never notifies. A repaired status is one the
// event path already announced (or failed to, in which case a late duplicate
// is worse than silence).
type SyncStatusesCommandHandler struct {
	uowFactory ReconcileUoWFactory
	logger     *slog.Logger
}

// NewSyncStatusesCommandHandler creates a handler for the consistency sweep.
func NewSyncStatusesCommandHandler(
	uowFactory ReconcileUoWFactory,
	logger *slog.Logger,
) SyncStatusesCommandHandler {
	return SyncStatusesCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "sync_statuses"),
	}
}

// Handle runs the sweep and returns the number of dispatches repaired.
// Each dispatch is reconciled in its own transaction; a failure on one is
// logged and skipped so the rest of the sweep proceeds.
func (h SyncStatusesCommandHandler) Handle(ctx context.Context, command SyncStatusesCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	dispatches, err := h.uowFactory.Create().
		DispatchRepository().
		GetAllInStatuses(ctx, dispatch.Assigned, dispatch.InProgress)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, disp := range dispatches {
		changed, err := h.syncOne(ctx, disp.ID())
		if err != nil {
			h.logger.ErrorContext(ctx, "Dispatch sync failed",
				"dispatch_id", disp.ID().String(), "error", err)
			continue
		}
		if changed {
			repaired++
		}
	}

	if repaired > 0 {
		h.logger.InfoContext(ctx, "Consistency sweep repaired dispatches", "count", repaired)
	}

	return repaired, nil
}

// syncOne reloads the dispatch inside its own transaction and reconciles it,
// so the sweep serializes with concurrent event-triggered reconciliations on
// the store.
func (h SyncStatusesCommandHandler) syncOne(ctx context.Context, dispatchID kernel.UUID) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	disp, err := uow.DispatchRepository().Get(ctx, dispatchID)
	if err != nil {
		return false, err
	}

	_, changed, err := reconcileAndPersist(ctx, uow, disp, h.logger)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return true, nil
}
