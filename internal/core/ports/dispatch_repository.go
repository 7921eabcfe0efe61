package ports

import (
	"context"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"
)

// DispatchRepository defines the persistence contract for dispatch
// aggregates. The reconciliation engine is the only writer; reads inside a
// unit of work participate in the transaction so concurrent reconciliations
// of the same dispatch serialize on the store.
type DispatchRepository interface {
	// Add persists a new dispatch aggregate with its embedded assignments.
	Add(ctx context.Context, aggregate *dispatch.Dispatch) error

	// Update persists changes to an existing dispatch aggregate, including
	// its embedded assignment map.
	Update(ctx context.Context, aggregate *dispatch.Dispatch) error

	// Get retrieves a dispatch aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*dispatch.Dispatch, error)

	// GetAllInStatuses retrieves all dispatches whose aggregate status is
	// one of the given statuses. Used by the consistency sync job to find
	// live dispatches.
	GetAllInStatuses(ctx context.Context, statuses ...dispatch.Status) ([]*dispatch.Dispatch, error)
}
