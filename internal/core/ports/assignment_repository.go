package ports

import (
	"context"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for the mirrored
// assignment collection: denormalized per-driver records queryable by
// dispatch without loading the aggregate. The engine writes mirror records
// in the same transaction as the aggregate.
type AssignmentRepository interface {
	// Upsert creates or replaces the mirror record for one driver's
	// assignment on a dispatch.
	Upsert(ctx context.Context, record dispatch.AssignmentRecord) error

	// UpdateStatusByDispatchID sets the status of every mirror record
	// belonging to the dispatch. Invoked when a reconciliation applies a
	// new aggregate status.
	UpdateStatusByDispatchID(ctx context.Context, dispatchID kernel.UUID, status dispatch.Status) error

	// GetByDispatchID retrieves the mirror records for a dispatch.
	GetByDispatchID(ctx context.Context, dispatchID kernel.UUID) ([]dispatch.AssignmentRecord, error)
}
