package queries

import (
	"context"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveDispatchesQueryHandler reads the active dispatch list straight
// from the database, bypassing the aggregate.
type GetActiveDispatchesQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveDispatchesQueryHandler creates a handler for active dispatch queries.
func NewGetActiveDispatchesQueryHandler(db *gorm.DB) GetActiveDispatchesQueryHandler {
	return GetActiveDispatchesQueryHandler{db: db}
}

// Handle executes the query. Returns every dispatch not yet completed,
// newest first, with the number of drivers currently assigned.
func (h GetActiveDispatchesQueryHandler) Handle(
	ctx context.Context,
	query GetActiveDispatchesQuery,
) ([]GetActiveDispatchesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	dispatches := make([]GetActiveDispatchesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			d.id,
			d.external_ref,
			d.customer_id,
			d.source,
			d.destination,
			d.status,
			COUNT(a.driver_id),
			d.created_at
		FROM dispatches d
		LEFT JOIN dispatch_assignments a ON a.dispatch_id = d.id
		WHERE d.status != ?
		GROUP BY d.id
		ORDER BY d.created_at DESC
	`, dispatch.Completed.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetActiveDispatchesQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&resp.ExternalRef,
			&resp.CustomerID,
			&resp.Source,
			&resp.Destination,
			&resp.Status,
			&resp.DriverCount,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		dispatchID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = dispatchID
		dispatches = append(dispatches, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return dispatches, nil
}
