// Package queries contains read-only operations that retrieve system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries bypass the domain model and read projections straight from the database.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetActiveDispatchesQueryIsNotConstructed = errors.New(
		"GetActiveDispatchesQuery must be created via NewGetActiveDispatchesQuery constructor",
	)
)

// GetActiveDispatchesQuery retrieves all dispatches that are not yet
// completed, for the admin board.
type GetActiveDispatchesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveDispatchesQuery creates a query for the active dispatch list.
func NewGetActiveDispatchesQuery() GetActiveDispatchesQuery {
	return GetActiveDispatchesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveDispatchesQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveDispatchesQueryIsNotConstructed)
}

// GetActiveDispatchesQueryResponse is the read model for one active dispatch.
type GetActiveDispatchesQueryResponse struct {
	ID          kernel.UUID
	ExternalRef string
	CustomerID  string
	Source      string
	Destination string
	Status      string
	DriverCount int
	CreatedAt   time.Time
}
