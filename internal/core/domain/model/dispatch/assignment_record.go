package dispatch

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentRecord is the denormalized mirror of an Assignment kept in a
// separate collection so assignment-centric queries don't have to load the
// whole dispatch. The engine writes mirror records in the same transaction
// as the aggregate; transient drift is repaired by the sync job.
type AssignmentRecord struct {
	DispatchID  kernel.UUID
	DriverID    kernel.UUID
	Status      Status
	StartedAt   *time.Time
	CompletedAt *time.Time
	UpdatedAt   time.Time
}

// NewAssignmentRecord builds the mirror record for an assignment.
func NewAssignmentRecord(dispatchID kernel.UUID, a *Assignment) AssignmentRecord {
	return AssignmentRecord{
		DispatchID:  dispatchID,
		DriverID:    a.DriverID(),
		Status:      a.Status(),
		StartedAt:   a.StartedAt(),
		CompletedAt: a.CompletedAt(),
		UpdatedAt:   a.UpdatedAt(),
	}
}
