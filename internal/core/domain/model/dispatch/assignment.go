package dispatch

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// Assignment is a single driver's participation record within a dispatch.
// It is an entity owned by the Dispatch aggregate; callers never mutate it
// directly, only through Dispatch methods.
//
// Invariant: StartedAt and CompletedAt are monotonic: stamped on the first
// transition into InProgress / Completed respectively and never overwritten.
type Assignment struct {
	driverID    kernel.UUID
	status      Status
	startedAt   *time.Time
	completedAt *time.Time
	updatedAt   time.Time
}

// NewAssignment creates an assignment for a driver in the initial Assigned status.
func NewAssignment(driverID kernel.UUID) (*Assignment, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	return &Assignment{
		driverID:  driverID,
		status:    Assigned,
		updatedAt: time.Now().UTC(),
	}, nil
}

// RestoreAssignment reconstructs an assignment from persistence.
func RestoreAssignment(
	driverID kernel.UUID,
	status Status,
	startedAt, completedAt *time.Time,
	updatedAt time.Time,
) (*Assignment, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}
	if err := status.ValidateAssignment(); err != nil {
		return nil, err
	}

	return &Assignment{
		driverID:    driverID,
		status:      status,
		startedAt:   startedAt,
		completedAt: completedAt,
		updatedAt:   updatedAt,
	}, nil
}

// DriverID returns the driver this assignment belongs to.
func (a *Assignment) DriverID() kernel.UUID {
	return a.driverID
}

// Status returns the assignment's current status.
func (a *Assignment) Status() Status {
	return a.status
}

// StartedAt returns when the driver first entered InProgress, or nil.
func (a *Assignment) StartedAt() *time.Time {
	return a.startedAt
}

// CompletedAt returns when the driver first entered Completed, or nil.
func (a *Assignment) CompletedAt() *time.Time {
	return a.completedAt
}

// UpdatedAt returns the time of the last status change.
func (a *Assignment) UpdatedAt() time.Time {
	return a.updatedAt
}

// SetStatus moves the assignment to newStatus, stamping StartedAt on the
// first entry into InProgress and CompletedAt on the first entry into
// Completed. Existing stamps are never overwritten.
func (a *Assignment) SetStatus(newStatus Status) error {
	if err := newStatus.ValidateAssignment(); err != nil {
		return err
	}

	now := time.Now().UTC()
	a.status = newStatus
	a.updatedAt = now

	if newStatus == InProgress && a.startedAt == nil {
		a.startedAt = &now
	}
	if newStatus == Completed && a.completedAt == nil {
		a.completedAt = &now
	}

	return nil
}
