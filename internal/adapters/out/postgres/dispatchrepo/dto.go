// Package dispatchrepo provides data transfer objects and mapping functions
// for dispatch persistence. This package implements the repository pattern
// for the dispatch aggregate, handling the conversion between domain entities
// and database representations.
package dispatchrepo

import (
	"time"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DispatchDTO represents the database structure for persisting dispatch
// aggregates. The embedded assignment map lives in a child table keyed by
// dispatch and driver.
type DispatchDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExternalRef string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	CustomerID  string    `gorm:"type:varchar(128);not null;index"`
	Source      string    `gorm:"type:varchar(512);not null"`
	Destination string    `gorm:"type:varchar(512);not null"`
	Status      string    `gorm:"type:varchar(32);not null;index"`

	Assignments []AssignmentDTO `gorm:"foreignKey:DispatchID;constraint:OnDelete:CASCADE"`

	PendingAt    *time.Time
	AssignedAt   *time.Time
	InProgressAt *time.Time
	CompletedAt  *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for dispatch entities.
func (DispatchDTO) TableName() string {
	return "dispatches"
}

// AssignmentDTO represents one driver's embedded assignment within a
// dispatch. This is the aggregate's own child table, distinct from the
// denormalized mirror kept by assignmentrepo.
type AssignmentDTO struct {
	DispatchID  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DriverID    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Status      string     `gorm:"type:varchar(32);not null"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the database table name for embedded assignments.
func (AssignmentDTO) TableName() string {
	return "dispatch_assignments"
}

// fromDomain converts a dispatch aggregate to its database representation.
func fromDomain(aggregate *dispatch.Dispatch) DispatchDTO {
	dispatchID := aggregate.ID().Bytes()

	assignments := make([]AssignmentDTO, 0, len(aggregate.Assignments()))
	for _, a := range aggregate.Assignments() {
		assignments = append(assignments, AssignmentDTO{
			DispatchID:  dispatchID,
			DriverID:    a.DriverID().Bytes(),
			Status:      a.Status().String(),
			StartedAt:   a.StartedAt(),
			CompletedAt: a.CompletedAt(),
			UpdatedAt:   a.UpdatedAt(),
		})
	}

	return DispatchDTO{
		ID:           dispatchID,
		ExternalRef:  aggregate.ExternalRef(),
		CustomerID:   aggregate.CustomerID(),
		Source:       aggregate.Source().String(),
		Destination:  aggregate.Destination().String(),
		Status:       aggregate.Status().String(),
		Assignments:  assignments,
		PendingAt:    statusStamp(aggregate, dispatch.Pending),
		AssignedAt:   statusStamp(aggregate, dispatch.Assigned),
		InProgressAt: statusStamp(aggregate, dispatch.InProgress),
		CompletedAt:  statusStamp(aggregate, dispatch.Completed),
		CreatedAt:    aggregate.CreatedAt(),
		UpdatedAt:    aggregate.UpdatedAt(),
	}
}

func statusStamp(aggregate *dispatch.Dispatch, s dispatch.Status) *time.Time {
	if at, ok := aggregate.StatusEnteredAt(s); ok {
		return &at
	}
	return nil
}

// toDomain converts a database DTO to a dispatch aggregate.
func toDomain(dto DispatchDTO) (*dispatch.Dispatch, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	source, err := kernel.NewAddress(dto.Source)
	if err != nil {
		return nil, err
	}
	destination, err := kernel.NewAddress(dto.Destination)
	if err != nil {
		return nil, err
	}

	status, err := dispatch.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	assignments := make([]*dispatch.Assignment, 0, len(dto.Assignments))
	for _, aDto := range dto.Assignments {
		a, aErr := assignmentToDomain(aDto)
		if aErr != nil {
			return nil, aErr
		}
		assignments = append(assignments, a)
	}

	statusEnteredAt := make(map[dispatch.Status]time.Time, 4)
	for s, at := range map[dispatch.Status]*time.Time{
		dispatch.Pending:    dto.PendingAt,
		dispatch.Assigned:   dto.AssignedAt,
		dispatch.InProgress: dto.InProgressAt,
		dispatch.Completed:  dto.CompletedAt,
	} {
		if at != nil {
			statusEnteredAt[s] = *at
		}
	}

	return dispatch.RestoreDispatch(
		id,
		dto.ExternalRef,
		dto.CustomerID,
		source, destination,
		status,
		assignments,
		statusEnteredAt,
		dto.CreatedAt, dto.UpdatedAt,
	)
}

// assignmentToDomain converts an assignment DTO to a domain entity.
func assignmentToDomain(dto AssignmentDTO) (*dispatch.Assignment, error) {
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	status, err := dispatch.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return dispatch.RestoreAssignment(driverID, status, dto.StartedAt, dto.CompletedAt, dto.UpdatedAt)
}
