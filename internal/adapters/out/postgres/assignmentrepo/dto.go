// Package assignmentrepo persists the denormalized assignment mirror: one
// row per driver per dispatch, kept in step with the aggregate's embedded
// assignment map so per-driver views never need to load the aggregate.
package assignmentrepo

import (
	"time"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentRecordDTO represents one mirror row.
type AssignmentRecordDTO struct {
	DispatchID  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DriverID    uuid.UUID  `gorm:"type:uuid;primaryKey;index"`
	Status      string     `gorm:"type:varchar(32);not null;index"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the database table name for mirror records.
func (AssignmentRecordDTO) TableName() string {
	return "assignments"
}

// fromDomain converts a mirror record to its database representation.
func fromDomain(record dispatch.AssignmentRecord) AssignmentRecordDTO {
	return AssignmentRecordDTO{
		DispatchID:  record.DispatchID.Bytes(),
		DriverID:    record.DriverID.Bytes(),
		Status:      record.Status.String(),
		StartedAt:   record.StartedAt,
		CompletedAt: record.CompletedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

// toDomain converts a database DTO to a mirror record.
func toDomain(dto AssignmentRecordDTO) (dispatch.AssignmentRecord, error) {
	dispatchID, err := kernel.UUIDFromBytes(dto.DispatchID[:])
	if err != nil {
		return dispatch.AssignmentRecord{}, err
	}

	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return dispatch.AssignmentRecord{}, err
	}

	status, err := dispatch.StatusFromString(dto.Status)
	if err != nil {
		return dispatch.AssignmentRecord{}, err
	}

	return dispatch.AssignmentRecord{
		DispatchID:  dispatchID,
		DriverID:    driverID,
		Status:      status,
		StartedAt:   dto.StartedAt,
		CompletedAt: dto.CompletedAt,
		UpdatedAt:   dto.UpdatedAt,
	}, nil
}
