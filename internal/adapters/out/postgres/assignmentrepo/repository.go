package assignmentrepo

import (
	"context"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAssignmentRepository implements AssignmentRepository using GORM.
// Mirror rows are plain records, not aggregates, so there is no tracking.
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GORM assignment mirror repository.
func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// Upsert creates or replaces the mirror record for one driver's assignment.
func (r *GormAssignmentRepository) Upsert(ctx context.Context, record dispatch.AssignmentRecord) error {
	dto := fromDomain(record)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dispatch_id"}, {Name: "driver_id"}},
			UpdateAll: true,
		}).
		Create(&dto).Error
}

// UpdateStatusByDispatchID sets the status of every mirror record belonging
// to the dispatch.
func (r *GormAssignmentRepository) UpdateStatusByDispatchID(
	ctx context.Context,
	dispatchID kernel.UUID,
	status dispatch.Status,
) error {
	return r.db.WithContext(ctx).
		Model(&AssignmentRecordDTO{}).
		Where("dispatch_id = ?", dispatchID.Bytes()).
		Update("status", status.String()).Error
}

// GetByDispatchID retrieves the mirror records for a dispatch.
func (r *GormAssignmentRepository) GetByDispatchID(
	ctx context.Context,
	dispatchID kernel.UUID,
) ([]dispatch.AssignmentRecord, error) {
	var dtos []AssignmentRecordDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "dispatch_id = ?", dispatchID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	records := make([]dispatch.AssignmentRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, rErr := toDomain(dto)
		if rErr != nil {
			return nil, rErr
		}
		records = append(records, record)
	}

	return records, nil
}
