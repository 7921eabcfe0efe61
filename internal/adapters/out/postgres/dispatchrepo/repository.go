package dispatchrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDispatchRepository implements DispatchRepository using GORM.
type GormDispatchRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDispatchRepository creates a new GORM dispatch repository.
func NewGormDispatchRepository(db *gorm.DB, tracker aggregateTracker) *GormDispatchRepository {
	return &GormDispatchRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new dispatch to the database, embedded assignments included.
func (r *GormDispatchRepository) Add(ctx context.Context, aggregate *dispatch.Dispatch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing dispatch to the database. Embedded assignments
// are upserted by (dispatch_id, driver_id), so both new drivers and status
// changes on existing ones land in one call.
func (r *GormDispatchRepository) Update(ctx context.Context, aggregate *dispatch.Dispatch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).
		Model(&DispatchDTO{}).
		Where("id = ?", dto.ID).
		Select("Status", "PendingAt", "AssignedAt", "InProgressAt", "CompletedAt", "UpdatedAt").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if len(dto.Assignments) > 0 {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "dispatch_id"}, {Name: "driver_id"}},
				UpdateAll: true,
			}).
			Create(&dto.Assignments).Error
		if err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a dispatch by ID, embedded assignments included.
//
// The dispatch row is read FOR UPDATE: concurrent reconciliations of one
// dispatch serialize on the row lock, so the second reader blocks until the
// first transaction commits and then loads the committed assignment map
// instead of a stale snapshot. Callers run Get inside a transaction.
func (r *GormDispatchRepository) Get(ctx context.Context, id kernel.UUID) (*dispatch.Dispatch, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DispatchDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Assignments").
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("dispatchId", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllInStatuses retrieves all dispatches in the given aggregate statuses.
func (r *GormDispatchRepository) GetAllInStatuses(
	ctx context.Context,
	statuses ...dispatch.Status,
) ([]*dispatch.Dispatch, error) {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}

	var dtos []DispatchDTO
	err := r.db.WithContext(ctx).
		Preload("Assignments").
		Find(&dtos, "status IN ?", names).Error
	if err != nil {
		return nil, err
	}

	dispatches := make([]*dispatch.Dispatch, 0, len(dtos))
	for _, dto := range dtos {
		d, dErr := toDomain(dto)
		if dErr != nil {
			return nil, dErr
		}
		dispatches = append(dispatches, d)
	}

	return dispatches, nil
}
