package notificationrepo

import (
	"context"

	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/recipient"

	"gorm.io/gorm"
)

// GormNotificationRepository implements NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification repository.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Add appends a notification record.
func (r *GormNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	dto := fromDomain(n)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// UpdateDeliveryOutcome persists the delivery-outcome fields only; the rest
// of the record is immutable after Add.
func (r *GormNotificationRepository) UpdateDeliveryOutcome(
	ctx context.Context,
	n *notification.Notification,
) error {
	if err := n.Validate(); err != nil {
		return err
	}

	dto := fromDomain(n)
	result := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("id = ?", dto.ID).
		Select("DeliveryStatus", "ProviderResponse", "DeliveryError", "DeliveredAt").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// GetAllPendingDelivery retrieves up to limit driver/customer notifications
// still awaiting push delivery, oldest first. Admin broadcast records are
// consumed in-app and never push-delivered.
func (r *GormNotificationRepository) GetAllPendingDelivery(
	ctx context.Context,
	limit int,
) ([]*notification.Notification, error) {
	var dtos []NotificationDTO
	err := r.db.WithContext(ctx).
		Where("delivery_status = ? AND recipient_kind <> ?",
			notification.DeliveryPending.String(), recipient.AdminBroadcastKind.String()).
		Order("created_at ASC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	notifications := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, nErr := toDomain(dto)
		if nErr != nil {
			return nil, nErr
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}
