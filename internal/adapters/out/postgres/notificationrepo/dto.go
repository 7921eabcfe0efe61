// Package notificationrepo persists the append-only notification log.
// Records are created once and updated at most once, to record the push
// delivery outcome.
package notificationrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/recipient"

	"github.com/google/uuid"
)

// NotificationDTO represents one row of the notification log.
type NotificationDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RecipientKind string     `gorm:"type:varchar(16);not null;index:idx_notifications_recipient"`
	RecipientID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	Type          string     `gorm:"type:varchar(64);not null"`
	Title         string     `gorm:"type:varchar(255);not null"`
	Message       string     `gorm:"type:text;not null"`
	DispatchID    *uuid.UUID `gorm:"type:uuid;index"`
	Priority      string     `gorm:"type:varchar(16);not null"`
	Read          bool       `gorm:"not null;default:false"`

	DeliveryStatus   string     `gorm:"type:varchar(16);not null;index"`
	ProviderResponse string     `gorm:"type:text"`
	DeliveryError    string     `gorm:"type:text"`
	DeliveredAt      *time.Time

	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName specifies the database table name for notification records.
func (NotificationDTO) TableName() string {
	return "notifications"
}

// fromDomain converts a notification to its database representation.
func fromDomain(n *notification.Notification) NotificationDTO {
	var dispatchID *uuid.UUID
	if id := n.DispatchID(); id != nil {
		raw := id.Bytes()
		dispatchID = &raw
	}

	return NotificationDTO{
		ID:               n.ID().Bytes(),
		RecipientKind:    n.Target().Kind().String(),
		RecipientID:      n.Target().ID().Bytes(),
		Type:             n.Type(),
		Title:            n.Title(),
		Message:          n.Message(),
		DispatchID:       dispatchID,
		Priority:         n.Priority().String(),
		Read:             n.Read(),
		DeliveryStatus:   n.DeliveryStatus().String(),
		ProviderResponse: n.ProviderResponse(),
		DeliveryError:    n.DeliveryError(),
		DeliveredAt:      n.DeliveredAt(),
		CreatedAt:        n.CreatedAt(),
	}
}

// toDomain converts a database DTO to a notification.
func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	target, err := targetToDomain(dto)
	if err != nil {
		return nil, err
	}

	var dispatchID *kernel.UUID
	if dto.DispatchID != nil {
		dID, dErr := kernel.UUIDFromBytes((*dto.DispatchID)[:])
		if dErr != nil {
			return nil, dErr
		}
		dispatchID = &dID
	}

	deliveryStatus, err := deliveryStatusFromString(dto.DeliveryStatus)
	if err != nil {
		return nil, err
	}

	return notification.RestoreNotification(
		id,
		target,
		dto.Type,
		dto.Title,
		dto.Message,
		dispatchID,
		notification.PriorityFromString(dto.Priority),
		dto.Read,
		deliveryStatus,
		dto.ProviderResponse,
		dto.DeliveryError,
		dto.DeliveredAt,
		dto.CreatedAt,
	)
}

func targetToDomain(dto NotificationDTO) (recipient.Ref, error) {
	kind, err := recipient.KindFromString(dto.RecipientKind)
	if err != nil {
		return recipient.Ref{}, err
	}

	if kind == recipient.AdminBroadcastKind {
		return recipient.NewAdminBroadcastRef(), nil
	}

	recipientID, err := kernel.UUIDFromBytes(dto.RecipientID[:])
	if err != nil {
		return recipient.Ref{}, err
	}

	if kind == recipient.DriverKind {
		return recipient.NewDriverRef(recipientID)
	}
	return recipient.NewCustomerRef(recipientID)
}

func deliveryStatusFromString(s string) (notification.DeliveryStatus, error) {
	for _, candidate := range []notification.DeliveryStatus{
		notification.DeliveryPending,
		notification.DeliverySent,
		notification.DeliveryFailed,
	} {
		if candidate.String() == s {
			return candidate, nil
		}
	}

	var zero notification.DeliveryStatus
	return zero, zero.Validate()
}
