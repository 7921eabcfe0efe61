package ports

import (
	"context"

	"dispatch/internal/core/domain/model/notification"
)

// NotificationRepository defines the persistence contract for the
// append-only notification log. Records are created once and updated at
// most once, to record the push delivery outcome; they are never deleted.
type NotificationRepository interface {
	// Add appends a notification record.
	Add(ctx context.Context, n *notification.Notification) error

	// UpdateDeliveryOutcome persists the delivery-outcome fields of a
	// notification (status, provider response or error, delivered-at).
	// All other fields are immutable after Add.
	UpdateDeliveryOutcome(ctx context.Context, n *notification.Notification) error

	// GetAllPendingDelivery retrieves up to limit driver/customer
	// notifications still awaiting push delivery, oldest first. Admin
	// broadcast records are consumed in-app and never push-delivered, so
	// they are excluded.
	GetAllPendingDelivery(ctx context.Context, limit int) ([]*notification.Notification, error)
}
