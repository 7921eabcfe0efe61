package queries

import (
	"context"
	"database/sql"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUnreadNotificationsQueryHandler reads a recipient's unread feed straight
// from the notification log.
type GetUnreadNotificationsQueryHandler struct {
	db *gorm.DB
}

// NewGetUnreadNotificationsQueryHandler creates a handler for unread feed queries.
func NewGetUnreadNotificationsQueryHandler(db *gorm.DB) GetUnreadNotificationsQueryHandler {
	return GetUnreadNotificationsQueryHandler{db: db}
}

// Handle executes the query. Returns the recipient's unread notifications,
// newest first.
func (h GetUnreadNotificationsQueryHandler) Handle(
	ctx context.Context,
	query GetUnreadNotificationsQuery,
) ([]GetUnreadNotificationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	notifications := make([]GetUnreadNotificationsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			type,
			title,
			message,
			dispatch_id,
			priority,
			created_at
		FROM notifications
		WHERE recipient_kind = ?
		  AND recipient_id = ?
		  AND read = FALSE
		ORDER BY created_at DESC
	`, query.Target().Kind().String(), query.Target().ID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetUnreadNotificationsQueryResponse
		var id uuid.UUID
		var dispatchID sql.NullString

		err = rows.Scan(
			&id,
			&resp.Type,
			&resp.Title,
			&resp.Message,
			&dispatchID,
			&resp.Priority,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		notificationID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = notificationID

		if dispatchID.Valid {
			parsed, parseErr := kernel.UUIDFromString(dispatchID.String)
			if parseErr != nil {
				return nil, parseErr
			}
			resp.DispatchID = &parsed
		}

		notifications = append(notifications, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}
