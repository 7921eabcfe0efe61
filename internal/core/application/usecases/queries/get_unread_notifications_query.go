package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/recipient"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetUnreadNotificationsQueryIsNotConstructed = errors.New(
		"GetUnreadNotificationsQuery must be created via NewGetUnreadNotificationsQuery constructor",
	)
)

// GetUnreadNotificationsQuery retrieves the unread in-app notifications for
// one recipient. The admin broadcast log is queried with the admin kind and
// a zero recipient ID.
type GetUnreadNotificationsQuery struct { //nolint:recvcheck //using for validation
	target recipient.Ref

	guard guard.ConstructorGuard
}

// NewGetUnreadNotificationsQuery creates a query for a recipient's unread feed.
func NewGetUnreadNotificationsQuery(target recipient.Ref) (GetUnreadNotificationsQuery, error) {
	q := GetUnreadNotificationsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setTarget(target); err != nil {
		return GetUnreadNotificationsQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetUnreadNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrGetUnreadNotificationsQueryIsNotConstructed)
}

// Target returns the recipient whose feed is requested.
func (q GetUnreadNotificationsQuery) Target() recipient.Ref {
	return q.target
}

func (q *GetUnreadNotificationsQuery) setTarget(target recipient.Ref) error {
	if err := target.Validate(); err != nil {
		return err
	}

	q.target = target
	return nil
}

// GetUnreadNotificationsQueryResponse is the read model for one unread
// notification.
type GetUnreadNotificationsQueryResponse struct {
	ID         kernel.UUID
	Type       string
	Title      string
	Message    string
	DispatchID *kernel.UUID
	Priority   string
	CreatedAt  time.Time
}
