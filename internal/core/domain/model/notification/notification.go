package notification

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/recipient"
	"dispatch/internal/pkg/errs"
)

// Notification types understood by the mobile and admin applications.
const (
	TypeGeneral           = "general"
	TypeNewRequest        = "new_request"
	TypeStatusUpdate      = "dispatch_status_update"
	TypeDispatchCompleted = "dispatch_completed"
)

var (
	// ErrNotificationIsNotConstructed is returned when a Notification was not
	// created through NewNotification or RestoreNotification.
	ErrNotificationIsNotConstructed = errors.New(
		"Notification must be created via NewNotification constructor")

	// ErrDeliveryAlreadyRecorded is returned when a delivery outcome is set
	// on a notification that already has one. Notification records are
	// created once and updated at most once.
	ErrDeliveryAlreadyRecorded = errors.New("delivery outcome is already recorded")
)

// Priority is the delivery priority of a notification.
type Priority int

const (
	// NormalPriority is the default delivery priority.
	NormalPriority Priority = iota + 1

	// HighPriority requests elevated delivery priority from the push backend.
	HighPriority
)

// PriorityFromString parses "normal" or "high"; anything else defaults to
// NormalPriority, matching the push payload contract.
func PriorityFromString(s string) Priority {
	if s == "high" {
		return HighPriority
	}
	return NormalPriority
}

// String returns the wire name of the priority.
func (p Priority) String() string {
	if p == HighPriority {
		return "high"
	}
	return "normal"
}

// DeliveryStatus tracks the push delivery outcome of a notification.
type DeliveryStatus int

const (
	// DeliveryPending means the notification has not been handed to the
	// push backend yet.
	DeliveryPending DeliveryStatus = iota + 1

	// DeliverySent means the push backend accepted the message.
	DeliverySent

	// DeliveryFailed means the push backend rejected the message, the send
	// timed out, or the recipient has no token.
	DeliveryFailed
)

func getDeliveryStatusStrings() map[DeliveryStatus]string {
	return map[DeliveryStatus]string{
		DeliveryPending: "pending",
		DeliverySent:    "sent",
		DeliveryFailed:  "failed",
	}
}

// String returns the wire name of the delivery status.
func (s DeliveryStatus) String() string {
	if str, ok := getDeliveryStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks the DeliveryStatus is one of the defined values.
func (s DeliveryStatus) Validate() error {
	if _, ok := getDeliveryStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("delivery status is invalid",
			fmt.Errorf("%d is not a valid delivery status", s))
	}
	return nil
}

// Notification is a recipient-scoped record in the append-only notification
// log. It is created once; the only permitted update is recording the push
// delivery outcome. Records are never deleted.
type Notification struct {
	id         kernel.UUID
	target     recipient.Ref
	ntype      string
	title      string
	message    string
	dispatchID *kernel.UUID
	priority   Priority
	read       bool

	deliveryStatus   DeliveryStatus
	providerResponse string
	deliveryError    string
	deliveredAt      *time.Time

	createdAt time.Time

	isConstructed bool
}

// NewNotification creates a notification in DeliveryPending, unread.
// dispatchID may be nil for notifications not tied to a dispatch.
func NewNotification(
	id kernel.UUID,
	target recipient.Ref,
	ntype, title, message string,
	dispatchID *kernel.UUID,
	priority Priority,
) (*Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if ntype == "" {
		return nil, errs.NewValueIsRequiredError("type")
	}
	if title == "" {
		return nil, errs.NewValueIsRequiredError("title")
	}
	if message == "" {
		return nil, errs.NewValueIsRequiredError("message")
	}
	if dispatchID != nil {
		if err := dispatchID.Validate(); err != nil {
			return nil, err
		}
	}
	if priority != NormalPriority && priority != HighPriority {
		return nil, errs.NewValueIsInvalidError("priority")
	}

	return &Notification{
		id:             id,
		target:         target,
		ntype:          ntype,
		title:          title,
		message:        message,
		dispatchID:     dispatchID,
		priority:       priority,
		deliveryStatus: DeliveryPending,
		createdAt:      time.Now().UTC(),
		isConstructed:  true,
	}, nil
}

// RestoreNotification reconstructs a notification from persistence.
func RestoreNotification(
	id kernel.UUID,
	target recipient.Ref,
	ntype, title, message string,
	dispatchID *kernel.UUID,
	priority Priority,
	read bool,
	deliveryStatus DeliveryStatus,
	providerResponse, deliveryError string,
	deliveredAt *time.Time,
	createdAt time.Time,
) (*Notification, error) {
	n, err := NewNotification(id, target, ntype, title, message, dispatchID, priority)
	if err != nil {
		return nil, err
	}
	if err := deliveryStatus.Validate(); err != nil {
		return nil, err
	}

	n.read = read
	n.deliveryStatus = deliveryStatus
	n.providerResponse = providerResponse
	n.deliveryError = deliveryError
	n.deliveredAt = deliveredAt
	n.createdAt = createdAt
	return n, nil
}

// Validate ensures the Notification was created via a constructor.
func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

// ID returns the notification's unique identifier.
func (n *Notification) ID() kernel.UUID {
	return n.id
}

// Target returns the recipient reference.
func (n *Notification) Target() recipient.Ref {
	return n.target
}

// Type returns the notification type string.
func (n *Notification) Type() string {
	return n.ntype
}

// Title returns the notification title.
func (n *Notification) Title() string {
	return n.title
}

// Message returns the notification body.
func (n *Notification) Message() string {
	return n.message
}

// DispatchID returns the related dispatch, or nil.
func (n *Notification) DispatchID() *kernel.UUID {
	return n.dispatchID
}

// Priority returns the delivery priority.
func (n *Notification) Priority() Priority {
	return n.priority
}

// Read reports whether the recipient has read the notification in-app.
func (n *Notification) Read() bool {
	return n.read
}

// DeliveryStatus returns the push delivery outcome.
func (n *Notification) DeliveryStatus() DeliveryStatus {
	return n.deliveryStatus
}

// ProviderResponse returns the push backend's response for a sent notification.
func (n *Notification) ProviderResponse() string {
	return n.providerResponse
}

// DeliveryError returns the recorded failure message for a failed notification.
func (n *Notification) DeliveryError() string {
	return n.deliveryError
}

// DeliveredAt returns when the delivery outcome was recorded, or nil.
func (n *Notification) DeliveredAt() *time.Time {
	return n.deliveredAt
}

// CreatedAt returns the creation time.
func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

// MarkSent records a successful push delivery with the provider response.
// Returns ErrDeliveryAlreadyRecorded if an outcome is already recorded.
func (n *Notification) MarkSent(providerResponse string) error {
	if n.deliveryStatus != DeliveryPending {
		return ErrDeliveryAlreadyRecorded
	}

	now := time.Now().UTC()
	n.deliveryStatus = DeliverySent
	n.providerResponse = providerResponse
	n.deliveredAt = &now
	return nil
}

// MarkFailed records a failed push delivery with the error message.
// Returns ErrDeliveryAlreadyRecorded if an outcome is already recorded.
func (n *Notification) MarkFailed(deliveryError string) error {
	if n.deliveryStatus != DeliveryPending {
		return ErrDeliveryAlreadyRecorded
	}

	now := time.Now().UTC()
	n.deliveryStatus = DeliveryFailed
	n.deliveryError = deliveryError
	n.deliveredAt = &now
	return nil
}
