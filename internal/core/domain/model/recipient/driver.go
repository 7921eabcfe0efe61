package recipient

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrDriverIsNotConstructed is returned when a Driver instance was not
// created through NewDriver or RestoreDriver.
var ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")

// Driver is a push notification recipient with its own lifecycle,
// independent of any dispatch. The engine looks drivers up but never owns
// them.
type Driver struct {
	id             kernel.UUID
	name           string
	pushToken      string
	tokenUpdatedAt *time.Time

	isConstructed bool
}

// NewDriver creates a driver without a push token; the mobile app registers
// one later via the token update operation.
func NewDriver(id kernel.UUID, name string) (*Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}

	return &Driver{
		id:            id,
		name:          name,
		isConstructed: true,
	}, nil
}

// RestoreDriver reconstructs a driver from persistence.
func RestoreDriver(id kernel.UUID, name, pushToken string, tokenUpdatedAt *time.Time) (*Driver, error) {
	d, err := NewDriver(id, name)
	if err != nil {
		return nil, err
	}

	d.pushToken = pushToken
	d.tokenUpdatedAt = tokenUpdatedAt
	return d, nil
}

// Validate ensures the Driver was created via a constructor.
func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Name returns the driver's display name.
func (d *Driver) Name() string {
	return d.name
}

// PushToken returns the registered FCM token, empty if none.
func (d *Driver) PushToken() string {
	return d.pushToken
}

// TokenUpdatedAt returns when the push token was last registered, or nil.
func (d *Driver) TokenUpdatedAt() *time.Time {
	return d.tokenUpdatedAt
}

// UpdatePushToken registers a new FCM token for the driver.
func (d *Driver) UpdatePushToken(token string) error {
	if token == "" {
		return errs.NewValueIsRequiredError("fcmToken")
	}

	now := time.Now().UTC()
	d.pushToken = token
	d.tokenUpdatedAt = &now
	return nil
}

// Ref returns the notification target reference for this driver.
func (d *Driver) Ref() Ref {
	return Ref{kind: DriverKind, id: d.id}
}
