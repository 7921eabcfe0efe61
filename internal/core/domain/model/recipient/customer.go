package recipient

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrCustomerIsNotConstructed is returned when a Customer instance was not
// created through NewCustomer or RestoreCustomer.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

// Customer is a push notification recipient. Dispatches reference customers
// by an external business identifier rather than the store key, so the
// store exposes an explicit resolve-by-external-id lookup.
type Customer struct {
	id             kernel.UUID
	externalID     string
	name           string
	pushToken      string
	tokenUpdatedAt *time.Time

	isConstructed bool
}

// NewCustomer creates a customer without a push token.
func NewCustomer(id kernel.UUID, externalID, name string) (*Customer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if externalID == "" {
		return nil, errs.NewValueIsRequiredError("customerId")
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}

	return &Customer{
		id:            id,
		externalID:    externalID,
		name:          name,
		isConstructed: true,
	}, nil
}

// RestoreCustomer reconstructs a customer from persistence.
func RestoreCustomer(
	id kernel.UUID,
	externalID, name, pushToken string,
	tokenUpdatedAt *time.Time,
) (*Customer, error) {
	c, err := NewCustomer(id, externalID, name)
	if err != nil {
		return nil, err
	}

	c.pushToken = pushToken
	c.tokenUpdatedAt = tokenUpdatedAt
	return c, nil
}

// Validate ensures the Customer was created via a constructor.
func (c *Customer) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCustomerIsNotConstructed
	}
	return nil
}

// ID returns the customer's store identifier.
func (c *Customer) ID() kernel.UUID {
	return c.id
}

// ExternalID returns the business identifier dispatches reference.
func (c *Customer) ExternalID() string {
	return c.externalID
}

// Name returns the customer's display name.
func (c *Customer) Name() string {
	return c.name
}

// PushToken returns the registered FCM token, empty if none.
func (c *Customer) PushToken() string {
	return c.pushToken
}

// TokenUpdatedAt returns when the push token was last registered, or nil.
func (c *Customer) TokenUpdatedAt() *time.Time {
	return c.tokenUpdatedAt
}

// UpdatePushToken registers a new FCM token for the customer.
func (c *Customer) UpdatePushToken(token string) error {
	if token == "" {
		return errs.NewValueIsRequiredError("fcmToken")
	}

	now := time.Now().UTC()
	c.pushToken = token
	c.tokenUpdatedAt = &now
	return nil
}

// Ref returns the notification target reference for this customer.
func (c *Customer) Ref() Ref {
	return Ref{kind: CustomerKind, id: c.id}
}
