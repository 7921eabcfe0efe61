package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/recipient"
)

// DriverRepository defines the persistence contract for driver recipients.
// Drivers have a lifecycle independent of dispatches; the engine looks them
// up but never owns them.
type DriverRepository interface {
	// Add persists a new driver.
	Add(ctx context.Context, driver *recipient.Driver) error

	// Update persists changes to an existing driver (push token updates).
	Update(ctx context.Context, driver *recipient.Driver) error

	// Get retrieves a driver by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*recipient.Driver, error)
}

// CustomerRepository defines the persistence contract for customer
// recipients. Dispatches reference customers by an external business
// identifier, so the store exposes an explicit resolve capability.
type CustomerRepository interface {
	// Add persists a new customer.
	Add(ctx context.Context, customer *recipient.Customer) error

	// Update persists changes to an existing customer (push token updates).
	Update(ctx context.Context, customer *recipient.Customer) error

	// Get retrieves a customer by its store identifier.
	Get(ctx context.Context, id kernel.UUID) (*recipient.Customer, error)

	// ResolveByExternalID finds the customer a dispatch references, matching
	// either the external business identifier or the store identifier's
	// string form. Returns an ObjectNotFoundError when no customer matches.
	ResolveByExternalID(ctx context.Context, externalID string) (*recipient.Customer, error)
}
