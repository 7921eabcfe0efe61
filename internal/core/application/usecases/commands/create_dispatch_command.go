package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateDispatchCommandIsNotConstructed = errors.New(
		"CreateDispatchCommand must be created via NewCreateDispatchCommand constructor",
	)
)

// CreateDispatchCommand registers a new dispatch request in pending status.
type CreateDispatchCommand struct { //nolint:recvcheck //using for validation
	dispatchID  kernel.UUID
	externalRef string
	customerID  string
	source      kernel.Address
	destination kernel.Address

	guard guard.ConstructorGuard
}

// NewCreateDispatchCommand creates a command to register a dispatch.
func NewCreateDispatchCommand(
	dispatchID kernel.UUID,
	externalRef, customerID string,
	source, destination kernel.Address,
) (CreateDispatchCommand, error) {
	cmd := CreateDispatchCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDispatchID(dispatchID),
		cmd.setExternalRef(externalRef),
		cmd.setCustomerID(customerID),
		cmd.setRoute(source, destination),
	); err != nil {
		return CreateDispatchCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDispatchCommand) Validate() error {
	return c.guard.Validate(ErrCreateDispatchCommandIsNotConstructed)
}

// DispatchID returns the identifier for the new dispatch.
func (c CreateDispatchCommand) DispatchID() kernel.UUID {
	return c.dispatchID
}

// ExternalRef returns the human-facing dispatch number.
func (c CreateDispatchCommand) ExternalRef() string {
	return c.externalRef
}

// CustomerID returns the requesting customer's external reference.
func (c CreateDispatchCommand) CustomerID() string {
	return c.customerID
}

// Source returns the pickup address.
func (c CreateDispatchCommand) Source() kernel.Address {
	return c.source
}

// Destination returns the drop-off address.
func (c CreateDispatchCommand) Destination() kernel.Address {
	return c.destination
}

func (c *CreateDispatchCommand) setDispatchID(dispatchID kernel.UUID) error {
	if err := dispatchID.Validate(); err != nil {
		return err
	}

	c.dispatchID = dispatchID
	return nil
}

func (c *CreateDispatchCommand) setExternalRef(externalRef string) error {
	if externalRef == "" {
		return errs.NewValueIsRequiredError("externalRef")
	}

	c.externalRef = externalRef
	return nil
}

func (c *CreateDispatchCommand) setCustomerID(customerID string) error {
	if customerID == "" {
		return errs.NewValueIsRequiredError("customerId")
	}

	c.customerID = customerID
	return nil
}

func (c *CreateDispatchCommand) setRoute(source, destination kernel.Address) error {
	if err := source.Validate(); err != nil {
		return err
	}
	if err := destination.Validate(); err != nil {
		return err
	}

	c.source = source
	c.destination = destination
	return nil
}
