package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrAssignDriversCommandIsNotConstructed = errors.New(
		"AssignDriversCommand must be created via NewAssignDriversCommand constructor",
	)
)

// AssignDriversCommand adds one or more drivers to a dispatch, each with a
// fresh assignment in assigned status.
type AssignDriversCommand struct { //nolint:recvcheck //using for validation
	dispatchID kernel.UUID
	driverIDs  []kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignDriversCommand creates a command to assign the given drivers.
// At least one driver is required.
func NewAssignDriversCommand(dispatchID kernel.UUID, driverIDs []kernel.UUID) (AssignDriversCommand, error) {
	cmd := AssignDriversCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDispatchID(dispatchID),
		cmd.setDriverIDs(driverIDs),
	); err != nil {
		return AssignDriversCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDriversCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriversCommandIsNotConstructed)
}

// DispatchID returns the dispatch receiving the drivers.
func (c AssignDriversCommand) DispatchID() kernel.UUID {
	return c.dispatchID
}

// DriverIDs returns the drivers to assign.
func (c AssignDriversCommand) DriverIDs() []kernel.UUID {
	return c.driverIDs
}

func (c *AssignDriversCommand) setDispatchID(dispatchID kernel.UUID) error {
	if err := dispatchID.Validate(); err != nil {
		return err
	}

	c.dispatchID = dispatchID
	return nil
}

func (c *AssignDriversCommand) setDriverIDs(driverIDs []kernel.UUID) error {
	if len(driverIDs) == 0 {
		return errs.NewValueIsRequiredError("driverIds")
	}
	for _, id := range driverIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.driverIDs = driverIDs
	return nil
}
