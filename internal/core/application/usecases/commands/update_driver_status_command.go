package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrUpdateDriverStatusCommandIsNotConstructed = errors.New(
		"UpdateDriverStatusCommand must be created via NewUpdateDriverStatusCommand constructor",
	)
)

// UpdateDriverStatusCommand represents a driver-initiated status change for
// one assignment within a dispatch (e.g. the driver starting or finishing
// the trip from the mobile app).
type UpdateDriverStatusCommand struct { //nolint:recvcheck //using for validation
	dispatchID kernel.UUID
	driverID   kernel.UUID
	newStatus  dispatch.Status

	guard guard.ConstructorGuard
}

// NewUpdateDriverStatusCommand creates a command to set one driver's
// assignment status. The status must be a valid assignment status
// (assigned, in-progress or completed).
func NewUpdateDriverStatusCommand(
	dispatchID, driverID kernel.UUID,
	newStatus dispatch.Status,
) (UpdateDriverStatusCommand, error) {
	cmd := UpdateDriverStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDispatchID(dispatchID),
		cmd.setDriverID(driverID),
		cmd.setNewStatus(newStatus),
	); err != nil {
		return UpdateDriverStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateDriverStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDriverStatusCommandIsNotConstructed)
}

// DispatchID returns the dispatch holding the assignment.
func (c UpdateDriverStatusCommand) DispatchID() kernel.UUID {
	return c.dispatchID
}

// DriverID returns the driver whose assignment changes.
func (c UpdateDriverStatusCommand) DriverID() kernel.UUID {
	return c.driverID
}

// NewStatus returns the target assignment status.
func (c UpdateDriverStatusCommand) NewStatus() dispatch.Status {
	return c.newStatus
}

func (c *UpdateDriverStatusCommand) setDispatchID(dispatchID kernel.UUID) error {
	if err := dispatchID.Validate(); err != nil {
		return err
	}

	c.dispatchID = dispatchID
	return nil
}

func (c *UpdateDriverStatusCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *UpdateDriverStatusCommand) setNewStatus(newStatus dispatch.Status) error {
	if err := newStatus.ValidateAssignment(); err != nil {
		return err
	}

	c.newStatus = newStatus
	return nil
}
