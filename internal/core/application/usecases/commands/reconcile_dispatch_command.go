package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrReconcileDispatchCommandIsNotConstructed = errors.New(
		"ReconcileDispatchCommand must be created via NewReconcileDispatchCommand constructor",
	)
)

// ReconcileDispatchCommand requests a status reconciliation for one dispatch:
// recompute the aggregate status from the embedded assignment map and apply
// it if it changed. Triggered by assignment-map mutations and by
// driver-initiated status changes.
type ReconcileDispatchCommand struct { //nolint:recvcheck //using for validation
	dispatchID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReconcileDispatchCommand creates a command to reconcile the given dispatch.
func NewReconcileDispatchCommand(dispatchID kernel.UUID) (ReconcileDispatchCommand, error) {
	cmd := ReconcileDispatchCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setDispatchID(dispatchID); err != nil {
		return ReconcileDispatchCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReconcileDispatchCommand) Validate() error {
	return c.guard.Validate(ErrReconcileDispatchCommandIsNotConstructed)
}

// DispatchID returns the dispatch to reconcile.
func (c ReconcileDispatchCommand) DispatchID() kernel.UUID {
	return c.dispatchID
}

func (c *ReconcileDispatchCommand) setDispatchID(dispatchID kernel.UUID) error {
	if err := dispatchID.Validate(); err != nil {
		return err
	}

	c.dispatchID = dispatchID
	return nil
}
