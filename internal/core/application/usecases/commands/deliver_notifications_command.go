package commands

import (
	"errors"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrDeliverNotificationsCommandIsNotConstructed = errors.New(
		"DeliverNotificationsCommand must be created via NewDeliverNotificationsCommand constructor",
	)
)

// DeliverNotificationsCommand requests one pass of the push delivery loop:
// pick up to limit pending driver/customer notifications and hand each to
// the push backend once.
type DeliverNotificationsCommand struct { //nolint:recvcheck //using for validation
	limit int

	guard guard.ConstructorGuard
}

// NewDeliverNotificationsCommand creates a command for one delivery pass.
func NewDeliverNotificationsCommand(limit int) (DeliverNotificationsCommand, error) {
	cmd := DeliverNotificationsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setLimit(limit); err != nil {
		return DeliverNotificationsCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeliverNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrDeliverNotificationsCommandIsNotConstructed)
}

// Limit returns the maximum number of notifications to deliver in one pass.
func (c DeliverNotificationsCommand) Limit() int {
	return c.limit
}

func (c *DeliverNotificationsCommand) setLimit(limit int) error {
	if limit <= 0 {
		return errs.NewValueIsInvalidError("limit must be positive")
	}

	c.limit = limit
	return nil
}
