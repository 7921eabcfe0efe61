package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var (
	ErrSyncStatusesCommandIsNotConstructed = errors.New(
		"SyncStatusesCommand must be created via NewSyncStatusesCommand constructor",
	)
)

// SyncStatusesCommand requests a consistency sweep over all live dispatches:
// re-derive each aggregate status from its assignment map and repair any
// drift. It carries no parameters; the sweep always covers every dispatch in
// assigned or in-progress status.
type SyncStatusesCommand struct {
	guard guard.ConstructorGuard
}

// NewSyncStatusesCommand creates a command for the consistency sweep.
func NewSyncStatusesCommand() SyncStatusesCommand {
	return SyncStatusesCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c SyncStatusesCommand) Validate() error {
	return c.guard.Validate(ErrSyncStatusesCommandIsNotConstructed)
}
