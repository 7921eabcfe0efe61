// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// DispatchRepoFactory provides access to the dispatch repository within a transaction.
	DispatchRepoFactory interface {
		DispatchRepository() ports.DispatchRepository
	}

	// AssignmentRepoFactory provides access to the assignment mirror repository within a transaction.
	AssignmentRepoFactory interface {
		AssignmentRepository() ports.AssignmentRepository
	}

	// NotificationRepoFactory provides access to the notification repository within a transaction.
	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	// DriverRepoFactory provides access to the driver repository within a transaction.
	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	// CustomerRepoFactory provides access to the customer repository within a transaction.
	CustomerRepoFactory interface {
		CustomerRepository() ports.CustomerRepository
	}

	// ReconcileUoW manages transactions for reconciliation operations:
	// the dispatch aggregate, its assignment mirror, the notification log
	// and the customer lookup the fan-out needs.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   disp, err := uow.DispatchRepository().Get(ctx, id)
	//   // ... reconcile and persist
	//
	//   err = uow.Commit(ctx)
	ReconcileUoW interface {
		TxManager
		DispatchRepoFactory
		AssignmentRepoFactory
		NotificationRepoFactory
		CustomerRepoFactory
	}

	// ReconcileUoWFactory creates unit of work instances for reconciliation.
	ReconcileUoWFactory interface {
		Create() ReconcileUoW
	}

	// RecipientUoW manages transactions for recipient-only operations
	// (push token updates, bulk sends).
	RecipientUoW interface {
		TxManager
		DriverRepoFactory
		CustomerRepoFactory
	}

	// RecipientUoWFactory creates unit of work instances for recipient operations.
	RecipientUoWFactory interface {
		Create() RecipientUoW
	}

	// DeliveryUoW manages the repositories the notification delivery loop
	// needs: pending notifications plus the recipient token lookups.
	DeliveryUoW interface {
		TxManager
		NotificationRepoFactory
		DriverRepoFactory
		CustomerRepoFactory
	}

	// DeliveryUoWFactory creates unit of work instances for notification delivery.
	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}
)
