// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the dispatch system.
//
// The package includes:
//   - NotificationFanout: maps a dispatch status transition to the set of
//     notifications to write, enforcing the completion and admin-broadcast
//     dedup rules
//
// Domain services coordinate between aggregates, implementing business logic
// that doesn't naturally belong to a single aggregate root.
package services
