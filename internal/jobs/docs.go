// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for status coordination.
//
// # Available Jobs
//
// 1. StatusSyncJob - Runs every few minutes (default 5) to repair dispatch
// statuses that drifted from their per-driver assignments
// 2. NotificationDeliveryJob - Runs every 15 seconds to drain the pending
// notification queue through the push backend
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(syncHandler, deliverHandler, 5, 50, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The sync job reconciles each dispatch in its own transaction; one
// failure is logged and the sweep continues
// - The delivery job records per-notification outcomes; a batch error is
// logged and retried on the next tick
// - Failed job starts will stop any already running jobs
package jobs
