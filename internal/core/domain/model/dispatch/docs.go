// Package dispatch contains the Dispatch aggregate and its status machine.
//
// A dispatch is a logistics job served by one or more drivers. Each driver's
// participation is an Assignment entity embedded in the aggregate; the
// aggregate status is derived from the assignment statuses by DeriveStatus
// and applied through Reconcile, which is the only way the status changes.
// AssignmentRecord is the denormalized mirror written alongside the
// aggregate for assignment-centric queries.
package dispatch
