package dispatch

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a dispatch and of a single driver
// assignment within it.
//
// Aggregate state transitions:
//
//	Pending ──> Assigned ──> InProgress ──> Completed
//	                 ^             │
//	                 └─────────────┘
//	        (mixed assignment states fall back to Assigned)
//
// Pending is reachable only before any assignment exists and is never
// re-entered: the derivation rule below only ever yields Assigned,
// InProgress or Completed.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a dispatch before any driver
	// has been assigned to it.
	Pending

	// Assigned indicates all drivers on the dispatch are assigned but
	// none has started the trip yet.
	Assigned

	// InProgress indicates at least one driver has started the trip.
	InProgress

	// Completed indicates every driver has finished the trip.
	// This is a final state with no further transitions allowed.
	Completed
)

// getStatusStrings returns the wire representation of each Status.
// These strings match the persisted status values of the mobile and
// admin applications, so they must not change.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Assigned:   "assigned",
		InProgress: "in-progress",
		Completed:  "completed",
	}
}

// getValidStatusStrings returns only the valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "pending",
		Assigned:   "assigned",
		InProgress: "in-progress",
		Completed:  "completed",
	}
}

// StatusFromString parses a wire status string ("pending", "assigned",
// "in-progress", "completed") into a Status.
// Returns an error for unrecognized values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
// Valid statuses are: Pending, Assigned, InProgress, Completed.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// ValidateAssignment checks that the status is one an individual driver
// assignment may hold. Assignments are created in Assigned and move through
// InProgress to Completed; Pending belongs to the aggregate only.
func (s Status) ValidateAssignment() error {
	if s != Assigned && s != InProgress && s != Completed {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid assignment status", s.String()),
		)
	}
	return nil
}

// String returns the wire name of the status.
// Implements fmt.Stringer and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Derivation is the result of applying the aggregate status rule to a set of
// assignment statuses.
type Derivation struct {
	// Status is the derived aggregate status.
	Status Status

	// Fallback reports that the assignment statuses were a mix not covered
	// by the explicit rules and were normalized to Assigned. Callers log
	// this so an unrecognized assignment status stays diagnosable.
	Fallback bool
}

// DeriveStatus computes the aggregate dispatch status from the statuses of
// its driver assignments:
//
//  1. every assignment completed  -> Completed
//  2. any assignment in progress  -> InProgress
//  3. every assignment assigned   -> Assigned
//  4. anything else               -> Assigned (fallback, reported)
//
// The second result is false when statuses is empty: with no assignments
// there is no status authority and the aggregate is left unchanged.
func DeriveStatus(statuses []Status) (Derivation, bool) {
	if len(statuses) == 0 {
		return Derivation{}, false
	}

	allCompleted := true
	allAssigned := true
	anyInProgress := false

	for _, s := range statuses {
		if s != Completed {
			allCompleted = false
		}
		if s != Assigned {
			allAssigned = false
		}
		if s == InProgress {
			anyInProgress = true
		}
	}

	switch {
	case allCompleted:
		return Derivation{Status: Completed}, true
	case anyInProgress:
		return Derivation{Status: InProgress}, true
	case allAssigned:
		return Derivation{Status: Assigned}, true
	default:
		return Derivation{Status: Assigned, Fallback: true}, true
	}
}
