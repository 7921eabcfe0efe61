package services

import (
	"fmt"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/recipient"
)

// NotificationFanout is a domain service that maps a dispatch status
// transition to the set of notifications to write, applying the dedup rules:
//
//   - completion notifications are emitted by exactly one path (the dedicated
//     completed fan-out); the generic transition path never produces
//     customer/driver records for the Completed target
//   - the global admin broadcast is suppressed for transitions into Assigned
//     (a non-event for administrators) and into Completed (which has its own
//     dedicated admin summary)
//
// The service is stateless and pure apart from identifier generation; it
// plans notifications but never persists them, so writes for different
// recipients stay independent.
type NotificationFanout struct{}

// NewNotificationFanout creates a new NotificationFanout instance.
func NewNotificationFanout() NotificationFanout {
	return NotificationFanout{}
}

// PlanTransition returns the notifications for the given status transition.
//
// Parameters:
//   - t: the applied transition
//   - snapshot: the dispatch after the transition (source of driver IDs)
//   - customer: the resolved customer, or nil when resolution failed; the
//     caller logs the warning; planning simply skips the customer record
//
// Only transitions into InProgress carry customer/driver copy; transitions
// into Completed use the dedicated completion plan; everything else is an
// admin broadcast subject to the suppression rules above.
func (f NotificationFanout) PlanTransition(
	t dispatch.Transition,
	snapshot *dispatch.Dispatch,
	customer *recipient.Customer,
) ([]*notification.Notification, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	if t.To == dispatch.Completed {
		return f.planCompletion(t, snapshot, customer)
	}

	var out []*notification.Notification

	if t.To == dispatch.InProgress {
		transitionType := "dispatch_" + t.To.String()

		if customer != nil {
			n, err := f.build(
				customer.Ref(),
				transitionType,
				"Dispatch In Progress",
				fmt.Sprintf(
					"Your dispatch #%s is now in progress. One or more drivers have started the trip.",
					t.ExternalRef),
				t.DispatchID,
				notification.NormalPriority,
			)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}

		for _, driverID := range snapshot.DriverIDs() {
			ref, err := recipient.NewDriverRef(driverID)
			if err != nil {
				return nil, err
			}

			n, err := f.build(
				ref,
				transitionType,
				"Dispatch In Progress",
				fmt.Sprintf(
					"Dispatch #%s is now in progress. One or more team members have started their trips.",
					t.ExternalRef),
				t.DispatchID,
				notification.NormalPriority,
			)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
	}

	// Admin broadcast, suppressed for Assigned; Completed never reaches here.
	if t.To != dispatch.Assigned {
		n, err := f.build(
			recipient.NewAdminBroadcastRef(),
			notification.TypeStatusUpdate,
			"Dispatch Status Updated",
			fmt.Sprintf("Dispatch #%s status changed to %s. Trip is now in progress.",
				t.ExternalRef, t.To.String()),
			t.DispatchID,
			notification.NormalPriority,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	return out, nil
}

// planCompletion is the dedicated completion fan-out, invoked once per
// transition into Completed: one record per assigned driver, one for the
// customer when resolved, and one admin summary citing the driver count.
func (f NotificationFanout) planCompletion(
	t dispatch.Transition,
	snapshot *dispatch.Dispatch,
	customer *recipient.Customer,
) ([]*notification.Notification, error) {
	driverIDs := snapshot.DriverIDs()
	out := make([]*notification.Notification, 0, len(driverIDs)+2)

	for _, driverID := range driverIDs {
		ref, err := recipient.NewDriverRef(driverID)
		if err != nil {
			return nil, err
		}

		n, err := f.build(
			ref,
			notification.TypeDispatchCompleted,
			"Dispatch Completed Successfully",
			fmt.Sprintf(
				"Dispatch #%s has been completed successfully. All team members have finished their trips.",
				t.ExternalRef),
			t.DispatchID,
			notification.HighPriority,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	if customer != nil {
		n, err := f.build(
			customer.Ref(),
			notification.TypeDispatchCompleted,
			"Your Dispatch is Complete!",
			fmt.Sprintf(
				"Your dispatch #%s has been completed successfully. All drivers have finished their trips.",
				t.ExternalRef),
			t.DispatchID,
			notification.HighPriority,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	summary, err := f.build(
		recipient.NewAdminBroadcastRef(),
		notification.TypeDispatchCompleted,
		"Dispatch Completed",
		fmt.Sprintf("Dispatch #%s has been completed. All %d drivers have finished their trips.",
			t.ExternalRef, len(driverIDs)),
		t.DispatchID,
		notification.NormalPriority,
	)
	if err != nil {
		return nil, err
	}

	return append(out, summary), nil
}

// PlanNewDispatch returns the single admin-only notification announcing a
// newly created dispatch. customerName defaults to a generic label when the
// customer could not be resolved.
func (f NotificationFanout) PlanNewDispatch(
	snapshot *dispatch.Dispatch,
	customerName string,
) (*notification.Notification, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	if customerName == "" {
		customerName = "Customer"
	}

	return f.build(
		recipient.NewAdminBroadcastRef(),
		notification.TypeNewRequest,
		"New Dispatch Request",
		fmt.Sprintf("%s has created a new dispatch request: %s -> %s",
			customerName, snapshot.Source().String(), snapshot.Destination().String()),
		snapshot.ID(),
		notification.HighPriority,
	)
}

func (f NotificationFanout) build(
	target recipient.Ref,
	ntype, title, message string,
	dispatchID kernel.UUID,
	priority notification.Priority,
) (*notification.Notification, error) {
	return notification.NewNotification(
		kernel.NewUUID(),
		target,
		ntype,
		title,
		message,
		&dispatchID,
		priority,
	)
}
