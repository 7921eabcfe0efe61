package dispatch

import (
	"errors"
	"sort"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrDispatchIsNotConstructed is returned when a Dispatch instance was not
	// created through NewDispatch or RestoreDispatch.
	ErrDispatchIsNotConstructed = errors.New("Dispatch must be created via NewDispatch constructor")
)

// Dispatch is the aggregate root for a logistics job served by one or more
// drivers. It owns the per-driver assignment map and the aggregate status
// derived from it.
//
// Dispatch follows these invariants:
//   - Must have a valid unique identifier, customer reference and route
//   - The aggregate status is only ever changed through ApplyStatus with a
//     value produced by the derivation rule, so exactly one status is
//     current at any time
//   - Pending is never re-entered once assignments exist
//   - Assignment stamps are monotonic (see Assignment)
type Dispatch struct {
	id          kernel.UUID
	externalRef string
	customerID  string
	source      kernel.Address
	destination kernel.Address

	status      Status
	assignments map[kernel.UUID]*Assignment

	statusEnteredAt map[Status]time.Time
	createdAt       time.Time
	updatedAt       time.Time

	isConstructed bool
}

// NewDispatch creates a dispatch in Pending status with no assignments.
//
// Parameters:
//   - id: unique identifier
//   - externalRef: the human-facing dispatch number used in notification copy
//   - customerID: the requesting customer's external reference
//   - source, destination: the route endpoints
func NewDispatch(
	id kernel.UUID,
	externalRef string,
	customerID string,
	source, destination kernel.Address,
) (*Dispatch, error) {
	now := time.Now().UTC()

	d := &Dispatch{
		status:          Pending,
		assignments:     make(map[kernel.UUID]*Assignment),
		statusEnteredAt: map[Status]time.Time{Pending: now},
		createdAt:       now,
		updatedAt:       now,
		isConstructed:   true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setExternalRef(externalRef),
		d.setCustomerID(customerID),
		d.setRoute(source, destination),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDispatch reconstructs a dispatch from persistence.
func RestoreDispatch(
	id kernel.UUID,
	externalRef string,
	customerID string,
	source, destination kernel.Address,
	status Status,
	assignments []*Assignment,
	statusEnteredAt map[Status]time.Time,
	createdAt, updatedAt time.Time,
) (*Dispatch, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	d := &Dispatch{
		status:          status,
		assignments:     make(map[kernel.UUID]*Assignment, len(assignments)),
		statusEnteredAt: make(map[Status]time.Time, len(statusEnteredAt)),
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		isConstructed:   true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setExternalRef(externalRef),
		d.setCustomerID(customerID),
		d.setRoute(source, destination),
	); err != nil {
		return nil, err
	}

	for _, a := range assignments {
		if a == nil {
			return nil, errs.NewValueIsRequiredError("assignment")
		}
		d.assignments[a.DriverID()] = a
	}
	for s, at := range statusEnteredAt {
		d.statusEnteredAt[s] = at
	}

	return d, nil
}

// Validate ensures the Dispatch was created via a constructor.
func (d *Dispatch) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDispatchIsNotConstructed
	}
	return nil
}

// IsEqual compares two dispatches by identifier.
func (d *Dispatch) IsEqual(other *Dispatch) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the dispatch's unique identifier.
func (d *Dispatch) ID() kernel.UUID {
	return d.id
}

// ExternalRef returns the human-facing dispatch number.
func (d *Dispatch) ExternalRef() string {
	return d.externalRef
}

// CustomerID returns the requesting customer's external reference.
func (d *Dispatch) CustomerID() string {
	return d.customerID
}

// Source returns the pickup address.
func (d *Dispatch) Source() kernel.Address {
	return d.source
}

// Destination returns the drop-off address.
func (d *Dispatch) Destination() kernel.Address {
	return d.destination
}

// Status returns the current aggregate status.
func (d *Dispatch) Status() Status {
	return d.status
}

// CreatedAt returns the creation time.
func (d *Dispatch) CreatedAt() time.Time {
	return d.createdAt
}

// UpdatedAt returns the time of the last mutation.
func (d *Dispatch) UpdatedAt() time.Time {
	return d.updatedAt
}

// StatusEnteredAt returns when the dispatch first entered the given status.
func (d *Dispatch) StatusEnteredAt(s Status) (time.Time, bool) {
	at, ok := d.statusEnteredAt[s]
	return at, ok
}

// DriverIDs returns the IDs of all assigned drivers in stable order.
func (d *Dispatch) DriverIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(d.assignments))
	for id := range d.assignments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Assignment returns the assignment for the given driver.
// Returns an ObjectNotFoundError if the driver is not on this dispatch.
func (d *Dispatch) Assignment(driverID kernel.UUID) (*Assignment, error) {
	a, ok := d.assignments[driverID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("driverId", driverID.String())
	}
	return a, nil
}

// Assignments returns the assignment entities. The slice is a copy but the
// entities are the aggregate's own; callers must not mutate them.
func (d *Dispatch) Assignments() []*Assignment {
	out := make([]*Assignment, 0, len(d.assignments))
	for _, id := range d.DriverIDs() {
		out = append(out, d.assignments[id])
	}
	return out
}

// AddDriver adds a driver to the dispatch with a fresh assignment in
// Assigned status. Adding the same driver twice is rejected.
func (d *Dispatch) AddDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if _, exists := d.assignments[driverID]; exists {
		return errs.NewValueIsInvalidError("driver is already assigned to this dispatch")
	}
	if d.status == Completed {
		return errs.NewValueIsInvalidError("cannot assign drivers to a completed dispatch")
	}

	a, err := NewAssignment(driverID)
	if err != nil {
		return err
	}

	d.assignments[driverID] = a
	d.updatedAt = time.Now().UTC()
	return nil
}

// SetAssignmentStatus moves one driver's assignment to newStatus, stamping
// StartedAt/CompletedAt on first entry. It never decides the aggregate
// status itself; callers follow up with Reconcile so the single derivation
// rule stays authoritative.
//
// Returns an ObjectNotFoundError if the driver is not on this dispatch.
func (d *Dispatch) SetAssignmentStatus(driverID kernel.UUID, newStatus Status) error {
	a, err := d.Assignment(driverID)
	if err != nil {
		return err
	}

	if err := a.SetStatus(newStatus); err != nil {
		return err
	}

	d.updatedAt = time.Now().UTC()
	return nil
}

// Reconcile recomputes the aggregate status from the assignment map and
// applies it if it differs from the current status.
//
// The returned Transition is meaningful only when changed is true. With no
// assignments the status is left unchanged (no status authority).
func (d *Dispatch) Reconcile() (t Transition, changed bool, fallback bool) {
	statuses := make([]Status, 0, len(d.assignments))
	for _, a := range d.assignments {
		statuses = append(statuses, a.Status())
	}

	derivation, ok := DeriveStatus(statuses)
	if !ok || derivation.Status == d.status {
		return Transition{}, false, derivation.Fallback
	}

	old := d.status
	now := time.Now().UTC()
	d.status = derivation.Status
	d.statusEnteredAt[derivation.Status] = now
	d.updatedAt = now

	return Transition{
		DispatchID:  d.id,
		ExternalRef: d.externalRef,
		From:        old,
		To:          derivation.Status,
	}, true, derivation.Fallback
}

// AssignmentRecords returns the denormalized mirror records for every
// assignment, carrying the dispatch back-reference.
func (d *Dispatch) AssignmentRecords() []AssignmentRecord {
	records := make([]AssignmentRecord, 0, len(d.assignments))
	for _, id := range d.DriverIDs() {
		records = append(records, NewAssignmentRecord(d.id, d.assignments[id]))
	}
	return records
}

func (d *Dispatch) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Dispatch) setExternalRef(externalRef string) error {
	if externalRef == "" {
		return errs.NewValueIsRequiredError("externalRef")
	}
	d.externalRef = externalRef
	return nil
}

func (d *Dispatch) setCustomerID(customerID string) error {
	if customerID == "" {
		return errs.NewValueIsRequiredError("customerId")
	}
	d.customerID = customerID
	return nil
}

func (d *Dispatch) setRoute(source, destination kernel.Address) error {
	if err := source.Validate(); err != nil {
		return err
	}
	if err := destination.Validate(); err != nil {
		return err
	}
	d.source = source
	d.destination = destination
	return nil
}

// Transition describes a single aggregate status change, handed to the
// notification fan-out.
type Transition struct {
	DispatchID  kernel.UUID
	ExternalRef string
	From        Status
	To          Status
}
