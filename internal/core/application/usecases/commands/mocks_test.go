package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/recipient"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDispatchRepository struct{ mock.Mock }

func (m *MockDispatchRepository) Add(ctx context.Context, d *dispatch.Dispatch) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDispatchRepository) Update(ctx context.Context, d *dispatch.Dispatch) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDispatchRepository) Get(ctx context.Context, id kernel.UUID) (*dispatch.Dispatch, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*dispatch.Dispatch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDispatchRepository) GetAllInStatuses(
	ctx context.Context,
	statuses ...dispatch.Status,
) ([]*dispatch.Dispatch, error) {
	args := m.Called(ctx, statuses)
	if d := args.Get(0); d != nil {
		return d.([]*dispatch.Dispatch), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAssignmentRepository struct{ mock.Mock }

func (m *MockAssignmentRepository) Upsert(ctx context.Context, record dispatch.AssignmentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAssignmentRepository) UpdateStatusByDispatchID(
	ctx context.Context,
	dispatchID kernel.UUID,
	status dispatch.Status,
) error {
	args := m.Called(ctx, dispatchID, status)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByDispatchID(
	ctx context.Context,
	dispatchID kernel.UUID,
) ([]dispatch.AssignmentRecord, error) {
	args := m.Called(ctx, dispatchID)
	if r := args.Get(0); r != nil {
		return r.([]dispatch.AssignmentRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) UpdateDeliveryOutcome(
	ctx context.Context,
	n *notification.Notification,
) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetAllPendingDelivery(
	ctx context.Context,
	limit int,
) ([]*notification.Notification, error) {
	args := m.Called(ctx, limit)
	if n := args.Get(0); n != nil {
		return n.([]*notification.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *recipient.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *recipient.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*recipient.Driver, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*recipient.Driver), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCustomerRepository struct{ mock.Mock }

func (m *MockCustomerRepository) Add(ctx context.Context, c *recipient.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *recipient.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Get(ctx context.Context, id kernel.UUID) (*recipient.Customer, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*recipient.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerRepository) ResolveByExternalID(
	ctx context.Context,
	externalID string,
) (*recipient.Customer, error) {
	args := m.Called(ctx, externalID)
	if c := args.Get(0); c != nil {
		return c.(*recipient.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockReconcileUoW struct{ mock.Mock }

func (m *MockReconcileUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReconcileUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReconcileUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReconcileUoW) DispatchRepository() ports.DispatchRepository {
	args := m.Called()
	return args.Get(0).(ports.DispatchRepository)
}

func (m *MockReconcileUoW) AssignmentRepository() ports.AssignmentRepository {
	args := m.Called()
	return args.Get(0).(ports.AssignmentRepository)
}

func (m *MockReconcileUoW) NotificationRepository() ports.NotificationRepository {
	args := m.Called()
	return args.Get(0).(ports.NotificationRepository)
}

func (m *MockReconcileUoW) CustomerRepository() ports.CustomerRepository {
	args := m.Called()
	return args.Get(0).(ports.CustomerRepository)
}

type MockReconcileUoWFactory struct{ mock.Mock }

func (m *MockReconcileUoWFactory) Create() commands.ReconcileUoW {
	args := m.Called()
	return args.Get(0).(commands.ReconcileUoW)
}

type MockRecipientUoW struct{ mock.Mock }

func (m *MockRecipientUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRecipientUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRecipientUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRecipientUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

func (m *MockRecipientUoW) CustomerRepository() ports.CustomerRepository {
	args := m.Called()
	return args.Get(0).(ports.CustomerRepository)
}

type MockRecipientUoWFactory struct{ mock.Mock }

func (m *MockRecipientUoWFactory) Create() commands.RecipientUoW {
	args := m.Called()
	return args.Get(0).(commands.RecipientUoW)
}

type MockDeliveryUoW struct{ mock.Mock }

func (m *MockDeliveryUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeliveryUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeliveryUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeliveryUoW) NotificationRepository() ports.NotificationRepository {
	args := m.Called()
	return args.Get(0).(ports.NotificationRepository)
}

func (m *MockDeliveryUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

func (m *MockDeliveryUoW) CustomerRepository() ports.CustomerRepository {
	args := m.Called()
	return args.Get(0).(ports.CustomerRepository)
}

type MockDeliveryUoWFactory struct{ mock.Mock }

func (m *MockDeliveryUoWFactory) Create() commands.DeliveryUoW {
	args := m.Called()
	return args.Get(0).(commands.DeliveryUoW)
}

type MockPushSender struct{ mock.Mock }

func (m *MockPushSender) Send(ctx context.Context, msg ports.PushMessage) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

// restoreTestDispatch builds a dispatch in the given aggregate status whose
// drivers carry the given assignment statuses, one driver per entry.
func restoreTestDispatch(
	t *testing.T,
	status dispatch.Status,
	assignmentStatuses ...dispatch.Status,
) (*dispatch.Dispatch, []kernel.UUID) {
	t.Helper()

	source, err := kernel.NewAddress("Warehouse A")
	require.NoError(t, err)
	destination, err := kernel.NewAddress("Dock 7")
	require.NoError(t, err)

	now := time.Now().UTC()
	driverIDs := make([]kernel.UUID, 0, len(assignmentStatuses))
	assignments := make([]*dispatch.Assignment, 0, len(assignmentStatuses))
	for _, s := range assignmentStatuses {
		driverID := kernel.NewUUID()
		a, err := dispatch.RestoreAssignment(driverID, s, nil, nil, now)
		require.NoError(t, err)
		driverIDs = append(driverIDs, driverID)
		assignments = append(assignments, a)
	}

	d, err := dispatch.RestoreDispatch(
		kernel.NewUUID(),
		"DSP-1042",
		"CUST-77",
		source, destination,
		status,
		assignments,
		map[dispatch.Status]time.Time{status: now},
		now, now,
	)
	require.NoError(t, err)

	return d, driverIDs
}

// restoreTestCustomer builds a customer with the given external reference
// and registered push token (empty for none).
func restoreTestCustomer(t *testing.T, externalID, pushToken string) *recipient.Customer {
	t.Helper()

	c, err := recipient.RestoreCustomer(kernel.NewUUID(), externalID, "Acme Logistics", pushToken, nil)
	require.NoError(t, err)
	return c
}

// restoreTestDriver builds a driver with the given registered push token
// (empty for none).
func restoreTestDriver(t *testing.T, pushToken string) *recipient.Driver {
	t.Helper()

	d, err := recipient.RestoreDriver(kernel.NewUUID(), "Sam Porter", pushToken, nil)
	require.NoError(t, err)
	return d
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
