package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/assignmentrepo"
	"dispatch/internal/adapters/out/postgres/dispatchrepo"
	"dispatch/internal/adapters/out/postgres/notificationrepo"
	"dispatch/internal/adapters/out/postgres/recipientrepo"
	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/recipient"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes the PostgreSQL container and database connection,
// then runs migrations for all persistence DTOs.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&dispatchrepo.DispatchDTO{},
		&dispatchrepo.AssignmentDTO{},
		&assignmentrepo.AssignmentRecordDTO{},
		&notificationrepo.NotificationDTO{},
		&recipientrepo.DriverDTO{},
		&recipientrepo.CustomerDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE dispatches, dispatch_assignments, assignments, notifications, drivers, customers").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up the PostgreSQL container.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.DispatchRepository())
	suite.NotNil(uow1.AssignmentRepository())
	suite.NotNil(uow1.NotificationRepository())
	suite.NotNil(uow2.DriverRepository())
	suite.NotNil(uow2.CustomerRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	// Multiple begin calls are safe.
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_ReconciliationWorkflow runs the full status lifecycle of a
// dispatch through the unit of work: create, assign drivers, drivers start
// and finish, mirror rows follow the aggregate.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ReconciliationWorkflow() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	disp := createTestDispatch(suite.T())
	err = uow.DispatchRepository().Add(ctx, disp)
	suite.Require().NoError(err)

	driver1 := kernel.NewUUID()
	driver2 := kernel.NewUUID()
	for _, driverID := range []kernel.UUID{driver1, driver2} {
		err = disp.AddDriver(driverID)
		suite.Require().NoError(err)
	}
	err = uow.DispatchRepository().Update(ctx, disp)
	suite.Require().NoError(err)

	for _, record := range disp.AssignmentRecords() {
		err = uow.AssignmentRepository().Upsert(ctx, record)
		suite.Require().NoError(err)
	}

	_, changed, _ := disp.Reconcile()
	suite.Require().True(changed)
	suite.Require().Equal(dispatch.Assigned, disp.Status())
	err = uow.DispatchRepository().Update(ctx, disp)
	suite.Require().NoError(err)
	err = uow.AssignmentRepository().UpdateStatusByDispatchID(ctx, disp.ID(), disp.Status())
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Drivers work through the trip in a second transaction.
	uow2 := suite.factory.Create()
	err = uow2.Begin(ctx)
	suite.Require().NoError(err)

	reloaded, err := uow2.DispatchRepository().Get(ctx, disp.ID())
	suite.Require().NoError(err)
	suite.Require().Len(reloaded.Assignments(), 2)

	err = reloaded.SetAssignmentStatus(driver1, dispatch.Completed)
	suite.Require().NoError(err)
	err = reloaded.SetAssignmentStatus(driver2, dispatch.Completed)
	suite.Require().NoError(err)
	err = uow2.DispatchRepository().Update(ctx, reloaded)
	suite.Require().NoError(err)

	_, changed, _ = reloaded.Reconcile()
	suite.Require().True(changed)
	suite.Require().Equal(dispatch.Completed, reloaded.Status())
	err = uow2.DispatchRepository().Update(ctx, reloaded)
	suite.Require().NoError(err)
	err = uow2.AssignmentRepository().UpdateStatusByDispatchID(ctx, reloaded.ID(), reloaded.Status())
	suite.Require().NoError(err)

	err = uow2.Commit(ctx)
	suite.Require().NoError(err)

	// Verify final state with a fresh unit of work.
	finalUow := suite.factory.Create()
	final, err := finalUow.DispatchRepository().Get(ctx, disp.ID())
	suite.Require().NoError(err)
	suite.Equal(dispatch.Completed, final.Status())

	assignment, err := final.Assignment(driver1)
	suite.Require().NoError(err)
	suite.NotNil(assignment.CompletedAt(), "Completion stamp must survive the round trip")

	records, err := finalUow.AssignmentRepository().GetByDispatchID(ctx, disp.ID())
	suite.Require().NoError(err)
	suite.Len(records, 2)
	for _, record := range records {
		suite.Equal(dispatch.Completed, record.Status)
	}
}

// Two reconcilers race to complete the last two in-progress assignments of
// one dispatch. The row lock taken by Get serializes them: the second
// blocks until the first commits and then derives completed from the
// committed assignment map instead of in-progress from a stale one.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConcurrentReconcilersSerialize() {
	ctx := context.Background()

	disp := createTestDispatch(suite.T())
	driver1 := kernel.NewUUID()
	driver2 := kernel.NewUUID()

	setup := suite.factory.Create()
	suite.Require().NoError(setup.Begin(ctx))
	suite.Require().NoError(setup.DispatchRepository().Add(ctx, disp))
	for _, driverID := range []kernel.UUID{driver1, driver2} {
		suite.Require().NoError(disp.AddDriver(driverID))
	}
	suite.Require().NoError(disp.SetAssignmentStatus(driver1, dispatch.InProgress))
	suite.Require().NoError(disp.SetAssignmentStatus(driver2, dispatch.InProgress))
	_, changed, _ := disp.Reconcile()
	suite.Require().True(changed)
	suite.Require().Equal(dispatch.InProgress, disp.Status())
	suite.Require().NoError(setup.DispatchRepository().Update(ctx, disp))
	suite.Require().NoError(setup.Commit(ctx))

	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	held, err := first.DispatchRepository().Get(ctx, disp.ID())
	suite.Require().NoError(err)

	type outcome struct {
		err        error
		changed    bool
		transition dispatch.Transition
	}
	done := make(chan outcome, 1)

	go func() {
		second := suite.factory.Create()
		if err := second.Begin(ctx); err != nil {
			done <- outcome{err: err}
			return
		}
		defer func() {
			_ = second.Rollback(ctx)
		}()

		// Parks on the row lock until the first transaction commits.
		fresh, err := second.DispatchRepository().Get(ctx, disp.ID())
		if err != nil {
			done <- outcome{err: err}
			return
		}

		if err = fresh.SetAssignmentStatus(driver2, dispatch.Completed); err != nil {
			done <- outcome{err: err}
			return
		}
		transition, secondChanged, _ := fresh.Reconcile()
		if err = second.DispatchRepository().Update(ctx, fresh); err != nil {
			done <- outcome{err: err}
			return
		}

		done <- outcome{err: second.Commit(ctx), changed: secondChanged, transition: transition}
	}()

	// Give the second reconciler time to reach the lock before the first
	// completes its driver.
	time.Sleep(200 * time.Millisecond)

	suite.Require().NoError(held.SetAssignmentStatus(driver1, dispatch.Completed))
	_, changed, _ = held.Reconcile()
	suite.False(changed, "One completion of two must leave the dispatch in progress")
	suite.Require().NoError(first.DispatchRepository().Update(ctx, held))
	suite.Require().NoError(first.Commit(ctx))

	result := <-done
	suite.Require().NoError(result.err)
	suite.Require().True(result.changed, "Second reconciler must observe the first committed completion")
	suite.Equal(dispatch.InProgress, result.transition.From)
	suite.Equal(dispatch.Completed, result.transition.To)

	final, err := suite.factory.Create().DispatchRepository().Get(ctx, disp.ID())
	suite.Require().NoError(err)
	suite.Equal(dispatch.Completed, final.Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	disp := createTestDispatch(suite.T())
	driver := createTestDriver(suite.T())

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.DispatchRepository().Add(ctx, disp)
	suite.Require().NoError(err)
	err = uow.DriverRepository().Add(ctx, driver)
	suite.Require().NoError(err)

	// Visible inside the transaction.
	_, err = uow.DispatchRepository().Get(ctx, disp.ID())
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	_, err = newUow.DispatchRepository().Get(ctx, disp.ID())
	suite.Require().Error(err, "Dispatch should not exist after rollback")
	_, err = newUow.DriverRepository().Get(ctx, driver.ID())
	suite.Require().Error(err, "Driver should not exist after rollback")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	disp1 := createTestDispatch(suite.T())
	disp2 := createTestDispatch(suite.T())

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))

	suite.Require().NoError(uow1.DispatchRepository().Add(ctx, disp1))
	suite.Require().NoError(uow2.DispatchRepository().Add(ctx, disp2))

	_, err := uow1.DispatchRepository().Get(ctx, disp1.ID())
	suite.Require().NoError(err, "UOW1 should see its own dispatch")
	_, err = uow1.DispatchRepository().Get(ctx, disp2.ID())
	suite.Require().Error(err, "UOW1 should not see UOW2's uncommitted dispatch")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	newUow := suite.factory.Create()
	_, err = newUow.DispatchRepository().Get(ctx, disp1.ID())
	suite.Require().NoError(err, "Committed dispatch should persist")
	_, err = newUow.DispatchRepository().Get(ctx, disp2.ID())
	suite.Require().Error(err, "Rolled-back dispatch should not persist")
}

// TestUnitOfWork_WithoutTransaction verifies that repositories on a unit of
// work without Begin write immediately on the main connection. The
// notification fan-out depends on this mode.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	driver := createTestDriver(suite.T())
	n, err := notification.NewNotification(
		kernel.NewUUID(),
		driver.Ref(),
		notification.TypeGeneral,
		"Welcome",
		"Your account is ready.",
		nil,
		notification.NormalPriority,
	)
	suite.Require().NoError(err)

	err = uow.NotificationRepository().Add(ctx, n)
	suite.Require().NoError(err)

	pending, err := suite.factory.Create().NotificationRepository().GetAllPendingDelivery(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal(n.ID(), pending[0].ID())
}

// TestUnitOfWork_DeliveryOutcomeRoundTrip records a delivery outcome and
// verifies the record leaves the pending queue.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_DeliveryOutcomeRoundTrip() {
	ctx := context.Background()
	uow := suite.factory.Create()

	driver := createTestDriver(suite.T())
	n, err := notification.NewNotification(
		kernel.NewUUID(),
		driver.Ref(),
		notification.TypeDispatchCompleted,
		"Dispatch Completed Successfully",
		"Dispatch #DSP-1 has been completed successfully.",
		nil,
		notification.HighPriority,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.NotificationRepository().Add(ctx, n))

	suite.Require().NoError(n.MarkSent("projects/app/messages/0:99"))
	suite.Require().NoError(uow.NotificationRepository().UpdateDeliveryOutcome(ctx, n))

	pending, err := uow.NotificationRepository().GetAllPendingDelivery(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(pending, "Sent notification must leave the pending queue")
}

// TestUnitOfWork_AdminRecordsNeverPending verifies admin broadcast records
// are excluded from the push delivery queue.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_AdminRecordsNeverPending() {
	ctx := context.Background()
	uow := suite.factory.Create()

	n, err := notification.NewNotification(
		kernel.NewUUID(),
		recipient.NewAdminBroadcastRef(),
		notification.TypeNewRequest,
		"New Dispatch Request",
		"Acme has created a new dispatch request: Warehouse A -> Dock 7",
		nil,
		notification.HighPriority,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.NotificationRepository().Add(ctx, n))

	pending, err := uow.NotificationRepository().GetAllPendingDelivery(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(pending, "Admin broadcasts are consumed in-app, never pushed")
}

// TestUnitOfWork_CustomerResolution verifies the dual-key customer lookup.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CustomerResolution() {
	ctx := context.Background()
	uow := suite.factory.Create()

	customer, err := recipient.NewCustomer(kernel.NewUUID(), "CUST-301", "Acme Logistics")
	suite.Require().NoError(err)
	suite.Require().NoError(uow.CustomerRepository().Add(ctx, customer))

	byExternal, err := uow.CustomerRepository().ResolveByExternalID(ctx, "CUST-301")
	suite.Require().NoError(err)
	suite.Equal(customer.ID(), byExternal.ID())

	byStoreID, err := uow.CustomerRepository().ResolveByExternalID(ctx, customer.ID().String())
	suite.Require().NoError(err)
	suite.Equal(customer.ID(), byStoreID.ID())

	_, err = uow.CustomerRepository().ResolveByExternalID(ctx, "CUST-DOES-NOT-EXIST")
	suite.Require().Error(err)
}

// createTestDispatch creates a valid pending dispatch for testing purposes.
func createTestDispatch(t *testing.T) *dispatch.Dispatch {
	t.Helper()

	source, err := kernel.NewAddress("Warehouse A")
	if err != nil {
		t.Fatal(err)
	}
	destination, err := kernel.NewAddress("Dock 7")
	if err != nil {
		t.Fatal(err)
	}

	id := kernel.NewUUID()
	disp, err := dispatch.NewDispatch(id, "DSP-"+id.String()[:8], "CUST-1", source, destination)
	if err != nil {
		t.Fatal(err)
	}
	return disp
}

// createTestDriver creates a valid driver with a push token.
func createTestDriver(t *testing.T) *recipient.Driver {
	t.Helper()

	driver, err := recipient.RestoreDriver(kernel.NewUUID(), "Test Driver", "fcm-token-test", nil)
	if err != nil {
		t.Fatal(err)
	}
	return driver
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
