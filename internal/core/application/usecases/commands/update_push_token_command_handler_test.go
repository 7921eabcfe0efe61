package commands_test

import (
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdatePushTokenCommandHandler_Handle_DriverToken(t *testing.T) {
	ctx := t.Context()

	driver := restoreTestDriver(t, "")
	cmd, err := commands.NewUpdatePushTokenCommand("driver", driver.ID(), "fcm-token-new")
	require.NoError(t, err)

	driverRepo := new(MockDriverRepository)
	uow := new(MockRecipientUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Get", mock.Anything, driver.ID()).Return(driver, nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Update", mock.Anything, driver).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRecipientUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdatePushTokenCommandHandler(factory, testLogger())
	require.NoError(t, h.Handle(ctx, cmd))

	require.Equal(t, "fcm-token-new", driver.PushToken())
	require.NotNil(t, driver.TokenUpdatedAt())
	uow.AssertExpectations(t)
}

func TestUpdatePushTokenCommandHandler_Handle_CustomerToken(t *testing.T) {
	ctx := t.Context()

	customer := restoreTestCustomer(t, "CUST-5", "fcm-token-old")
	cmd, err := commands.NewUpdatePushTokenCommand("customer", customer.ID(), "fcm-token-new")
	require.NoError(t, err)

	customerRepo := new(MockCustomerRepository)
	customerRepo.On("Get", mock.Anything, customer.ID()).Return(customer, nil).Once()
	customerRepo.On("Update", mock.Anything, customer).Return(nil).Once()

	uow := new(MockRecipientUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CustomerRepository").Return(customerRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockRecipientUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdatePushTokenCommandHandler(factory, testLogger())
	require.NoError(t, h.Handle(ctx, cmd))
	require.Equal(t, "fcm-token-new", customer.PushToken())
}

func TestUpdatePushTokenCommandHandler_Handle_RecipientNotFound(t *testing.T) {
	ctx := t.Context()

	id := kernel.NewUUID()
	cmd, err := commands.NewUpdatePushTokenCommand("driver", id, "fcm-token-new")
	require.NoError(t, err)

	driverRepo := new(MockDriverRepository)
	driverRepo.On("Get", mock.Anything, id).
		Return(nil, errs.NewObjectNotFoundError("driverId", id.String())).Once()

	uow := new(MockRecipientUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DriverRepository").Return(driverRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockRecipientUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdatePushTokenCommandHandler(factory, testLogger())
	err = h.Handle(ctx, cmd)
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrObjectNotFound))
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestNewUpdatePushTokenCommand_Validation(t *testing.T) {
	id := kernel.NewUUID()

	_, err := commands.NewUpdatePushTokenCommand("admin", id, "token")
	require.Error(t, err)

	_, err = commands.NewUpdatePushTokenCommand("warehouse", id, "token")
	require.Error(t, err)

	_, err = commands.NewUpdatePushTokenCommand("driver", kernel.UUID{}, "token")
	require.Error(t, err)

	_, err = commands.NewUpdatePushTokenCommand("driver", id, "")
	require.True(t, errors.Is(err, errs.ErrValueIsRequired))
}
