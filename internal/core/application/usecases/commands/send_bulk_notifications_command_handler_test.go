package commands_test

import (
	"errors"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/recipient"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSendBulkNotificationsCommandHandler_Handle_MixedOutcomes(t *testing.T) {
	ctx := t.Context()

	withToken := restoreTestDriver(t, "fcm-token-1")
	withoutToken := restoreTestDriver(t, "")
	customer := restoreTestCustomer(t, "CUST-9", "fcm-token-2")

	cmd, err := commands.NewSendBulkNotificationsCommand(
		[]commands.BulkRecipient{
			{Kind: recipient.DriverKind, ID: withToken.ID()},
			{Kind: recipient.DriverKind, ID: withoutToken.ID()},
			{Kind: recipient.CustomerKind, ID: customer.ID()},
		},
		"Maintenance Window", "The dispatch board will be read-only tonight.", "", "high",
	)
	require.NoError(t, err)

	driverRepo := new(MockDriverRepository)
	driverRepo.On("Get", mock.Anything, withToken.ID()).Return(withToken, nil).Once()
	driverRepo.On("Get", mock.Anything, withoutToken.ID()).Return(withoutToken, nil).Once()
	customerRepo := new(MockCustomerRepository)
	customerRepo.On("Get", mock.Anything, customer.ID()).Return(customer, nil).Once()

	notificationRepo := new(MockNotificationRepository)
	notificationRepo.On("Add", mock.Anything, mock.Anything).Return(nil)

	uow := new(MockDeliveryUoW)
	uow.On("DriverRepository").Return(driverRepo)
	uow.On("CustomerRepository").Return(customerRepo)
	uow.On("NotificationRepository").Return(notificationRepo)

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	sender := new(MockPushSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg ports.PushMessage) bool {
		return msg.HighPriority && msg.Title == "Maintenance Window"
	})).Return("msg-id", nil).Twice()

	h := commands.NewSendBulkNotificationsCommandHandler(factory, sender, time.Second, testLogger())
	report, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	require.Equal(t, 2, report.TotalSent)
	require.Equal(t, 1, report.TotalFailed)
	require.Len(t, report.Results, 3)
	require.True(t, report.Results[0].Success)
	require.False(t, report.Results[1].Success)
	require.Equal(t, "No FCM token", report.Results[1].Error)
	require.True(t, report.Results[2].Success)

	// Every attempt leaves a record, outcome included.
	notificationRepo.AssertNumberOfCalls(t, "Add", 3)
	sender.AssertExpectations(t)
}

func TestSendBulkNotificationsCommandHandler_Handle_UnknownRecipientReported(t *testing.T) {
	ctx := t.Context()

	missing := restoreTestDriver(t, "fcm-token-1")
	cmd, err := commands.NewSendBulkNotificationsCommand(
		[]commands.BulkRecipient{{Kind: recipient.DriverKind, ID: missing.ID()}},
		"Title", "Message", "general", "",
	)
	require.NoError(t, err)

	driverRepo := new(MockDriverRepository)
	driverRepo.On("Get", mock.Anything, missing.ID()).
		Return(nil, errs.NewObjectNotFoundError("driverId", missing.ID().String())).Once()

	uow := new(MockDeliveryUoW)
	uow.On("DriverRepository").Return(driverRepo).Once()

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	sender := new(MockPushSender)

	h := commands.NewSendBulkNotificationsCommandHandler(factory, sender, time.Second, testLogger())
	report, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	require.Equal(t, 0, report.TotalSent)
	require.Equal(t, 1, report.TotalFailed)
	require.NotEmpty(t, report.Results[0].Error)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNewSendBulkNotificationsCommand_Validation(t *testing.T) {
	driver := restoreTestDriver(t, "")
	valid := []commands.BulkRecipient{{Kind: recipient.DriverKind, ID: driver.ID()}}

	_, err := commands.NewSendBulkNotificationsCommand(nil, "Title", "Message", "", "")
	require.True(t, errors.Is(err, errs.ErrValueIsRequired))

	_, err = commands.NewSendBulkNotificationsCommand(valid, "", "Message", "", "")
	require.True(t, errors.Is(err, errs.ErrValueIsRequired))

	_, err = commands.NewSendBulkNotificationsCommand(valid, "Title", "", "", "")
	require.True(t, errors.Is(err, errs.ErrValueIsRequired))

	_, err = commands.NewSendBulkNotificationsCommand(
		[]commands.BulkRecipient{{Kind: recipient.AdminBroadcastKind}},
		"Title", "Message", "", "")
	require.True(t, errors.Is(err, errs.ErrValueIsInvalid))
}

func TestNewSendBulkNotificationsCommand_Defaults(t *testing.T) {
	driver := restoreTestDriver(t, "")
	cmd, err := commands.NewSendBulkNotificationsCommand(
		[]commands.BulkRecipient{{Kind: recipient.DriverKind, ID: driver.ID()}},
		"Title", "Message", "", "")
	require.NoError(t, err)

	require.Equal(t, notification.TypeGeneral, cmd.Type())
	require.Equal(t, notification.NormalPriority, cmd.Priority())
}
