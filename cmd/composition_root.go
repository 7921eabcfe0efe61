package cmd

import (
	"log/slog"
	"time"

	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	pushSender ports.PushSender
	fanout     services.NotificationFanout
	logger     *slog.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	pushSender ports.PushSender,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		pushSender: pushSender,
		fanout:     services.NewNotificationFanout(),
		logger:     logger,
	}
}

func (c *CompositionRoot) pushTimeout() time.Duration {
	seconds := c.config.PushTimeoutSeconds
	if seconds < 1 {
		seconds = 10
	}
	return time.Duration(seconds) * time.Second
}

func (c *CompositionRoot) CreateCreateDispatchCommandHandler() commands.CreateDispatchCommandHandler {
	var f commands.ReconcileUoWFactory = FuncReconcileUoWFactory(func() commands.ReconcileUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateDispatchCommandHandler(f, c.fanout, c.logger)
}

func (c *CompositionRoot) CreateAssignDriversCommandHandler() commands.AssignDriversCommandHandler {
	var f commands.ReconcileUoWFactory = FuncReconcileUoWFactory(func() commands.ReconcileUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDriversCommandHandler(f, c.fanout, c.logger)
}

func (c *CompositionRoot) CreateUpdateDriverStatusCommandHandler() commands.UpdateDriverStatusCommandHandler {
	var f commands.ReconcileUoWFactory = FuncReconcileUoWFactory(func() commands.ReconcileUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateDriverStatusCommandHandler(f, c.fanout, c.logger)
}

func (c *CompositionRoot) CreateReconcileDispatchCommandHandler() commands.ReconcileDispatchCommandHandler {
	var f commands.ReconcileUoWFactory = FuncReconcileUoWFactory(func() commands.ReconcileUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReconcileDispatchCommandHandler(f, c.fanout, c.logger)
}

func (c *CompositionRoot) CreateSyncStatusesCommandHandler() commands.SyncStatusesCommandHandler {
	var f commands.ReconcileUoWFactory = FuncReconcileUoWFactory(func() commands.ReconcileUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSyncStatusesCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateDeliverNotificationsCommandHandler() commands.DeliverNotificationsCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDeliverNotificationsCommandHandler(f, c.pushSender, c.pushTimeout(), c.logger)
}

func (c *CompositionRoot) CreateSendBulkNotificationsCommandHandler() commands.SendBulkNotificationsCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSendBulkNotificationsCommandHandler(f, c.pushSender, c.pushTimeout(), c.logger)
}

func (c *CompositionRoot) CreateUpdatePushTokenCommandHandler() commands.UpdatePushTokenCommandHandler {
	var f commands.RecipientUoWFactory = FuncRecipientUoWFactory(func() commands.RecipientUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdatePushTokenCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateGetActiveDispatchesQueryHandler() queries.GetActiveDispatchesQueryHandler {
	return queries.NewGetActiveDispatchesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUnreadNotificationsQueryHandler() queries.GetUnreadNotificationsQueryHandler {
	return queries.NewGetUnreadNotificationsQueryHandler(c.gormDB)
}

type FuncReconcileUoWFactory func() commands.ReconcileUoW

func (f FuncReconcileUoWFactory) Create() commands.ReconcileUoW {
	return f()
}

type FuncRecipientUoWFactory func() commands.RecipientUoW

func (f FuncRecipientUoWFactory) Create() commands.RecipientUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}
