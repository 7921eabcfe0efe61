package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/recipient"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrSendBulkNotificationsCommandIsNotConstructed = errors.New(
		"SendBulkNotificationsCommand must be created via NewSendBulkNotificationsCommand constructor",
	)
)

// BulkRecipient addresses one target of a bulk send.
type BulkRecipient struct {
	Kind recipient.Kind
	ID   kernel.UUID
}

// SendBulkNotificationsCommand sends an ad-hoc notification to a list of
// drivers and customers, bypassing the status engine. Used by administrators
// for announcements.
type SendBulkNotificationsCommand struct { //nolint:recvcheck //using for validation
	recipients []BulkRecipient
	title      string
	message    string
	ntype      string
	priority   notification.Priority

	guard guard.ConstructorGuard
}

// NewSendBulkNotificationsCommand creates a bulk send command.
// Title, message and at least one recipient are required; ntype defaults to
// "general" and priority defaults to normal when their inputs are empty.
func NewSendBulkNotificationsCommand(
	recipients []BulkRecipient,
	title, message, ntype, priority string,
) (SendBulkNotificationsCommand, error) {
	cmd := SendBulkNotificationsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRecipients(recipients),
		cmd.setContent(title, message),
	); err != nil {
		return SendBulkNotificationsCommand{}, err
	}

	cmd.ntype = ntype
	if cmd.ntype == "" {
		cmd.ntype = notification.TypeGeneral
	}
	cmd.priority = notification.PriorityFromString(priority)

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SendBulkNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrSendBulkNotificationsCommandIsNotConstructed)
}

// Recipients returns the targets of the bulk send.
func (c SendBulkNotificationsCommand) Recipients() []BulkRecipient {
	return c.recipients
}

// Title returns the notification title.
func (c SendBulkNotificationsCommand) Title() string {
	return c.title
}

// Message returns the notification body.
func (c SendBulkNotificationsCommand) Message() string {
	return c.message
}

// Type returns the notification type string.
func (c SendBulkNotificationsCommand) Type() string {
	return c.ntype
}

// Priority returns the delivery priority.
func (c SendBulkNotificationsCommand) Priority() notification.Priority {
	return c.priority
}

func (c *SendBulkNotificationsCommand) setRecipients(recipients []BulkRecipient) error {
	if len(recipients) == 0 {
		return errs.NewValueIsRequiredError("recipients")
	}
	for _, r := range recipients {
		if r.Kind != recipient.DriverKind && r.Kind != recipient.CustomerKind {
			return errs.NewValueIsInvalidError("recipient kind must be driver or customer")
		}
		if err := r.ID.Validate(); err != nil {
			return err
		}
	}

	c.recipients = recipients
	return nil
}

func (c *SendBulkNotificationsCommand) setContent(title, message string) error {
	if title == "" {
		return errs.NewValueIsRequiredError("title")
	}
	if message == "" {
		return errs.NewValueIsRequiredError("message")
	}

	c.title = title
	c.message = message
	return nil
}
