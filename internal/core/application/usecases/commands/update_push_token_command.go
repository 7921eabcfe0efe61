package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/recipient"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrUpdatePushTokenCommandIsNotConstructed = errors.New(
		"UpdatePushTokenCommand must be created via NewUpdatePushTokenCommand constructor",
	)
)

// UpdatePushTokenCommand registers a device push token for a driver or
// customer. The mobile apps call this on login and on token rotation.
type UpdatePushTokenCommand struct { //nolint:recvcheck //using for validation
	userKind recipient.Kind
	userID   kernel.UUID
	token    string

	guard guard.ConstructorGuard
}

// NewUpdatePushTokenCommand creates a token registration command.
// userType must be "driver" or "customer".
func NewUpdatePushTokenCommand(userType string, userID kernel.UUID, token string) (UpdatePushTokenCommand, error) {
	cmd := UpdatePushTokenCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserKind(userType),
		cmd.setUserID(userID),
		cmd.setToken(token),
	); err != nil {
		return UpdatePushTokenCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdatePushTokenCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePushTokenCommandIsNotConstructed)
}

// UserKind returns the recipient variant the token belongs to.
func (c UpdatePushTokenCommand) UserKind() recipient.Kind {
	return c.userKind
}

// UserID returns the recipient's identifier.
func (c UpdatePushTokenCommand) UserID() kernel.UUID {
	return c.userID
}

// Token returns the device push token to register.
func (c UpdatePushTokenCommand) Token() string {
	return c.token
}

func (c *UpdatePushTokenCommand) setUserKind(userType string) error {
	kind, err := recipient.KindFromString(userType)
	if err != nil {
		return err
	}
	if kind != recipient.DriverKind && kind != recipient.CustomerKind {
		return errs.NewValueIsInvalidError("userType must be driver or customer")
	}

	c.userKind = kind
	return nil
}

func (c *UpdatePushTokenCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

func (c *UpdatePushTokenCommand) setToken(token string) error {
	if token == "" {
		return errs.NewValueIsRequiredError("fcmToken")
	}

	c.token = token
	return nil
}
