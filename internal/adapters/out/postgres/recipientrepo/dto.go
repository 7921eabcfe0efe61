// Package recipientrepo persists notification recipients: drivers and
// customers with their registered push tokens.
package recipientrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/recipient"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for persisting drivers.
type DriverDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name           string     `gorm:"type:varchar(255);not null"`
	PushToken      string     `gorm:"type:text"`
	TokenUpdatedAt *time.Time
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// CustomerDTO represents the database structure for persisting customers.
// ExternalID is the business identifier dispatches reference.
type CustomerDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ExternalID     string     `gorm:"type:varchar(128);not null;uniqueIndex"`
	Name           string     `gorm:"type:varchar(255);not null"`
	PushToken      string     `gorm:"type:text"`
	TokenUpdatedAt *time.Time
}

// TableName specifies the database table name for customer entities.
func (CustomerDTO) TableName() string {
	return "customers"
}

func driverFromDomain(d *recipient.Driver) DriverDTO {
	return DriverDTO{
		ID:             d.ID().Bytes(),
		Name:           d.Name(),
		PushToken:      d.PushToken(),
		TokenUpdatedAt: d.TokenUpdatedAt(),
	}
}

func driverToDomain(dto DriverDTO) (*recipient.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return recipient.RestoreDriver(id, dto.Name, dto.PushToken, dto.TokenUpdatedAt)
}

func customerFromDomain(c *recipient.Customer) CustomerDTO {
	return CustomerDTO{
		ID:             c.ID().Bytes(),
		ExternalID:     c.ExternalID(),
		Name:           c.Name(),
		PushToken:      c.PushToken(),
		TokenUpdatedAt: c.TokenUpdatedAt(),
	}
}

func customerToDomain(dto CustomerDTO) (*recipient.Customer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return recipient.RestoreCustomer(id, dto.ExternalID, dto.Name, dto.PushToken, dto.TokenUpdatedAt)
}
