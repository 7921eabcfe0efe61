package recipient

import (
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Kind tags the recipient variants a notification can target.
type Kind int

const (
	// UnknownKind represents an invalid or undefined recipient kind.
	UnknownKind Kind = iota

	// DriverKind targets a single driver.
	DriverKind

	// CustomerKind targets a single customer.
	CustomerKind

	// AdminBroadcastKind targets the global administrator log. Admin
	// records are consumed in-app and are never push-delivered.
	AdminBroadcastKind
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		UnknownKind:        "unknown",
		DriverKind:         "driver",
		CustomerKind:       "customer",
		AdminBroadcastKind: "admin",
	}
}

// KindFromString parses a wire kind string ("driver", "customer", "admin").
func KindFromString(s string) (Kind, error) {
	for k, str := range getKindStrings() {
		if k != UnknownKind && str == s {
			return k, nil
		}
	}
	return UnknownKind, errs.NewValueIsInvalidErrorWithCause("recipient kind is invalid",
		fmt.Errorf("%q is not a valid recipient kind", s))
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if s, ok := getKindStrings()[k]; ok {
		return s
	}
	return "unknown"
}

// Validate checks the Kind is one of the defined variants.
func (k Kind) Validate() error {
	if k != DriverKind && k != CustomerKind && k != AdminBroadcastKind {
		return errs.NewValueIsInvalidErrorWithCause("recipient kind is invalid",
			fmt.Errorf("%d is not a valid recipient kind", k))
	}
	return nil
}

// Ref identifies a notification target: a tagged reference to one of the
// recipient variants. The ID is the zero UUID for the admin broadcast.
type Ref struct {
	kind Kind
	id   kernel.UUID
}

// NewDriverRef creates a reference to a driver recipient.
func NewDriverRef(id kernel.UUID) (Ref, error) {
	if err := id.Validate(); err != nil {
		return Ref{}, err
	}
	return Ref{kind: DriverKind, id: id}, nil
}

// NewCustomerRef creates a reference to a customer recipient.
func NewCustomerRef(id kernel.UUID) (Ref, error) {
	if err := id.Validate(); err != nil {
		return Ref{}, err
	}
	return Ref{kind: CustomerKind, id: id}, nil
}

// NewAdminBroadcastRef creates a reference to the global admin log.
func NewAdminBroadcastRef() Ref {
	return Ref{kind: AdminBroadcastKind}
}

// Kind returns the variant tag.
func (r Ref) Kind() Kind {
	return r.kind
}

// ID returns the recipient identifier. Zero for the admin broadcast.
func (r Ref) ID() kernel.UUID {
	return r.id
}

// Validate checks the reference carries a valid kind, and an identifier for
// the driver and customer variants.
func (r Ref) Validate() error {
	if err := r.kind.Validate(); err != nil {
		return err
	}
	if r.kind != AdminBroadcastKind {
		if err := r.id.Validate(); err != nil {
			return err
		}
	}
	return nil
}
