package kernel

import (
	"strings"

	"dispatch/internal/pkg/errs"
)

// Address is a value object representing a street address used as the source
// or destination of a dispatch. The zero value is invalid; use NewAddress.
//
// Address is immutable and safe for concurrent use.
type Address struct {
	value string
}

// NewAddress creates an Address from its string form. Surrounding whitespace
// is trimmed; an empty (or all-whitespace) address is rejected.
func NewAddress(value string) (Address, error) {
	trimmed := strings.Join(strings.Fields(value), " ")
	if trimmed == "" {
		return Address{}, errs.NewValueIsRequiredError("address")
	}
	return Address{value: trimmed}, nil
}

// String returns the address text.
func (a Address) String() string {
	return a.value
}

// IsEqual compares two addresses by their normalized text.
func (a Address) IsEqual(other Address) bool {
	return a.value == other.value
}

// Validate returns an error for a zero-value Address.
func (a Address) Validate() error {
	if a.value == "" {
		return errs.NewValueIsRequiredError("address must be created via NewAddress")
	}
	return nil
}
