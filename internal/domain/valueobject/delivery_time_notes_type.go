package valueobject

import (
	"errors"
	"fmt"
)

// ErrInvalidDeliveryTimeNotesType is returned for codes outside the known notes types.
var ErrInvalidDeliveryTimeNotesType = errors.New("invalid delivery time notes type")

// DeliveryTimeNotesType selects which delivery-time notes are displayed for a product.
type DeliveryTimeNotesType int

const (
	DeliveryTimeNotesTypeNone     DeliveryTimeNotesType = 0 // No delivery time is displayed
	DeliveryTimeNotesTypeDefault  DeliveryTimeNotesType = 1 // Shop-wide default notes are displayed
	DeliveryTimeNotesTypeSpecific DeliveryTimeNotesType = 2 // Product-specific notes are displayed
)

// NewDeliveryTimeNotesType creates a DeliveryTimeNotesType from its integer code.
//
// Parameters:
//   - code: 0 (none), 1 (default) or 2 (specific)
//
// Returns:
//   - DeliveryTimeNotesType: the notes type
//   - error: ErrInvalidDeliveryTimeNotesType for any other code
func NewDeliveryTimeNotesType(code int) (DeliveryTimeNotesType, error) {
	t := DeliveryTimeNotesType(code)
	if !t.IsValid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDeliveryTimeNotesType, code)
	}
	return t, nil
}

// IsValid reports whether the code is one of the known notes types.
func (t DeliveryTimeNotesType) IsValid() bool {
	switch t {
	case DeliveryTimeNotesTypeNone, DeliveryTimeNotesTypeDefault, DeliveryTimeNotesTypeSpecific:
		return true
	}
	return false
}

// Value returns the integer code.
func (t DeliveryTimeNotesType) Value() int {
	return int(t)
}

func (t DeliveryTimeNotesType) String() string {
	switch t {
	case DeliveryTimeNotesTypeNone:
		return "none"
	case DeliveryTimeNotesTypeDefault:
		return "default"
	case DeliveryTimeNotesTypeSpecific:
		return "specific"
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}
