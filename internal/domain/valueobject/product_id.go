package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidProductID is returned when a product identifier is not a positive integer.
var ErrInvalidProductID = errors.New("product id must be a positive integer")

// ProductID identifies a product in the catalog.
type ProductID struct {
	value int
}

// NewProductID creates a ProductID from a raw integer.
//
// Parameters:
//   - value: raw identifier (must be greater than zero)
//
// Returns:
//   - ProductID: the identifier
//   - error: ErrInvalidProductID if value is not positive
func NewProductID(value int) (ProductID, error) {
	if value <= 0 {
		return ProductID{}, fmt.Errorf("%w: got %d", ErrInvalidProductID, value)
	}
	return ProductID{value: value}, nil
}

// ParseProductID creates a ProductID from its decimal text form, as found in URL paths.
func ParseProductID(value string) (ProductID, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return ProductID{}, fmt.Errorf("%w: %q", ErrInvalidProductID, value)
	}
	return NewProductID(n)
}

// Value returns the raw integer identifier.
func (id ProductID) Value() int {
	return id.value
}

// Equals reports whether both identifiers are the same.
func (id ProductID) Equals(other ProductID) bool {
	return id.value == other.value
}

func (id ProductID) String() string {
	return strconv.Itoa(id.value)
}

// MarshalJSON encodes the identifier as a JSON number.
func (id ProductID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON decodes a JSON number, rejecting non-positive values.
func (id *ProductID) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProductID, data)
	}
	parsed, err := NewProductID(n)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
