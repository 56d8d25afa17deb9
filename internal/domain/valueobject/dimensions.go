package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNegativeDimension is returned when any measurement is below zero.
var ErrNegativeDimension = errors.New("dimension cannot be negative")

// volumetricDivisor is the DIM factor (cm³ per kg) used by most international carriers.
var volumetricDivisor = decimal.NewFromInt(5000)

// Dimensions represents the physical package dimensions for shipping calculations.
// All measurements are in centimeters.
type Dimensions struct {
	// Width in centimeters.
	Width decimal.Decimal `json:"width"`

	// Height in centimeters.
	Height decimal.Decimal `json:"height"`

	// Depth in centimeters.
	Depth decimal.Decimal `json:"depth"`
}

// NewDimensions creates a new Dimensions value object.
//
// Parameters:
//   - width: Width in centimeters
//   - height: Height in centimeters
//   - depth: Depth in centimeters
//
// Returns:
//   - Dimensions: new Dimensions value object
//   - error: ErrDecimalOutOfRange if a measurement has too many digits,
//     ErrNegativeDimension if any measurement is negative
func NewDimensions(width, height, depth decimal.Decimal) (Dimensions, error) {
	names := [3]string{"width", "height", "depth"}
	for i, v := range [3]decimal.Decimal{width, height, depth} {
		if err := CheckDecimalRange(v); err != nil {
			return Dimensions{}, fmt.Errorf("%s: %w", names[i], err)
		}
		if v.IsNegative() {
			return Dimensions{}, fmt.Errorf("%w: %s is %s", ErrNegativeDimension, names[i], v)
		}
	}
	return Dimensions{Width: width, Height: height, Depth: depth}, nil
}

// WithWidth returns a copy with the width replaced.
func (d Dimensions) WithWidth(width decimal.Decimal) (Dimensions, error) {
	return NewDimensions(width, d.Height, d.Depth)
}

// WithHeight returns a copy with the height replaced.
func (d Dimensions) WithHeight(height decimal.Decimal) (Dimensions, error) {
	return NewDimensions(d.Width, height, d.Depth)
}

// WithDepth returns a copy with the depth replaced.
func (d Dimensions) WithDepth(depth decimal.Decimal) (Dimensions, error) {
	return NewDimensions(d.Width, d.Height, depth)
}

// Volume calculates the volume in cubic centimeters.
//
// Returns:
//   - decimal.Decimal: volume in cm³
func (d Dimensions) Volume() decimal.Decimal {
	return d.Width.Mul(d.Height).Mul(d.Depth)
}

// VolumetricWeight calculates the volumetric weight for shipping.
// Uses DIM factor of 5000 (standard for international shipping).
//
// Returns:
//   - decimal.Decimal: volumetric weight in kg, rounded to 3 places
func (d Dimensions) VolumetricWeight() decimal.Decimal {
	return d.Volume().DivRound(volumetricDivisor, 3)
}

// String returns a formatted string representation (e.g., "30.0x20.0x10.0 cm").
func (d Dimensions) String() string {
	return fmt.Sprintf("%sx%sx%s cm", d.Width.StringFixed(1), d.Height.StringFixed(1), d.Depth.StringFixed(1))
}
