// Package valueobject contains value objects that represent concepts without identity.
// Value objects are immutable and compared by their attributes rather than identity.
// They encapsulate validation logic and ensure data integrity.
//
// Value Objects follow these principles:
//   - Immutability: Once created, they cannot be changed.
//   - Equality: Two value objects are equal if all their attributes are equal.
//   - Self-validation: They validate their own data upon creation.
//   - Side-effect free: Methods returns new instances rather than modifying state
package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Limits of a stored decimal, matching the NUMERIC(20, 6) columns of the products table.
const (
	MaxDecimalIntegerDigits  = 14
	MaxDecimalFractionDigits = 6
)

var (
	// ErrInvalidDecimal is returned when a text value is not a valid decimal number.
	ErrInvalidDecimal = errors.New("invalid decimal number")

	// ErrDecimalOutOfRange is returned when a decimal has more digits than can be stored.
	ErrDecimalOutOfRange = errors.New("decimal number out of range")
)

// ParseDecimal parses a precise decimal number from its text representation.
// Surrounding whitespace is ignored.
//
// Parameters:
//   - value: decimal text (e.g., "12.50", "-3", "0.001")
//
// Returns:
//   - decimal.Decimal: the parsed number
//   - error: ErrInvalidDecimal if the text is empty or not numeric
func ParseDecimal(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty value", ErrInvalidDecimal)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, value)
	}
	return d, nil
}

// MustParseDecimal is like ParseDecimal but panics on error.
// Intended for constants and tests.
func MustParseDecimal(value string) decimal.Decimal {
	d, err := ParseDecimal(value)
	if err != nil {
		panic(err)
	}
	return d
}

// CheckDecimalRange verifies that d fits in MaxDecimalIntegerDigits integer digits
// and MaxDecimalFractionDigits fraction digits. Trailing fraction zeros do not count.
// The check never expands the exponent, so values like 1e10000000 are rejected cheaply.
//
// Returns:
//   - error: ErrDecimalOutOfRange if d has too many digits
func CheckDecimalRange(d decimal.Decimal) error {
	integer, fraction := decimalDigits(d)
	if fraction > MaxDecimalFractionDigits {
		return fmt.Errorf("%w: more than %d fraction digits", ErrDecimalOutOfRange, MaxDecimalFractionDigits)
	}
	if integer > MaxDecimalIntegerDigits {
		return fmt.Errorf("%w: more than %d integer digits", ErrDecimalOutOfRange, MaxDecimalIntegerDigits)
	}
	return nil
}

// decimalDigits counts the significant integer and fraction digits of d.
func decimalDigits(d decimal.Decimal) (integer, fraction int) {
	coef := d.Coefficient()
	if coef.Sign() == 0 {
		return 0, 0
	}

	digits := strings.TrimPrefix(coef.String(), "-")
	exp := int(d.Exponent())
	if exp < 0 {
		zeros := len(digits) - len(strings.TrimRight(digits, "0"))
		drop := min(zeros, -exp)
		digits = digits[:len(digits)-drop]
		exp += drop
	}

	return max(len(digits)+exp, 0), max(-exp, 0)
}
