package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidCarrierReference is returned when a carrier reference cannot be read as a positive integer.
var ErrInvalidCarrierReference = errors.New("invalid carrier reference")

// CarrierReferenceID is the stable reference of a carrier.
// Carriers are versioned, so products point to the reference rather than to a carrier row.
type CarrierReferenceID int

// NewCarrierReferenceID creates a CarrierReferenceID.
//
// Parameters:
//   - value: raw reference (must be greater than zero)
//
// Returns:
//   - CarrierReferenceID: the reference
//   - error: ErrInvalidCarrierReference if value is not positive
func NewCarrierReferenceID(value int) (CarrierReferenceID, error) {
	if value <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidCarrierReference, value)
	}
	return CarrierReferenceID(value), nil
}

// Value returns the raw integer reference.
func (c CarrierReferenceID) Value() int {
	return int(c)
}

// ParseCarrierReferences coerces loosely typed input into carrier references.
// Accepted element types are Go integers, integral floats (as produced by encoding/json),
// json.Number and numeric strings. The result preserves input order.
//
// Parameters:
//   - raw: references as received from the request layer
//
// Returns:
//   - []CarrierReferenceID: coerced references (non-nil, possibly empty)
//   - error: ErrInvalidCarrierReference naming the first offending position
func ParseCarrierReferences(raw []any) ([]CarrierReferenceID, error) {
	refs := make([]CarrierReferenceID, 0, len(raw))
	for i, item := range raw {
		n, err := coerceInt(item)
		if err != nil {
			return nil, fmt.Errorf("%w at index %d: %v", ErrInvalidCarrierReference, i, err)
		}
		ref, err := NewCarrierReferenceID(n)
		if err != nil {
			return nil, fmt.Errorf("at index %d: %w", i, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// CarrierReferencesFromInts converts plain integers into carrier references.
func CarrierReferencesFromInts(values []int) ([]CarrierReferenceID, error) {
	raw := make([]any, len(values))
	for i, v := range values {
		raw[i] = v
	}
	return ParseCarrierReferences(raw)
}

// CarrierReferencesToInts converts carrier references back to plain integers.
func CarrierReferencesToInts(refs []CarrierReferenceID) []int {
	if refs == nil {
		return nil
	}
	out := make([]int, len(refs))
	for i, r := range refs {
		out[i] = r.Value()
	}
	return out
}

func coerceInt(item any) (int, error) {
	switch v := item.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint:
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		if v > math.MaxInt {
			return 0, fmt.Errorf("value %d overflows int", v)
		}
		return int(v), nil
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	case json.Number:
		return strconv.Atoi(v.String())
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	default:
		return 0, fmt.Errorf("unsupported type %T", item)
	}
}

func floatToInt(f float64) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("value %v is not an integer", f)
	}
	// float64(math.MaxInt) rounds up to 2^63 on 64-bit platforms.
	if f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("value %v is out of range", f)
	}
	return int(f), nil
}
