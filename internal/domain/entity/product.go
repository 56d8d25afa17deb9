// Package entity contains the core bussiness entities of the domain layer.
package entity

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/hapkiduki/catalog-go/internal/domain/valueobject"
	"github.com/shopspring/decimal"
)

// MaxDeliveryNoteLength is the maximum number of characters of a localized delivery note.
const MaxDeliveryNoteLength = 255

// Product errors define domain-specific error conditions for products.
var (
	ErrInvalidProductName   = errors.New("product name cannot be empty")
	ErrInvalidProductRef    = errors.New("product reference cannot be empty")
	ErrNegativeWeight       = errors.New("product weight cannot be negative")
	ErrNegativeShippingCost = errors.New("additional shipping cost cannot be negative")
	ErrDeliveryNoteTooLong  = errors.New("delivery time note is too long")
)

// Product is the catalog aggregate whose shipping options are managed by this service.
type Product struct {
	// ID is the unique identifier for the product
	ID valueobject.ProductID `json:"id"`

	// Reference is the merchant reference (SKU-like)
	Reference string `json:"reference"`

	// Name is the name of the product
	Name string `json:"name"`

	// Dimensions of the shipped package
	Dimensions valueobject.Dimensions `json:"dimensions"`

	// Weight in kilograms
	Weight decimal.Decimal `json:"weight"`

	// AdditionalShippingCost is charged on top of the carrier price
	AdditionalShippingCost decimal.Decimal `json:"additional_shipping_cost"`

	// CarrierReferences restricts the carriers able to ship the product; empty means all carriers
	CarrierReferences []valueobject.CarrierReferenceID `json:"carrier_references"`

	// DeliveryTimeNotesType selects which delivery notes are displayed
	DeliveryTimeNotesType valueobject.DeliveryTimeNotesType `json:"delivery_time_notes_type"`

	// DeliveryTimeInStockNotes are shown when the product is in stock, per locale
	DeliveryTimeInStockNotes valueobject.LocalizedString `json:"delivery_time_in_stock_notes"`

	// DeliveryTimeOutOfStockNotes are shown when the product is out of stock, per locale
	DeliveryTimeOutOfStockNotes valueobject.LocalizedString `json:"delivery_time_out_of_stock_notes"`

	// CreatedAt is the timestamp when the product was created
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the product was last updated
	UpdatedAt time.Time `json:"updated_at"`

	// Version is used for optimistic locking
	Version int `json:"version"`
}

// NewProduct creates a new Product with default shipping options.
//
// Parameters:
//   - id: product identifier
//   - reference: merchant reference (required)
//   - name: name of the product (required)
//
// Returns:
//   - *Product: newly created Product
//   - error: validation error if input is invalid
func NewProduct(id valueobject.ProductID, reference, name string) (*Product, error) {
	if reference == "" {
		return nil, ErrInvalidProductRef
	}
	if name == "" {
		return nil, ErrInvalidProductName
	}

	now := time.Now().UTC()

	return &Product{
		ID:                          id,
		Reference:                   reference,
		Name:                        name,
		CarrierReferences:           make([]valueobject.CarrierReferenceID, 0),
		DeliveryTimeNotesType:       valueobject.DeliveryTimeNotesTypeDefault,
		DeliveryTimeInStockNotes:    valueobject.LocalizedString{},
		DeliveryTimeOutOfStockNotes: valueobject.LocalizedString{},
		CreatedAt:                   now,
		UpdatedAt:                   now,
		Version:                     1,
	}, nil
}

// SetDimensions replaces the package dimensions.
func (p *Product) SetDimensions(dimensions valueobject.Dimensions) {
	p.Dimensions = dimensions
	p.touch()
}

// SetWeight updates the product's weight.
//
// Parameters:
//   - weight: new weight in kilograms (must be non-negative)
//
// Returns:
//   - error: valueobject.ErrDecimalOutOfRange if weight has too many digits,
//     ErrNegativeWeight if weight is negative
func (p *Product) SetWeight(weight decimal.Decimal) error {
	if err := valueobject.CheckDecimalRange(weight); err != nil {
		return fmt.Errorf("weight: %w", err)
	}
	if weight.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeWeight, weight)
	}
	p.Weight = weight
	p.touch()
	return nil
}

// SetAdditionalShippingCost updates the extra cost charged when shipping the product.
//
// Parameters:
//   - cost: new additional cost (must be non-negative)
//
// Returns:
//   - error: valueobject.ErrDecimalOutOfRange if cost has too many digits,
//     ErrNegativeShippingCost if cost is negative
func (p *Product) SetAdditionalShippingCost(cost decimal.Decimal) error {
	if err := valueobject.CheckDecimalRange(cost); err != nil {
		return fmt.Errorf("additional shipping cost: %w", err)
	}
	if cost.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeShippingCost, cost)
	}
	p.AdditionalShippingCost = cost
	p.touch()
	return nil
}

// SetCarrierReferences restricts the product to the given carriers.
// Duplicates are dropped, keeping the first occurrence.
func (p *Product) SetCarrierReferences(refs []valueobject.CarrierReferenceID) {
	seen := make(map[valueobject.CarrierReferenceID]struct{}, len(refs))
	unique := make([]valueobject.CarrierReferenceID, 0, len(refs))
	for _, ref := range refs {
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		unique = append(unique, ref)
	}
	p.CarrierReferences = unique
	p.touch()
}

// SetDeliveryTimeNotesType selects which delivery notes are displayed.
func (p *Product) SetDeliveryTimeNotesType(t valueobject.DeliveryTimeNotesType) {
	p.DeliveryTimeNotesType = t
	p.touch()
}

// SetDeliveryTimeInStockNotes merges the given in-stock notes into the existing ones.
// Locales not present in notes keep their current text.
//
// Returns:
//   - error: ErrDeliveryNoteTooLong if any note exceeds MaxDeliveryNoteLength
func (p *Product) SetDeliveryTimeInStockNotes(notes valueobject.LocalizedString) error {
	merged, err := mergeNotes(p.DeliveryTimeInStockNotes, notes)
	if err != nil {
		return err
	}
	p.DeliveryTimeInStockNotes = merged
	p.touch()
	return nil
}

// SetDeliveryTimeOutOfStockNotes merges the given out-of-stock notes into the existing ones.
//
// Returns:
//   - error: ErrDeliveryNoteTooLong if any note exceeds MaxDeliveryNoteLength
func (p *Product) SetDeliveryTimeOutOfStockNotes(notes valueobject.LocalizedString) error {
	merged, err := mergeNotes(p.DeliveryTimeOutOfStockNotes, notes)
	if err != nil {
		return err
	}
	p.DeliveryTimeOutOfStockNotes = merged
	p.touch()
	return nil
}

// ShippingWeight returns the weight a carrier will bill: the greater of the real
// weight and the volumetric weight.
func (p *Product) ShippingWeight() decimal.Decimal {
	return decimal.Max(p.Weight, p.Dimensions.VolumetricWeight())
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now().UTC()
}

func mergeNotes(current, updates valueobject.LocalizedString) (valueobject.LocalizedString, error) {
	for _, locale := range updates.Locales() {
		if utf8.RuneCountInString(updates[locale]) > MaxDeliveryNoteLength {
			return nil, fmt.Errorf("%w: locale %s exceeds %d characters", ErrDeliveryNoteTooLong, locale, MaxDeliveryNoteLength)
		}
	}

	merged := current.Clone()
	if merged == nil {
		merged = valueobject.LocalizedString{}
	}
	for locale, text := range updates {
		merged[locale] = text
	}
	return merged, nil
}
