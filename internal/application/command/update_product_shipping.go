// Package command contains the write-side commands of the application layer.
// A command describes an intended state change and is handed once to its handler.
package command

import (
	"github.com/hapkiduki/catalog-go/internal/domain/valueobject"
	"github.com/shopspring/decimal"
)

// UpdateProductShippingCommand carries the shipping attributes to change on one product.
// Every attribute except the product ID is optional: a getter returning nil means the
// attribute was not provided and must be left unchanged.
//
// Setters only coerce input into value objects. They return the command itself so calls
// can be chained; a setter that fails leaves the attribute untouched.
//
// Example usage:
//
//	cmd, err := command.NewUpdateProductShippingCommand(42)
//	if _, err = cmd.SetWidth("10.5"); err != nil { ... }
//	cmd.SetLocalizedDeliveryTimeInStockNotes(map[string]string{"en-US": "Ships in 2 days"})
type UpdateProductShippingCommand struct {
	productID valueobject.ProductID

	width                  *decimal.Decimal
	height                 *decimal.Decimal
	depth                  *decimal.Decimal
	weight                 *decimal.Decimal
	additionalShippingCost *decimal.Decimal

	carrierReferences     []valueobject.CarrierReferenceID
	deliveryTimeNotesType *valueobject.DeliveryTimeNotesType

	localizedDeliveryTimeInStockNotes    valueobject.LocalizedString
	localizedDeliveryTimeOutOfStockNotes valueobject.LocalizedString
}

// NewUpdateProductShippingCommand creates a command for the given product.
//
// Parameters:
//   - productID: identifier of the product to update (must be positive)
//
// Returns:
//   - *UpdateProductShippingCommand: command with no attribute set
//   - error: valueobject.ErrInvalidProductID if productID is not positive
func NewUpdateProductShippingCommand(productID int) (*UpdateProductShippingCommand, error) {
	id, err := valueobject.NewProductID(productID)
	if err != nil {
		return nil, err
	}
	return &UpdateProductShippingCommand{productID: id}, nil
}

// ProductID returns the identifier of the product to update.
func (c *UpdateProductShippingCommand) ProductID() valueobject.ProductID {
	return c.productID
}

// Width returns the new width, or nil when not provided.
func (c *UpdateProductShippingCommand) Width() *decimal.Decimal {
	return c.width
}

// SetWidth sets the new width from its decimal text.
//
// Returns:
//   - *UpdateProductShippingCommand: the same command
//   - error: valueobject.ErrInvalidDecimal if width is not numeric
func (c *UpdateProductShippingCommand) SetWidth(width string) (*UpdateProductShippingCommand, error) {
	return c, setDecimal(&c.width, width)
}

// Height returns the new height, or nil when not provided.
func (c *UpdateProductShippingCommand) Height() *decimal.Decimal {
	return c.height
}

// SetHeight sets the new height from its decimal text.
func (c *UpdateProductShippingCommand) SetHeight(height string) (*UpdateProductShippingCommand, error) {
	return c, setDecimal(&c.height, height)
}

// Depth returns the new depth, or nil when not provided.
func (c *UpdateProductShippingCommand) Depth() *decimal.Decimal {
	return c.depth
}

// SetDepth sets the new depth from its decimal text.
func (c *UpdateProductShippingCommand) SetDepth(depth string) (*UpdateProductShippingCommand, error) {
	return c, setDecimal(&c.depth, depth)
}

// Weight returns the new weight, or nil when not provided.
func (c *UpdateProductShippingCommand) Weight() *decimal.Decimal {
	return c.weight
}

// SetWeight sets the new weight from its decimal text.
func (c *UpdateProductShippingCommand) SetWeight(weight string) (*UpdateProductShippingCommand, error) {
	return c, setDecimal(&c.weight, weight)
}

// AdditionalShippingCost returns the new additional shipping cost, or nil when not provided.
func (c *UpdateProductShippingCommand) AdditionalShippingCost() *decimal.Decimal {
	return c.additionalShippingCost
}

// SetAdditionalShippingCost sets the new additional shipping cost from its decimal text.
func (c *UpdateProductShippingCommand) SetAdditionalShippingCost(cost string) (*UpdateProductShippingCommand, error) {
	return c, setDecimal(&c.additionalShippingCost, cost)
}

// CarrierReferences returns the new carrier references, or nil when not provided.
// A non-nil empty slice means the product must no longer be restricted to any carrier.
func (c *UpdateProductShippingCommand) CarrierReferences() []valueobject.CarrierReferenceID {
	return c.carrierReferences
}

// SetCarrierReferences sets the carriers the product can be shipped with.
// Entries may be integers or numeric strings; all are coerced to integers.
//
// Parameters:
//   - refs: loosely typed carrier references (e.g., []any{1, "2", 3})
//
// Returns:
//   - *UpdateProductShippingCommand: the same command
//   - error: valueobject.ErrInvalidCarrierReference if an entry is not a positive integer
func (c *UpdateProductShippingCommand) SetCarrierReferences(refs []any) (*UpdateProductShippingCommand, error) {
	parsed, err := valueobject.ParseCarrierReferences(refs)
	if err != nil {
		return c, err
	}
	c.carrierReferences = parsed
	return c, nil
}

// DeliveryTimeNotesType returns the new notes type, or nil when not provided.
func (c *UpdateProductShippingCommand) DeliveryTimeNotesType() *valueobject.DeliveryTimeNotesType {
	return c.deliveryTimeNotesType
}

// SetDeliveryTimeNotesType sets the notes type from its integer code.
//
// Returns:
//   - *UpdateProductShippingCommand: the same command
//   - error: valueobject.ErrInvalidDeliveryTimeNotesType for unknown codes
func (c *UpdateProductShippingCommand) SetDeliveryTimeNotesType(code int) (*UpdateProductShippingCommand, error) {
	nt, err := valueobject.NewDeliveryTimeNotesType(code)
	if err != nil {
		return c, err
	}
	c.deliveryTimeNotesType = &nt
	return c, nil
}

// LocalizedDeliveryTimeInStockNotes returns the new in-stock notes, or nil when not provided.
func (c *UpdateProductShippingCommand) LocalizedDeliveryTimeInStockNotes() valueobject.LocalizedString {
	return c.localizedDeliveryTimeInStockNotes
}

// SetLocalizedDeliveryTimeInStockNotes sets the in-stock delivery notes keyed by locale.
// Locale keys are not checked here.
func (c *UpdateProductShippingCommand) SetLocalizedDeliveryTimeInStockNotes(notes map[string]string) *UpdateProductShippingCommand {
	c.localizedDeliveryTimeInStockNotes = valueobject.NewLocalizedString(notes)
	return c
}

// LocalizedDeliveryTimeOutOfStockNotes returns the new out-of-stock notes, or nil when not provided.
func (c *UpdateProductShippingCommand) LocalizedDeliveryTimeOutOfStockNotes() valueobject.LocalizedString {
	return c.localizedDeliveryTimeOutOfStockNotes
}

// SetLocalizedDeliveryTimeOutOfStockNotes sets the out-of-stock delivery notes keyed by locale.
func (c *UpdateProductShippingCommand) SetLocalizedDeliveryTimeOutOfStockNotes(notes map[string]string) *UpdateProductShippingCommand {
	c.localizedDeliveryTimeOutOfStockNotes = valueobject.NewLocalizedString(notes)
	return c
}

// IsEmpty reports whether no attribute was provided.
func (c *UpdateProductShippingCommand) IsEmpty() bool {
	return c.width == nil &&
		c.height == nil &&
		c.depth == nil &&
		c.weight == nil &&
		c.additionalShippingCost == nil &&
		c.carrierReferences == nil &&
		c.deliveryTimeNotesType == nil &&
		c.localizedDeliveryTimeInStockNotes == nil &&
		c.localizedDeliveryTimeOutOfStockNotes == nil
}

// setDecimal parses value and stores it in dst only on success.
func setDecimal(dst **decimal.Decimal, value string) error {
	d, err := valueobject.ParseDecimal(value)
	if err != nil {
		return err
	}
	*dst = &d
	return nil
}
