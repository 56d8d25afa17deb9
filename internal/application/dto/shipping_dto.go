package dto

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hapkiduki/catalog-go/internal/application/command"
	"github.com/hapkiduki/catalog-go/internal/domain/entity"
	"github.com/hapkiduki/catalog-go/internal/domain/valueobject"
)

// DecimalInput accepts a decimal written either as a JSON string ("10.5") or a JSON number (10.5).
// The raw text is kept so no precision is lost to float64.
type DecimalInput string

// UnmarshalJSON implements json.Unmarshaler.
func (d *DecimalInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = DecimalInput(s)
		return nil
	}
	*d = DecimalInput(data)
	return nil
}

// UpdateProductShippingRequest is the body of PATCH /api/v1/products/{productID}/shipping.
// Absent fields are left unchanged on the product.
type UpdateProductShippingRequest struct {
	// Width in centimeters.
	Width *DecimalInput `json:"width,omitempty"`

	// Height in centimeters.
	Height *DecimalInput `json:"height,omitempty"`

	// Depth in centimeters.
	Depth *DecimalInput `json:"depth,omitempty"`

	// Weight in kilograms.
	Weight *DecimalInput `json:"weight,omitempty"`

	// AdditionalShippingCost charged on top of the carrier price.
	AdditionalShippingCost *DecimalInput `json:"additional_shipping_cost,omitempty"`

	// CarrierReferences may mix numbers and numeric strings; [] removes every restriction.
	CarrierReferences []any `json:"carrier_references,omitempty"`

	// DeliveryTimeNotesType is 0 (none), 1 (default) or 2 (specific).
	DeliveryTimeNotesType *int `json:"delivery_time_notes_type,omitempty"`

	// LocalizedDeliveryTimeInStockNotes maps locale to in-stock delivery note.
	LocalizedDeliveryTimeInStockNotes map[string]string `json:"localized_delivery_time_in_stock_notes,omitempty"`

	// LocalizedDeliveryTimeOutOfStockNotes maps locale to out-of-stock delivery note.
	LocalizedDeliveryTimeOutOfStockNotes map[string]string `json:"localized_delivery_time_out_of_stock_notes,omitempty"`
}

// Bind implements render.Binder. Field checks happen in ToCommand so that all of them
// can be reported at once.
func (req *UpdateProductShippingRequest) Bind(r *http.Request) error {
	return nil
}

// ToCommand converts the request into an UpdateProductShippingCommand.
// Every malformed field is reported, not only the first one.
//
// Parameters:
//   - productID: identifier taken from the URL
//
// Returns:
//   - *command.UpdateProductShippingCommand: the command (nil if any field is invalid)
//   - []ValidationError: field-level errors
//   - error: valueobject.ErrInvalidProductID if productID is invalid
func (req *UpdateProductShippingRequest) ToCommand(productID int) (*command.UpdateProductShippingCommand, []ValidationError, error) {
	cmd, err := command.NewUpdateProductShippingCommand(productID)
	if err != nil {
		return nil, nil, err
	}

	var errs []ValidationError
	addErr := func(field string, value any, err error) {
		if err != nil {
			errs = append(errs, ValidationError{Field: field, Message: err.Error(), Value: value})
		}
	}

	decimals := []struct {
		field string
		value *DecimalInput
		set   func(string) (*command.UpdateProductShippingCommand, error)
	}{
		{"width", req.Width, cmd.SetWidth},
		{"height", req.Height, cmd.SetHeight},
		{"depth", req.Depth, cmd.SetDepth},
		{"weight", req.Weight, cmd.SetWeight},
		{"additional_shipping_cost", req.AdditionalShippingCost, cmd.SetAdditionalShippingCost},
	}
	for _, d := range decimals {
		if d.value == nil {
			continue
		}
		_, err := d.set(string(*d.value))
		addErr(d.field, string(*d.value), err)
	}

	if req.CarrierReferences != nil {
		_, err := cmd.SetCarrierReferences(req.CarrierReferences)
		addErr("carrier_references", req.CarrierReferences, err)
	}

	if req.DeliveryTimeNotesType != nil {
		_, err := cmd.SetDeliveryTimeNotesType(*req.DeliveryTimeNotesType)
		addErr("delivery_time_notes_type", *req.DeliveryTimeNotesType, err)
	}

	if req.LocalizedDeliveryTimeInStockNotes != nil {
		cmd.SetLocalizedDeliveryTimeInStockNotes(req.LocalizedDeliveryTimeInStockNotes)
	}
	if req.LocalizedDeliveryTimeOutOfStockNotes != nil {
		cmd.SetLocalizedDeliveryTimeOutOfStockNotes(req.LocalizedDeliveryTimeOutOfStockNotes)
	}

	if len(errs) > 0 {
		return nil, errs, nil
	}
	return cmd, nil, nil
}

// ProductShippingResponse is the shipping view of a product.
type ProductShippingResponse struct {
	ProductID                            int               `json:"product_id"`
	Reference                            string            `json:"reference"`
	Width                                string            `json:"width"`
	Height                               string            `json:"height"`
	Depth                                string            `json:"depth"`
	Weight                               string            `json:"weight"`
	ShippingWeight                       string            `json:"shipping_weight"`
	AdditionalShippingCost               string            `json:"additional_shipping_cost"`
	CarrierReferences                    []int             `json:"carrier_references"`
	DeliveryTimeNotesType                string            `json:"delivery_time_notes_type"`
	LocalizedDeliveryTimeInStockNotes    map[string]string `json:"localized_delivery_time_in_stock_notes"`
	LocalizedDeliveryTimeOutOfStockNotes map[string]string `json:"localized_delivery_time_out_of_stock_notes"`
	Version                              int               `json:"version"`
	UpdatedAt                            string            `json:"updated_at"`
}

// NewProductShippingResponse builds the shipping view of p.
func NewProductShippingResponse(p *entity.Product) ProductShippingResponse {
	carriers := valueobject.CarrierReferencesToInts(p.CarrierReferences)
	if carriers == nil {
		carriers = []int{}
	}

	return ProductShippingResponse{
		ProductID:                            p.ID.Value(),
		Reference:                            p.Reference,
		Width:                                p.Dimensions.Width.String(),
		Height:                               p.Dimensions.Height.String(),
		Depth:                                p.Dimensions.Depth.String(),
		Weight:                               p.Weight.String(),
		ShippingWeight:                       p.ShippingWeight().String(),
		AdditionalShippingCost:               p.AdditionalShippingCost.StringFixed(2),
		CarrierReferences:                    carriers,
		DeliveryTimeNotesType:                p.DeliveryTimeNotesType.String(),
		LocalizedDeliveryTimeInStockNotes:    valueobject.NewLocalizedString(p.DeliveryTimeInStockNotes),
		LocalizedDeliveryTimeOutOfStockNotes: valueobject.NewLocalizedString(p.DeliveryTimeOutOfStockNotes),
		Version:                              p.Version,
		UpdatedAt:                            p.UpdatedAt.Format(time.RFC3339),
	}
}
