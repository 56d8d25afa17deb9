package entity

import (
	"strings"
	"testing"

	"github.com/hapkiduki/catalog-go/internal/domain/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	id, err := valueobject.NewProductID(1)
	require.NoError(t, err)
	p, err := NewProduct(id, "REF-1", "Mug")
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	p := newTestProduct(t)

	assert.Equal(t, 1, p.Version)
	assert.Equal(t, valueobject.DeliveryTimeNotesTypeDefault, p.DeliveryTimeNotesType)
	assert.NotNil(t, p.CarrierReferences)
	assert.True(t, p.Dimensions.Volume().IsZero())

	id, _ := valueobject.NewProductID(2)
	_, err := NewProduct(id, "", "Mug")
	assert.ErrorIs(t, err, ErrInvalidProductRef)
	_, err = NewProduct(id, "REF", "")
	assert.ErrorIs(t, err, ErrInvalidProductName)
}

func TestProduct_SetWeight(t *testing.T) {
	p := newTestProduct(t)
	before := p.UpdatedAt

	require.NoError(t, p.SetWeight(decimal.RequireFromString("1.25")))
	assert.Equal(t, "1.25", p.Weight.String())
	assert.False(t, p.UpdatedAt.Before(before))

	err := p.SetWeight(decimal.RequireFromString("-0.1"))
	assert.ErrorIs(t, err, ErrNegativeWeight)
	assert.Equal(t, "1.25", p.Weight.String())
}

func TestProduct_SetAdditionalShippingCost(t *testing.T) {
	p := newTestProduct(t)

	require.NoError(t, p.SetAdditionalShippingCost(decimal.RequireFromString("4.99")))
	assert.Equal(t, "4.99", p.AdditionalShippingCost.String())

	err := p.SetAdditionalShippingCost(decimal.RequireFromString("-1"))
	assert.ErrorIs(t, err, ErrNegativeShippingCost)
}

func TestProduct_DecimalsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"excess fraction digits", "0.1234567"},
		{"excess integer digits", "123456789012345"},
		{"huge exponent", "1e10000000"},
		{"tiny exponent", "1e-10000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProduct(t)
			v := decimal.RequireFromString(tt.value)

			assert.ErrorIs(t, p.SetWeight(v), valueobject.ErrDecimalOutOfRange)
			assert.ErrorIs(t, p.SetAdditionalShippingCost(v), valueobject.ErrDecimalOutOfRange)
			assert.True(t, p.Weight.IsZero())
			assert.True(t, p.AdditionalShippingCost.IsZero())
		})
	}
}

func TestProduct_SetCarrierReferences_Deduplicates(t *testing.T) {
	p := newTestProduct(t)

	p.SetCarrierReferences([]valueobject.CarrierReferenceID{3, 1, 3, 2, 1})
	assert.Equal(t, []valueobject.CarrierReferenceID{3, 1, 2}, p.CarrierReferences)

	p.SetCarrierReferences(nil)
	assert.Empty(t, p.CarrierReferences)
}

func TestProduct_DeliveryNotesMerge(t *testing.T) {
	p := newTestProduct(t)

	require.NoError(t, p.SetDeliveryTimeInStockNotes(valueobject.LocalizedString{"en-US": "2 days", "fr-FR": "2 jours"}))
	require.NoError(t, p.SetDeliveryTimeInStockNotes(valueobject.LocalizedString{"en-US": "3 days"}))

	assert.Equal(t, valueobject.LocalizedString{"en-US": "3 days", "fr-FR": "2 jours"}, p.DeliveryTimeInStockNotes)
}

func TestProduct_DeliveryNoteTooLong(t *testing.T) {
	p := newTestProduct(t)
	long := strings.Repeat("é", MaxDeliveryNoteLength+1)

	err := p.SetDeliveryTimeOutOfStockNotes(valueobject.LocalizedString{"en-US": long})
	assert.ErrorIs(t, err, ErrDeliveryNoteTooLong)
	assert.Empty(t, p.DeliveryTimeOutOfStockNotes)

	exact := strings.Repeat("é", MaxDeliveryNoteLength)
	assert.NoError(t, p.SetDeliveryTimeOutOfStockNotes(valueobject.LocalizedString{"en-US": exact}))
}

func TestProduct_ShippingWeight(t *testing.T) {
	p := newTestProduct(t)
	dims, err := valueobject.NewDimensions(
		decimal.NewFromInt(50), decimal.NewFromInt(40), decimal.NewFromInt(25),
	)
	require.NoError(t, err)
	p.SetDimensions(dims)

	require.NoError(t, p.SetWeight(decimal.NewFromInt(2)))
	assert.True(t, p.ShippingWeight().Equal(decimal.NewFromInt(10)))

	require.NoError(t, p.SetWeight(decimal.NewFromInt(12)))
	assert.True(t, p.ShippingWeight().Equal(decimal.NewFromInt(12)))
}
