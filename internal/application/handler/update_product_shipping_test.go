package handler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hapkiduki/catalog-go/internal/application/command"
	"github.com/hapkiduki/catalog-go/internal/application/port"
	"github.com/hapkiduki/catalog-go/internal/domain/entity"
	"github.com/hapkiduki/catalog-go/internal/domain/repository"
	"github.com/hapkiduki/catalog-go/internal/domain/valueobject"
	"github.com/hapkiduki/catalog-go/internal/infrastructure/persistance/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func (l nopLogger) With(...interface{}) port.Logger { return l }

func (l nopLogger) WithContext(context.Context) port.Logger { return l }

type fakeMetrics struct {
	mu       sync.Mutex
	counters map[string]float64
	timings  int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{counters: make(map[string]float64)}
}

func (m *fakeMetrics) Counter(name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name+"/"+tags["result"]] += value
}

func (m *fakeMetrics) Gauge(string, float64, map[string]string)     {}
func (m *fakeMetrics) Histogram(string, float64, map[string]string) {}

func (m *fakeMetrics) Timing(string, time.Duration, map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings++
}

type failingCarriers struct{}

func (failingCarriers) FindMissing(context.Context, []valueobject.CarrierReferenceID) ([]valueobject.CarrierReferenceID, error) {
	return nil, errors.New("carrier store unavailable")
}

type fixture struct {
	products *memory.ProductRepository
	metrics  *fakeMetrics
	handler  *UpdateProductShippingHandler
	product  *entity.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	products := memory.NewProductRepository()
	carriers := memory.NewCarrierRepository(1, 2, 3)
	metrics := newFakeMetrics()

	id, err := valueobject.NewProductID(10)
	require.NoError(t, err)
	p, err := entity.NewProduct(id, "MUG-01", "Mug")
	require.NoError(t, err)
	require.NoError(t, products.Create(context.Background(), p))

	return &fixture{
		products: products,
		metrics:  metrics,
		handler:  NewUpdateProductShippingHandler(products, carriers, nopLogger{}, metrics),
		product:  p,
	}
}

func mustCommand(t *testing.T, productID int) *command.UpdateProductShippingCommand {
	t.Helper()
	cmd, err := command.NewUpdateProductShippingCommand(productID)
	require.NoError(t, err)
	return cmd
}

func TestUpdateProductShippingHandler_AppliesAllFields(t *testing.T) {
	f := newFixture(t)
	cmd := mustCommand(t, 10)

	_, err := cmd.SetWidth("10")
	require.NoError(t, err)
	_, err = cmd.SetHeight("20.5")
	require.NoError(t, err)
	_, err = cmd.SetDepth("5")
	require.NoError(t, err)
	_, err = cmd.SetWeight("1.2")
	require.NoError(t, err)
	_, err = cmd.SetAdditionalShippingCost("3.50")
	require.NoError(t, err)
	_, err = cmd.SetCarrierReferences([]any{1, "3"})
	require.NoError(t, err)
	_, err = cmd.SetDeliveryTimeNotesType(2)
	require.NoError(t, err)
	cmd.SetLocalizedDeliveryTimeInStockNotes(map[string]string{"en-US": "2 days"}).
		SetLocalizedDeliveryTimeOutOfStockNotes(map[string]string{"en-US": "2 weeks"})

	updated, err := f.handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	stored, err := f.products.GetByID(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, "10", stored.Dimensions.Width.String())
	assert.Equal(t, "20.5", stored.Dimensions.Height.String())
	assert.Equal(t, "5", stored.Dimensions.Depth.String())
	assert.Equal(t, "1.2", stored.Weight.String())
	assert.Equal(t, "3.5", stored.AdditionalShippingCost.String())
	assert.Equal(t, []valueobject.CarrierReferenceID{1, 3}, stored.CarrierReferences)
	assert.Equal(t, valueobject.DeliveryTimeNotesTypeSpecific, stored.DeliveryTimeNotesType)
	assert.Equal(t, "2 days", stored.DeliveryTimeInStockNotes["en-US"])
	assert.Equal(t, "2 weeks", stored.DeliveryTimeOutOfStockNotes["en-US"])

	assert.Equal(t, float64(1), f.metrics.counters[MetricShippingUpdates+"/success"])
	assert.Equal(t, 1, f.metrics.timings)
}

func TestUpdateProductShippingHandler_LeavesUnsetFieldsUnchanged(t *testing.T) {
	f := newFixture(t)

	first := mustCommand(t, 10)
	_, err := first.SetWidth("7")
	require.NoError(t, err)
	_, err = first.SetWeight("2")
	require.NoError(t, err)
	_, err = f.handler.Handle(context.Background(), first)
	require.NoError(t, err)

	second := mustCommand(t, 10)
	_, err = second.SetHeight("4")
	require.NoError(t, err)
	_, err = f.handler.Handle(context.Background(), second)
	require.NoError(t, err)

	stored, err := f.products.GetByID(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, "7", stored.Dimensions.Width.String())
	assert.Equal(t, "4", stored.Dimensions.Height.String())
	assert.Equal(t, "2", stored.Weight.String())
	assert.Equal(t, valueobject.DeliveryTimeNotesTypeDefault, stored.DeliveryTimeNotesType)
}

func TestUpdateProductShippingHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		productID  int
		build      func(t *testing.T, cmd *command.UpdateProductShippingCommand)
		wantErr    error
		wantResult string
	}{
		{
			name:       "empty command",
			productID:  10,
			build:      func(*testing.T, *command.UpdateProductShippingCommand) {},
			wantErr:    ErrEmptyUpdate,
			wantResult: "invalid",
		},
		{
			name:      "unknown product",
			productID: 404,
			build: func(t *testing.T, cmd *command.UpdateProductShippingCommand) {
				_, err := cmd.SetWeight("1")
				require.NoError(t, err)
			},
			wantErr:    repository.ErrProductNotFound,
			wantResult: "not_found",
		},
		{
			name:      "unknown carrier",
			productID: 10,
			build: func(t *testing.T, cmd *command.UpdateProductShippingCommand) {
				_, err := cmd.SetCarrierReferences([]any{1, 42})
				require.NoError(t, err)
			},
			wantErr:    repository.ErrCarrierNotFound,
			wantResult: "not_found",
		},
		{
			name:      "negative weight",
			productID: 10,
			build: func(t *testing.T, cmd *command.UpdateProductShippingCommand) {
				_, err := cmd.SetWeight("-1")
				require.NoError(t, err)
			},
			wantErr:    entity.ErrNegativeWeight,
			wantResult: "invalid",
		},
		{
			name:      "negative width",
			productID: 10,
			build: func(t *testing.T, cmd *command.UpdateProductShippingCommand) {
				_, err := cmd.SetWidth("-0.5")
				require.NoError(t, err)
			},
			wantErr:    valueobject.ErrNegativeDimension,
			wantResult: "invalid",
		},
		{
			name:      "width exponent out of range",
			productID: 10,
			build: func(t *testing.T, cmd *command.UpdateProductShippingCommand) {
				_, err := cmd.SetWidth("1e10000000")
				require.NoError(t, err)
			},
			wantErr:    valueobject.ErrDecimalOutOfRange,
			wantResult: "invalid",
		},
		{
			name:      "weight with excess fraction digits",
			productID: 10,
			build: func(t *testing.T, cmd *command.UpdateProductShippingCommand) {
				_, err := cmd.SetWeight("0.1234567")
				require.NoError(t, err)
			},
			wantErr:    valueobject.ErrDecimalOutOfRange,
			wantResult: "invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			cmd := mustCommand(t, tt.productID)
			tt.build(t, cmd)

			_, err := f.handler.Handle(context.Background(), cmd)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, float64(1), f.metrics.counters[MetricShippingUpdates+"/"+tt.wantResult])

			stored, err := f.products.GetByID(context.Background(), f.product.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, stored.Version)
		})
	}
}

func TestUpdateProductShippingHandler_CarrierLookupFailure(t *testing.T) {
	f := newFixture(t)
	h := NewUpdateProductShippingHandler(f.products, failingCarriers{}, nopLogger{}, f.metrics)

	cmd := mustCommand(t, 10)
	_, err := cmd.SetCarrierReferences([]any{1})
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check carriers")
	assert.Equal(t, float64(1), f.metrics.counters[MetricShippingUpdates+"/error"])
}

func TestUpdateProductShippingHandler_EmptyCarrierListClearsRestriction(t *testing.T) {
	f := newFixture(t)

	restrict := mustCommand(t, 10)
	_, err := restrict.SetCarrierReferences([]any{2})
	require.NoError(t, err)
	_, err = f.handler.Handle(context.Background(), restrict)
	require.NoError(t, err)

	unrestrict := mustCommand(t, 10)
	_, err = unrestrict.SetCarrierReferences([]any{})
	require.NoError(t, err)
	_, err = f.handler.Handle(context.Background(), unrestrict)
	require.NoError(t, err)

	stored, err := f.products.GetByID(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.CarrierReferences)
}

func TestGetProductShippingHandler(t *testing.T) {
	f := newFixture(t)
	q := NewGetProductShippingHandler(f.products)

	p, err := q.Handle(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, "MUG-01", p.Reference)

	missing, _ := valueobject.NewProductID(404)
	_, err = q.Handle(context.Background(), missing)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}
