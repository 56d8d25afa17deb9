// Package handler contains the command and query handlers of the application layer.
// Handlers load aggregates through repository ports, apply domain operations and persist
// the result. They never talk to infrastructure directly.
package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hapkiduki/catalog-go/internal/application/command"
	"github.com/hapkiduki/catalog-go/internal/application/port"
	"github.com/hapkiduki/catalog-go/internal/domain/entity"
	"github.com/hapkiduki/catalog-go/internal/domain/repository"
	"github.com/hapkiduki/catalog-go/internal/domain/valueobject"
)

// Metric names recorded by UpdateProductShippingHandler.
const (
	MetricShippingUpdates        = "product_shipping_updates_total"
	MetricShippingUpdateDuration = "product_shipping_update_duration_seconds"
)

// ErrEmptyUpdate is returned when a command carries no attribute to change.
var ErrEmptyUpdate = errors.New("no shipping attribute provided")

// UpdateProductShippingHandler applies an UpdateProductShippingCommand to a product.
type UpdateProductShippingHandler struct {
	products repository.ProductRepository
	carriers repository.CarrierRepository
	logger   port.Logger
	metrics  port.Metrics
}

// NewUpdateProductShippingHandler creates a new handler.
//
// Parameters:
//   - products: product persistence port
//   - carriers: carrier lookup port
//   - logger: structured logger
//   - metrics: metrics recorder
//
// Returns:
//   - *UpdateProductShippingHandler: the handler
func NewUpdateProductShippingHandler(
	products repository.ProductRepository,
	carriers repository.CarrierRepository,
	logger port.Logger,
	metrics port.Metrics,
) *UpdateProductShippingHandler {
	return &UpdateProductShippingHandler{
		products: products,
		carriers: carriers,
		logger:   logger,
		metrics:  metrics,
	}
}

// Handle loads the product, applies every attribute set on cmd and persists it.
// Attributes left unset on cmd are not touched.
//
// Parameters:
//   - ctx: context for cancellation and deadlines
//   - cmd: the shipping update to apply
//
// Returns:
//   - *entity.Product: the updated product
//   - error: ErrEmptyUpdate, repository.ErrProductNotFound, repository.ErrCarrierNotFound,
//     a domain validation error, or repository.ErrOptimisticLock
func (h *UpdateProductShippingHandler) Handle(ctx context.Context, cmd *command.UpdateProductShippingCommand) (*entity.Product, error) {
	start := time.Now()
	log := h.logger.WithContext(ctx).With("product_id", cmd.ProductID().Value())

	product, err := h.handle(ctx, cmd)

	result := "success"
	if err != nil {
		result = resultLabel(err)
		log.Warn("Product shipping update rejected", "result", result, "error", err)
	} else {
		log.Info("Product shipping updated", "version", product.Version, "dimensions", product.Dimensions.String())
	}
	tags := map[string]string{"result": result}
	h.metrics.Counter(MetricShippingUpdates, 1, tags)
	h.metrics.Timing(MetricShippingUpdateDuration, time.Since(start), tags)

	return product, err
}

func (h *UpdateProductShippingHandler) handle(ctx context.Context, cmd *command.UpdateProductShippingCommand) (*entity.Product, error) {
	if cmd.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	product, err := h.products.GetByID(ctx, cmd.ProductID())
	if err != nil {
		return nil, err
	}

	if refs := cmd.CarrierReferences(); len(refs) > 0 {
		missing, err := h.carriers.FindMissing(ctx, refs)
		if err != nil {
			return nil, fmt.Errorf("check carriers: %w", err)
		}
		if len(missing) > 0 {
			return nil, &repository.MissingCarriersError{References: valueobject.CarrierReferencesToInts(missing)}
		}
	}

	if err := applyShipping(product, cmd); err != nil {
		return nil, err
	}

	if err := h.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// applyShipping copies every attribute set on cmd onto product.
func applyShipping(product *entity.Product, cmd *command.UpdateProductShippingCommand) error {
	if cmd.Width() != nil || cmd.Height() != nil || cmd.Depth() != nil {
		dims := product.Dimensions
		var err error
		if w := cmd.Width(); w != nil {
			if dims, err = dims.WithWidth(*w); err != nil {
				return err
			}
		}
		if hh := cmd.Height(); hh != nil {
			if dims, err = dims.WithHeight(*hh); err != nil {
				return err
			}
		}
		if d := cmd.Depth(); d != nil {
			if dims, err = dims.WithDepth(*d); err != nil {
				return err
			}
		}
		product.SetDimensions(dims)
	}

	if w := cmd.Weight(); w != nil {
		if err := product.SetWeight(*w); err != nil {
			return err
		}
	}

	if c := cmd.AdditionalShippingCost(); c != nil {
		if err := product.SetAdditionalShippingCost(*c); err != nil {
			return err
		}
	}

	if refs := cmd.CarrierReferences(); refs != nil {
		product.SetCarrierReferences(refs)
	}

	if t := cmd.DeliveryTimeNotesType(); t != nil {
		product.SetDeliveryTimeNotesType(*t)
	}

	if notes := cmd.LocalizedDeliveryTimeInStockNotes(); notes != nil {
		if err := product.SetDeliveryTimeInStockNotes(notes); err != nil {
			return err
		}
	}

	if notes := cmd.LocalizedDeliveryTimeOutOfStockNotes(); notes != nil {
		if err := product.SetDeliveryTimeOutOfStockNotes(notes); err != nil {
			return err
		}
	}

	return nil
}

// IsValidationError reports whether err was caused by invalid input rather than by
// the state of the system.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyUpdate) ||
		errors.Is(err, valueobject.ErrInvalidDecimal) ||
		errors.Is(err, valueobject.ErrDecimalOutOfRange) ||
		errors.Is(err, valueobject.ErrInvalidProductID) ||
		errors.Is(err, valueobject.ErrInvalidCarrierReference) ||
		errors.Is(err, valueobject.ErrInvalidDeliveryTimeNotesType) ||
		errors.Is(err, valueobject.ErrNegativeDimension) ||
		errors.Is(err, entity.ErrNegativeWeight) ||
		errors.Is(err, entity.ErrNegativeShippingCost) ||
		errors.Is(err, entity.ErrDeliveryNoteTooLong)
}

func resultLabel(err error) string {
	switch {
	case IsValidationError(err):
		return "invalid"
	case repository.IsNotFoundError(err):
		return "not_found"
	case repository.IsConflictError(err):
		return "conflict"
	default:
		return "error"
	}
}
