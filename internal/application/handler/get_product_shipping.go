package handler

import (
	"context"

	"github.com/hapkiduki/catalog-go/internal/domain/entity"
	"github.com/hapkiduki/catalog-go/internal/domain/repository"
	"github.com/hapkiduki/catalog-go/internal/domain/valueobject"
)

// GetProductShippingHandler reads the shipping options of one product.
type GetProductShippingHandler struct {
	products repository.ProductRepository
}

// NewGetProductShippingHandler creates a new query handler.
func NewGetProductShippingHandler(products repository.ProductRepository) *GetProductShippingHandler {
	return &GetProductShippingHandler{products: products}
}

// Handle returns the product identified by id.
//
// Returns:
//   - *entity.Product: the product
//   - error: repository.ErrProductNotFound if it doesn't exist
func (h *GetProductShippingHandler) Handle(ctx context.Context, id valueobject.ProductID) (*entity.Product, error) {
	return h.products.GetByID(ctx, id)
}
