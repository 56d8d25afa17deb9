// Package repository contains the repository interfaces (ports) for data access.
package repository

import (
	"context"

	"github.com/hapkiduki/catalog-go/internal/domain/entity"
	"github.com/hapkiduki/catalog-go/internal/domain/valueobject"
)

// ProductRepository defines the interface for product persistance operations.
// It abstracts the data access layer for products entities.
//
// Example usage:
//
//	repo := postgres.NewProductRepository(pool)
//	product, err := repo.GetByID(ctx, productID)
type ProductRepository interface {
	// Create persists a new product to the data store.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - product: The product to create
	//
	// Returns:
	//   - error: ErrDuplicateReference if the reference is taken
	Create(ctx context.Context, product *entity.Product) error

	// GetByID retrieves a product by its unique identifier.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - id: The product's identifier
	//
	// Returns:
	//   - *entity.Product: The retrieved product
	//   - error: ErrProductNotFound if product doesn't exist
	GetByID(ctx context.Context, id valueobject.ProductID) (*entity.Product, error)

	// Update persists changes to an existing product.
	// The stored version must equal product.Version; on success product.Version is incremented.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - product: The product to update
	//
	// Returns:
	//   - error: ErrOptimisticLock if version mismatch, ErrProductNotFound if missing
	Update(ctx context.Context, product *entity.Product) error

	// Ping verifies the data store is reachable.
	Ping(ctx context.Context) error
}

// CarrierRepository answers questions about the carriers known to the shop.
type CarrierRepository interface {
	// FindMissing returns the references that do not match any active carrier,
	// in input order. An empty result means all references exist.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - refs: carrier references to check
	//
	// Returns:
	//   - []valueobject.CarrierReferenceID: unknown references
	//   - error: any error encountered during lookup
	FindMissing(ctx context.Context, refs []valueobject.CarrierReferenceID) ([]valueobject.CarrierReferenceID, error)
}
