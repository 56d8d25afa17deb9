// Package memory provides in-process implementations of repository interfaces.
// They back the "memory" database driver used for local development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/hapkiduki/catalog-go/internal/domain/entity"
	"github.com/hapkiduki/catalog-go/internal/domain/repository"
	"github.com/hapkiduki/catalog-go/internal/domain/valueobject"
)

// ProductRepository stores products in a map guarded by a RWMutex.
// Products are copied on the way in and out so callers never share state with the store.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int]*entity.Product
}

// NewProductRepository creates an empty repository.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[int]*entity.Product)}
}

// Create implements repository.ProductRepository.
func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.Reference == product.Reference {
			return repository.ErrDuplicateReference
		}
	}
	r.products[product.ID.Value()] = cloneProduct(product)
	return nil
}

// GetByID implements repository.ProductRepository.
func (r *ProductRepository) GetByID(ctx context.Context, id valueobject.ProductID) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id.Value()]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

// Update implements repository.ProductRepository.
func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID.Value()]
	if !ok {
		return repository.ErrProductNotFound
	}
	if stored.Version != product.Version {
		return repository.ErrOptimisticLock
	}

	product.Version++
	r.products[product.ID.Value()] = cloneProduct(product)
	return nil
}

// Ping implements repository.ProductRepository.
func (r *ProductRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	if p.CarrierReferences != nil {
		c.CarrierReferences = append(make([]valueobject.CarrierReferenceID, 0, len(p.CarrierReferences)), p.CarrierReferences...)
	}
	c.DeliveryTimeInStockNotes = p.DeliveryTimeInStockNotes.Clone()
	c.DeliveryTimeOutOfStockNotes = p.DeliveryTimeOutOfStockNotes.Clone()
	return &c
}

// CarrierRepository is a fixed set of known carrier references.
type CarrierRepository struct {
	mu   sync.RWMutex
	refs map[valueobject.CarrierReferenceID]struct{}
}

// NewCarrierRepository creates a repository knowing the given references.
func NewCarrierRepository(refs ...valueobject.CarrierReferenceID) *CarrierRepository {
	r := &CarrierRepository{refs: make(map[valueobject.CarrierReferenceID]struct{}, len(refs))}
	for _, ref := range refs {
		r.refs[ref] = struct{}{}
	}
	return r
}

// Add registers more carrier references.
func (r *CarrierRepository) Add(refs ...valueobject.CarrierReferenceID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ref := range refs {
		r.refs[ref] = struct{}{}
	}
}

// FindMissing implements repository.CarrierRepository.
func (r *CarrierRepository) FindMissing(ctx context.Context, refs []valueobject.CarrierReferenceID) ([]valueobject.CarrierReferenceID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var missing []valueobject.CarrierReferenceID
	for _, ref := range refs {
		if _, ok := r.refs[ref]; !ok {
			missing = append(missing, ref)
		}
	}
	return missing, nil
}
