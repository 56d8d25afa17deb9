// Package redis provides a read-through, write-through Redis cache in front of a ProductRepository.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hapkiduki/catalog-go/internal/application/port"
	"github.com/hapkiduki/catalog-go/internal/domain/entity"
	"github.com/hapkiduki/catalog-go/internal/domain/repository"
	"github.com/hapkiduki/catalog-go/internal/domain/valueobject"
	"github.com/redis/go-redis/v9"
)

const (
	productKeyPrefix = "catalog:product:"

	// DefaultTTL is used when a non-positive TTL is configured.
	DefaultTTL = 5 * time.Minute

	// MetricCacheRequests counts lookups by result (hit, miss, error).
	MetricCacheRequests = "product_cache_requests_total"
)

// storeScript caches ARGV[1] unless the cached entry already holds a version
// greater than or equal to ARGV[2]. ARGV[3] is the TTL in milliseconds.
var storeScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current then
	local ok, cached = pcall(cjson.decode, current)
	if ok and type(cached) == 'table' then
		local version = tonumber(cached['version'])
		if version and version >= tonumber(ARGV[2]) then
			return 0
		end
	end
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// ProductRepository decorates another ProductRepository with a Redis cache.
// Reads go through the cache. Updates write the new version through to the cache,
// and a cached entry is never replaced by an older version of the product.
// Redis failures never fail a request, they only degrade to the wrapped repository.
type ProductRepository struct {
	next    repository.ProductRepository
	client  redis.Cmdable
	ttl     time.Duration
	logger  port.Logger
	metrics port.Metrics
}

// NewProductRepository wraps next with a cache stored in client.
//
// Parameters:
//   - next: the source of truth
//   - client: Redis client
//   - ttl: lifetime of cached entries
//   - logger: logger for degraded cache operations
//   - metrics: hit/miss recorder
//
// Returns:
//   - *ProductRepository: the caching repository
func NewProductRepository(next repository.ProductRepository, client redis.Cmdable, ttl time.Duration, logger port.Logger, metrics port.Metrics) *ProductRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProductRepository{
		next:    next,
		client:  client,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

// Create implements repository.ProductRepository.
func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if err := r.next.Create(ctx, product); err != nil {
		return err
	}
	r.evict(ctx, product.ID)
	return nil
}

// GetByID implements repository.ProductRepository.
func (r *ProductRepository) GetByID(ctx context.Context, id valueobject.ProductID) (*entity.Product, error) {
	key := productKey(id)

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		product, decodeErr := decodeProduct(data)
		if decodeErr == nil {
			r.record("hit")
			return product, nil
		}
		r.logger.WithContext(ctx).Warn("Discarding undecodable cache entry", "key", key, "error", decodeErr)
		r.record("error")
	case errors.Is(err, redis.Nil):
		r.record("miss")
	default:
		r.logger.WithContext(ctx).Warn("Product cache read failed", "key", key, "error", err)
		r.record("error")
	}

	product, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.store(ctx, product); err != nil {
		r.logger.WithContext(ctx).Warn("Product cache write failed", "key", key, "error", err)
	}
	return product, nil
}

// Update implements repository.ProductRepository.
// A version conflict evicts the entry, since the caller may have read it from the cache.
func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	if err := r.next.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			r.evict(ctx, product.ID)
		}
		return err
	}

	if err := r.store(ctx, product); err != nil {
		r.logger.WithContext(ctx).Warn("Product cache write failed", "product_id", product.ID.Value(), "error", err)
		r.evict(ctx, product.ID)
	}
	return nil
}

// Ping checks the wrapped repository only; the cache is optional.
func (r *ProductRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// PingCache checks the Redis connection.
func (r *ProductRepository) PingCache(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// store caches product unless a newer version is already cached.
func (r *ProductRepository) store(ctx context.Context, product *entity.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	ttl := max(r.ttl.Milliseconds(), 1)
	return storeScript.Run(ctx, r.client, []string{productKey(product.ID)}, data, product.Version, ttl).Err()
}

func (r *ProductRepository) evict(ctx context.Context, id valueobject.ProductID) {
	if err := r.client.Del(ctx, productKey(id)).Err(); err != nil {
		r.logger.WithContext(ctx).Warn("Product cache eviction failed", "product_id", id.Value(), "error", err)
	}
}

func (r *ProductRepository) record(result string) {
	r.metrics.Counter(MetricCacheRequests, 1, map[string]string{"result": result})
}

func productKey(id valueobject.ProductID) string {
	return productKeyPrefix + id.String()
}

func decodeProduct(data []byte) (*entity.Product, error) {
	var product entity.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	if product.ID.Value() <= 0 {
		return nil, valueobject.ErrInvalidProductID
	}
	return &product, nil
}
