// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hapkiduki/catalog-go/internal/domain/entity"
	"github.com/hapkiduki/catalog-go/internal/domain/repository"
	"github.com/hapkiduki/catalog-go/internal/domain/valueobject"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ProductRepository stores products in PostgreSQL.
// Decimals travel as text so no precision is lost between shopspring/decimal and NUMERIC.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a repository on top of pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create implements repository.ProductRepository.
func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	inStock, outOfStock, err := encodeNotes(product)
	if err != nil {
		return err
	}

	return withTx(ctx, r.pool, func(ctx context.Context) error {
		const stmt = `
INSERT INTO products (
	id, reference, name, width, height, depth, weight, additional_shipping_cost,
	delivery_time_notes_type, delivery_in_stock_notes, delivery_out_stock_notes,
	created_at, updated_at, version
) VALUES (
	$1, $2, $3, $4::text::numeric, $5::text::numeric, $6::text::numeric, $7::text::numeric, $8::text::numeric,
	$9, $10::text::jsonb, $11::text::jsonb, $12, $13, $14
)`
		_, err := conn(ctx, r.pool).Exec(ctx, stmt,
			product.ID.Value(), product.Reference, product.Name,
			product.Dimensions.Width.String(), product.Dimensions.Height.String(), product.Dimensions.Depth.String(),
			product.Weight.String(), product.AdditionalShippingCost.String(),
			product.DeliveryTimeNotesType.Value(), inStock, outOfStock,
			product.CreatedAt, product.UpdatedAt, product.Version,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrDuplicateReference
			}
			return fmt.Errorf("insert product: %w", err)
		}
		return r.replaceCarriers(ctx, product)
	})
}

// GetByID implements repository.ProductRepository.
func (r *ProductRepository) GetByID(ctx context.Context, id valueobject.ProductID) (*entity.Product, error) {
	const query = `
SELECT id, reference, name,
	width::text, height::text, depth::text, weight::text, additional_shipping_cost::text,
	delivery_time_notes_type, delivery_in_stock_notes::text, delivery_out_stock_notes::text,
	created_at, updated_at, version
FROM products
WHERE id = $1`

	var (
		p                   entity.Product
		rawID, notesType    int
		inStock, outOfStock string

		width, height, depth, weight, shippingCost string
	)
	err := conn(ctx, r.pool).QueryRow(ctx, query, id.Value()).Scan(
		&rawID, &p.Reference, &p.Name,
		&width, &height, &depth, &weight, &shippingCost,
		&notesType, &inStock, &outOfStock,
		&p.CreatedAt, &p.UpdatedAt, &p.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	if p.ID, err = valueobject.NewProductID(rawID); err != nil {
		return nil, err
	}
	if err := decodeDecimals(&p, width, height, depth, weight, shippingCost); err != nil {
		return nil, fmt.Errorf("decode product %d: %w", rawID, err)
	}
	if p.DeliveryTimeNotesType, err = valueobject.NewDeliveryTimeNotesType(notesType); err != nil {
		return nil, fmt.Errorf("decode product %d: %w", rawID, err)
	}
	if err := json.Unmarshal([]byte(inStock), &p.DeliveryTimeInStockNotes); err != nil {
		return nil, fmt.Errorf("decode in-stock notes of product %d: %w", rawID, err)
	}
	if err := json.Unmarshal([]byte(outOfStock), &p.DeliveryTimeOutOfStockNotes); err != nil {
		return nil, fmt.Errorf("decode out-of-stock notes of product %d: %w", rawID, err)
	}

	if p.CarrierReferences, err = r.carriersOf(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update implements repository.ProductRepository.
func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	inStock, outOfStock, err := encodeNotes(product)
	if err != nil {
		return err
	}

	return withTx(ctx, r.pool, func(ctx context.Context) error {
		const stmt = `
UPDATE products SET
	name = $3,
	width = $4::text::numeric,
	height = $5::text::numeric,
	depth = $6::text::numeric,
	weight = $7::text::numeric,
	additional_shipping_cost = $8::text::numeric,
	delivery_time_notes_type = $9,
	delivery_in_stock_notes = $10::text::jsonb,
	delivery_out_stock_notes = $11::text::jsonb,
	updated_at = $12,
	version = version + 1
WHERE id = $1 AND version = $2`

		tag, err := conn(ctx, r.pool).Exec(ctx, stmt,
			product.ID.Value(), product.Version, product.Name,
			product.Dimensions.Width.String(), product.Dimensions.Height.String(), product.Dimensions.Depth.String(),
			product.Weight.String(), product.AdditionalShippingCost.String(),
			product.DeliveryTimeNotesType.Value(), inStock, outOfStock,
			product.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, product.ID.Value()).Scan(&exists); err != nil {
				return fmt.Errorf("check product: %w", err)
			}
			if !exists {
				return repository.ErrProductNotFound
			}
			return repository.ErrOptimisticLock
		}

		if err := r.replaceCarriers(ctx, product); err != nil {
			return err
		}
		product.Version++
		return nil
	})
}

// Ping implements repository.ProductRepository.
func (r *ProductRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrConnectionFailed, err)
	}
	return nil
}

func (r *ProductRepository) replaceCarriers(ctx context.Context, product *entity.Product) error {
	q := conn(ctx, r.pool)
	if _, err := q.Exec(ctx, `DELETE FROM product_carriers WHERE product_id = $1`, product.ID.Value()); err != nil {
		return fmt.Errorf("clear product carriers: %w", err)
	}
	if len(product.CarrierReferences) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, ref := range product.CarrierReferences {
		batch.Queue(`INSERT INTO product_carriers (product_id, carrier_reference, position) VALUES ($1, $2, $3)`,
			product.ID.Value(), ref.Value(), i)
	}
	results := q.SendBatch(ctx, batch)
	defer results.Close()
	for range product.CarrierReferences {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert product carrier: %w", err)
		}
	}
	return nil
}

func (r *ProductRepository) carriersOf(ctx context.Context, id valueobject.ProductID) ([]valueobject.CarrierReferenceID, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT carrier_reference FROM product_carriers WHERE product_id = $1 ORDER BY position`, id.Value())
	if err != nil {
		return nil, fmt.Errorf("list product carriers: %w", err)
	}
	refs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (valueobject.CarrierReferenceID, error) {
		var ref int
		err := row.Scan(&ref)
		return valueobject.CarrierReferenceID(ref), err
	})
	if err != nil {
		return nil, fmt.Errorf("scan product carriers: %w", err)
	}
	return refs, nil
}

func encodeNotes(product *entity.Product) (inStock, outOfStock string, err error) {
	in, err := json.Marshal(nonNilNotes(product.DeliveryTimeInStockNotes))
	if err != nil {
		return "", "", fmt.Errorf("encode in-stock notes: %w", err)
	}
	out, err := json.Marshal(nonNilNotes(product.DeliveryTimeOutOfStockNotes))
	if err != nil {
		return "", "", fmt.Errorf("encode out-of-stock notes: %w", err)
	}
	return string(in), string(out), nil
}

func nonNilNotes(ls valueobject.LocalizedString) valueobject.LocalizedString {
	if ls == nil {
		return valueobject.LocalizedString{}
	}
	return ls
}

func decodeDecimals(p *entity.Product, width, height, depth, weight, shippingCost string) error {
	var err error
	parse := func(s string) decimal.Decimal {
		if err != nil {
			return decimal.Decimal{}
		}
		var d decimal.Decimal
		d, err = decimal.NewFromString(s)
		return d
	}

	p.Dimensions = valueobject.Dimensions{Width: parse(width), Height: parse(height), Depth: parse(depth)}
	p.Weight = parse(weight)
	p.AdditionalShippingCost = parse(shippingCost)
	return err
}
