package postgres

import (
	"context"
	"fmt"

	"github.com/hapkiduki/catalog-go/internal/domain/valueobject"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CarrierRepository reads the carriers table.
type CarrierRepository struct {
	pool *pgxpool.Pool
}

// NewCarrierRepository creates a carrier repository on top of pool.
func NewCarrierRepository(pool *pgxpool.Pool) *CarrierRepository {
	return &CarrierRepository{pool: pool}
}

// FindMissing implements repository.CarrierRepository.
// Deleted or inactive carriers count as missing.
func (r *CarrierRepository) FindMissing(ctx context.Context, refs []valueobject.CarrierReferenceID) ([]valueobject.CarrierReferenceID, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(refs))
	for i, ref := range refs {
		ids[i] = int64(ref.Value())
	}

	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT reference FROM carriers WHERE reference = ANY($1::bigint[]) AND active AND NOT deleted`, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup carriers: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan carriers: %w", err)
	}

	known := make(map[int64]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}

	var missing []valueobject.CarrierReferenceID
	for _, ref := range refs {
		if _, ok := known[int64(ref.Value())]; !ok {
			missing = append(missing, ref)
		}
	}
	return missing, nil
}

// Ensure inserts active carriers for refs that are not stored yet.
func (r *CarrierRepository) Ensure(ctx context.Context, refs ...valueobject.CarrierReferenceID) error {
	if len(refs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, ref := range refs {
		batch.Queue(`
INSERT INTO carriers (reference, name)
SELECT $1::integer, $2::text
WHERE NOT EXISTS (SELECT 1 FROM carriers WHERE reference = $1::integer AND NOT deleted)`,
			ref.Value(), fmt.Sprintf("carrier-%d", ref.Value()))
	}

	results := conn(ctx, r.pool).SendBatch(ctx, batch)
	defer results.Close()
	for range refs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("ensure carrier: %w", err)
		}
	}
	return nil
}
