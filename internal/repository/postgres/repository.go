package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// batchesQuery joins each batch with its flock and unit and aggregates its
// egg pack quality and fertility rows as JSON arrays.
const batchesQuery = `
SELECT
	b.id::text,
	COALESCE(b.batch_number, ''),
	b.total_eggs_set,
	b.eggs_cleared,
	b.eggs_injected,
	COALESCE(b.set_date::text, ''),
	COALESCE(b.status, ''),
	u.name,
	f.flock_number,
	COALESCE(f.flock_name, ''),
	f.age_weeks,
	COALESCE((
		SELECT json_agg(json_build_object(
			'id', q.id, 'cracked', q.cracked, 'dirty', q.dirty, 'small', q.small, 'large', q.large))
		FROM egg_pack_quality q
		WHERE q.batch_id = b.id
	), '[]'::json),
	COALESCE((
		SELECT json_agg(json_build_object(
			'id', fa.id, 'sample_size', fa.sample_size, 'fertile_eggs', fa.fertile_eggs,
			'infertile_eggs', fa.infertile_eggs, 'early_dead', fa.early_dead, 'late_dead', fa.late_dead,
			'fertility_percent', fa.fertility_percent))
		FROM fertility_analysis fa
		WHERE fa.batch_id = b.id
	), '[]'::json)
FROM batches b
JOIN flocks f ON f.id = b.flock_id
LEFT JOIN units u ON u.id = b.unit_id
ORDER BY b.set_date DESC`

// querier is the subset of *pgxpool.Pool used by the repository.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository reads batches straight from the hatchery Postgres database.
type Repository struct {
	db     querier
	close  func()
	logger *zap.Logger
}

// NewRepository opens a connection pool and verifies it with a ping.
func NewRepository(ctx context.Context, dsn string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Repository{db: pool, close: pool.Close, logger: logger}, nil
}

// FetchBatches returns every batch with its joined rows, newest set date
// first.
func (r *Repository) FetchBatches(ctx context.Context) ([]models.RawBatch, error) {
	rows, err := r.db.Query(ctx, batchesQuery)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var batches []models.RawBatch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}

	r.logger.Debug("batches fetched", zap.Int("count", len(batches)))
	return batches, nil
}

// Close releases the pool.
func (r *Repository) Close(context.Context) error {
	if r.close != nil {
		r.close()
	}
	return nil
}

func scanBatch(row pgx.Row) (models.RawBatch, error) {
	var (
		batch         models.RawBatch
		id            string
		unitName      *string
		flock         models.RawFlock
		qualityJSON   []byte
		fertilityJSON []byte
	)

	err := row.Scan(
		&id,
		&batch.BatchNumber,
		&batch.TotalEggsSet,
		&batch.EggsCleared,
		&batch.EggsInjected,
		&batch.SetDate,
		&batch.Status,
		&unitName,
		&flock.FlockNumber,
		&flock.FlockName,
		&flock.AgeWeeks,
		&qualityJSON,
		&fertilityJSON,
	)
	if err != nil {
		return models.RawBatch{}, fmt.Errorf("scan batch: %w", err)
	}

	batch.ID = models.RecordID(id)
	batch.Flock = &flock
	if unitName != nil {
		batch.Unit = &models.RawUnit{Name: unitName}
	}

	if err := json.Unmarshal(qualityJSON, &batch.EggPackQuality); err != nil {
		return models.RawBatch{}, fmt.Errorf("decode egg pack quality of batch %s: %w", id, err)
	}
	if err := json.Unmarshal(fertilityJSON, &batch.Fertility); err != nil {
		return models.RawBatch{}, fmt.Errorf("decode fertility of batch %s: %w", id, err)
	}

	return batch, nil
}
