package repository

import (
	"context"
	"errors"
	"fmt"

	"prepkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const couponColumns = `id, name, code, discount_percentage, is_active, minimum_cart_value,
		start_date, expiry_date, created_at, updated_at`

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	store
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{store: newStore(pool, logger, "coupon")}
}

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID, &c.Name, &c.Code, &c.DiscountPercentage, &c.IsActive, &c.MinimumCartValue,
		&c.StartDate, &c.ExpiryDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActiveByCode retrieves an active coupon by its exact code.
func (r *couponRepository) GetActiveByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1 AND is_active`

	c, err := scanCoupon(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("code", code).Msg("coupon not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return c, nil
}

// GetByID retrieves a coupon regardless of state.
func (r *couponRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	c, err := scanCoupon(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return c, nil
}

// List retrieves all coupons, newest first.
func (r *couponRepository) List(ctx context.Context) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query coupons")
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan coupon row")
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, *c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating coupon rows")
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}

	return coupons, nil
}

// Create inserts a new coupon.
func (r *couponRepository) Create(ctx context.Context, c *model.Coupon) error {
	query := `
		INSERT INTO coupons (id, name, code, discount_percentage, is_active, minimum_cart_value,
			start_date, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.Code, c.DiscountPercentage, c.IsActive, c.MinimumCartValue,
		c.StartDate, c.ExpiryDate, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn().Str("code", c.Code).Msg("duplicate coupon code")
			return model.ErrCouponExists
		}
		r.logger.Error().Err(err).Str("code", c.Code).Msg("failed to create coupon")
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	r.logger.Debug().Str("code", c.Code).Msg("coupon created successfully")
	return nil
}

// Upsert inserts coupons or refreshes existing ones matched by code in a single batch.
func (r *couponRepository) Upsert(ctx context.Context, coupons []model.Coupon) error {
	if len(coupons) == 0 {
		return nil
	}

	query := `
		INSERT INTO coupons (id, name, code, discount_percentage, is_active, minimum_cart_value,
			start_date, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			discount_percentage = EXCLUDED.discount_percentage,
			minimum_cart_value = EXCLUDED.minimum_cart_value,
			start_date = EXCLUDED.start_date,
			expiry_date = EXCLUDED.expiry_date,
			updated_at = EXCLUDED.updated_at
	`

	batch := &pgx.Batch{}
	for _, c := range coupons {
		batch.Queue(query,
			c.ID, c.Name, c.Code, c.DiscountPercentage, c.IsActive, c.MinimumCartValue,
			c.StartDate, c.ExpiryDate, c.CreatedAt, c.UpdatedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(coupons); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("code", coupons[i].Code).
				Msg("failed to upsert coupon")
			return fmt.Errorf("failed to upsert coupon %s: %w", coupons[i].Code, err)
		}
	}

	r.logger.Debug().Int("count", len(coupons)).Msg("coupons upserted successfully")
	return nil
}

// Deactivate marks a coupon inactive.
func (r *couponRepository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE coupons SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to deactivate coupon")
		return false, fmt.Errorf("failed to deactivate coupon: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
