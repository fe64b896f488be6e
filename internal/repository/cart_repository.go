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

const cartColumns = `id, user_id, items, coupon_id, subtotal, total, created_at, updated_at`

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	store
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{store: newStore(pool, logger, "cart")}
}

// GetByUser retrieves the cart of a user.
func (r *cartRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE user_id = $1`
	return r.get(ctx, r.pool, query, userID)
}

// LockByUser retrieves the cart of a user with SELECT ... FOR UPDATE.
func (r *cartRepository) LockByUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE user_id = $1 FOR UPDATE`
	return r.get(ctx, r.db(tx), query, userID)
}

func (r *cartRepository) get(ctx context.Context, db DBTX, query string, userID uuid.UUID) (*model.Cart, error) {
	var c model.Cart
	err := db.QueryRow(ctx, query, userID).Scan(
		&c.ID, &c.UserID, &c.Items, &c.CouponID, &c.Subtotal, &c.Total, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("user_id", userID.String()).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	if c.Items == nil {
		c.Items = []model.CartItem{}
	}
	return &c, nil
}

// Create inserts a new cart unless the user already has one. A concurrent
// insert for the same user blocks until the other transaction ends.
func (r *cartRepository) Create(ctx context.Context, tx pgx.Tx, c *model.Cart) (bool, error) {
	query := `
		INSERT INTO carts (id, user_id, items, coupon_id, subtotal, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO NOTHING
	`

	tag, err := r.db(tx).Exec(ctx, query,
		c.ID, c.UserID, items(c.Items), c.CouponID, c.Subtotal, c.Total, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", c.UserID.String()).Msg("failed to create cart")
		return false, fmt.Errorf("failed to create cart: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Str("user_id", c.UserID.String()).Msg("cart already exists")
		return false, nil
	}

	r.logger.Debug().Str("cart_id", c.ID.String()).Msg("cart created successfully")
	return true, nil
}

// Update persists items, coupon and cached totals of a cart.
func (r *cartRepository) Update(ctx context.Context, tx pgx.Tx, c *model.Cart) error {
	query := `
		UPDATE carts
		SET items = $2, coupon_id = $3, subtotal = $4, total = $5, updated_at = $6
		WHERE id = $1
	`

	_, err := r.db(tx).Exec(ctx, query, c.ID, items(c.Items), c.CouponID, c.Subtotal, c.Total, c.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", c.ID.String()).Msg("failed to update cart")
		return fmt.Errorf("failed to update cart: %w", err)
	}

	return nil
}

// items keeps an empty cart stored as [] rather than null.
func items(in []model.CartItem) []model.CartItem {
	if in == nil {
		return []model.CartItem{}
	}
	return in
}
