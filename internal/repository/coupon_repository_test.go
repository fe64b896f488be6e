package repository

import (
	"context"
	"testing"
	"time"

	"prepkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoupon(code string, start, expiry time.Time) *model.Coupon {
	now := time.Now().UTC()
	return &model.Coupon{
		ID:                 uuid.New(),
		Name:               code + " promo",
		Code:               code,
		DiscountPercentage: dec("10"),
		IsActive:           true,
		MinimumCartValue:   dec("0"),
		StartDate:          start.UTC(),
		ExpiryDate:         expiry.UTC(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestCouponRepository_CreateAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCouponRepository(pool, zerolog.Nop())
	ctx := context.Background()

	coupon := newTestCoupon("SAVE10", time.Now().Add(-time.Hour), time.Now().Add(24*time.Hour))
	require.NoError(t, repo.Create(ctx, coupon))

	tests := []struct {
		name  string
		code  string
		found bool
	}{
		{"Exact code", "SAVE10", true},
		{"Lowercase does not match", "save10", false},
		{"Unknown code", "NOPE", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetActiveByCode(ctx, tt.code)
			require.NoError(t, err)
			if tt.found {
				require.NotNil(t, got)
				assert.Equal(t, coupon.ID, got.ID)
				assert.True(t, dec("10").Equal(got.DiscountPercentage))
			} else {
				assert.Nil(t, got)
			}
		})
	}

	byID, err := repo.GetByID(ctx, coupon.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "SAVE10", byID.Code)
}

func TestCouponRepository_Create_Duplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCouponRepository(pool, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestCoupon("DUP", time.Now(), time.Now().Add(time.Hour))))

	err := repo.Create(ctx, newTestCoupon("DUP", time.Now(), time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, model.ErrCouponExists)
}

func TestCouponRepository_Deactivate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCouponRepository(pool, zerolog.Nop())
	ctx := context.Background()

	coupon := newTestCoupon("OLD", time.Now().Add(-48*time.Hour), time.Now().Add(-24*time.Hour))
	require.NoError(t, repo.Create(ctx, coupon))

	ok, err := repo.Deactivate(ctx, coupon.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetActiveByCode(ctx, "OLD")
	require.NoError(t, err)
	assert.Nil(t, got, "inactive coupons are not returned by code")

	ok, err = repo.Deactivate(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCouponRepository_Upsert(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCouponRepository(pool, zerolog.Nop())
	ctx := context.Background()

	first := newTestCoupon("SEASON", time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, first))

	refreshed := newTestCoupon("SEASON", time.Now(), time.Now().Add(48*time.Hour))
	refreshed.DiscountPercentage = dec("25")
	fresh := newTestCoupon("NEWBIE", time.Now(), time.Now().Add(time.Hour))

	require.NoError(t, repo.Upsert(ctx, []model.Coupon{*refreshed, *fresh}))
	require.NoError(t, repo.Upsert(ctx, nil))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	season, err := repo.GetActiveByCode(ctx, "SEASON")
	require.NoError(t, err)
	require.NotNil(t, season)
	assert.Equal(t, first.ID, season.ID, "upsert keeps the original row")
	assert.True(t, dec("25").Equal(season.DiscountPercentage))
}
