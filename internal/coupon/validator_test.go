package coupon

import (
	"testing"
	"time"

	"prepkart/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func definition(code, pct string) model.CouponRequest {
	return model.CouponRequest{
		Name:               code + " promo",
		Code:               code,
		DiscountPercentage: decimal.RequireFromString(pct),
		ExpiryDate:         time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNormalize(t *testing.T) {
	req := model.CouponRequest{Name: "  Diwali  ", Code: " diwali25 "}
	Normalize(&req)
	assert.Equal(t, "Diwali", req.Name)
	assert.Equal(t, "DIWALI25", req.Code)
}

func TestValidateRequest(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	later := now.Add(24 * time.Hour)

	tests := []struct {
		name    string
		mutate  func(r *model.CouponRequest)
		wantErr string
	}{
		{name: "Valid", mutate: func(r *model.CouponRequest) {}},
		{name: "Hundred percent allowed", mutate: func(r *model.CouponRequest) { r.DiscountPercentage = decimal.NewFromInt(100) }},
		{name: "Missing name", mutate: func(r *model.CouponRequest) { r.Name = "" }, wantErr: "Coupon name is required"},
		{name: "Missing code", mutate: func(r *model.CouponRequest) { r.Code = "" }, wantErr: "Coupon code is required"},
		{name: "Zero percent", mutate: func(r *model.CouponRequest) { r.DiscountPercentage = decimal.Zero }, wantErr: "Discount percentage"},
		{name: "Over hundred", mutate: func(r *model.CouponRequest) { r.DiscountPercentage = decimal.NewFromInt(101) }, wantErr: "Discount percentage"},
		{name: "Negative minimum", mutate: func(r *model.CouponRequest) { r.MinimumCartValue = decimal.NewFromInt(-1) }, wantErr: "Minimum cart value"},
		{name: "Expiry before now", mutate: func(r *model.CouponRequest) { r.ExpiryDate = now.Add(-time.Hour) }, wantErr: "Expiry date must be after start date"},
		{
			name: "Expiry before explicit start",
			mutate: func(r *model.CouponRequest) {
				r.StartDate = &later
				r.ExpiryDate = now.Add(time.Hour)
			},
			wantErr: "Expiry date must be after start date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := definition("SAVE10", "10")
			tt.mutate(&req)

			err := ValidateRequest(&req, now)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, model.IsKind(err, model.KindBadRequest))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	id := uuid.New()

	req := definition("SAVE10", "10")
	c := Build(&req, id, now)

	assert.Equal(t, id, c.ID)
	assert.True(t, c.IsActive)
	assert.Equal(t, now, c.StartDate, "missing start defaults to now")
	assert.Equal(t, now, c.CreatedAt)

	start := now.Add(time.Hour)
	req.StartDate = &start
	assert.Equal(t, start, Build(&req, id, now).StartDate)
}

func TestCheck(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	base := func() *model.Coupon {
		return &model.Coupon{
			Code:               "SAVE10",
			DiscountPercentage: decimal.NewFromInt(10),
			IsActive:           true,
			MinimumCartValue:   decimal.NewFromInt(500),
			StartDate:          now.Add(-time.Hour),
			ExpiryDate:         now.Add(time.Hour),
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *model.Coupon)
		amount  int64
		wantErr error
	}{
		{name: "Usable", mutate: func(c *model.Coupon) {}, amount: 1000},
		{name: "Exactly at minimum", mutate: func(c *model.Coupon) {}, amount: 500},
		{name: "Inactive", mutate: func(c *model.Coupon) { c.IsActive = false }, amount: 1000, wantErr: model.ErrCouponNotFound},
		{name: "Expired", mutate: func(c *model.Coupon) { c.ExpiryDate = now.Add(-time.Minute) }, amount: 1000, wantErr: model.ErrCouponExpired},
		{name: "Expires right now", mutate: func(c *model.Coupon) { c.ExpiryDate = now }, amount: 1000, wantErr: model.ErrCouponExpired},
		{name: "Not started", mutate: func(c *model.Coupon) { c.StartDate = now.Add(time.Minute) }, amount: 1000, wantErr: model.ErrCouponNotStarted},
		{name: "Below minimum", mutate: func(c *model.Coupon) {}, amount: 499, wantErr: model.ErrCouponMinimum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)

			err := Check(c, decimal.NewFromInt(tt.amount), now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, Expired(&model.Coupon{ExpiryDate: now.Add(time.Second)}, now))
	assert.True(t, Expired(&model.Coupon{ExpiryDate: now}, now))
}
