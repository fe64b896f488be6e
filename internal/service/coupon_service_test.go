package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"prepkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var couponNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestCouponService(repo *MockCouponRepository) CouponService {
	svc := NewCouponService(repo, zerolog.Nop())
	svc.(*couponService).now = func() time.Time { return couponNow }
	return svc
}

func testCoupon(code string) *model.Coupon {
	return &model.Coupon{
		ID:                 uuid.New(),
		Name:               "Exam season",
		Code:               code,
		DiscountPercentage: decimal.NewFromInt(10),
		IsActive:           true,
		MinimumCartValue:   decimal.NewFromInt(100),
		StartDate:          couponNow.AddDate(0, -1, 0),
		ExpiryDate:         couponNow.AddDate(0, 1, 0),
	}
}

func TestCouponService_Apply(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		coupon  func() *model.Coupon
		amount  decimal.Decimal
		wantErr error
	}{
		{
			name:   "Valid coupon",
			code:   "EXAM10",
			coupon: func() *model.Coupon { return testCoupon("EXAM10") },
			amount: decimal.NewFromInt(250),
		},
		{
			name:   "Exactly at minimum",
			code:   "EXAM10",
			coupon: func() *model.Coupon { return testCoupon("EXAM10") },
			amount: decimal.NewFromInt(100),
		},
		{
			name:    "Unknown code",
			code:    "NOPE",
			coupon:  func() *model.Coupon { return nil },
			amount:  decimal.NewFromInt(250),
			wantErr: model.ErrCouponNotFound,
		},
		{
			name: "Not started",
			code: "SOON",
			coupon: func() *model.Coupon {
				c := testCoupon("SOON")
				c.StartDate = couponNow.Add(time.Hour)
				return c
			},
			amount:  decimal.NewFromInt(250),
			wantErr: model.ErrCouponNotStarted,
		},
		{
			name:    "Below minimum",
			code:    "EXAM10",
			coupon:  func() *model.Coupon { return testCoupon("EXAM10") },
			amount:  decimal.RequireFromString("99.99"),
			wantErr: model.ErrCouponMinimum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := new(MockCouponRepository)
			svc := newTestCouponService(repo)

			c := tt.coupon()
			repo.On("GetActiveByCode", ctx, tt.code).Return(c, nil)

			got, err := svc.Apply(ctx, tt.code, tt.amount)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, c, got)
			}
			repo.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
			repo.AssertExpectations(t)
		})
	}
}

func TestCouponService_Apply_ExpiredDeactivates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCouponRepository)
	svc := newTestCouponService(repo)

	c := testCoupon("OLD")
	c.ExpiryDate = couponNow
	repo.On("GetActiveByCode", ctx, "OLD").Return(c, nil)
	repo.On("Deactivate", ctx, c.ID).Return(true, nil)

	got, err := svc.Apply(ctx, "OLD", decimal.NewFromInt(500))

	require.ErrorIs(t, err, model.ErrCouponExpired)
	assert.Nil(t, got)
	repo.AssertExpectations(t)
}

func TestCouponService_Apply_ExpiredDeactivateFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCouponRepository)
	svc := newTestCouponService(repo)

	c := testCoupon("OLD")
	c.ExpiryDate = couponNow.Add(-time.Minute)
	repo.On("GetActiveByCode", ctx, "OLD").Return(c, nil)
	repo.On("Deactivate", ctx, c.ID).Return(false, errors.New("database error"))

	_, err := svc.Apply(ctx, "OLD", decimal.NewFromInt(500))

	require.ErrorIs(t, err, model.ErrCouponExpired)
	repo.AssertExpectations(t)
}

func TestCouponService_Apply_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty code", func(t *testing.T) {
		repo := new(MockCouponRepository)
		_, err := newTestCouponService(repo).Apply(ctx, "", decimal.NewFromInt(10))
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.KindBadRequest))
		repo.AssertNotCalled(t, "GetActiveByCode", mock.Anything, mock.Anything)
	})

	t.Run("Repository error", func(t *testing.T) {
		repo := new(MockCouponRepository)
		repo.On("GetActiveByCode", ctx, "EXAM10").Return(nil, errors.New("database error"))
		_, err := newTestCouponService(repo).Apply(ctx, "EXAM10", decimal.NewFromInt(10))
		require.Error(t, err)
		_, isDomain := model.AsDomainError(err)
		assert.False(t, isDomain)
	})
}

func TestCouponService_CheckoutDiscount(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCouponRepository)
	svc := newTestCouponService(repo)

	c := testCoupon("EXAM10")
	repo.On("GetActiveByCode", ctx, "EXAM10").Return(c, nil)

	discount, err := svc.CheckoutDiscount(ctx, "EXAM10", decimal.NewFromInt(300))

	require.NoError(t, err)
	assert.Equal(t, "EXAM10", discount.CouponCode)
	assert.True(t, decimal.NewFromInt(10).Equal(discount.DiscountPercentage))
	repo.AssertExpectations(t)
}

func TestCouponService_Create(t *testing.T) {
	expiry := couponNow.AddDate(0, 2, 0)

	tests := []struct {
		name      string
		req       *model.CouponRequest
		repoErr   error
		callsRepo bool
		wantErr   error
		wantKind  model.ErrorKind
	}{
		{
			name: "Success",
			req: &model.CouponRequest{
				Name:               " Diwali ",
				Code:               " diwali25 ",
				DiscountPercentage: decimal.NewFromInt(25),
				ExpiryDate:         expiry,
			},
			callsRepo: true,
		},
		{
			name: "Duplicate code",
			req: &model.CouponRequest{
				Name:               "Diwali",
				Code:               "DIWALI25",
				DiscountPercentage: decimal.NewFromInt(25),
				ExpiryDate:         expiry,
			},
			repoErr:   model.ErrCouponExists,
			callsRepo: true,
			wantErr:   model.ErrCouponExists,
		},
		{
			name: "Discount above 100",
			req: &model.CouponRequest{
				Name:               "Too generous",
				Code:               "FREE",
				DiscountPercentage: decimal.NewFromInt(101),
				ExpiryDate:         expiry,
			},
			wantKind: model.KindBadRequest,
		},
		{
			name: "Expiry in the past",
			req: &model.CouponRequest{
				Name:               "Late",
				Code:               "LATE",
				DiscountPercentage: decimal.NewFromInt(5),
				ExpiryDate:         couponNow.Add(-time.Hour),
			},
			wantKind: model.KindBadRequest,
		},
		{
			name:     "Nil request",
			wantKind: model.KindBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := new(MockCouponRepository)
			svc := newTestCouponService(repo)

			if tt.callsRepo {
				repo.On("Create", ctx, mock.AnythingOfType("*model.Coupon")).Return(tt.repoErr)
			}

			c, err := svc.Create(ctx, tt.req)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantKind != 0:
				require.Error(t, err)
				assert.True(t, model.IsKind(err, tt.wantKind))
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			default:
				require.NoError(t, err)
				assert.Equal(t, "DIWALI25", c.Code)
				assert.Equal(t, "Diwali", c.Name)
				assert.True(t, c.IsActive)
				assert.Equal(t, couponNow, c.StartDate)
				assert.True(t, c.MinimumCartValue.IsZero())
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestCouponService_Deactivate(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	repo := new(MockCouponRepository)
	svc := newTestCouponService(repo)
	repo.On("Deactivate", ctx, id).Return(true, nil).Once()
	repo.On("Deactivate", ctx, id).Return(false, nil).Once()

	require.NoError(t, svc.Deactivate(ctx, id.String()))
	require.ErrorIs(t, svc.Deactivate(ctx, id.String()), model.ErrCouponNotFound)
	require.ErrorIs(t, svc.Deactivate(ctx, "bogus"), model.ErrCouponNotFound)
	repo.AssertExpectations(t)
}
