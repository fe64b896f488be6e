package service

import (
	"context"
	"fmt"
	"time"

	"prepkart/internal/coupon"
	"prepkart/internal/model"
	"prepkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// couponService implements CouponService.
type couponService struct {
	couponRepo repository.CouponRepository
	now        func() time.Time
	logger     zerolog.Logger
}

// NewCouponService creates a new coupon service.
func NewCouponService(couponRepo repository.CouponRepository, logger zerolog.Logger) CouponService {
	return &couponService{
		couponRepo: couponRepo,
		now:        time.Now,
		logger:     logger.With().Str("service", "coupon").Logger(),
	}
}

// Create validates and stores a new coupon.
func (s *couponService) Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error) {
	if req == nil {
		return nil, model.BadRequest(model.ErrCodeInvalidJSON, "Request body is required")
	}

	now := s.now()
	coupon.Normalize(req)
	if err := coupon.ValidateRequest(req, now); err != nil {
		return nil, err
	}

	c := coupon.Build(req, uuid.New(), now)
	if err := s.couponRepo.Create(ctx, &c); err != nil {
		if model.IsKind(err, model.KindConflict) {
			s.logger.Warn().Str("coupon_code", c.Code).Msg("duplicate coupon code")
			return nil, err
		}
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	s.logger.Info().Str("coupon_code", c.Code).Msg("coupon created")
	return &c, nil
}

// List retrieves all coupons.
func (s *couponService) List(ctx context.Context) ([]model.Coupon, error) {
	coupons, err := s.couponRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

// Deactivate marks a coupon inactive.
func (s *couponService) Deactivate(ctx context.Context, id string) error {
	couponID, err := parseID(id, model.ErrCouponNotFound)
	if err != nil {
		return err
	}

	found, err := s.couponRepo.Deactivate(ctx, couponID)
	if err != nil {
		return fmt.Errorf("failed to deactivate coupon: %w", err)
	}
	if !found {
		return model.ErrCouponNotFound
	}
	return nil
}

// Apply returns the active coupon for code if it can be used on amount.
func (s *couponService) Apply(ctx context.Context, code string, amount decimal.Decimal) (*model.Coupon, error) {
	if code == "" {
		return nil, model.BadRequest(model.ErrCodeMissingField, "Coupon code is required")
	}

	c, err := s.couponRepo.GetActiveByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}
	if c == nil {
		s.logger.Debug().Str("coupon_code", code).Msg("coupon not found")
		return nil, model.ErrCouponNotFound
	}

	now := s.now()
	if coupon.Expired(c, now) {
		if _, err := s.couponRepo.Deactivate(ctx, c.ID); err != nil {
			s.logger.Error().Err(err).Str("coupon_code", code).Msg("failed to deactivate expired coupon")
		} else {
			s.logger.Info().Str("coupon_code", code).Msg("expired coupon deactivated")
		}
		return nil, model.ErrCouponExpired
	}

	if err := coupon.Check(c, amount, now); err != nil {
		s.logger.Debug().
			Str("coupon_code", code).
			Str("amount", amount.String()).
			Err(err).
			Msg("coupon rejected")
		return nil, err
	}

	return c, nil
}

// CheckoutDiscount reports the discount a code gives on cartTotal.
func (s *couponService) CheckoutDiscount(ctx context.Context, code string, cartTotal decimal.Decimal) (*model.CouponDiscount, error) {
	c, err := s.Apply(ctx, code, cartTotal)
	if err != nil {
		return nil, err
	}
	return &model.CouponDiscount{CouponCode: c.Code, DiscountPercentage: c.DiscountPercentage}, nil
}
