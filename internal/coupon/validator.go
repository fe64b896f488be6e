package coupon

import (
	"strings"
	"time"

	"prepkart/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Normalize trims the definition and uppercases its code.
func Normalize(req *model.CouponRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
}

// ValidateRequest checks a coupon definition before it is stored. A nil
// start date means now.
func ValidateRequest(req *model.CouponRequest, now time.Time) error {
	if req.Name == "" {
		return model.BadRequest(model.ErrCodeInvalidCouponInput, "Coupon name is required")
	}
	if req.Code == "" {
		return model.BadRequest(model.ErrCodeInvalidCouponInput, "Coupon code is required")
	}
	if !req.DiscountPercentage.IsPositive() || req.DiscountPercentage.GreaterThan(hundred) {
		return model.BadRequest(model.ErrCodeInvalidCouponInput, "Discount percentage must be greater than 0 and at most 100")
	}
	if req.MinimumCartValue.IsNegative() {
		return model.BadRequest(model.ErrCodeInvalidCouponInput, "Minimum cart value cannot be negative")
	}

	start := now
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if !req.ExpiryDate.After(start) {
		return model.BadRequest(model.ErrCodeInvalidCouponInput, "Expiry date must be after start date")
	}

	return nil
}

// Build turns a validated definition into a new coupon.
func Build(req *model.CouponRequest, id uuid.UUID, now time.Time) model.Coupon {
	start := now
	if req.StartDate != nil {
		start = *req.StartDate
	}
	return model.Coupon{
		ID:                 id,
		Name:               req.Name,
		Code:               req.Code,
		DiscountPercentage: req.DiscountPercentage,
		IsActive:           true,
		MinimumCartValue:   req.MinimumCartValue,
		StartDate:          start,
		ExpiryDate:         req.ExpiryDate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Expired reports whether the coupon is past its expiry date.
func Expired(c *model.Coupon, now time.Time) bool {
	return !now.Before(c.ExpiryDate)
}

// Check reports why an active coupon cannot be applied to amount at now, or
// nil when it can.
func Check(c *model.Coupon, amount decimal.Decimal, now time.Time) error {
	if !c.IsActive {
		return model.ErrCouponNotFound
	}
	if Expired(c, now) {
		return model.ErrCouponExpired
	}
	if now.Before(c.StartDate) {
		return model.ErrCouponNotStarted
	}
	if amount.LessThan(c.MinimumCartValue) {
		return model.ErrCouponMinimum
	}
	return nil
}
