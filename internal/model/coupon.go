package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon is a time-bounded percentage discount code.
type Coupon struct {
	ID                 uuid.UUID       `json:"_id" db:"id"`
	Name               string          `json:"name" db:"name"`
	Code               string          `json:"code" db:"code"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage" db:"discount_percentage"`
	IsActive           bool            `json:"isActive" db:"is_active"`
	MinimumCartValue   decimal.Decimal `json:"minimumCartValue" db:"minimum_cart_value"`
	StartDate          time.Time       `json:"startDate" db:"start_date"`
	ExpiryDate         time.Time       `json:"expiryDate" db:"expiry_date"`
	CreatedAt          time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time       `json:"updatedAt" db:"updated_at"`
}

// CouponRequest is the admin payload for creating a coupon. It is also the
// line format of coupon seed files.
type CouponRequest struct {
	Name               string          `json:"name"`
	Code               string          `json:"code"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	MinimumCartValue   decimal.Decimal `json:"minimumCartValue"`
	StartDate          *time.Time      `json:"startDate,omitempty"`
	ExpiryDate         time.Time       `json:"expiryDate"`
}

// CouponDiscount is returned by the checkout coupon endpoint.
type CouponDiscount struct {
	CouponCode         string          `json:"couponCode"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
}
