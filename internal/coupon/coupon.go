// Package coupon holds coupon usability rules and the seeding of coupon
// definitions from gzipped JSON-lines files stored locally or in S3.
package coupon

import (
	"context"

	"prepkart/internal/model"
)

// Set is a collection of coupon definitions keyed by code.
type Set interface {
	// Contains checks if a coupon code exists in the set.
	Contains(code string) bool

	// Get returns the definition of a code.
	Get(code string) (model.CouponRequest, bool)

	// Size returns the number of definitions in the set.
	Size() int

	// Definitions returns the definitions in first-seen order.
	Definitions() []model.CouponRequest
}

// Loader defines the interface for loading coupon definition files.
type Loader interface {
	// Load reads a gzipped JSON-lines file and returns its definitions.
	Load(ctx context.Context, filePath string) (Set, error)
}

// Store persists seeded coupons.
type Store interface {
	// Upsert inserts coupons or updates existing ones matched by code.
	Upsert(ctx context.Context, coupons []model.Coupon) error
}
