package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the per-user shopping cart. Items are stored embedded.
type Cart struct {
	ID        uuid.UUID       `json:"_id" db:"id"`
	UserID    uuid.UUID       `json:"belongTo" db:"user_id"`
	Items     []CartItem      `json:"items" db:"items"`
	CouponID  *uuid.UUID      `json:"coupon,omitempty" db:"coupon_id"`
	Subtotal  decimal.Decimal `json:"subtotal" db:"subtotal"`
	Total     decimal.Decimal `json:"total" db:"total"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// CartItem is one line of a cart.
type CartItem struct {
	ProductID   uuid.UUID   `json:"productId"`
	ProductType ProductType `json:"productType"`
	Quantity    int         `json:"quantity"`
}

// Upsert replaces the quantity of an existing line for productID or appends a new line.
func (c *Cart) Upsert(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity = item.Quantity
			c.Items[i].ProductType = item.ProductType
			return
		}
	}
	c.Items = append(c.Items, item)
}

// Remove drops the line for productID and reports whether one existed.
func (c *Cart) Remove(productID uuid.UUID) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// AddToCartRequest is the body of POST /api/cart/add/{userId}.
type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	BookType  string `json:"bookType"`
}

// ApplyCouponRequest carries a coupon code.
type ApplyCouponRequest struct {
	CouponCode string `json:"couponCode"`
	// CartTotal is only used by the checkout endpoint for the minimum value check.
	CartTotal *decimal.Decimal `json:"cartTotal,omitempty"`
}

// CartLine is a cart item joined with its live product.
type CartLine struct {
	Product     any             `json:"product"`
	ProductType ProductType     `json:"productType"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// CartView is the response shape of the cart endpoints.
type CartView struct {
	ID       uuid.UUID       `json:"_id"`
	Items    []CartLine      `json:"items"`
	Coupon   *Coupon         `json:"coupon,omitempty"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}
