// Package pricing computes discounted cart and order amounts.
package pricing

import (
	"prepkart/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ApplyPercentage returns amount reduced by percent (0-100).
func ApplyPercentage(amount, percent decimal.Decimal) decimal.Decimal {
	if percent.IsZero() {
		return amount
	}
	return amount.Sub(amount.Mul(percent.Div(hundred)))
}

// UnitPrice is the per-unit price of product sold as the given line type.
func UnitPrice(p model.Product, t model.ProductType) decimal.Decimal {
	return ApplyPercentage(p.Price(), p.Discount(t))
}

// LineTotal is the discounted unit price times quantity.
func LineTotal(p model.Product, t model.ProductType, quantity int) decimal.Decimal {
	return UnitPrice(p, t).Mul(decimal.NewFromInt(int64(quantity)))
}

// Line is a priced cart line.
type Line struct {
	Product     model.Product
	ProductType model.ProductType
	Quantity    int
}

// Totals holds the aggregate amounts of a cart.
type Totals struct {
	Subtotal decimal.Decimal
	Total    decimal.Decimal
}

// Compute sums the line totals and applies the coupon, if any.
// Amounts are left unrounded; use Round for presentation.
func Compute(lines []Line, coupon *model.Coupon) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(LineTotal(l.Product, l.ProductType, l.Quantity))
	}

	total := subtotal
	if coupon != nil {
		total = ApplyPercentage(subtotal, coupon.DiscountPercentage)
	}

	return Totals{Subtotal: subtotal, Total: total}
}

// Round rounds an amount to two decimal places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
