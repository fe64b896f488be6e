package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
)

// ParseOrderStatus validates a status name.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusCancelled, OrderStatusDelivered:
		return st, true
	}
	return "", false
}

// Terminal reports whether no further transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusDelivered
}

// PaymentProvider is how an order is paid.
type PaymentProvider string

const (
	PaymentCOD      PaymentProvider = "COD"
	PaymentPhonePay PaymentProvider = "PHONEPAY"
	PaymentPayPal   PaymentProvider = "PAYPAL"
)

// ParsePaymentProvider validates a provider name.
func ParsePaymentProvider(s string) (PaymentProvider, bool) {
	switch p := PaymentProvider(s); p {
	case PaymentCOD, PaymentPhonePay, PaymentPayPal:
		return p, true
	}
	return "", false
}

// Order is an immutable purchase snapshot; only Status changes after creation.
type Order struct {
	ID              uuid.UUID       `json:"_id" db:"id"`
	UserID          uuid.UUID       `json:"userId" db:"user_id"`
	Username        string          `json:"username" db:"username"`
	Items           []OrderItem     `json:"items" db:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status          OrderStatus     `json:"status" db:"status"`
	ShippingAddress ShippingAddress `json:"shippingAddress" db:"shipping_address"`
	PaymentProvider PaymentProvider `json:"paymentProvider" db:"payment_provider"`
	IsPaymentDone   bool            `json:"isPaymentDone" db:"is_payment_done"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is one purchased line.
type OrderItem struct {
	Product     ProductSnapshot `json:"product"`
	ProductType ProductType     `json:"productType"`
	Quantity    int             `json:"quantity"`
}

// ShippingAddress is the address embedded in an order.
type ShippingAddress struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
}

// OrderRequest is the body of POST /api/order/placeorder.
type OrderRequest struct {
	UserID          string             `json:"userId"`
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
	PaymentProvider string             `json:"paymentProvider"`
	IsPaymentDone   bool               `json:"isPaymentDone"`
}

// OrderItemRequest identifies a product either as product._id or productId.
type OrderItemRequest struct {
	Product     *ProductRef `json:"product,omitempty"`
	ProductID   string      `json:"productId,omitempty"`
	ProductType string      `json:"productType,omitempty"`
	Quantity    int         `json:"quantity"`
}

// ProductRef is the minimal product reference clients send.
type ProductRef struct {
	ID string `json:"_id"`
}

// ResolveID returns the referenced product id.
func (r OrderItemRequest) ResolveID() (uuid.UUID, bool) {
	raw := r.ProductID
	if r.Product != nil && r.Product.ID != "" {
		raw = r.Product.ID
	}
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// OrderPlaced is the data returned for a new order.
type OrderPlaced struct {
	OrderID uuid.UUID `json:"orderId"`
}

// OrderSummary is the list view of an order.
type OrderSummary struct {
	ID              uuid.UUID       `json:"_id"`
	ItemCount       int             `json:"itemCount"`
	Titles          []string        `json:"titles"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	PaymentProvider PaymentProvider `json:"paymentProvider"`
	IsPaymentDone   bool            `json:"isPaymentDone"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Summary projects the order for list endpoints.
func (o *Order) Summary() OrderSummary {
	titles := make([]string, len(o.Items))
	count := 0
	for i, item := range o.Items {
		titles[i] = item.Product.Title
		count += item.Quantity
	}
	return OrderSummary{
		ID:              o.ID,
		ItemCount:       count,
		Titles:          titles,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		PaymentProvider: o.PaymentProvider,
		IsPaymentDone:   o.IsPaymentDone,
		CreatedAt:       o.CreatedAt,
	}
}

// OrderStatusRequest is the admin status update payload.
type OrderStatusRequest struct {
	Status string `json:"status"`
}
