package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxAddressesPerUser caps the saved addresses of a user.
const MaxAddressesPerUser = 3

// Address is a saved shipping address. It is also embedded in orders.
type Address struct {
	ID           uuid.UUID `json:"_id" db:"id"`
	UserID       uuid.UUID `json:"userId" db:"user_id"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	Phone        string    `json:"phone" db:"phone"`
	AddressLine1 string    `json:"addressLine1" db:"address_line1"`
	AddressLine2 string    `json:"addressLine2" db:"address_line2"`
	City         string    `json:"city" db:"city"`
	State        string    `json:"state" db:"state"`
	Pincode      string    `json:"pincode" db:"pincode"`
	Country      string    `json:"country" db:"country"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// AddressRequest is the create/update payload.
type AddressRequest struct {
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

// MissingField returns the JSON name of the first empty required field.
func (r *AddressRequest) MissingField() string {
	required := []struct {
		name  string
		value string
	}{
		{"firstName", r.FirstName},
		{"phone", r.Phone},
		{"addressLine1", r.AddressLine1},
		{"city", r.City},
		{"state", r.State},
		{"pincode", r.Pincode},
		{"country", r.Country},
	}
	for _, f := range required {
		if f.value == "" {
			return f.name
		}
	}
	return ""
}
