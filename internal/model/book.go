package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book is a catalogue title sold as a hardcopy and optionally as an ebook.
type Book struct {
	ID               uuid.UUID       `json:"_id" db:"id"`
	Title            string          `json:"title" db:"title"`
	Author           string          `json:"author" db:"author"`
	Description      string          `json:"description" db:"description"`
	Price            decimal.Decimal `json:"price" db:"price"`
	Stock            int             `json:"stock" db:"stock"`
	IsEbookAvailable bool            `json:"isEbookAvailable" db:"is_ebook_available"`
	EbookDiscount    decimal.Decimal `json:"ebookDiscount" db:"ebook_discount"`
	HardcopyDiscount decimal.Decimal `json:"hardcopyDiscount" db:"hardcopy_discount"`
	CoverImageURL    string          `json:"coverImage" db:"cover_image_url"`
	PDFURL           string          `json:"-" db:"pdf_url"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time       `json:"updatedAt" db:"updated_at"`
}

// BookRequest is the admin payload for creating a book.
type BookRequest struct {
	Title            string          `json:"title"`
	Author           string          `json:"author"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	Stock            int             `json:"stock"`
	IsEbookAvailable bool            `json:"isEbookAvailable"`
	EbookDiscount    decimal.Decimal `json:"ebookDiscount"`
	HardcopyDiscount decimal.Decimal `json:"hardcopyDiscount"`
	CoverImageURL    string          `json:"coverImage"`
	PDFURL           string          `json:"pdfUrl"`
}

// StockRequest sets the absolute stock level of a book.
type StockRequest struct {
	Stock int `json:"stock"`
}

// EbookLink is a download location for an entitled ebook.
type EbookLink struct {
	BookID    uuid.UUID  `json:"bookId"`
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}
