package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductType is the line type of a cart or order item.
type ProductType string

const (
	ProductTypeHardcopy ProductType = "hardcopy"
	ProductTypeEbook    ProductType = "ebook"
	ProductTypeQuiz     ProductType = "Quiz"
)

// ParseBookType normalises a caller supplied book type. Empty means hardcopy.
func ParseBookType(s string) (ProductType, bool) {
	switch s {
	case "", string(ProductTypeHardcopy):
		return ProductTypeHardcopy, true
	case string(ProductTypeEbook):
		return ProductTypeEbook, true
	}
	return "", false
}

// ProductKind tags which catalogue a Product came from.
type ProductKind string

const (
	KindBook ProductKind = "Book"
	KindQuiz ProductKind = "Quiz"
)

// Product is a purchasable catalogue entry: exactly one of Book or Quiz is set.
type Product struct {
	Kind ProductKind
	Book *Book
	Quiz *Quiz
}

// BookProduct wraps a book.
func BookProduct(b *Book) Product {
	return Product{Kind: KindBook, Book: b}
}

// QuizProduct wraps a quiz.
func QuizProduct(q *Quiz) Product {
	return Product{Kind: KindQuiz, Quiz: q}
}

// ID returns the id of the wrapped book or quiz.
func (p Product) ID() uuid.UUID {
	if p.Kind == KindQuiz {
		return p.Quiz.ID
	}
	return p.Book.ID
}

// Title returns the title of the wrapped book or quiz.
func (p Product) Title() string {
	if p.Kind == KindQuiz {
		return p.Quiz.Title
	}
	return p.Book.Title
}

// Price returns the list price before discounts.
func (p Product) Price() decimal.Decimal {
	if p.Kind == KindQuiz {
		return p.Quiz.Price
	}
	return p.Book.Price
}

// Tracked reports whether the product has finite stock. Quizzes are digital.
func (p Product) Tracked() bool {
	return p.Kind == KindBook
}

// Stock returns the available units of a book; quizzes report zero.
func (p Product) Stock() int {
	if p.Kind == KindBook {
		return p.Book.Stock
	}
	return 0
}

// Discount returns the percentage discount that applies to the given line type.
func (p Product) Discount(t ProductType) decimal.Decimal {
	if p.Kind == KindQuiz {
		return p.Quiz.Discount
	}
	if t == ProductTypeEbook {
		return p.Book.EbookDiscount
	}
	return p.Book.HardcopyDiscount
}

// Snapshot captures the fields an order keeps about a product.
func (p Product) Snapshot() ProductSnapshot {
	snap := ProductSnapshot{
		ID:    p.ID(),
		Kind:  p.Kind,
		Title: p.Title(),
		Price: p.Price(),
	}
	if p.Kind == KindBook {
		snap.CoverImageURL = p.Book.CoverImageURL
		snap.EbookDiscount = p.Book.EbookDiscount
		snap.HardcopyDiscount = p.Book.HardcopyDiscount
	} else {
		snap.Discount = p.Quiz.Discount
	}
	return snap
}

// ProductSnapshot is the frozen copy of a product stored on an order.
type ProductSnapshot struct {
	ID               uuid.UUID       `json:"_id"`
	Kind             ProductKind     `json:"kind"`
	Title            string          `json:"title"`
	Price            decimal.Decimal `json:"price"`
	CoverImageURL    string          `json:"coverImage,omitempty"`
	EbookDiscount    decimal.Decimal `json:"ebookDiscount"`
	HardcopyDiscount decimal.Decimal `json:"hardcopyDiscount"`
	Discount         decimal.Decimal `json:"discount"`
}
