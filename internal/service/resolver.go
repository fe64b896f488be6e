package service

import (
	"context"
	"fmt"

	"prepkart/internal/model"
	"prepkart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// productResolver finds the book or quiz behind a product id.
type productResolver struct {
	books   repository.BookRepository
	quizzes repository.QuizRepository
	// strict routes lookups by the declared line type instead of probing
	// books first.
	strict bool
}

// resolve looks up id for an order line declared as t.
func (r productResolver) resolve(ctx context.Context, tx pgx.Tx, id uuid.UUID, t model.ProductType) (model.Product, error) {
	if !r.strict {
		return r.probe(ctx, tx, id)
	}
	if t == model.ProductTypeQuiz {
		return r.quiz(ctx, tx, id)
	}
	return r.book(ctx, tx, id)
}

// probe tries books first and falls back to quizzes.
func (r productResolver) probe(ctx context.Context, tx pgx.Tx, id uuid.UUID) (model.Product, error) {
	p, err := r.book(ctx, tx, id)
	if err == nil || !model.IsKind(err, model.KindNotFound) {
		return p, err
	}
	return r.quiz(ctx, tx, id)
}

func (r productResolver) book(ctx context.Context, tx pgx.Tx, id uuid.UUID) (model.Product, error) {
	b, err := r.books.GetByID(ctx, tx, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to load book: %w", err)
	}
	if b == nil {
		return model.Product{}, model.ErrProductNotFound
	}
	return model.BookProduct(b), nil
}

func (r productResolver) quiz(ctx context.Context, tx pgx.Tx, id uuid.UUID) (model.Product, error) {
	q, err := r.quizzes.GetByID(ctx, tx, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to load quiz: %w", err)
	}
	if q == nil {
		return model.Product{}, model.ErrProductNotFound
	}
	return model.QuizProduct(q), nil
}

// parseID parses a path or body identifier, mapping malformed values to notFound.
func parseID(raw string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}
