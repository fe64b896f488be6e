package repository

import (
	"context"
	"errors"
	"fmt"

	"prepkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const bookColumns = `id, title, author, description, price, stock, is_ebook_available,
		ebook_discount, hardcopy_discount, cover_image_url, pdf_url, created_at, updated_at`

// bookRepository implements the BookRepository interface using PostgreSQL.
type bookRepository struct {
	store
}

// NewBookRepository creates a new PostgreSQL-backed book repository.
func NewBookRepository(pool *pgxpool.Pool, logger zerolog.Logger) BookRepository {
	return &bookRepository{store: newStore(pool, logger, "book")}
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Description, &b.Price, &b.Stock, &b.IsEbookAvailable,
		&b.EbookDiscount, &b.HardcopyDiscount, &b.CoverImageURL, &b.PDFURL, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List retrieves books ordered by title with pagination support.
func (r *bookRepository) List(ctx context.Context, limit, offset int) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + `
		FROM books
		ORDER BY title
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query books")
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan book row")
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *b)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating book rows")
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}

// GetByID retrieves a single book by its ID.
func (r *bookRepository) GetByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	b, err := scanBook(r.db(tx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("book_id", id.String()).Msg("book not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("book_id", id.String()).Msg("failed to query book")
		return nil, fmt.Errorf("failed to query book: %w", err)
	}

	return b, nil
}

// Create inserts a new book.
func (r *bookRepository) Create(ctx context.Context, b *model.Book) error {
	query := `
		INSERT INTO books (id, title, author, description, price, stock, is_ebook_available,
			ebook_discount, hardcopy_discount, cover_image_url, pdf_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		b.ID, b.Title, b.Author, b.Description, b.Price, b.Stock, b.IsEbookAvailable,
		b.EbookDiscount, b.HardcopyDiscount, b.CoverImageURL, b.PDFURL, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("book_id", b.ID.String()).Msg("failed to create book")
		return fmt.Errorf("failed to create book: %w", err)
	}

	r.logger.Debug().Str("book_id", b.ID.String()).Msg("book created successfully")
	return nil
}

// SetStock overwrites the stock level of a book.
func (r *bookRepository) SetStock(ctx context.Context, id uuid.UUID, stock int) (bool, error) {
	query := `UPDATE books SET stock = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, stock)
	if err != nil {
		r.logger.Error().Err(err).Str("book_id", id.String()).Msg("failed to update stock")
		return false, fmt.Errorf("failed to update stock: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// DecrementStock subtracts quantity only while enough stock remains, so
// concurrent orders cannot oversell.
func (r *bookRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (bool, error) {
	query := `
		UPDATE books
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`

	tag, err := r.db(tx).Exec(ctx, query, id, quantity)
	if err != nil {
		r.logger.Error().Err(err).
			Str("book_id", id.String()).
			Int("quantity", quantity).
			Msg("failed to decrement stock")
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().
			Str("book_id", id.String()).
			Int("quantity", quantity).
			Msg("insufficient stock for decrement")
		return false, nil
	}

	return true, nil
}

const quizColumns = `id, title, description, price, discount, time_limit, passing_score,
		is_active, questions, created_at, updated_at`

// quizRepository implements the QuizRepository interface using PostgreSQL.
type quizRepository struct {
	store
}

// NewQuizRepository creates a new PostgreSQL-backed quiz repository.
func NewQuizRepository(pool *pgxpool.Pool, logger zerolog.Logger) QuizRepository {
	return &quizRepository{store: newStore(pool, logger, "quiz")}
}

func scanQuiz(row pgx.Row) (*model.Quiz, error) {
	var q model.Quiz
	err := row.Scan(
		&q.ID, &q.Title, &q.Description, &q.Price, &q.Discount, &q.TimeLimit, &q.PassingScore,
		&q.IsActive, &q.Questions, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if q.Questions == nil {
		q.Questions = []model.Question{}
	}
	return &q, nil
}

// List retrieves active quizzes ordered by title with pagination support.
func (r *quizRepository) List(ctx context.Context, limit, offset int) ([]model.Quiz, error) {
	query := `SELECT ` + quizColumns + `
		FROM quizzes
		WHERE is_active
		ORDER BY title
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query quizzes")
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := []model.Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan quiz row")
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, *q)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating quiz rows")
		return nil, fmt.Errorf("error iterating quizzes: %w", err)
	}

	return quizzes, nil
}

// GetByID retrieves a single quiz with its questions.
func (r *quizRepository) GetByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE id = $1`

	q, err := scanQuiz(r.db(tx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("quiz_id", id.String()).Msg("quiz not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("quiz_id", id.String()).Msg("failed to query quiz")
		return nil, fmt.Errorf("failed to query quiz: %w", err)
	}

	return q, nil
}

// Create inserts a new quiz.
func (r *quizRepository) Create(ctx context.Context, q *model.Quiz) error {
	query := `
		INSERT INTO quizzes (id, title, description, price, discount, time_limit, passing_score,
			is_active, questions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		q.ID, q.Title, q.Description, q.Price, q.Discount, q.TimeLimit, q.PassingScore,
		q.IsActive, q.Questions, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("quiz_id", q.ID.String()).Msg("failed to create quiz")
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	r.logger.Debug().
		Str("quiz_id", q.ID.String()).
		Int("questions", len(q.Questions)).
		Msg("quiz created successfully")
	return nil
}

// AppendQuestions concatenates questions onto the stored question array.
func (r *quizRepository) AppendQuestions(ctx context.Context, id uuid.UUID, questions []model.Question) (bool, error) {
	if len(questions) == 0 {
		return true, nil
	}

	query := `
		UPDATE quizzes
		SET questions = questions || $2::jsonb, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, questions)
	if err != nil {
		r.logger.Error().Err(err).
			Str("quiz_id", id.String()).
			Int("count", len(questions)).
			Msg("failed to append questions")
		return false, fmt.Errorf("failed to append questions: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
