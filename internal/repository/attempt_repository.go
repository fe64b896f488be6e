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

const attemptColumns = `id, user_id, quiz_id, total_questions, start_time, end_time, time_spent,
		answers, score, correct_answers, status, created_at, updated_at`

// attemptRepository implements the AttemptRepository interface using PostgreSQL.
type attemptRepository struct {
	store
}

// NewAttemptRepository creates a new PostgreSQL-backed quiz attempt repository.
func NewAttemptRepository(pool *pgxpool.Pool, logger zerolog.Logger) AttemptRepository {
	return &attemptRepository{store: newStore(pool, logger, "attempt")}
}

func scanAttempt(row pgx.Row) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	err := row.Scan(
		&a.ID, &a.UserID, &a.QuizID, &a.TotalQuestions, &a.StartTime, &a.EndTime, &a.TimeSpent,
		&a.Answers, &a.Score, &a.CorrectAnswers, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.Answers == nil {
		a.Answers = []model.Answer{}
	}
	return &a, nil
}

// Create inserts a new attempt.
func (r *attemptRepository) Create(ctx context.Context, a *model.QuizAttempt) error {
	query := `
		INSERT INTO quiz_attempts (id, user_id, quiz_id, total_questions, start_time, end_time, time_spent,
			answers, score, correct_answers, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.UserID, a.QuizID, a.TotalQuestions, a.StartTime, a.EndTime, a.TimeSpent,
		answers(a.Answers), a.Score, a.CorrectAnswers, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", a.UserID.String()).
			Str("quiz_id", a.QuizID.String()).
			Msg("failed to create attempt")
		return fmt.Errorf("failed to create attempt: %w", err)
	}

	r.logger.Debug().Str("attempt_id", a.ID.String()).Msg("attempt created successfully")
	return nil
}

// GetByID retrieves an attempt.
func (r *attemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.QuizAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM quiz_attempts WHERE id = $1`

	a, err := scanAttempt(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("attempt_id", id.String()).Msg("attempt not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("attempt_id", id.String()).Msg("failed to query attempt")
		return nil, fmt.Errorf("failed to query attempt: %w", err)
	}

	return a, nil
}

// FindInProgress retrieves the most recent open attempt of a user on a quiz.
func (r *attemptRepository) FindInProgress(ctx context.Context, userID, quizID uuid.UUID) (*model.QuizAttempt, error) {
	query := `SELECT ` + attemptColumns + `
		FROM quiz_attempts
		WHERE user_id = $1 AND quiz_id = $2 AND status = $3
		ORDER BY start_time DESC
		LIMIT 1
	`

	a, err := scanAttempt(r.pool.QueryRow(ctx, query, userID, quizID, model.AttemptInProgress))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).
			Str("user_id", userID.String()).
			Str("quiz_id", quizID.String()).
			Msg("failed to query open attempt")
		return nil, fmt.Errorf("failed to query open attempt: %w", err)
	}

	return a, nil
}

// Update persists answers, score and status of an attempt.
func (r *attemptRepository) Update(ctx context.Context, a *model.QuizAttempt) error {
	query := `
		UPDATE quiz_attempts
		SET answers = $2, end_time = $3, time_spent = $4, score = $5,
			correct_answers = $6, status = $7, updated_at = $8
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query,
		a.ID, answers(a.Answers), a.EndTime, a.TimeSpent, a.Score, a.CorrectAnswers, a.Status, a.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("attempt_id", a.ID.String()).Msg("failed to update attempt")
		return fmt.Errorf("failed to update attempt: %w", err)
	}

	return nil
}

// ListByUser retrieves attempt summaries joined with quiz titles, newest first.
func (r *attemptRepository) ListByUser(ctx context.Context, userID uuid.UUID, quizID *uuid.UUID) ([]model.AttemptSummary, error) {
	query := `
		SELECT a.id, a.quiz_id, COALESCE(q.title, ''), a.score, a.correct_answers, a.total_questions,
			a.status, a.start_time, a.end_time, a.time_spent
		FROM quiz_attempts a
		LEFT JOIN quizzes q ON q.id = a.quiz_id
		WHERE a.user_id = $1 AND ($2::uuid IS NULL OR a.quiz_id = $2)
		ORDER BY a.start_time DESC
	`

	rows, err := r.pool.Query(ctx, query, userID, quizID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query attempts")
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	summaries := []model.AttemptSummary{}
	for rows.Next() {
		var s model.AttemptSummary
		err := rows.Scan(
			&s.ID, &s.QuizID, &s.QuizTitle, &s.Score, &s.CorrectAnswers, &s.TotalQuestions,
			&s.Status, &s.StartTime, &s.EndTime, &s.TimeSpent,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan attempt row")
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating attempt rows")
		return nil, fmt.Errorf("error iterating attempts: %w", err)
	}

	return summaries, nil
}

func answers(in []model.Answer) []model.Answer {
	if in == nil {
		return []model.Answer{}
	}
	return in
}
