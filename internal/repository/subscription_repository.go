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

// subscriptionRepository implements the SubscriptionRepository interface using PostgreSQL.
type subscriptionRepository struct {
	store
}

// NewSubscriptionRepository creates a new PostgreSQL-backed quiz subscription repository.
func NewSubscriptionRepository(pool *pgxpool.Pool, logger zerolog.Logger) SubscriptionRepository {
	return &subscriptionRepository{store: newStore(pool, logger, "subscription")}
}

// Get retrieves the subscription of a user to a quiz.
func (r *subscriptionRepository) Get(ctx context.Context, tx pgx.Tx, userID, quizID uuid.UUID) (*model.QuizSubscription, error) {
	query := `
		SELECT id, user_id, quiz_id, is_active, subscribed_at, updated_at
		FROM quiz_subscriptions
		WHERE user_id = $1 AND quiz_id = $2
	`

	var s model.QuizSubscription
	err := r.db(tx).QueryRow(ctx, query, userID, quizID).Scan(
		&s.ID, &s.UserID, &s.QuizID, &s.IsActive, &s.SubscribedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).
			Str("user_id", userID.String()).
			Str("quiz_id", quizID.String()).
			Msg("failed to query subscription")
		return nil, fmt.Errorf("failed to query subscription: %w", err)
	}

	return &s, nil
}

// Activate inserts the subscription or reactivates an existing row for the same user and quiz.
func (r *subscriptionRepository) Activate(ctx context.Context, tx pgx.Tx, s *model.QuizSubscription) error {
	query := `
		INSERT INTO quiz_subscriptions (id, user_id, quiz_id, is_active, subscribed_at, updated_at)
		VALUES ($1, $2, $3, TRUE, $4, $4)
		ON CONFLICT (user_id, quiz_id) DO UPDATE SET
			is_active = TRUE,
			subscribed_at = EXCLUDED.subscribed_at,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	err := r.db(tx).QueryRow(ctx, query, s.ID, s.UserID, s.QuizID, s.SubscribedAt).Scan(&s.ID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", s.UserID.String()).
			Str("quiz_id", s.QuizID.String()).
			Msg("failed to activate subscription")
		return fmt.Errorf("failed to activate subscription: %w", err)
	}

	s.IsActive = true
	s.UpdatedAt = s.SubscribedAt
	return nil
}

// Deactivate marks the subscription inactive.
func (r *subscriptionRepository) Deactivate(ctx context.Context, tx pgx.Tx, userID, quizID uuid.UUID) error {
	query := `
		UPDATE quiz_subscriptions
		SET is_active = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND quiz_id = $2
	`

	if _, err := r.db(tx).Exec(ctx, query, userID, quizID); err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID.String()).
			Str("quiz_id", quizID.String()).
			Msg("failed to deactivate subscription")
		return fmt.Errorf("failed to deactivate subscription: %w", err)
	}

	return nil
}

// ListActiveByUser retrieves the active subscriptions of a user with quiz titles.
func (r *subscriptionRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.QuizSubscription, error) {
	query := `
		SELECT s.id, s.user_id, s.quiz_id, q.title, s.is_active, s.subscribed_at, s.updated_at
		FROM quiz_subscriptions s
		JOIN quizzes q ON q.id = s.quiz_id
		WHERE s.user_id = $1 AND s.is_active
		ORDER BY s.subscribed_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query subscriptions")
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []model.QuizSubscription{}
	for rows.Next() {
		var s model.QuizSubscription
		err := rows.Scan(&s.ID, &s.UserID, &s.QuizID, &s.QuizTitle, &s.IsActive, &s.SubscribedAt, &s.UpdatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan subscription row")
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating subscription rows")
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}

	return subs, nil
}
