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

const userColumns = `id, username, phone, role, access_token, session_token, created_at, updated_at`

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	store
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{store: newStore(pool, logger, "user")}
}

func (r *userRepository) getOne(ctx context.Context, field string, query string, arg any) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Phone, &u.Role, &u.AccessToken, &u.SessionToken, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("by", field).Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("by", field).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if err := r.loadEntitlements(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user with entitlements.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.getOne(ctx, "id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByPhone retrieves a user by phone number.
func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	return r.getOne(ctx, "phone", `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
}

// GetBySessionToken retrieves the user owning a session token.
func (r *userRepository) GetBySessionToken(ctx context.Context, token string) (*model.User, error) {
	return r.getOne(ctx, "session_token", `SELECT `+userColumns+` FROM users WHERE session_token = $1`, token)
}

func (r *userRepository) loadEntitlements(ctx context.Context, u *model.User) error {
	var err error
	u.SubscribedEbooks, err = r.ids(ctx,
		`SELECT book_id FROM ebook_entitlements WHERE user_id = $1 ORDER BY granted_at`, u.ID)
	if err != nil {
		return fmt.Errorf("failed to load ebook entitlements: %w", err)
	}

	u.SubscribedQuizzes, err = r.ids(ctx,
		`SELECT quiz_id FROM quiz_entitlements WHERE user_id = $1 ORDER BY granted_at`, u.ID)
	if err != nil {
		return fmt.Errorf("failed to load quiz entitlements: %w", err)
	}

	return nil
}

func (r *userRepository) ids(ctx context.Context, query string, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query entitlements")
		return nil, err
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to scan entitlements")
		return nil, err
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}

// Create inserts a new user.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, username, phone, role, access_token, session_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Username, u.Phone, u.Role, u.AccessToken, u.SessionToken, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn().Str("user_id", u.ID.String()).Msg("phone already registered")
			return model.ErrUserExists
		}
		r.logger.Error().Err(err).Str("user_id", u.ID.String()).Msg("failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Debug().Str("user_id", u.ID.String()).Msg("user created successfully")
	return nil
}

// SetTokens stores or clears the tokens of a user.
func (r *userRepository) SetTokens(ctx context.Context, id uuid.UUID, accessToken, sessionToken *string) error {
	query := `UPDATE users SET access_token = $2, session_token = $3, updated_at = NOW() WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, accessToken, sessionToken); err != nil {
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to update tokens")
		return fmt.Errorf("failed to update tokens: %w", err)
	}

	return nil
}

// GrantEbooks adds ebook entitlements in a single batch.
func (r *userRepository) GrantEbooks(ctx context.Context, tx pgx.Tx, userID uuid.UUID, bookIDs []uuid.UUID) error {
	if len(bookIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO ebook_entitlements (user_id, book_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, id := range bookIDs {
		batch.Queue(query, userID, id)
	}

	results := r.db(tx).SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(bookIDs); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("user_id", userID.String()).
				Str("book_id", bookIDs[i].String()).
				Msg("failed to grant ebook")
			return fmt.Errorf("failed to grant ebook: %w", err)
		}
	}

	r.logger.Debug().
		Str("user_id", userID.String()).
		Int("count", len(bookIDs)).
		Msg("ebooks granted successfully")
	return nil
}

// GrantQuiz adds a quiz entitlement.
func (r *userRepository) GrantQuiz(ctx context.Context, tx pgx.Tx, userID, quizID uuid.UUID) error {
	query := `
		INSERT INTO quiz_entitlements (user_id, quiz_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	if _, err := r.db(tx).Exec(ctx, query, userID, quizID); err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID.String()).
			Str("quiz_id", quizID.String()).
			Msg("failed to grant quiz")
		return fmt.Errorf("failed to grant quiz: %w", err)
	}

	return nil
}

// RevokeQuiz removes a quiz entitlement.
func (r *userRepository) RevokeQuiz(ctx context.Context, tx pgx.Tx, userID, quizID uuid.UUID) error {
	query := `DELETE FROM quiz_entitlements WHERE user_id = $1 AND quiz_id = $2`

	if _, err := r.db(tx).Exec(ctx, query, userID, quizID); err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID.String()).
			Str("quiz_id", quizID.String()).
			Msg("failed to revoke quiz")
		return fmt.Errorf("failed to revoke quiz: %w", err)
	}

	return nil
}

// HasEbook reports whether the user holds an ebook entitlement.
func (r *userRepository) HasEbook(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	return r.exists(ctx,
		`SELECT EXISTS (SELECT 1 FROM ebook_entitlements WHERE user_id = $1 AND book_id = $2)`,
		userID, bookID)
}

// HasQuiz reports whether the user holds a quiz entitlement.
func (r *userRepository) HasQuiz(ctx context.Context, userID, quizID uuid.UUID) (bool, error) {
	return r.exists(ctx,
		`SELECT EXISTS (SELECT 1 FROM quiz_entitlements WHERE user_id = $1 AND quiz_id = $2)`,
		userID, quizID)
}

func (r *userRepository) exists(ctx context.Context, query string, userID, itemID uuid.UUID) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, query, userID, itemID).Scan(&ok); err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID.String()).
			Str("item_id", itemID.String()).
			Msg("failed to check entitlement")
		return false, fmt.Errorf("failed to check entitlement: %w", err)
	}
	return ok, nil
}
