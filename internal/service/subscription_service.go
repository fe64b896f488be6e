package service

import (
	"context"
	"fmt"
	"time"

	"prepkart/internal/model"
	"prepkart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// subscriptionService implements SubscriptionService.
type subscriptionService struct {
	subRepo  repository.SubscriptionRepository
	quizRepo repository.QuizRepository
	userRepo repository.UserRepository
	now      func() time.Time
	logger   zerolog.Logger
}

// NewSubscriptionService creates a new quiz subscription service.
func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	quizRepo repository.QuizRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) SubscriptionService {
	return &subscriptionService{
		subRepo:  subRepo,
		quizRepo: quizRepo,
		userRepo: userRepo,
		now:      time.Now,
		logger:   logger.With().Str("service", "subscription").Logger(),
	}
}

// Subscribe activates the subscription and grants the quiz entitlement in
// one transaction.
func (s *subscriptionService) Subscribe(ctx context.Context, userID uuid.UUID, quizID string) (*model.QuizSubscription, error) {
	id, err := parseID(quizID, model.ErrQuizNotFound)
	if err != nil {
		return nil, err
	}

	quiz, err := s.quizRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if quiz == nil {
		return nil, model.ErrQuizNotFound
	}

	var sub *model.QuizSubscription
	err = withTx(ctx, s.subRepo, s.logger, func(tx pgx.Tx) error {
		existing, err := s.subRepo.Get(ctx, tx, userID, id)
		if err != nil {
			return fmt.Errorf("failed to load subscription: %w", err)
		}
		if existing != nil && existing.IsActive {
			return model.ErrAlreadySubscribed
		}

		now := s.now()
		sub = &model.QuizSubscription{
			ID:           uuid.New(),
			UserID:       userID,
			QuizID:       id,
			QuizTitle:    quiz.Title,
			IsActive:     true,
			SubscribedAt: now,
			UpdatedAt:    now,
		}
		if err := s.subRepo.Activate(ctx, tx, sub); err != nil {
			return fmt.Errorf("failed to activate subscription: %w", err)
		}
		if err := s.userRepo.GrantQuiz(ctx, tx, userID, id); err != nil {
			return fmt.Errorf("failed to grant quiz: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID.String()).Str("quiz_id", id.String()).Msg("subscribed to quiz")
	return sub, nil
}

// Revoke deactivates the subscription and removes the entitlement.
func (s *subscriptionService) Revoke(ctx context.Context, userID uuid.UUID, quizID string) error {
	id, err := parseID(quizID, model.ErrNotSubscribed)
	if err != nil {
		return err
	}

	err = withTx(ctx, s.subRepo, s.logger, func(tx pgx.Tx) error {
		existing, err := s.subRepo.Get(ctx, tx, userID, id)
		if err != nil {
			return fmt.Errorf("failed to load subscription: %w", err)
		}
		if existing == nil || !existing.IsActive {
			return model.ErrNotSubscribed
		}
		if err := s.subRepo.Deactivate(ctx, tx, userID, id); err != nil {
			return fmt.Errorf("failed to deactivate subscription: %w", err)
		}
		if err := s.userRepo.RevokeQuiz(ctx, tx, userID, id); err != nil {
			return fmt.Errorf("failed to revoke quiz: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID.String()).Str("quiz_id", id.String()).Msg("quiz subscription revoked")
	return nil
}

// List retrieves the active subscriptions of a user.
func (s *subscriptionService) List(ctx context.Context, userID uuid.UUID) ([]model.QuizSubscription, error) {
	subs, err := s.subRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

// Access reports whether the user may take a quiz: free quizzes are open to
// everyone, priced ones need an entitlement.
func (s *subscriptionService) Access(ctx context.Context, userID uuid.UUID, quizID string) (*model.QuizAccess, error) {
	id, err := parseID(quizID, model.ErrQuizNotFound)
	if err != nil {
		return nil, err
	}

	quiz, err := s.quizRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if quiz == nil {
		return nil, model.ErrQuizNotFound
	}

	if quiz.IsFree() {
		return &model.QuizAccess{QuizID: id, HasAccess: true, Reason: "free"}, nil
	}

	has, err := s.userRepo.HasQuiz(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check quiz access: %w", err)
	}
	if has {
		return &model.QuizAccess{QuizID: id, HasAccess: true, Reason: "subscribed"}, nil
	}
	return &model.QuizAccess{QuizID: id, HasAccess: false, Reason: "subscription required"}, nil
}
