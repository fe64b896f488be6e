package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"prepkart/internal/model"
	"prepkart/internal/otp"
	"prepkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// OTPManager issues and verifies one-time passwords.
type OTPManager interface {
	Issue(ctx context.Context, key, phone, username string) error
	Verify(ctx context.Context, key, code string) (*otp.Record, error)
}

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	otps     OTPManager
	now      func() time.Time
	logger   zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, otps OTPManager, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		otps:     otps,
		now:      time.Now,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// RequestSignupOTP sends a code to a phone number that is not registered yet.
func (s *userService) RequestSignupOTP(ctx context.Context, req *model.SignupRequest) error {
	if req == nil || strings.TrimSpace(req.Username) == "" || req.Phone == "" {
		return model.BadRequest(model.ErrCodeMissingField, "Username and phone are required")
	}
	if !phonePattern.MatchString(req.Phone) {
		return model.ErrInvalidPhone
	}

	existing, err := s.userRepo.GetByPhone(ctx, req.Phone)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return model.ErrUserExists
	}

	return s.otps.Issue(ctx, otp.SignupKey(req.Phone), req.Phone, strings.TrimSpace(req.Username))
}

// RequestLoginOTP sends a code to a registered phone number.
func (s *userService) RequestLoginOTP(ctx context.Context, req *model.LoginRequest) error {
	if req == nil || req.Phone == "" {
		return model.BadRequest(model.ErrCodeMissingField, "Phone is required")
	}
	if !phonePattern.MatchString(req.Phone) {
		return model.ErrInvalidPhone
	}

	user, err := s.userRepo.GetByPhone(ctx, req.Phone)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return model.ErrUserNotFound
	}

	return s.otps.Issue(ctx, otp.LoginKey(req.Phone), req.Phone, user.Username)
}

// VerifyOTP checks a pending signup first, then a pending login, and issues
// fresh tokens to the resulting user.
func (s *userService) VerifyOTP(ctx context.Context, req *model.VerifyOTPRequest) (*model.Session, error) {
	if req == nil || req.Phone == "" || req.OTP == "" {
		return nil, model.BadRequest(model.ErrCodeMissingField, "Phone and OTP are required")
	}

	rec, err := s.otps.Verify(ctx, otp.SignupKey(req.Phone), req.OTP)
	if err != nil {
		return nil, err
	}

	var user *model.User
	if rec != nil {
		user, err = s.signup(ctx, rec)
	} else {
		user, err = s.login(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	access, session := uuid.NewString(), uuid.NewString()
	if err := s.userRepo.SetTokens(ctx, user.ID, &access, &session); err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("session issued")
	return &model.Session{User: user, AccessToken: access, SessionToken: session}, nil
}

func (s *userService) signup(ctx context.Context, rec *otp.Record) (*model.User, error) {
	now := s.now()
	user := &model.User{
		ID:                uuid.New(),
		Username:          rec.Username,
		Phone:             rec.Phone,
		Role:              model.RoleUser,
		SubscribedEbooks:  []uuid.UUID{},
		SubscribedQuizzes: []uuid.UUID{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if _, ok := model.AsDomainError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user signed up")
	return user, nil
}

func (s *userService) login(ctx context.Context, req *model.VerifyOTPRequest) (*model.User, error) {
	rec, err := s.otps.Verify(ctx, otp.LoginKey(req.Phone), req.OTP)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, model.ErrInvalidOTP
	}

	user, err := s.userRepo.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// Logout clears the tokens of a user.
func (s *userService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.SetTokens(ctx, userID, nil, nil); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Me retrieves the profile of a user with entitlements.
func (s *userService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// Authenticate resolves the user owning sessionToken and checks that
// accessToken belongs to the same user.
func (s *userService) Authenticate(ctx context.Context, sessionToken, accessToken string) (*model.User, error) {
	if sessionToken == "" || accessToken == "" {
		return nil, model.ErrUnauthorised
	}

	user, err := s.userRepo.GetBySessionToken(ctx, sessionToken)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if user == nil {
		return nil, model.ErrUnauthorised
	}
	if user.AccessToken == nil || *user.AccessToken != accessToken {
		return nil, model.ErrForbidden
	}
	return user, nil
}
