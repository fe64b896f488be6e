package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"prepkart/internal/model"

	"github.com/rs/zerolog"
)

const codeDigits = 6

// Record is a pending one-time password.
type Record struct {
	Code     string
	Phone    string
	Username string
	Attempts int
}

// Store keeps pending records under expiring keys.
type Store interface {
	// Put stores rec under key, replacing any previous record, for ttl.
	Put(ctx context.Context, key string, rec Record, ttl time.Duration) error

	// Get returns the record under key. Returns nil, nil when there is none.
	Get(ctx context.Context, key string) (*Record, error)

	// Fail increments the failed attempt counter and returns the new count.
	// Returns 0 when the key no longer exists.
	Fail(ctx context.Context, key string) (int, error)

	// Delete removes key.
	Delete(ctx context.Context, key string) error
}

// Sender delivers a code to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// SignupKey is the store key of a pending signup.
func SignupKey(phone string) string {
	return "signup:" + phone
}

// LoginKey is the store key of a pending login.
func LoginKey(phone string) string {
	return "login:" + phone
}

// GenerateCode returns a random numeric code.
func GenerateCode() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

// Manager issues and verifies codes.
type Manager struct {
	store       Store
	sender      Sender
	ttl         time.Duration
	maxAttempts int
	generate    func() (string, error)
	logger      zerolog.Logger
}

// NewManager creates a new OTP manager.
func NewManager(store Store, sender Sender, ttl time.Duration, maxAttempts int, logger zerolog.Logger) *Manager {
	return &Manager{
		store:       store,
		sender:      sender,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		generate:    GenerateCode,
		logger:      logger.With().Str("component", "otp").Logger(),
	}
}

// Issue stores a fresh code under key and sends it.
func (m *Manager) Issue(ctx context.Context, key, phone, username string) error {
	code, err := m.generate()
	if err != nil {
		return err
	}

	rec := Record{Code: code, Phone: phone, Username: username}
	if err := m.store.Put(ctx, key, rec, m.ttl); err != nil {
		m.logger.Error().Err(err).Str("key", key).Msg("failed to store otp")
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := m.sender.Send(ctx, phone, code); err != nil {
		m.logger.Error().Err(err).Str("key", key).Msg("failed to send otp")
		return fmt.Errorf("failed to send otp: %w", err)
	}

	m.logger.Debug().Str("key", key).Dur("ttl", m.ttl).Msg("otp issued")
	return nil
}

// Verify consumes the record under key when code matches it. Returns nil, nil
// when no record exists and model.ErrInvalidOTP on a mismatch. The record is
// dropped once the attempt limit is reached.
func (m *Manager) Verify(ctx context.Context, key, code string) (*Record, error) {
	rec, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.Error().Err(err).Str("key", key).Msg("failed to read otp")
		return nil, fmt.Errorf("failed to read otp: %w", err)
	}
	if rec == nil {
		return nil, nil
	}

	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) == 1 {
		if err := m.store.Delete(ctx, key); err != nil {
			return nil, fmt.Errorf("failed to consume otp: %w", err)
		}
		return rec, nil
	}

	attempts, err := m.store.Fail(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to record otp attempt: %w", err)
	}
	if attempts >= m.maxAttempts {
		m.logger.Warn().Str("key", key).Int("attempts", attempts).Msg("otp attempt limit reached")
		if err := m.store.Delete(ctx, key); err != nil {
			return nil, fmt.Errorf("failed to drop otp: %w", err)
		}
	}
	return nil, model.ErrInvalidOTP
}

// LogSender writes codes to the log instead of sending an SMS.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a sender that logs codes at debug level.
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger.With().Str("component", "otp_sender").Logger()}
}

// Send logs the code.
func (s *LogSender) Send(ctx context.Context, phone, code string) error {
	s.logger.Debug().Str("phone", phone).Str("otp", code).Msg("otp generated")
	return nil
}
