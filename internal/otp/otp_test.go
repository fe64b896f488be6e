package otp

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"prepkart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent map[string]string
	err  error
}

func (s *recordingSender) Send(ctx context.Context, phone, code string) error {
	if s.err != nil {
		return s.err
	}
	if s.sent == nil {
		s.sent = make(map[string]string)
	}
	s.sent[phone] = code
	return nil
}

func newTestManager(sender Sender) (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	m := NewManager(store, sender, 5*time.Minute, 5, zerolog.Nop())
	return m, store
}

func TestGenerateCode(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "signup:9876543210", SignupKey("9876543210"))
	assert.Equal(t, "login:9876543210", LoginKey("9876543210"))
}

func TestManager_IssueAndVerify(t *testing.T) {
	ctx := context.Background()
	sender := &recordingSender{}
	m, store := newTestManager(sender)

	require.NoError(t, m.Issue(ctx, SignupKey("9876543210"), "9876543210", "asha"))

	code := sender.sent["9876543210"]
	require.Len(t, code, 6)

	rec, err := m.Verify(ctx, SignupKey("9876543210"), code)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "asha", rec.Username)
	assert.Equal(t, "9876543210", rec.Phone)

	left, err := store.Get(ctx, SignupKey("9876543210"))
	require.NoError(t, err)
	assert.Nil(t, left, "a verified code is consumed")
}

func TestManager_Verify_NoRecord(t *testing.T) {
	m, _ := newTestManager(&recordingSender{})

	rec, err := m.Verify(context.Background(), LoginKey("9876543210"), "123456")

	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestManager_Verify_WrongCode(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(&recordingSender{})
	m.generate = func() (string, error) { return "111111", nil }

	require.NoError(t, m.Issue(ctx, LoginKey("9876543210"), "9876543210", ""))

	for i := 1; i < 5; i++ {
		rec, err := m.Verify(ctx, LoginKey("9876543210"), "000000")
		assert.ErrorIs(t, err, model.ErrInvalidOTP)
		assert.Nil(t, rec)

		pending, err := store.Get(ctx, LoginKey("9876543210"))
		require.NoError(t, err)
		require.NotNil(t, pending)
		assert.Equal(t, i, pending.Attempts)
	}

	_, err := m.Verify(ctx, LoginKey("9876543210"), "000000")
	assert.ErrorIs(t, err, model.ErrInvalidOTP)

	pending, err := store.Get(ctx, LoginKey("9876543210"))
	require.NoError(t, err)
	assert.Nil(t, pending, "record dropped after the fifth failure")

	rec, err := m.Verify(ctx, LoginKey("9876543210"), "111111")
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestManager_Issue_SendError(t *testing.T) {
	m, _ := newTestManager(&recordingSender{err: errors.New("sms gateway down")})

	err := m.Issue(context.Background(), SignupKey("9876543210"), "9876543210", "asha")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send otp")
}

func TestManager_Issue_ReplacesPending(t *testing.T) {
	ctx := context.Background()
	codes := []string{"111111", "222222"}
	m, _ := newTestManager(&recordingSender{})
	m.generate = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}

	require.NoError(t, m.Issue(ctx, LoginKey("9876543210"), "9876543210", ""))
	require.NoError(t, m.Issue(ctx, LoginKey("9876543210"), "9876543210", ""))

	_, err := m.Verify(ctx, LoginKey("9876543210"), "111111")
	assert.ErrorIs(t, err, model.ErrInvalidOTP)

	rec, err := m.Verify(ctx, LoginKey("9876543210"), "222222")
	require.NoError(t, err)
	assert.NotNil(t, rec)
}
