package service

import (
	"context"

	"prepkart/internal/events"
	"prepkart/internal/model"
	"prepkart/internal/otp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

func beginTx(args mock.Arguments) (pgx.Tx, error) {
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockBookRepository is a mock implementation of BookRepository.
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(m.Called(ctx))
}

func (m *MockBookRepository) List(ctx context.Context, limit, offset int) ([]model.Book, error) {
	args := m.Called(ctx, limit, offset)
	books, _ := args.Get(0).([]model.Book)
	return books, args.Error(1)
}

func (m *MockBookRepository) GetByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Book, error) {
	args := m.Called(ctx, tx, id)
	b, _ := args.Get(0).(*model.Book)
	return b, args.Error(1)
}

func (m *MockBookRepository) Create(ctx context.Context, book *model.Book) error {
	return m.Called(ctx, book).Error(0)
}

func (m *MockBookRepository) SetStock(ctx context.Context, id uuid.UUID, stock int) (bool, error) {
	args := m.Called(ctx, id, stock)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (bool, error) {
	args := m.Called(ctx, tx, id, quantity)
	return args.Bool(0), args.Error(1)
}

// MockQuizRepository is a mock implementation of QuizRepository.
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) List(ctx context.Context, limit, offset int) ([]model.Quiz, error) {
	args := m.Called(ctx, limit, offset)
	quizzes, _ := args.Get(0).([]model.Quiz)
	return quizzes, args.Error(1)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Quiz, error) {
	args := m.Called(ctx, tx, id)
	q, _ := args.Get(0).(*model.Quiz)
	return q, args.Error(1)
}

func (m *MockQuizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	return m.Called(ctx, quiz).Error(0)
}

func (m *MockQuizRepository) AppendQuestions(ctx context.Context, id uuid.UUID, questions []model.Question) (bool, error) {
	args := m.Called(ctx, id, questions)
	return args.Bool(0), args.Error(1)
}

// MockCartRepository is a mock implementation of CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(m.Called(ctx))
}

func (m *MockCartRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(*model.Cart)
	return c, args.Error(1)
}

func (m *MockCartRepository) LockByUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Cart, error) {
	args := m.Called(ctx, tx, userID)
	c, _ := args.Get(0).(*model.Cart)
	return c, args.Error(1)
}

func (m *MockCartRepository) Create(ctx context.Context, tx pgx.Tx, cart *model.Cart) (bool, error) {
	args := m.Called(ctx, tx, cart)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) Update(ctx context.Context, tx pgx.Tx, cart *model.Cart) error {
	return m.Called(ctx, tx, cart).Error(0)
}

// MockCouponRepository is a mock implementation of CouponRepository.
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) GetActiveByCode(ctx context.Context, code string) (*model.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(*model.Coupon)
	return c, args.Error(1)
}

func (m *MockCouponRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Coupon)
	return c, args.Error(1)
}

func (m *MockCouponRepository) List(ctx context.Context) ([]model.Coupon, error) {
	args := m.Called(ctx)
	coupons, _ := args.Get(0).([]model.Coupon)
	return coupons, args.Error(1)
}

func (m *MockCouponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	return m.Called(ctx, coupon).Error(0)
}

func (m *MockCouponRepository) Upsert(ctx context.Context, coupons []model.Coupon) error {
	return m.Called(ctx, coupons).Error(0)
}

func (m *MockCouponRepository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(m.Called(ctx))
}

func (m *MockOrderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	return m.Called(ctx, tx, order).Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, limit, offset)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

// MockAttemptRepository is a mock implementation of AttemptRepository.
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, attempt *model.QuizAttempt) error {
	return m.Called(ctx, attempt).Error(0)
}

func (m *MockAttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.QuizAttempt, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.QuizAttempt)
	return a, args.Error(1)
}

func (m *MockAttemptRepository) FindInProgress(ctx context.Context, userID, quizID uuid.UUID) (*model.QuizAttempt, error) {
	args := m.Called(ctx, userID, quizID)
	a, _ := args.Get(0).(*model.QuizAttempt)
	return a, args.Error(1)
}

func (m *MockAttemptRepository) Update(ctx context.Context, attempt *model.QuizAttempt) error {
	return m.Called(ctx, attempt).Error(0)
}

func (m *MockAttemptRepository) ListByUser(ctx context.Context, userID uuid.UUID, quizID *uuid.UUID) ([]model.AttemptSummary, error) {
	args := m.Called(ctx, userID, quizID)
	s, _ := args.Get(0).([]model.AttemptSummary)
	return s, args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(m.Called(ctx))
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetBySessionToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) SetTokens(ctx context.Context, id uuid.UUID, accessToken, sessionToken *string) error {
	return m.Called(ctx, id, accessToken, sessionToken).Error(0)
}

func (m *MockUserRepository) GrantEbooks(ctx context.Context, tx pgx.Tx, userID uuid.UUID, bookIDs []uuid.UUID) error {
	return m.Called(ctx, tx, userID, bookIDs).Error(0)
}

func (m *MockUserRepository) GrantQuiz(ctx context.Context, tx pgx.Tx, userID, quizID uuid.UUID) error {
	return m.Called(ctx, tx, userID, quizID).Error(0)
}

func (m *MockUserRepository) RevokeQuiz(ctx context.Context, tx pgx.Tx, userID, quizID uuid.UUID) error {
	return m.Called(ctx, tx, userID, quizID).Error(0)
}

func (m *MockUserRepository) HasEbook(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) HasQuiz(ctx context.Context, userID, quizID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, quizID)
	return args.Bool(0), args.Error(1)
}

// MockAddressRepository is a mock implementation of AddressRepository.
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(m.Called(ctx))
}

func (m *MockAddressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).([]model.Address)
	return a, args.Error(1)
}

func (m *MockAddressRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.Address)
	return a, args.Error(1)
}

func (m *MockAddressRepository) CountByUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, tx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockAddressRepository) Create(ctx context.Context, tx pgx.Tx, address *model.Address) error {
	return m.Called(ctx, tx, address).Error(0)
}

func (m *MockAddressRepository) Update(ctx context.Context, address *model.Address) error {
	return m.Called(ctx, address).Error(0)
}

func (m *MockAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockSubscriptionRepository is a mock implementation of SubscriptionRepository.
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(m.Called(ctx))
}

func (m *MockSubscriptionRepository) Get(ctx context.Context, tx pgx.Tx, userID, quizID uuid.UUID) (*model.QuizSubscription, error) {
	args := m.Called(ctx, tx, userID, quizID)
	s, _ := args.Get(0).(*model.QuizSubscription)
	return s, args.Error(1)
}

func (m *MockSubscriptionRepository) Activate(ctx context.Context, tx pgx.Tx, sub *model.QuizSubscription) error {
	return m.Called(ctx, tx, sub).Error(0)
}

func (m *MockSubscriptionRepository) Deactivate(ctx context.Context, tx pgx.Tx, userID, quizID uuid.UUID) error {
	return m.Called(ctx, tx, userID, quizID).Error(0)
}

func (m *MockSubscriptionRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.QuizSubscription, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]model.QuizSubscription)
	return s, args.Error(1)
}

// MockPublisher is a mock implementation of events.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderPlaced(ctx context.Context, evt events.OrderPlaced) error {
	return m.Called(ctx, evt).Error(0)
}

// MockOTPManager is a mock implementation of OTPManager.
type MockOTPManager struct {
	mock.Mock
}

func (m *MockOTPManager) Issue(ctx context.Context, key, phone, username string) error {
	return m.Called(ctx, key, phone, username).Error(0)
}

func (m *MockOTPManager) Verify(ctx context.Context, key, code string) (*otp.Record, error) {
	args := m.Called(ctx, key, code)
	r, _ := args.Get(0).(*otp.Record)
	return r, args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }
