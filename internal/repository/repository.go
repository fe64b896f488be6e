package repository

import (
	"context"

	"prepkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Methods that accept a pgx.Tx run inside that transaction when it is non-nil
// and directly on the pool otherwise.

// Transactor starts database transactions.
type Transactor interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// BookRepository defines the interface for book data access operations.
type BookRepository interface {
	Transactor

	// List retrieves books ordered by title with pagination support.
	List(ctx context.Context, limit, offset int) ([]model.Book, error)

	// GetByID retrieves a single book. Returns nil, nil when it does not exist.
	GetByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Book, error)

	// Create inserts a new book.
	Create(ctx context.Context, book *model.Book) error

	// SetStock overwrites the stock level. Returns false when the book does not exist.
	SetStock(ctx context.Context, id uuid.UUID, stock int) (bool, error)

	// DecrementStock subtracts quantity if at least that much stock remains.
	// Returns false when the stock was insufficient.
	DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (bool, error)
}

// QuizRepository defines the interface for quiz data access operations.
type QuizRepository interface {
	// List retrieves active quizzes ordered by title with pagination support.
	List(ctx context.Context, limit, offset int) ([]model.Quiz, error)

	// GetByID retrieves a single quiz with its questions. Returns nil, nil when it does not exist.
	GetByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Quiz, error)

	// Create inserts a new quiz.
	Create(ctx context.Context, quiz *model.Quiz) error

	// AppendQuestions adds questions to the end of a quiz. Returns false when the quiz does not exist.
	AppendQuestions(ctx context.Context, id uuid.UUID, questions []model.Question) (bool, error)
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	Transactor

	// GetByUser retrieves the cart of a user. Returns nil, nil when the user has none.
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// LockByUser retrieves the cart of a user and holds a row lock until tx ends.
	LockByUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Cart, error)

	// Create inserts a new cart. Returns false when the user already has one.
	Create(ctx context.Context, tx pgx.Tx, cart *model.Cart) (bool, error)

	// Update persists items, coupon and cached totals of a cart.
	Update(ctx context.Context, tx pgx.Tx, cart *model.Cart) error
}

// CouponRepository defines the interface for coupon data access operations.
type CouponRepository interface {
	// GetActiveByCode retrieves an active coupon by its exact code. Returns nil, nil when none matches.
	GetActiveByCode(ctx context.Context, code string) (*model.Coupon, error)

	// GetByID retrieves a coupon regardless of state. Returns nil, nil when it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)

	// List retrieves all coupons, newest first.
	List(ctx context.Context) ([]model.Coupon, error)

	// Create inserts a new coupon. Returns model.ErrCouponExists on a duplicate code.
	Create(ctx context.Context, coupon *model.Coupon) error

	// Upsert inserts coupons or updates existing ones matched by code.
	Upsert(ctx context.Context, coupons []model.Coupon) error

	// Deactivate marks a coupon inactive. Returns false when it does not exist.
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	Transactor

	// Create inserts a new order.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order with its items. Returns nil, nil when it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves the orders of a user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// List retrieves all orders, newest first, with pagination support.
	List(ctx context.Context, limit, offset int) ([]model.Order, error)

	// UpdateStatus sets the status of an order.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error
}

// AttemptRepository defines the interface for quiz attempt data access operations.
type AttemptRepository interface {
	// Create inserts a new attempt.
	Create(ctx context.Context, attempt *model.QuizAttempt) error

	// GetByID retrieves an attempt. Returns nil, nil when it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.QuizAttempt, error)

	// FindInProgress retrieves the open attempt of a user on a quiz, if any.
	FindInProgress(ctx context.Context, userID, quizID uuid.UUID) (*model.QuizAttempt, error)

	// Update persists answers, score and status of an attempt.
	Update(ctx context.Context, attempt *model.QuizAttempt) error

	// ListByUser retrieves attempt summaries newest first, optionally for one quiz.
	ListByUser(ctx context.Context, userID uuid.UUID, quizID *uuid.UUID) ([]model.AttemptSummary, error)
}

// UserRepository defines the interface for user and entitlement data access operations.
type UserRepository interface {
	Transactor

	// GetByID retrieves a user with entitlements. Returns nil, nil when it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByPhone retrieves a user by phone number. Returns nil, nil when none matches.
	GetByPhone(ctx context.Context, phone string) (*model.User, error)

	// GetBySessionToken retrieves the user owning a session token. Returns nil, nil when none matches.
	GetBySessionToken(ctx context.Context, token string) (*model.User, error)

	// Create inserts a new user.
	Create(ctx context.Context, user *model.User) error

	// SetTokens stores (or clears, with nil) the access and session tokens of a user.
	SetTokens(ctx context.Context, id uuid.UUID, accessToken, sessionToken *string) error

	// GrantEbooks adds ebook entitlements, ignoring ones the user already holds.
	GrantEbooks(ctx context.Context, tx pgx.Tx, userID uuid.UUID, bookIDs []uuid.UUID) error

	// GrantQuiz adds a quiz entitlement if the user does not already hold it.
	GrantQuiz(ctx context.Context, tx pgx.Tx, userID, quizID uuid.UUID) error

	// RevokeQuiz removes a quiz entitlement.
	RevokeQuiz(ctx context.Context, tx pgx.Tx, userID, quizID uuid.UUID) error

	// HasEbook reports whether the user holds an ebook entitlement.
	HasEbook(ctx context.Context, userID, bookID uuid.UUID) (bool, error)

	// HasQuiz reports whether the user holds a quiz entitlement.
	HasQuiz(ctx context.Context, userID, quizID uuid.UUID) (bool, error)
}

// AddressRepository defines the interface for address data access operations.
type AddressRepository interface {
	Transactor

	// ListByUser retrieves the addresses of a user, oldest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error)

	// GetByID retrieves an address. Returns nil, nil when it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error)

	// CountByUser counts the addresses of a user, locking the user row until tx ends.
	CountByUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (int, error)

	// Create inserts a new address.
	Create(ctx context.Context, tx pgx.Tx, address *model.Address) error

	// Update persists the editable fields of an address.
	Update(ctx context.Context, address *model.Address) error

	// Delete removes an address.
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscriptionRepository defines the interface for quiz subscription data access operations.
type SubscriptionRepository interface {
	Transactor

	// Get retrieves the subscription of a user to a quiz. Returns nil, nil when there is none.
	Get(ctx context.Context, tx pgx.Tx, userID, quizID uuid.UUID) (*model.QuizSubscription, error)

	// Activate inserts the subscription or reactivates an existing one.
	Activate(ctx context.Context, tx pgx.Tx, sub *model.QuizSubscription) error

	// Deactivate marks the subscription inactive.
	Deactivate(ctx context.Context, tx pgx.Tx, userID, quizID uuid.UUID) error

	// ListActiveByUser retrieves the active subscriptions of a user with quiz titles.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.QuizSubscription, error)
}
