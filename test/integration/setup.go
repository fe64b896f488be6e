package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"prepkart/internal/database"
	"prepkart/internal/model"
	"prepkart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the application schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedBook inserts a book priced at 500 with a 10% hardcopy and 20% ebook discount.
func SeedBook(t *testing.T, pool *pgxpool.Pool, title string, stock int) *model.Book {
	t.Helper()

	now := time.Now().UTC()
	book := &model.Book{
		ID:               uuid.New(),
		Title:            title,
		Author:           "M. Laxmikanth",
		Price:            decimal.NewFromInt(500),
		Stock:            stock,
		IsEbookAvailable: true,
		EbookDiscount:    decimal.NewFromInt(20),
		HardcopyDiscount: decimal.NewFromInt(10),
		PDFURL:           "https://assets.example.com/" + title + ".pdf",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := repository.NewBookRepository(pool, zerolog.Nop()).Create(context.Background(), book); err != nil {
		t.Fatalf("failed to seed book %s: %v", title, err)
	}
	return book
}

// SeedQuiz inserts a two-question quiz priced at 200.
func SeedQuiz(t *testing.T, pool *pgxpool.Pool) *model.Quiz {
	t.Helper()

	now := time.Now().UTC()
	quiz := &model.Quiz{
		ID:           uuid.New(),
		Title:        "Polity Mock 1",
		Price:        decimal.NewFromInt(200),
		Discount:     decimal.NewFromInt(5),
		TimeLimit:    30,
		PassingScore: 50,
		IsActive:     true,
		Questions: []model.Question{
			{
				ID:   uuid.New(),
				Text: "Who appoints the Chief Justice of India?",
				Options: []model.Option{
					{ID: uuid.New(), Text: "The President", IsCorrect: true},
					{ID: uuid.New(), Text: "The Prime Minister"},
				},
				Difficulty: model.DifficultyEasy,
			},
			{
				ID:   uuid.New(),
				Text: "How many fundamental duties are listed in the Constitution?",
				Options: []model.Option{
					{ID: uuid.New(), Text: "10"},
					{ID: uuid.New(), Text: "11", IsCorrect: true},
				},
				Difficulty: model.DifficultyMedium,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repository.NewQuizRepository(pool, zerolog.Nop()).Create(context.Background(), quiz); err != nil {
		t.Fatalf("failed to seed quiz: %v", err)
	}
	return quiz
}

// SeedUser inserts a registered user.
func SeedUser(t *testing.T, pool *pgxpool.Pool, phone string) *model.User {
	t.Helper()

	now := time.Now().UTC()
	user := &model.User{
		ID:        uuid.New(),
		Username:  "student",
		Phone:     phone,
		Role:      model.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repository.NewUserRepository(pool, zerolog.Nop()).Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// CleanupDB removes all rows from the application tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE users, books, quizzes, coupons, carts, addresses, orders,
			quiz_attempts, quiz_subscriptions, ebook_entitlements, quiz_entitlements CASCADE
	`)
	if err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}

// codeSender records the last OTP sent to each phone.
type codeSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func newCodeSender() *codeSender {
	return &codeSender{codes: map[string]string{}}
}

func (s *codeSender) Send(ctx context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = code
	return nil
}

func (s *codeSender) code(phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[phone]
}
