package repository

import (
	"context"
	"testing"
	"time"

	"prepkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, pool *pgxpool.Pool, user *model.User, createdAt time.Time) *model.Order {
	book := seedBook(t, pool, "Order Book "+uuid.NewString()[:8], "250", 10)
	return &model.Order{
		ID:       uuid.New(),
		UserID:   user.ID,
		Username: user.Username,
		Items: []model.OrderItem{
			{
				Product:     model.BookProduct(book).Snapshot(),
				ProductType: model.ProductTypeHardcopy,
				Quantity:    2,
			},
		},
		TotalAmount: dec("450"),
		Status:      model.OrderStatusPending,
		ShippingAddress: model.ShippingAddress{
			FirstName:    "Asha",
			Phone:        "9876543210",
			AddressLine1: "12 MG Road",
			City:         "Pune",
			State:        "MH",
			Pincode:      "411001",
			Country:      "India",
		},
		PaymentProvider: model.PaymentCOD,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func TestOrderRepository_CreateAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()
	user := seedUser(t, pool, "9000000001")

	order := newTestOrder(t, pool, user, time.Now().UTC())

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tx, order))
	require.NoError(t, tx.Commit(ctx))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, model.OrderStatusPending, got.Status)
	assert.Equal(t, model.PaymentCOD, got.PaymentProvider)
	assert.True(t, dec("450").Equal(got.TotalAmount))
	assert.Equal(t, "Pune", got.ShippingAddress.City)
	require.Len(t, got.Items, 1)
	assert.Equal(t, order.Items[0].Product.ID, got.Items[0].Product.ID)
	assert.Equal(t, model.KindBook, got.Items[0].Product.Kind)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())

	got, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOrderRepository_TransactionRollback(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()
	user := seedUser(t, pool, "9000000002")
	order := newTestOrder(t, pool, user, time.Now().UTC())

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tx, order))
	require.NoError(t, tx.Rollback(ctx))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "rolled back order must not exist")
}

func TestOrderRepository_ListByUser_NewestFirst(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()
	user := seedUser(t, pool, "9000000003")
	other := seedUser(t, pool, "9000000004")

	base := time.Now().UTC().Truncate(time.Second)
	older := newTestOrder(t, pool, user, base.Add(-time.Hour))
	newer := newTestOrder(t, pool, user, base)
	foreign := newTestOrder(t, pool, other, base)

	for _, o := range []*model.Order{older, newer, foreign} {
		require.NoError(t, repo.Create(ctx, nil, o))
	}

	orders, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)

	all, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, older.ID, page[0].ID)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()
	user := seedUser(t, pool, "9000000005")
	order := newTestOrder(t, pool, user, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, nil, order))

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, model.OrderStatusShipped))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, got.Status)
}

func TestOrderRepository_Create_UnknownUser(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ghost := &model.User{ID: uuid.New(), Username: "ghost"}
	order := newTestOrder(t, pool, ghost, time.Now().UTC())

	err := repo.Create(context.Background(), nil, order)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create order")
}
