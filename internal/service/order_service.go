package service

import (
	"context"
	"fmt"
	"time"

	"prepkart/internal/events"
	"prepkart/internal/model"
	"prepkart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// OrderOptions selects between transactional and legacy order placement.
type OrderOptions struct {
	// Atomic runs stock updates, entitlements and the order insert in one transaction.
	Atomic bool
	// StrictProductType resolves items by their declared type instead of probing books first.
	StrictProductType bool
	// HonorPaymentProvider records the requested provider instead of COD.
	HonorPaymentProvider bool
}

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	bookRepo  repository.BookRepository
	userRepo  repository.UserRepository
	products  productResolver
	publisher events.Publisher
	opts      OrderOptions
	now       func() time.Time
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	bookRepo repository.BookRepository,
	quizRepo repository.QuizRepository,
	userRepo repository.UserRepository,
	publisher events.Publisher,
	opts OrderOptions,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		userRepo:  userRepo,
		products:  productResolver{books: bookRepo, quizzes: quizRepo, strict: opts.StrictProductType},
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder validates items, updates inventory and entitlements and stores the order.
func (s *orderService) PlaceOrder(ctx context.Context, sessionUserID uuid.UUID, req *model.OrderRequest) (*model.OrderPlaced, error) {
	if req == nil {
		return nil, model.BadRequest(model.ErrCodeInvalidJSON, "Request body is required")
	}
	if req.UserID == "" {
		return nil, model.BadRequest(model.ErrCodeMissingField, "User ID is required")
	}
	if userID, err := uuid.Parse(req.UserID); err != nil || userID != sessionUserID {
		s.logger.Warn().
			Str("session_user", sessionUserID.String()).
			Str("requested_user", req.UserID).
			Msg("order placed for another user")
		return nil, model.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, sessionUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	if len(req.Items) == 0 {
		return nil, model.ErrEmptyOrder
	}

	provider := model.PaymentCOD
	if s.opts.HonorPaymentProvider && req.PaymentProvider != "" {
		p, ok := model.ParsePaymentProvider(req.PaymentProvider)
		if !ok {
			return nil, model.ErrInvalidProvider
		}
		provider = p
	}

	now := s.now()
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          user.ID,
		Username:        user.Username,
		TotalAmount:     req.TotalAmount,
		Status:          model.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		PaymentProvider: provider,
		IsPaymentDone:   req.IsPaymentDone,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if s.opts.Atomic {
		err = withTx(ctx, s.orderRepo, s.logger, func(tx pgx.Tx) error {
			return s.fulfil(ctx, tx, order, req.Items)
		})
	} else {
		err = s.fulfil(ctx, nil, order, req.Items)
	}
	if err != nil {
		if _, ok := model.AsDomainError(err); !ok {
			s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to place order")
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", user.ID.String()).
		Int("item_count", len(order.Items)).
		Bool("atomic", s.opts.Atomic).
		Msg("order placed")

	if err := s.publisher.PublishOrderPlaced(ctx, events.NewOrderPlaced(order)); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to publish order event")
	}

	return &model.OrderPlaced{OrderID: order.ID}, nil
}

// fulfil checks and reserves every item, grants ebooks and inserts the order.
// With a nil tx every statement commits on its own.
func (s *orderService) fulfil(ctx context.Context, tx pgx.Tx, order *model.Order, items []model.OrderItemRequest) error {
	order.Items = make([]model.OrderItem, 0, len(items))
	var ebooks []uuid.UUID

	for i, item := range items {
		productID, ok := item.ResolveID()
		if !ok || item.Quantity < 1 {
			s.logger.Warn().Int("item_index", i).Int("quantity", item.Quantity).Msg("invalid order item")
			return model.ErrInvalidOrderItem
		}

		declared := model.ProductType(item.ProductType)
		p, err := s.products.resolve(ctx, tx, productID, declared)
		if err != nil {
			return err
		}

		lineType := model.ProductTypeQuiz
		if p.Kind == model.KindBook {
			lineType = model.ProductTypeHardcopy
			if declared == model.ProductTypeEbook {
				lineType = model.ProductTypeEbook
				ebooks = append(ebooks, productID)
			}
		}

		if p.Tracked() {
			if p.Stock() < item.Quantity {
				s.logger.Warn().
					Str("product_id", productID.String()).
					Int("stock", p.Stock()).
					Int("quantity", item.Quantity).
					Msg("insufficient stock")
				return model.ErrInsufficientStock
			}
			ok, err := s.bookRepo.DecrementStock(ctx, tx, productID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return model.ErrInsufficientStock
			}
		}

		order.Items = append(order.Items, model.OrderItem{
			Product:     p.Snapshot(),
			ProductType: lineType,
			Quantity:    item.Quantity,
		})
	}

	if err := s.userRepo.GrantEbooks(ctx, tx, order.UserID, ebooks); err != nil {
		return err
	}

	return s.orderRepo.Create(ctx, tx, order)
}

// ListByUser retrieves order summaries of a user, newest first.
func (s *orderService) ListByUser(ctx context.Context, sessionUserID uuid.UUID, userID string) ([]model.OrderSummary, error) {
	id, err := uuid.Parse(userID)
	if err != nil || id != sessionUserID {
		return nil, model.ErrForbidden
	}

	orders, err := s.orderRepo.ListByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	summaries := make([]model.OrderSummary, len(orders))
	for i := range orders {
		summaries[i] = orders[i].Summary()
	}
	return summaries, nil
}

// GetByID retrieves an order owned by the session user.
func (s *orderService) GetByID(ctx context.Context, sessionUserID uuid.UUID, orderID string) (*model.Order, error) {
	id, err := parseID(orderID, model.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if order.UserID != sessionUserID {
		return nil, model.ErrForbidden
	}
	return order, nil
}

// List retrieves all orders for administrators.
func (s *orderService) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	limit, offset = clampPage(limit, offset)

	orders, err := s.orderRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to a new status. Cancelled and delivered
// orders cannot change.
func (s *orderService) UpdateStatus(ctx context.Context, orderID, status string) (*model.Order, error) {
	st, ok := model.ParseOrderStatus(status)
	if !ok {
		return nil, model.ErrInvalidStatus
	}

	id, err := parseID(orderID, model.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if order.Status.Terminal() {
		return nil, model.BadRequest(model.ErrCodeInvalidStatus, fmt.Sprintf("Order is already %s", order.Status))
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, st); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(order.Status)).
		Str("to", string(st)).
		Msg("order status updated")

	order.Status = st
	order.UpdatedAt = s.now()
	return order, nil
}

// clampPage bounds list pagination to 1..100 items.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
