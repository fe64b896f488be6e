package service

import (
	"context"
	"fmt"
	"time"

	"prepkart/internal/coupon"
	"prepkart/internal/model"
	"prepkart/internal/pricing"
	"prepkart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo   repository.CartRepository
	couponRepo repository.CouponRepository
	coupons    CouponService
	products   productResolver
	now        func() time.Time
	logger     zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	bookRepo repository.BookRepository,
	quizRepo repository.QuizRepository,
	couponRepo repository.CouponRepository,
	coupons CouponService,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:   cartRepo,
		couponRepo: couponRepo,
		coupons:    coupons,
		products:   productResolver{books: bookRepo, quizzes: quizRepo},
		now:        time.Now,
		logger:     logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart returns the priced cart of a user.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.CartView, error) {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}

	return s.price(ctx, nil, cart)
}

// AddItem adds a line or replaces the quantity of an existing one.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.AddToCartRequest) (*model.CartView, error) {
	if req == nil || req.ProductID == "" {
		return nil, model.BadRequest(model.ErrCodeMissingField, "Product ID is required")
	}
	if req.Quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}
	bookType, ok := model.ParseBookType(req.BookType)
	if !ok {
		return nil, model.ErrInvalidBookType
	}
	productID, err := parseID(req.ProductID, model.ErrProductNotFound)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, userID, true, func(tx pgx.Tx, cart *model.Cart) error {
		p, err := s.products.probe(ctx, tx, productID)
		if err != nil {
			return err
		}

		lineType := model.ProductTypeQuiz
		if p.Kind == model.KindBook {
			lineType = bookType
			if lineType == model.ProductTypeEbook && !p.Book.IsEbookAvailable {
				return model.ErrEbookUnavailable
			}
		}

		cart.Upsert(model.CartItem{ProductID: productID, ProductType: lineType, Quantity: req.Quantity})
		s.logger.Debug().
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Str("product_type", string(lineType)).
			Int("quantity", req.Quantity).
			Msg("cart item set")
		return nil
	})
}

// RemoveItem drops the line of a product.
func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (*model.CartView, error) {
	id, err := parseID(productID, model.ErrCartItemNotFound)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, userID, false, func(tx pgx.Tx, cart *model.Cart) error {
		if !cart.Remove(id) {
			return model.ErrCartItemNotFound
		}
		return nil
	})
}

// Clear empties the cart and drops its coupon.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) (*model.CartView, error) {
	return s.mutate(ctx, userID, false, func(tx pgx.Tx, cart *model.Cart) error {
		cart.Items = []model.CartItem{}
		cart.CouponID = nil
		return nil
	})
}

// ApplyCoupon attaches a usable coupon to the cart.
func (s *cartService) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*model.CartView, error) {
	if code == "" {
		return nil, model.BadRequest(model.ErrCodeMissingField, "Coupon code is required")
	}

	return s.mutate(ctx, userID, false, func(tx pgx.Tx, cart *model.Cart) error {
		lines, err := s.lines(ctx, tx, cart)
		if err != nil {
			return err
		}
		subtotal := pricing.Compute(lines, nil).Subtotal

		c, err := s.coupons.Apply(ctx, code, subtotal)
		if err != nil {
			return err
		}
		cart.CouponID = &c.ID
		s.logger.Info().
			Str("user_id", userID.String()).
			Str("coupon_code", c.Code).
			Msg("coupon applied to cart")
		return nil
	})
}

// RemoveCoupon detaches the coupon from the cart.
func (s *cartService) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*model.CartView, error) {
	return s.mutate(ctx, userID, false, func(tx pgx.Tx, cart *model.Cart) error {
		cart.CouponID = nil
		return nil
	})
}

// mutate locks the cart of a user, applies fn, reprices and stores it. When
// create is set a missing cart is created, otherwise ErrCartNotFound is returned.
func (s *cartService) mutate(ctx context.Context, userID uuid.UUID, create bool, fn func(tx pgx.Tx, cart *model.Cart) error) (*model.CartView, error) {
	var view *model.CartView

	err := withTx(ctx, s.cartRepo, s.logger, func(tx pgx.Tx) error {
		apply := func(cart *model.Cart) error {
			if err := fn(tx, cart); err != nil {
				return err
			}
			v, err := s.price(ctx, tx, cart)
			if err != nil {
				return err
			}
			view = v
			cart.UpdatedAt = s.now()
			return nil
		}

		cart, err := s.cartRepo.LockByUser(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("failed to lock cart: %w", err)
		}

		if cart == nil {
			if !create {
				return model.ErrCartNotFound
			}
			now := s.now()
			cart = &model.Cart{
				ID:        uuid.New(),
				UserID:    userID,
				Items:     []model.CartItem{},
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := apply(cart); err != nil {
				return err
			}

			created, err := s.cartRepo.Create(ctx, tx, cart)
			if err != nil {
				return fmt.Errorf("failed to create cart: %w", err)
			}
			if created {
				return nil
			}

			// Another request created the cart first. Apply to that one.
			s.logger.Debug().Str("user_id", userID.String()).Msg("cart created concurrently, retrying on stored cart")
			cart, err = s.cartRepo.LockByUser(ctx, tx, userID)
			if err != nil {
				return fmt.Errorf("failed to lock cart: %w", err)
			}
			if cart == nil {
				return fmt.Errorf("cart for user %s vanished after concurrent create", userID)
			}
		}

		if err := apply(cart); err != nil {
			return err
		}
		if err := s.cartRepo.Update(ctx, tx, cart); err != nil {
			return fmt.Errorf("failed to update cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// lines resolves every cart item to its live product.
func (s *cartService) lines(ctx context.Context, tx pgx.Tx, cart *model.Cart) ([]pricing.Line, error) {
	lines := make([]pricing.Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		p, err := s.products.probe(ctx, tx, item.ProductID)
		if err != nil {
			if model.IsKind(err, model.KindNotFound) {
				s.logger.Warn().
					Str("cart_id", cart.ID.String()).
					Str("product_id", item.ProductID.String()).
					Msg("cart references a missing product")
			}
			return nil, err
		}
		lines = append(lines, pricing.Line{Product: p, ProductType: item.ProductType, Quantity: item.Quantity})
	}
	return lines, nil
}

// price recomputes the cached totals of cart and builds its view.
func (s *cartService) price(ctx context.Context, tx pgx.Tx, cart *model.Cart) (*model.CartView, error) {
	lines, err := s.lines(ctx, tx, cart)
	if err != nil {
		return nil, err
	}

	var applied *model.Coupon
	if cart.CouponID != nil {
		c, err := s.couponRepo.GetByID(ctx, *cart.CouponID)
		if err != nil {
			return nil, fmt.Errorf("failed to load cart coupon: %w", err)
		}
		switch {
		case c == nil || !c.IsActive:
		case coupon.Expired(c, s.now()):
			s.logger.Debug().
				Str("cart_id", cart.ID.String()).
				Str("coupon_code", c.Code).
				Msg("dropping expired coupon from cart")
			cart.CouponID = nil
		default:
			applied = c
		}
	}

	totals := pricing.Compute(lines, applied)
	cart.Subtotal = pricing.Round(totals.Subtotal)
	cart.Total = pricing.Round(totals.Total)

	view := &model.CartView{
		ID:       cart.ID,
		Items:    make([]model.CartLine, len(lines)),
		Coupon:   applied,
		Subtotal: cart.Subtotal,
		Total:    cart.Total,
	}
	for i, l := range lines {
		view.Items[i] = model.CartLine{
			Product:     productView(l.Product),
			ProductType: l.ProductType,
			Quantity:    l.Quantity,
			UnitPrice:   pricing.Round(pricing.UnitPrice(l.Product, l.ProductType)),
			LineTotal:   pricing.Round(pricing.LineTotal(l.Product, l.ProductType, l.Quantity)),
		}
	}
	return view, nil
}

// productView is the client representation of a product; quizzes hide their answers.
func productView(p model.Product) any {
	if p.Kind == model.KindQuiz {
		return p.Quiz.Public(false)
	}
	return p.Book
}
