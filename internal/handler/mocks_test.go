package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"prepkart/internal/middleware"
	"prepkart/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListBooks(ctx context.Context, limit, offset int) ([]model.Book, error) {
	args := m.Called(ctx, limit, offset)
	books, _ := args.Get(0).([]model.Book)
	return books, args.Error(1)
}

func (m *MockCatalogService) GetBook(ctx context.Context, id string) (*model.Book, error) {
	args := m.Called(ctx, id)
	book, _ := args.Get(0).(*model.Book)
	return book, args.Error(1)
}

func (m *MockCatalogService) ListQuizzes(ctx context.Context, limit, offset int) ([]model.PublicQuiz, error) {
	args := m.Called(ctx, limit, offset)
	quizzes, _ := args.Get(0).([]model.PublicQuiz)
	return quizzes, args.Error(1)
}

func (m *MockCatalogService) GetQuiz(ctx context.Context, id string) (*model.PublicQuiz, error) {
	args := m.Called(ctx, id)
	quiz, _ := args.Get(0).(*model.PublicQuiz)
	return quiz, args.Error(1)
}

func (m *MockCatalogService) CreateBook(ctx context.Context, req *model.BookRequest) (*model.Book, error) {
	args := m.Called(ctx, req)
	book, _ := args.Get(0).(*model.Book)
	return book, args.Error(1)
}

func (m *MockCatalogService) SetBookStock(ctx context.Context, id string, stock int) error {
	return m.Called(ctx, id, stock).Error(0)
}

func (m *MockCatalogService) CreateQuiz(ctx context.Context, req *model.QuizRequest) (*model.Quiz, error) {
	args := m.Called(ctx, req)
	quiz, _ := args.Get(0).(*model.Quiz)
	return quiz, args.Error(1)
}

func (m *MockCatalogService) EbookLink(ctx context.Context, userID uuid.UUID, bookID string) (*model.EbookLink, error) {
	args := m.Called(ctx, userID, bookID)
	link, _ := args.Get(0).(*model.EbookLink)
	return link, args.Error(1)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) view(args mock.Arguments) (*model.CartView, error) {
	view, _ := args.Get(0).(*model.CartView)
	return view, args.Error(1)
}

func (m *MockCartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.CartView, error) {
	return m.view(m.Called(ctx, userID))
}

func (m *MockCartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.AddToCartRequest) (*model.CartView, error) {
	return m.view(m.Called(ctx, userID, req))
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (*model.CartView, error) {
	return m.view(m.Called(ctx, userID, productID))
}

func (m *MockCartService) Clear(ctx context.Context, userID uuid.UUID) (*model.CartView, error) {
	return m.view(m.Called(ctx, userID))
}

func (m *MockCartService) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*model.CartView, error) {
	return m.view(m.Called(ctx, userID, code))
}

func (m *MockCartService) RemoveCoupon(ctx context.Context, userID uuid.UUID) (*model.CartView, error) {
	return m.view(m.Called(ctx, userID))
}

type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error) {
	args := m.Called(ctx, req)
	c, _ := args.Get(0).(*model.Coupon)
	return c, args.Error(1)
}

func (m *MockCouponService) List(ctx context.Context) ([]model.Coupon, error) {
	args := m.Called(ctx)
	coupons, _ := args.Get(0).([]model.Coupon)
	return coupons, args.Error(1)
}

func (m *MockCouponService) Deactivate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCouponService) Apply(ctx context.Context, code string, amount decimal.Decimal) (*model.Coupon, error) {
	args := m.Called(ctx, code, amount)
	c, _ := args.Get(0).(*model.Coupon)
	return c, args.Error(1)
}

func (m *MockCouponService) CheckoutDiscount(ctx context.Context, code string, cartTotal decimal.Decimal) (*model.CouponDiscount, error) {
	args := m.Called(ctx, code, cartTotal)
	d, _ := args.Get(0).(*model.CouponDiscount)
	return d, args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, sessionUserID uuid.UUID, req *model.OrderRequest) (*model.OrderPlaced, error) {
	args := m.Called(ctx, sessionUserID, req)
	placed, _ := args.Get(0).(*model.OrderPlaced)
	return placed, args.Error(1)
}

func (m *MockOrderService) ListByUser(ctx context.Context, sessionUserID uuid.UUID, userID string) ([]model.OrderSummary, error) {
	args := m.Called(ctx, sessionUserID, userID)
	orders, _ := args.Get(0).([]model.OrderSummary)
	return orders, args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, sessionUserID uuid.UUID, orderID string) (*model.Order, error) {
	args := m.Called(ctx, sessionUserID, orderID)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, limit, offset)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID, status string) (*model.Order, error) {
	args := m.Called(ctx, orderID, status)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

type MockAttemptService struct {
	mock.Mock
}

func (m *MockAttemptService) Start(ctx context.Context, userID uuid.UUID, quizID string) (*model.QuizAttempt, error) {
	args := m.Called(ctx, userID, quizID)
	a, _ := args.Get(0).(*model.QuizAttempt)
	return a, args.Error(1)
}

func (m *MockAttemptService) SubmitAnswer(ctx context.Context, userID uuid.UUID, attemptID string, req *model.SubmitAnswerRequest) (*model.QuizAttempt, error) {
	args := m.Called(ctx, userID, attemptID, req)
	a, _ := args.Get(0).(*model.QuizAttempt)
	return a, args.Error(1)
}

func (m *MockAttemptService) Complete(ctx context.Context, userID uuid.UUID, attemptID string) (*model.AttemptResult, error) {
	args := m.Called(ctx, userID, attemptID)
	r, _ := args.Get(0).(*model.AttemptResult)
	return r, args.Error(1)
}

func (m *MockAttemptService) History(ctx context.Context, userID uuid.UUID, quizID string) ([]model.AttemptSummary, error) {
	args := m.Called(ctx, userID, quizID)
	h, _ := args.Get(0).([]model.AttemptSummary)
	return h, args.Error(1)
}

func (m *MockAttemptService) Details(ctx context.Context, userID uuid.UUID, attemptID string) (*model.AttemptDetails, error) {
	args := m.Called(ctx, userID, attemptID)
	d, _ := args.Get(0).(*model.AttemptDetails)
	return d, args.Error(1)
}

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Subscribe(ctx context.Context, userID uuid.UUID, quizID string) (*model.QuizSubscription, error) {
	args := m.Called(ctx, userID, quizID)
	s, _ := args.Get(0).(*model.QuizSubscription)
	return s, args.Error(1)
}

func (m *MockSubscriptionService) Revoke(ctx context.Context, userID uuid.UUID, quizID string) error {
	return m.Called(ctx, userID, quizID).Error(0)
}

func (m *MockSubscriptionService) List(ctx context.Context, userID uuid.UUID) ([]model.QuizSubscription, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]model.QuizSubscription)
	return s, args.Error(1)
}

func (m *MockSubscriptionService) Access(ctx context.Context, userID uuid.UUID, quizID string) (*model.QuizAccess, error) {
	args := m.Called(ctx, userID, quizID)
	a, _ := args.Get(0).(*model.QuizAccess)
	return a, args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) RequestSignupOTP(ctx context.Context, req *model.SignupRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockUserService) RequestLoginOTP(ctx context.Context, req *model.LoginRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockUserService) VerifyOTP(ctx context.Context, req *model.VerifyOTPRequest) (*model.Session, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*model.Session)
	return s, args.Error(1)
}

func (m *MockUserService) Logout(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, sessionToken, accessToken string) (*model.User, error) {
	args := m.Called(ctx, sessionToken, accessToken)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type MockAddressService struct {
	mock.Mock
}

func (m *MockAddressService) List(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).([]model.Address)
	return a, args.Error(1)
}

func (m *MockAddressService) Create(ctx context.Context, userID uuid.UUID, req *model.AddressRequest) (*model.Address, error) {
	args := m.Called(ctx, userID, req)
	a, _ := args.Get(0).(*model.Address)
	return a, args.Error(1)
}

func (m *MockAddressService) Update(ctx context.Context, userID uuid.UUID, addressID string, req *model.AddressRequest) (*model.Address, error) {
	args := m.Called(ctx, userID, addressID, req)
	a, _ := args.Get(0).(*model.Address)
	return a, args.Error(1)
}

func (m *MockAddressService) Delete(ctx context.Context, userID uuid.UUID, addressID string) error {
	return m.Called(ctx, userID, addressID).Error(0)
}

// newRequest builds a request carrying the session user (when not Nil), chi
// path parameters given as key/value pairs and an optional JSON body.
func newRequest(t *testing.T, method, target string, userID uuid.UUID, body any, params ...string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != uuid.Nil {
		ctx = middleware.WithUser(ctx, &model.User{ID: userID})
	}
	return req.WithContext(ctx)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
