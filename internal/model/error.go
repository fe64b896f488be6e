package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// ErrorKind classifies a domain error for transport mapping.
type ErrorKind int

const (
	KindBadRequest ErrorKind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Standard error codes
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInvalidItem        = "INVALID_ITEM"
	ErrCodeInsufficientStock  = "INSUFFICIENT_STOCK"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeCartNotFound       = "CART_NOT_FOUND"
	ErrCodeCouponNotFound     = "COUPON_NOT_FOUND"
	ErrCodeCouponExpired      = "COUPON_EXPIRED"
	ErrCodeCouponNotStarted   = "COUPON_NOT_STARTED"
	ErrCodeCouponMinimum      = "COUPON_MINIMUM_NOT_MET"
	ErrCodeCouponExists       = "COUPON_EXISTS"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeInvalidProvider    = "INVALID_PAYMENT_PROVIDER"
	ErrCodeQuizNotFound       = "QUIZ_NOT_FOUND"
	ErrCodeAttemptNotFound    = "ATTEMPT_NOT_FOUND"
	ErrCodeAttemptClosed      = "ATTEMPT_NOT_IN_PROGRESS"
	ErrCodeQuestionNotFound   = "QUESTION_NOT_FOUND"
	ErrCodeAlreadySubscribed  = "ALREADY_SUBSCRIBED"
	ErrCodeNotSubscribed      = "NOT_SUBSCRIBED"
	ErrCodeAddressLimit       = "ADDRESS_LIMIT"
	ErrCodeAddressNotFound    = "ADDRESS_NOT_FOUND"
	ErrCodeUserExists         = "USER_EXISTS"
	ErrCodeInvalidPhone       = "INVALID_PHONE"
	ErrCodeInvalidOTP         = "INVALID_OTP"
	ErrCodeEbookUnavailable   = "EBOOK_UNAVAILABLE"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeInvalidBookType    = "INVALID_BOOK_TYPE"
	ErrCodeInvalidCouponInput = "INVALID_COUPON"
	ErrCodeInvalidInput       = "INVALID_INPUT"
)

// DomainError is a business rule violation that is safe to show to clients.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// BadRequest builds a KindBadRequest error.
func BadRequest(code, message string) *DomainError {
	return NewDomainError(KindBadRequest, code, message)
}

// NotFound builds a KindNotFound error.
func NotFound(code, message string) *DomainError {
	return NewDomainError(KindNotFound, code, message)
}

// AsDomainError unwraps err to a *DomainError if there is one in its chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err carries a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	de, ok := AsDomainError(err)
	return ok && de.Kind == kind
}

// Common domain errors
var (
	ErrInvalidQuantity   = BadRequest(ErrCodeInvalidQuantity, "Quantity must be at least 1")
	ErrInvalidOrderItem  = BadRequest(ErrCodeInvalidItem, "Invalid product or quantity")
	ErrEmptyOrder        = BadRequest(ErrCodeMissingField, "Order must contain at least one item")
	ErrInsufficientStock = BadRequest(ErrCodeInsufficientStock, "Insufficient stock")
	ErrProductNotFound   = NotFound(ErrCodeProductNotFound, "Product not found")
	ErrUserNotFound      = NotFound(ErrCodeUserNotFound, "User not found")
	ErrCartNotFound      = NotFound(ErrCodeCartNotFound, "Cart not found")
	ErrCartItemNotFound  = NotFound(ErrCodeProductNotFound, "Item not found in cart")
	ErrCouponNotFound    = NotFound(ErrCodeCouponNotFound, "Coupon not found")
	ErrCouponExpired     = BadRequest(ErrCodeCouponExpired, "Coupon has expired")
	ErrCouponNotStarted  = BadRequest(ErrCodeCouponNotStarted, "Coupon is not yet active")
	ErrCouponMinimum     = BadRequest(ErrCodeCouponMinimum, "Cart value is below the coupon minimum")
	ErrCouponExists      = NewDomainError(KindConflict, ErrCodeCouponExists, "Coupon code already exists")
	ErrOrderNotFound     = NotFound(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidStatus     = BadRequest(ErrCodeInvalidStatus, "Invalid order status")
	ErrInvalidProvider   = BadRequest(ErrCodeInvalidProvider, "Invalid payment provider")
	ErrQuizNotFound      = NotFound(ErrCodeQuizNotFound, "Quiz not found")
	ErrQuizIDRequired    = BadRequest(ErrCodeMissingField, "Quiz ID is required")
	ErrAttemptNotFound   = NotFound(ErrCodeAttemptNotFound, "Quiz attempt not found")
	ErrAttemptClosed     = BadRequest(ErrCodeAttemptClosed, "Quiz attempt is not in progress")
	ErrQuestionNotFound  = NotFound(ErrCodeQuestionNotFound, "Question not found")
	ErrAlreadySubscribed = BadRequest(ErrCodeAlreadySubscribed, "Already subscribed to this quiz")
	ErrNotSubscribed     = NotFound(ErrCodeNotSubscribed, "No active subscription for this quiz")
	ErrAddressLimit      = BadRequest(ErrCodeAddressLimit, "Maximum of 3 addresses allowed")
	ErrAddressNotFound   = NotFound(ErrCodeAddressNotFound, "Address not found")
	ErrUserExists        = BadRequest(ErrCodeUserExists, "User already exists")
	ErrInvalidPhone      = BadRequest(ErrCodeInvalidPhone, "Invalid phone number")
	ErrInvalidOTP        = BadRequest(ErrCodeInvalidOTP, "Invalid or expired OTP")
	ErrEbookUnavailable  = BadRequest(ErrCodeEbookUnavailable, "Ebook is not available for this book")
	ErrInvalidBookType   = BadRequest(ErrCodeInvalidBookType, "Book type must be hardcopy or ebook")
	ErrForbidden         = NewDomainError(KindForbidden, ErrCodeForbidden, "You do not have access to this resource")
	ErrUnauthorised      = NewDomainError(KindUnauthorized, ErrCodeUnauthorised, "Authentication required")
)
