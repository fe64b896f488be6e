package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered customer.
type User struct {
	ID                uuid.UUID   `json:"_id" db:"id"`
	Username          string      `json:"username" db:"username"`
	Phone             string      `json:"phone" db:"phone"`
	Role              string      `json:"role" db:"role"`
	AccessToken       *string     `json:"-" db:"access_token"`
	SessionToken      *string     `json:"-" db:"session_token"`
	SubscribedEbooks  []uuid.UUID `json:"subscribedEbook"`
	SubscribedQuizzes []uuid.UUID `json:"subscribedQuiz"`
	CreatedAt         time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time   `json:"updatedAt" db:"updated_at"`
}

// SignupRequest starts an OTP signup.
type SignupRequest struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

// LoginRequest starts an OTP login.
type LoginRequest struct {
	Phone string `json:"phone"`
}

// VerifyOTPRequest completes a signup or login.
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// Session is the token pair issued after OTP verification.
type Session struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"-"`
	SessionToken string `json:"-"`
}
