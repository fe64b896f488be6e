package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizSubscription grants a user access to a priced quiz.
type QuizSubscription struct {
	ID           uuid.UUID `json:"_id" db:"id"`
	UserID       uuid.UUID `json:"userId" db:"user_id"`
	QuizID       uuid.UUID `json:"quizId" db:"quiz_id"`
	QuizTitle    string    `json:"quizTitle,omitempty"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	SubscribedAt time.Time `json:"subscribedAt" db:"subscribed_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// QuizAccess reports whether a user may take a quiz.
type QuizAccess struct {
	QuizID    uuid.UUID `json:"quizId"`
	HasAccess bool      `json:"hasAccess"`
	Reason    string    `json:"reason"`
}
