package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus is the lifecycle state of a quiz attempt.
type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in-progress"
	AttemptCompleted  AttemptStatus = "completed"
)

// QuestionNotFoundText replaces question details removed from a quiz after an attempt.
const QuestionNotFoundText = "Question not found"

// QuizAttempt is one user's run through a quiz.
type QuizAttempt struct {
	ID             uuid.UUID     `json:"_id" db:"id"`
	UserID         uuid.UUID     `json:"userId" db:"user_id"`
	QuizID         uuid.UUID     `json:"quizId" db:"quiz_id"`
	TotalQuestions int           `json:"totalQuestions" db:"total_questions"`
	StartTime      time.Time     `json:"startTime" db:"start_time"`
	EndTime        *time.Time    `json:"endTime,omitempty" db:"end_time"`
	TimeSpent      int           `json:"timeSpent" db:"time_spent"` // seconds
	Answers        []Answer      `json:"answers" db:"answers"`
	Score          float64       `json:"score" db:"score"`
	CorrectAnswers int           `json:"correctAnswers" db:"correct_answers"`
	Status         AttemptStatus `json:"status" db:"status"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time     `json:"updatedAt" db:"updated_at"`
}

// Answer is the answer slot of one question.
type Answer struct {
	QuestionID       uuid.UUID  `json:"questionId"`
	SelectedOption   *string    `json:"selectedOption"`
	SelectedOptionID *uuid.UUID `json:"selectedOptionId,omitempty"`
	IsCorrect        bool       `json:"isCorrect"`
}

// Record stores an answer in place when the question already has a slot,
// otherwise appends one.
func (a *QuizAttempt) Record(ans Answer) {
	for i := range a.Answers {
		if a.Answers[i].QuestionID == ans.QuestionID {
			a.Answers[i] = ans
			return
		}
	}
	a.Answers = append(a.Answers, ans)
}

// CountCorrect counts answer entries flagged correct.
func (a *QuizAttempt) CountCorrect() int {
	n := 0
	for _, ans := range a.Answers {
		if ans.IsCorrect {
			n++
		}
	}
	return n
}

// StartAttemptRequest starts or resumes an attempt.
type StartAttemptRequest struct {
	QuizID string `json:"quizId"`
}

// SubmitAnswerRequest records one answer.
type SubmitAnswerRequest struct {
	QuestionID       string `json:"questionId"`
	SelectedOption   string `json:"selectedOption"`
	SelectedOptionID string `json:"selectedOptionId,omitempty"`
}

// AttemptResult is returned when an attempt completes.
type AttemptResult struct {
	AttemptID      uuid.UUID `json:"attemptId"`
	Score          float64   `json:"score"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalQuestions int       `json:"totalQuestions"`
	Passed         bool      `json:"passed"`
	TimeSpent      int       `json:"timeSpent"`
}

// AttemptSummary is the history view of an attempt.
type AttemptSummary struct {
	ID             uuid.UUID     `json:"_id"`
	QuizID         uuid.UUID     `json:"quizId"`
	QuizTitle      string        `json:"quizTitle"`
	Score          float64       `json:"score"`
	CorrectAnswers int           `json:"correctAnswers"`
	TotalQuestions int           `json:"totalQuestions"`
	Status         AttemptStatus `json:"status"`
	StartTime      time.Time     `json:"startTime"`
	EndTime        *time.Time    `json:"endTime,omitempty"`
	TimeSpent      int           `json:"timeSpent"`
}

// AttemptDetails is the review view of an attempt.
type AttemptDetails struct {
	ID             uuid.UUID       `json:"_id"`
	QuizID         uuid.UUID       `json:"quizId"`
	QuizTitle      string          `json:"quizTitle"`
	Status         AttemptStatus   `json:"status"`
	Score          float64         `json:"score"`
	CorrectAnswers int             `json:"correctAnswers"`
	TotalQuestions int             `json:"totalQuestions"`
	Passed         bool            `json:"passed"`
	StartTime      time.Time       `json:"startTime"`
	EndTime        *time.Time      `json:"endTime,omitempty"`
	TimeSpent      int             `json:"timeSpent"`
	Answers        []AnswerDetails `json:"answers"`
}

// AnswerDetails denormalises an answer with its question.
type AnswerDetails struct {
	QuestionID     uuid.UUID `json:"questionId"`
	Question       string    `json:"question"`
	Explanation    string    `json:"explanation"`
	CorrectOption  string    `json:"correctOption,omitempty"`
	SelectedOption *string   `json:"selectedOption"`
	IsCorrect      bool      `json:"isCorrect"`
}
