package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Difficulty labels a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Quiz is a priced question set. Questions are stored embedded.
type Quiz struct {
	ID           uuid.UUID       `json:"_id" db:"id"`
	Title        string          `json:"title" db:"title"`
	Description  string          `json:"description" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	Discount     decimal.Decimal `json:"discount" db:"discount"`
	TimeLimit    int             `json:"timeLimit" db:"time_limit"` // minutes
	PassingScore float64         `json:"passingScore" db:"passing_score"`
	IsActive     bool            `json:"isActive" db:"is_active"`
	Questions    []Question      `json:"questions" db:"questions"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}

// Question is one embedded quiz question.
type Question struct {
	ID          uuid.UUID  `json:"_id"`
	Text        string     `json:"question"`
	Options     []Option   `json:"options"`
	Explanation string     `json:"explanation"`
	Difficulty  Difficulty `json:"difficulty"`
	Year        *int       `json:"year,omitempty"`
}

// Option is one answer choice.
type Option struct {
	ID        uuid.UUID `json:"_id"`
	Text      string    `json:"text"`
	IsCorrect bool      `json:"isCorrect"`
}

// Question looks up an embedded question by id.
func (q *Quiz) Question(id uuid.UUID) (*Question, bool) {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i], true
		}
	}
	return nil, false
}

// IsFree reports whether the quiz can be taken without a subscription.
func (q *Quiz) IsFree() bool {
	return q.Price.IsZero()
}

// CorrectOption returns the first option flagged correct.
func (q *Question) CorrectOption() (*Option, bool) {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i], true
		}
	}
	return nil, false
}

// PublicQuiz is the catalogue view of a quiz: answers and explanations are hidden.
type PublicQuiz struct {
	ID            uuid.UUID        `json:"_id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	Discount      decimal.Decimal  `json:"discount"`
	TimeLimit     int              `json:"timeLimit"`
	PassingScore  float64          `json:"passingScore"`
	QuestionCount int              `json:"questionCount"`
	Questions     []PublicQuestion `json:"questions,omitempty"`
}

// PublicQuestion hides correctness flags.
type PublicQuestion struct {
	ID         uuid.UUID      `json:"_id"`
	Text       string         `json:"question"`
	Options    []PublicOption `json:"options"`
	Difficulty Difficulty     `json:"difficulty"`
	Year       *int           `json:"year,omitempty"`
}

// PublicOption is an answer choice without its correctness flag.
type PublicOption struct {
	ID   uuid.UUID `json:"_id"`
	Text string    `json:"text"`
}

// Public projects the quiz for students. withQuestions controls whether the
// question texts are included.
func (q *Quiz) Public(withQuestions bool) PublicQuiz {
	pq := PublicQuiz{
		ID:            q.ID,
		Title:         q.Title,
		Description:   q.Description,
		Price:         q.Price,
		Discount:      q.Discount,
		TimeLimit:     q.TimeLimit,
		PassingScore:  q.PassingScore,
		QuestionCount: len(q.Questions),
	}
	if !withQuestions {
		return pq
	}

	pq.Questions = make([]PublicQuestion, len(q.Questions))
	for i, question := range q.Questions {
		opts := make([]PublicOption, len(question.Options))
		for j, o := range question.Options {
			opts[j] = PublicOption{ID: o.ID, Text: o.Text}
		}
		pq.Questions[i] = PublicQuestion{
			ID:         question.ID,
			Text:       question.Text,
			Options:    opts,
			Difficulty: question.Difficulty,
			Year:       question.Year,
		}
	}
	return pq
}

// QuizRequest is the admin payload for creating a quiz.
type QuizRequest struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Price        decimal.Decimal   `json:"price"`
	Discount     decimal.Decimal   `json:"discount"`
	TimeLimit    int               `json:"timeLimit"`
	PassingScore float64           `json:"passingScore"`
	Questions    []QuestionRequest `json:"questions"`
}

// QuestionRequest is one question of a QuizRequest.
type QuestionRequest struct {
	Text        string          `json:"question"`
	Options     []OptionRequest `json:"options"`
	Explanation string          `json:"explanation"`
	Difficulty  Difficulty      `json:"difficulty"`
	Year        *int            `json:"year,omitempty"`
}

// OptionRequest is one option of a QuestionRequest.
type OptionRequest struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}
