package qbank

import (
	"context"
	"fmt"

	"prepkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// QuizAppender stores imported questions on a quiz.
type QuizAppender interface {
	AppendQuestions(ctx context.Context, id uuid.UUID, questions []model.Question) (bool, error)
}

// Result counts what an import did.
type Result struct {
	Fetched  int
	Imported int
	Skipped  int
}

// Importer copies question bank documents into a quiz.
type Importer struct {
	source   Source
	quizzes  QuizAppender
	language int32
	logger   zerolog.Logger
}

// NewImporter creates an importer that prefers content in language.
func NewImporter(source Source, quizzes QuizAppender, language int32, logger zerolog.Logger) *Importer {
	return &Importer{
		source:   source,
		quizzes:  quizzes,
		language: language,
		logger:   logger.With().Str("component", "qbank_importer").Logger(),
	}
}

// Import appends every mappable document matching f to the quiz.
func (i *Importer) Import(ctx context.Context, quizID uuid.UUID, f Filter) (Result, error) {
	docs, err := i.source.Documents(ctx, f)
	if err != nil {
		return Result{}, err
	}

	res := Result{Fetched: len(docs)}
	questions := make([]model.Question, 0, len(docs))
	for _, doc := range docs {
		q, ok := ToQuestion(doc, i.language)
		if !ok {
			res.Skipped++
			i.logger.Debug().Str("question_id", doc.QuestionID).Msg("skipping unmappable question")
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return res, nil
	}

	found, err := i.quizzes.AppendQuestions(ctx, quizID, questions)
	if err != nil {
		return res, fmt.Errorf("failed to store imported questions: %w", err)
	}
	if !found {
		return res, model.ErrQuizNotFound
	}

	res.Imported = len(questions)
	i.logger.Info().
		Str("quiz_id", quizID.String()).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Msg("question import completed")
	return res, nil
}
