package service

import (
	"context"
	"fmt"
	"time"

	"prepkart/internal/model"
	"prepkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AttemptOptions configures the attempt lifecycle.
type AttemptOptions struct {
	// RequireAccess only lets users start priced quizzes they are entitled to.
	RequireAccess bool
}

// attemptService implements AttemptService.
type attemptService struct {
	attemptRepo repository.AttemptRepository
	quizRepo    repository.QuizRepository
	userRepo    repository.UserRepository
	opts        AttemptOptions
	now         func() time.Time
	logger      zerolog.Logger
}

// NewAttemptService creates a new quiz attempt service.
func NewAttemptService(
	attemptRepo repository.AttemptRepository,
	quizRepo repository.QuizRepository,
	userRepo repository.UserRepository,
	opts AttemptOptions,
	logger zerolog.Logger,
) AttemptService {
	return &attemptService{
		attemptRepo: attemptRepo,
		quizRepo:    quizRepo,
		userRepo:    userRepo,
		opts:        opts,
		now:         time.Now,
		logger:      logger.With().Str("service", "attempt").Logger(),
	}
}

// Start returns the open attempt on a quiz or starts a new one with an
// empty answer slot per question.
func (s *attemptService) Start(ctx context.Context, userID uuid.UUID, quizID string) (*model.QuizAttempt, error) {
	if quizID == "" {
		return nil, model.ErrQuizIDRequired
	}
	quiz, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if s.opts.RequireAccess && !quiz.IsFree() {
		has, err := s.userRepo.HasQuiz(ctx, userID, quiz.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check quiz access: %w", err)
		}
		if !has {
			s.logger.Debug().
				Str("quiz_id", quiz.ID.String()).
				Str("user_id", userID.String()).
				Msg("attempt refused without subscription")
			return nil, model.ErrForbidden
		}
	}

	open, err := s.attemptRepo.FindInProgress(ctx, userID, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find attempt: %w", err)
	}
	if open != nil {
		s.logger.Debug().Str("attempt_id", open.ID.String()).Msg("resuming attempt")
		return open, nil
	}

	now := s.now()
	attempt := &model.QuizAttempt{
		ID:             uuid.New(),
		UserID:         userID,
		QuizID:         quiz.ID,
		TotalQuestions: len(quiz.Questions),
		StartTime:      now,
		Answers:        make([]model.Answer, len(quiz.Questions)),
		Status:         model.AttemptInProgress,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for i, q := range quiz.Questions {
		attempt.Answers[i] = model.Answer{QuestionID: q.ID}
	}

	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	s.logger.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("quiz_id", quiz.ID.String()).
		Str("user_id", userID.String()).
		Msg("attempt started")
	return attempt, nil
}

// SubmitAnswer records the answer to one question. An option id, when given,
// decides correctness; otherwise the option text is compared.
func (s *attemptService) SubmitAnswer(ctx context.Context, userID uuid.UUID, attemptID string, req *model.SubmitAnswerRequest) (*model.QuizAttempt, error) {
	if req == nil || req.QuestionID == "" {
		return nil, model.BadRequest(model.ErrCodeMissingField, "Question ID is required")
	}

	attempt, quiz, err := s.openAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}

	questionID, err := parseID(req.QuestionID, model.ErrQuestionNotFound)
	if err != nil {
		return nil, err
	}
	question, ok := quiz.Question(questionID)
	if !ok {
		return nil, model.ErrQuestionNotFound
	}

	ans := model.Answer{QuestionID: questionID}
	correct, hasCorrect := question.CorrectOption()

	if req.SelectedOptionID != "" {
		optionID, err := uuid.Parse(req.SelectedOptionID)
		if err != nil {
			return nil, model.BadRequest(model.ErrCodeInvalidItem, "Invalid option ID")
		}
		ans.SelectedOptionID = &optionID
		text := req.SelectedOption
		for _, o := range question.Options {
			if o.ID == optionID {
				text = o.Text
			}
		}
		ans.SelectedOption = &text
		ans.IsCorrect = hasCorrect && correct.ID == optionID
	} else {
		text := req.SelectedOption
		ans.SelectedOption = &text
		ans.IsCorrect = hasCorrect && correct.Text == text
	}

	attempt.Record(ans)
	attempt.UpdatedAt = s.now()
	if err := s.attemptRepo.Update(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	return attempt, nil
}

// Complete scores and closes an attempt.
func (s *attemptService) Complete(ctx context.Context, userID uuid.UUID, attemptID string) (*model.AttemptResult, error) {
	attempt, quiz, err := s.openAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	attempt.CorrectAnswers = attempt.CountCorrect()
	attempt.Score = score(attempt.CorrectAnswers, attempt.TotalQuestions)
	attempt.EndTime = &now
	attempt.TimeSpent = int(now.Sub(attempt.StartTime) / time.Second)
	attempt.Status = model.AttemptCompleted
	attempt.UpdatedAt = now

	if err := s.attemptRepo.Update(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to complete attempt: %w", err)
	}

	passed := attempt.Score >= quiz.PassingScore
	s.logger.Info().
		Str("attempt_id", attempt.ID.String()).
		Float64("score", attempt.Score).
		Bool("passed", passed).
		Msg("attempt completed")

	return &model.AttemptResult{
		AttemptID:      attempt.ID,
		Score:          attempt.Score,
		CorrectAnswers: attempt.CorrectAnswers,
		TotalQuestions: attempt.TotalQuestions,
		Passed:         passed,
		TimeSpent:      attempt.TimeSpent,
	}, nil
}

// History lists attempts of a user, optionally for one quiz.
func (s *attemptService) History(ctx context.Context, userID uuid.UUID, quizID string) ([]model.AttemptSummary, error) {
	var filter *uuid.UUID
	if quizID != "" {
		id, err := parseID(quizID, model.ErrQuizNotFound)
		if err != nil {
			return nil, err
		}
		filter = &id
	}

	summaries, err := s.attemptRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return summaries, nil
}

// Details returns an attempt with its answers joined to the questions.
// Questions removed from the quiz since are reported as not found.
func (s *attemptService) Details(ctx context.Context, userID uuid.UUID, attemptID string) (*model.AttemptDetails, error) {
	attempt, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizRepo.GetByID(ctx, nil, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if quiz == nil {
		return nil, model.ErrQuizNotFound
	}

	details := &model.AttemptDetails{
		ID:             attempt.ID,
		QuizID:         quiz.ID,
		QuizTitle:      quiz.Title,
		Status:         attempt.Status,
		Score:          attempt.Score,
		CorrectAnswers: attempt.CorrectAnswers,
		TotalQuestions: attempt.TotalQuestions,
		Passed:         attempt.Status == model.AttemptCompleted && attempt.Score >= quiz.PassingScore,
		StartTime:      attempt.StartTime,
		EndTime:        attempt.EndTime,
		TimeSpent:      attempt.TimeSpent,
		Answers:        make([]model.AnswerDetails, len(attempt.Answers)),
	}

	for i, ans := range attempt.Answers {
		d := model.AnswerDetails{
			QuestionID:     ans.QuestionID,
			SelectedOption: ans.SelectedOption,
			IsCorrect:      ans.IsCorrect,
		}
		if q, ok := quiz.Question(ans.QuestionID); ok {
			d.Question = q.Text
			d.Explanation = q.Explanation
			if c, ok := q.CorrectOption(); ok {
				d.CorrectOption = c.Text
			}
		} else {
			d.Question = model.QuestionNotFoundText
		}
		details.Answers[i] = d
	}

	return details, nil
}

func (s *attemptService) loadQuiz(ctx context.Context, quizID string) (*model.Quiz, error) {
	id, err := parseID(quizID, model.ErrQuizNotFound)
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if quiz == nil {
		return nil, model.ErrQuizNotFound
	}
	return quiz, nil
}

// ownedAttempt loads an attempt and checks it belongs to userID.
func (s *attemptService) ownedAttempt(ctx context.Context, userID uuid.UUID, attemptID string) (*model.QuizAttempt, error) {
	id, err := parseID(attemptID, model.ErrAttemptNotFound)
	if err != nil {
		return nil, err
	}
	attempt, err := s.attemptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt: %w", err)
	}
	if attempt == nil {
		return nil, model.ErrAttemptNotFound
	}
	if attempt.UserID != userID {
		return nil, model.ErrForbidden
	}
	return attempt, nil
}

// openAttempt loads an owned in-progress attempt with its quiz.
func (s *attemptService) openAttempt(ctx context.Context, userID uuid.UUID, attemptID string) (*model.QuizAttempt, *model.Quiz, error) {
	attempt, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, nil, err
	}
	quiz, err := s.quizRepo.GetByID(ctx, nil, attempt.QuizID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if quiz == nil {
		return nil, nil, model.ErrQuizNotFound
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, nil, model.ErrAttemptClosed
	}
	return attempt, quiz, nil
}

// score is the percentage of correct answers.
func score(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
