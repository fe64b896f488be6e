package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"prepkart/internal/model"
	"prepkart/internal/repository"
	"prepkart/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var maxPercent = decimal.NewFromInt(100)

// catalogService implements CatalogService.
type catalogService struct {
	bookRepo repository.BookRepository
	quizRepo repository.QuizRepository
	userRepo repository.UserRepository
	linker   storage.EbookLinker
	now      func() time.Time
	logger   zerolog.Logger
}

// NewCatalogService creates a new catalogue service.
func NewCatalogService(
	bookRepo repository.BookRepository,
	quizRepo repository.QuizRepository,
	userRepo repository.UserRepository,
	linker storage.EbookLinker,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		bookRepo: bookRepo,
		quizRepo: quizRepo,
		userRepo: userRepo,
		linker:   linker,
		now:      time.Now,
		logger:   logger.With().Str("service", "catalog").Logger(),
	}
}

// ListBooks retrieves books with pagination.
func (s *catalogService) ListBooks(ctx context.Context, limit, offset int) ([]model.Book, error) {
	limit, offset = clampPage(limit, offset)

	books, err := s.bookRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list books")
		return nil, fmt.Errorf("failed to get books: %w", err)
	}

	s.logger.Debug().
		Int("count", len(books)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved books")

	return books, nil
}

// GetBook retrieves a single book by ID.
func (s *catalogService) GetBook(ctx context.Context, id string) (*model.Book, error) {
	bookID, err := parseID(id, model.ErrProductNotFound)
	if err != nil {
		s.logger.Warn().Str("book_id", id).Msg("invalid book ID")
		return nil, err
	}

	book, err := s.bookRepo.GetByID(ctx, nil, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if book == nil {
		s.logger.Debug().Str("book_id", id).Msg("book not found")
		return nil, model.ErrProductNotFound
	}

	return book, nil
}

// ListQuizzes retrieves active quizzes without their questions.
func (s *catalogService) ListQuizzes(ctx context.Context, limit, offset int) ([]model.PublicQuiz, error) {
	limit, offset = clampPage(limit, offset)

	quizzes, err := s.quizRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get quizzes: %w", err)
	}

	out := make([]model.PublicQuiz, len(quizzes))
	for i := range quizzes {
		out[i] = quizzes[i].Public(false)
	}
	return out, nil
}

// GetQuiz retrieves an active quiz with questions but without answers.
func (s *catalogService) GetQuiz(ctx context.Context, id string) (*model.PublicQuiz, error) {
	quizID, err := parseID(id, model.ErrQuizNotFound)
	if err != nil {
		return nil, err
	}

	quiz, err := s.quizRepo.GetByID(ctx, nil, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz == nil || !quiz.IsActive {
		return nil, model.ErrQuizNotFound
	}

	pq := quiz.Public(true)
	return &pq, nil
}

// CreateBook adds a book to the catalogue.
func (s *catalogService) CreateBook(ctx context.Context, req *model.BookRequest) (*model.Book, error) {
	if err := validateBook(req); err != nil {
		return nil, err
	}

	now := s.now()
	book := &model.Book{
		ID:               uuid.New(),
		Title:            strings.TrimSpace(req.Title),
		Author:           req.Author,
		Description:      req.Description,
		Price:            req.Price,
		Stock:            req.Stock,
		IsEbookAvailable: req.IsEbookAvailable,
		EbookDiscount:    req.EbookDiscount,
		HardcopyDiscount: req.HardcopyDiscount,
		CoverImageURL:    req.CoverImageURL,
		PDFURL:           req.PDFURL,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.logger.Info().Str("book_id", book.ID.String()).Str("title", book.Title).Msg("book created")
	return book, nil
}

// SetBookStock overwrites the stock level of a book.
func (s *catalogService) SetBookStock(ctx context.Context, id string, stock int) error {
	if stock < 0 {
		return model.BadRequest(model.ErrCodeInvalidQuantity, "Stock cannot be negative")
	}
	bookID, err := parseID(id, model.ErrProductNotFound)
	if err != nil {
		return err
	}

	found, err := s.bookRepo.SetStock(ctx, bookID, stock)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	if !found {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("book_id", id).Int("stock", stock).Msg("book stock updated")
	return nil
}

// CreateQuiz adds a quiz with its questions.
func (s *catalogService) CreateQuiz(ctx context.Context, req *model.QuizRequest) (*model.Quiz, error) {
	if err := validateQuiz(req); err != nil {
		return nil, err
	}

	now := s.now()
	quiz := &model.Quiz{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Price:        req.Price,
		Discount:     req.Discount,
		TimeLimit:    req.TimeLimit,
		PassingScore: req.PassingScore,
		IsActive:     true,
		Questions:    make([]model.Question, len(req.Questions)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for i, qr := range req.Questions {
		q := model.Question{
			ID:          uuid.New(),
			Text:        strings.TrimSpace(qr.Text),
			Options:     make([]model.Option, len(qr.Options)),
			Explanation: qr.Explanation,
			Difficulty:  qr.Difficulty,
			Year:        qr.Year,
		}
		if q.Difficulty == "" {
			q.Difficulty = model.DifficultyMedium
		}
		for j, o := range qr.Options {
			q.Options[j] = model.Option{ID: uuid.New(), Text: o.Text, IsCorrect: o.IsCorrect}
		}
		quiz.Questions[i] = q
	}

	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	s.logger.Info().
		Str("quiz_id", quiz.ID.String()).
		Int("questions", len(quiz.Questions)).
		Msg("quiz created")
	return quiz, nil
}

// EbookLink returns a download link for an ebook the user is entitled to.
func (s *catalogService) EbookLink(ctx context.Context, userID uuid.UUID, bookID string) (*model.EbookLink, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.IsEbookAvailable {
		return nil, model.ErrEbookUnavailable
	}

	entitled, err := s.userRepo.HasEbook(ctx, userID, book.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ebook entitlement: %w", err)
	}
	if !entitled {
		s.logger.Warn().
			Str("user_id", userID.String()).
			Str("book_id", book.ID.String()).
			Msg("ebook requested without entitlement")
		return nil, model.ErrForbidden
	}

	link, err := s.linker.Link(ctx, book)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func validPercent(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(maxPercent)
}

func validateBook(req *model.BookRequest) error {
	switch {
	case req == nil:
		return model.BadRequest(model.ErrCodeInvalidJSON, "Request body is required")
	case strings.TrimSpace(req.Title) == "":
		return model.BadRequest(model.ErrCodeMissingField, "Title is required")
	case req.Price.IsNegative():
		return model.BadRequest(model.ErrCodeInvalidInput, "Price cannot be negative")
	case req.Stock < 0:
		return model.BadRequest(model.ErrCodeInvalidInput, "Stock cannot be negative")
	case !validPercent(req.EbookDiscount) || !validPercent(req.HardcopyDiscount):
		return model.BadRequest(model.ErrCodeInvalidInput, "Discounts must be between 0 and 100")
	}
	return nil
}

func validateQuiz(req *model.QuizRequest) error {
	switch {
	case req == nil:
		return model.BadRequest(model.ErrCodeInvalidJSON, "Request body is required")
	case strings.TrimSpace(req.Title) == "":
		return model.BadRequest(model.ErrCodeMissingField, "Title is required")
	case req.Price.IsNegative():
		return model.BadRequest(model.ErrCodeInvalidInput, "Price cannot be negative")
	case !validPercent(req.Discount):
		return model.BadRequest(model.ErrCodeInvalidInput, "Discount must be between 0 and 100")
	case req.TimeLimit < 0:
		return model.BadRequest(model.ErrCodeInvalidInput, "Time limit cannot be negative")
	case req.PassingScore < 0 || req.PassingScore > 100:
		return model.BadRequest(model.ErrCodeInvalidInput, "Passing score must be between 0 and 100")
	}

	for i, q := range req.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return model.BadRequest(model.ErrCodeMissingField, fmt.Sprintf("Question %d: text is required", i+1))
		}
		if len(q.Options) < 2 {
			return model.BadRequest(model.ErrCodeInvalidInput, fmt.Sprintf("Question %d: at least two options are required", i+1))
		}
		correct := 0
		for _, o := range q.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return model.BadRequest(model.ErrCodeInvalidInput, fmt.Sprintf("Question %d: exactly one option must be correct", i+1))
		}
		switch q.Difficulty {
		case "", model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
		default:
			return model.BadRequest(model.ErrCodeInvalidInput, fmt.Sprintf("Question %d: invalid difficulty", i+1))
		}
	}
	return nil
}
