package handler

import (
	"net/http"

	"prepkart/internal/model"
	"prepkart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CatalogHandler handles book and quiz catalogue requests.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalogue handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// ListBooks handles GET /api/books requests with pagination.
func (h *CatalogHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	books, err := h.service.ListBooks(r.Context(), limit, offset)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, books)
}

// GetBook handles GET /api/books/{bookId} requests.
func (h *CatalogHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.GetBook(r.Context(), chi.URLParam(r, "bookId"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, book)
}

// ListQuizzes handles GET /api/quizzes requests with pagination.
func (h *CatalogHandler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	quizzes, err := h.service.ListQuizzes(r.Context(), limit, offset)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, quizzes)
}

// GetQuiz handles GET /api/quizzes/{quizId} requests.
func (h *CatalogHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.service.GetQuiz(r.Context(), chi.URLParam(r, "quizId"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, quiz)
}

// EbookLink handles GET /api/books/{bookId}/ebook requests.
func (h *CatalogHandler) EbookLink(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUser(r)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	link, err := h.service.EbookLink(r.Context(), userID, chi.URLParam(r, "bookId"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, link)
}

// CreateBook handles POST /api/admin/books requests.
func (h *CatalogHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req model.BookRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	book, err := h.service.CreateBook(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, book)
}

// SetBookStock handles PUT /api/admin/books/{bookId}/stock requests.
func (h *CatalogHandler) SetBookStock(w http.ResponseWriter, r *http.Request) {
	var req model.StockRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	if err := h.service.SetBookStock(r.Context(), chi.URLParam(r, "bookId"), req.Stock); err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeMessage(w, "Stock updated")
}

// CreateQuiz handles POST /api/admin/quizzes requests.
func (h *CatalogHandler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req model.QuizRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, h.logger)
		return
	}

	quiz, err := h.service.CreateQuiz(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, quiz)
}
