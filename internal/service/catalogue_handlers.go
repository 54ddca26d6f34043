package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/landob/landobooks/internal/googlebooks"
	"github.com/landob/landobooks/internal/middleware"
	"github.com/landob/landobooks/internal/models"
	"github.com/landob/landobooks/internal/storage"
)

// CatalogueService handles listing, searching, adding and deleting books.
type CatalogueService struct {
	store  storage.Store
	books  *googlebooks.Client
	logger *slog.Logger
}

// NewCatalogueService creates a new catalogue service.
func NewCatalogueService(store storage.Store, books *googlebooks.Client, logger *slog.Logger) *CatalogueService {
	return &CatalogueService{
		store:  store,
		books:  books,
		logger: logger,
	}
}

// ListBooks answers GET /, returning the current user's books ordered
// by title ascending.
func (s *CatalogueService) ListBooks(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	books, err := s.store.ListBooksByUser(r.Context(), userID)
	if err != nil {
		s.logger.Error("failed to list books", "user_id", userID, "error", err)
		writeNotice(w, http.StatusInternalServerError, "danger", "Could not load your catalogue.")
		return
	}
	if books == nil {
		books = []models.Book{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

// Search answers POST /search: it queries the volumes API with the
// form's query and search_type and returns the full candidate list for
// user selection. Selection itself arrives as a separate request to
// /add_book_from_selection.
func (s *CatalogueService) Search(w http.ResponseWriter, r *http.Request) {
	query := r.FormValue("query")
	field := r.FormValue("search_type")
	if query == "" {
		writeNotice(w, http.StatusBadRequest, "warning", "Search query is required.")
		return
	}

	candidates, err := s.books.Search(r.Context(), query, field)
	if err != nil {
		s.writeLookupError(w, err)
		return
	}

	if len(candidates) == 0 {
		writeNotice(w, http.StatusOK, "warning", "No results found.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"candidates": candidates})
}

// AddBook answers POST /add_book: the direct-ISBN flow. It dedupes
// against the user's catalogue, auto-accepts the first lookup result
// and persists it.
func (s *CatalogueService) AddBook(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	isbn := r.FormValue("isbn")
	if isbn == "" {
		writeNotice(w, http.StatusBadRequest, "warning", "ISBN is required.")
		return
	}

	// Dedupe guard. Not transactional with the insert below; two
	// concurrent adds of the same ISBN can both pass.
	exists, err := s.store.BookExistsByISBN(r.Context(), userID, isbn)
	if err != nil {
		s.logger.Error("failed to check for duplicate", "user_id", userID, "isbn", isbn, "error", err)
		writeNotice(w, http.StatusInternalServerError, "danger", "Could not add book.")
		return
	}
	if exists {
		// Idempotent outcome, not an error.
		writeNotice(w, http.StatusOK, "info",
			fmt.Sprintf("Book with ISBN %s already in your catalogue.", isbn))
		return
	}

	candidates, err := s.books.Search(r.Context(), isbn, googlebooks.FieldISBN)
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	if len(candidates) == 0 {
		writeNotice(w, http.StatusNotFound, "warning",
			fmt.Sprintf("No book found for ISBN %s.", isbn))
		return
	}

	book := bookFromCandidate(candidates[0], userID)
	if err := s.store.CreateBook(r.Context(), book); err != nil {
		s.logger.Error("failed to persist book", "user_id", userID, "isbn", isbn, "error", err)
		writeNotice(w, http.StatusInternalServerError, "danger", "Could not add book.")
		return
	}

	s.logger.Info("book added", "user_id", userID, "book_id", book.ID, "title", book.Title)
	writeNotice(w, http.StatusCreated, "success",
		fmt.Sprintf("Book %q added successfully!", book.Title))
}

// AddBookFromSelection answers POST /add_book_from_selection: it
// persists the fields of a candidate the user already chose from a
// /search response, bypassing another lookup.
func (s *CatalogueService) AddBookFromSelection(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	title := r.FormValue("title")
	if title == "" {
		// A book is never persisted without some title value.
		title = "Unknown Title"
	}

	book := &models.Book{
		UserID:  userID,
		ISBN:    r.FormValue("isbn"),
		Title:   title,
		Authors: r.FormValue("authors"),
	}
	if v, err := strconv.Atoi(r.FormValue("page_count")); err == nil {
		book.PageCount = &v
	}
	if v, err := strconv.ParseFloat(r.FormValue("average_rating"), 64); err == nil {
		book.AverageRating = &v
	}
	if thumb := r.FormValue("thumbnail_url"); thumb != "" {
		book.ThumbnailURL = &thumb
	}

	if err := s.store.CreateBook(r.Context(), book); err != nil {
		s.logger.Error("failed to persist book", "user_id", userID, "error", err)
		writeNotice(w, http.StatusInternalServerError, "danger", "Could not add book.")
		return
	}

	s.logger.Info("book added from selection", "user_id", userID, "book_id", book.ID, "title", book.Title)
	writeNotice(w, http.StatusCreated, "success", "Book added successfully!")
}

// DeleteBook answers POST /delete_book/{id}, removing a book if the
// caller owns it.
func (s *CatalogueService) DeleteBook(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	bookID := mux.Vars(r)["id"]

	book, err := s.store.DeleteBook(r.Context(), bookID, userID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeNotice(w, http.StatusNotFound, "warning", "Book not found.")
		case errors.Is(err, storage.ErrForbidden):
			writeNotice(w, http.StatusForbidden, "danger",
				"You do not have permission to delete this book.")
		default:
			s.logger.Error("failed to delete book", "user_id", userID, "book_id", bookID, "error", err)
			writeNotice(w, http.StatusInternalServerError, "danger",
				fmt.Sprintf("Error deleting book: %v", err))
		}
		return
	}

	s.logger.Info("book deleted", "user_id", userID, "book_id", bookID, "title", book.Title)
	writeNotice(w, http.StatusOK, "success",
		fmt.Sprintf("Book %q deleted successfully.", book.Title))
}

// writeLookupError maps lookup client failures onto user-visible
// notices. The upstream error text is echoed, as the original app did.
func (s *CatalogueService) writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, googlebooks.ErrBadField):
		writeNotice(w, http.StatusBadRequest, "warning", err.Error())
	case errors.Is(err, googlebooks.ErrParse):
		s.logger.Warn("lookup response malformed", "error", err)
		writeNotice(w, http.StatusBadGateway, "danger", fmt.Sprintf("API error: %v", err))
	default:
		s.logger.Warn("lookup unavailable", "error", err)
		writeNotice(w, http.StatusBadGateway, "danger", fmt.Sprintf("API error: %v", err))
	}
}

// bookFromCandidate builds a Book owned by userID from a lookup candidate.
func bookFromCandidate(c googlebooks.Candidate, userID string) *models.Book {
	return &models.Book{
		UserID:        userID,
		ISBN:          c.ISBN,
		Title:         c.Title,
		Authors:       c.Authors,
		PageCount:     c.PageCount,
		AverageRating: c.AverageRating,
		ThumbnailURL:  c.ThumbnailURL,
	}
}
