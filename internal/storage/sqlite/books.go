package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/landob/landobooks/internal/models"
	"github.com/landob/landobooks/internal/storage"
)

// CreateBook persists a new book to the database.
func (s *SQLiteStore) CreateBook(ctx context.Context, book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if book.CreatedAt == 0 {
		book.CreatedAt = time.Now().Unix()
	}

	var isbn sql.NullString
	if book.ISBN != "" {
		isbn = sql.NullString{String: book.ISBN, Valid: true}
	}
	var authors sql.NullString
	if book.Authors != "" {
		authors = sql.NullString{String: book.Authors, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, user_id, isbn, title, authors, page_count, average_rating, thumbnail_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.UserID,
		isbn,
		book.Title,
		authors,
		book.PageCount,
		book.AverageRating,
		book.ThumbnailURL,
		book.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}

	return nil
}

// ListBooksByUser returns all books owned by userID, ordered by title ascending.
func (s *SQLiteStore) ListBooksByUser(ctx context.Context, userID string) ([]models.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, isbn, title, authors, page_count, average_rating, thumbnail_url, created_at
		FROM books
		WHERE user_id = ?
		ORDER BY title ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}

// BookExistsByISBN reports whether userID already has a book with the given ISBN.
func (s *SQLiteStore) BookExistsByISBN(ctx context.Context, userID, isbn string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM books WHERE user_id = ? AND isbn = ? LIMIT 1",
		userID, isbn,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check book existence: %w", err)
	}
	return true, nil
}

// DeleteBook removes a book on behalf of requestingUserID.
// The ownership check and the delete share one transaction, so a
// failed delete leaves the row untouched.
func (s *SQLiteStore) DeleteBook(ctx context.Context, bookID, requestingUserID string) (*models.Book, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, user_id, isbn, title, authors, page_count, average_rating, thumbnail_url, created_at
		FROM books
		WHERE id = ?`,
		bookID,
	)
	book, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if book.UserID != requestingUserID {
		return nil, storage.ErrForbidden
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM books WHERE id = ?", bookID); err != nil {
		return nil, fmt.Errorf("failed to delete book: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return book, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (*models.Book, error) {
	book := &models.Book{}
	var isbn, authors sql.NullString
	err := row.Scan(
		&book.ID,
		&book.UserID,
		&isbn,
		&book.Title,
		&authors,
		&book.PageCount,
		&book.AverageRating,
		&book.ThumbnailURL,
		&book.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan book: %w", err)
	}
	book.ISBN = isbn.String
	book.Authors = authors.String
	return book, nil
}
