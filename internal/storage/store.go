// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/landob/landobooks/internal/models"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a mutation targets a row owned by
	// a different user than the requester.
	ErrForbidden = errors.New("forbidden")
)

// Store defines the interface for catalogue storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the handler layer.
type Store interface {
	// CreateUser persists a new user. The caller is responsible for
	// uniqueness of the handle; the backing unique index is the last line
	// of defense.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves a user by handle.
	// Returns (nil, nil) when no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns (nil, nil) when no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateBook persists a new book and populates its ID and CreatedAt.
	CreateBook(ctx context.Context, book *models.Book) error

	// ListBooksByUser returns the user's books ordered by title ascending.
	ListBooksByUser(ctx context.Context, userID string) ([]models.Book, error)

	// BookExistsByISBN reports whether the user already catalogued a
	// book with the given ISBN. Callers use it as a pre-insert dedupe
	// check; it is not transactional with the subsequent insert, so two
	// concurrent adds of the same ISBN can both pass.
	BookExistsByISBN(ctx context.Context, userID, isbn string) (bool, error)

	// DeleteBook removes the book with the given ID on behalf of
	// requestingUserID. Returns ErrNotFound if no such book exists and
	// ErrForbidden if it is owned by another user. The ownership check
	// and the delete run in one transaction; on failure nothing is
	// removed.
	DeleteBook(ctx context.Context, bookID, requestingUserID string) (*models.Book, error)

	// Close releases any resources held by the store.
	Close() error
}
