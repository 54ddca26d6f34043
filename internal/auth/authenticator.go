package auth

import (
	"context"

	"github.com/landob/landobooks/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods
// without changing the handler layer.
type Authenticator interface {
	// Register creates a new user account with the given handle and credential.
	// Returns the created user or an error if registration fails.
	Register(ctx context.Context, username, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if valid.
	// Unknown handle and wrong credential produce the same error, so a
	// caller cannot probe for existing accounts.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's
	// requirements (length, format, etc.).
	ValidateCredential(credential string) error
}
