package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/landob/landobooks/internal/models"
)

// memoryUserStorage is an in-memory UserStorage for tests.
type memoryUserStorage struct {
	byUsername map[string]*models.User
}

func newMemoryUserStorage() *memoryUserStorage {
	return &memoryUserStorage{byUsername: make(map[string]*models.User)}
}

func (m *memoryUserStorage) CreateUser(_ context.Context, user *models.User) error {
	if _, ok := m.byUsername[user.Username]; ok {
		return errors.New("unique constraint violated")
	}
	m.byUsername[user.Username] = user
	return nil
}

func (m *memoryUserStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return m.byUsername[username], nil
}

func (m *memoryUserStorage) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()

	t.Run("Register hashes the password", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryUserStorage())

		user, err := a.Register(ctx, "alice", "password123")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.PasswordHash == "password123" || user.PasswordHash == "" {
			t.Error("Password must be stored as a hash")
		}
	})

	t.Run("Register rejects a duplicate handle and keeps the original", func(t *testing.T) {
		storage := newMemoryUserStorage()
		a := NewPasswordAuthenticator(storage)

		first, err := a.Register(ctx, "bob", "password123")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		if _, err := a.Register(ctx, "bob", "different456"); !errors.Is(err, ErrUsernameExists) {
			t.Errorf("Expected ErrUsernameExists, got %v", err)
		}

		kept, _ := storage.GetUserByUsername(ctx, "bob")
		if kept.PasswordHash != first.PasswordHash {
			t.Error("Original account changed by failed registration")
		}
	})

	t.Run("Register enforces minimum lengths", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryUserStorage())

		if _, err := a.Register(ctx, "al", "password123"); !errors.Is(err, ErrInvalidUsername) {
			t.Errorf("Expected ErrInvalidUsername, got %v", err)
		}
		if _, err := a.Register(ctx, "alice", "short"); !errors.Is(err, ErrWeakPassword) {
			t.Errorf("Expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("Authenticate succeeds with the right password", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryUserStorage())
		registered, err := a.Register(ctx, "carol", "password123")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		user, err := a.Authenticate(ctx, "carol", "password123")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.ID != registered.ID {
			t.Errorf("ID mismatch: got %s, want %s", user.ID, registered.ID)
		}
	})

	t.Run("wrong password and unknown handle are indistinguishable", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryUserStorage())
		if _, err := a.Register(ctx, "dave", "password123"); err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		_, wrongPassword := a.Authenticate(ctx, "dave", "nottherightone")
		_, unknownHandle := a.Authenticate(ctx, "nobody", "password123")

		if !errors.Is(wrongPassword, ErrInvalidCredentials) {
			t.Errorf("Wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
		}
		if !errors.Is(unknownHandle, ErrInvalidCredentials) {
			t.Errorf("Unknown handle: expected ErrInvalidCredentials, got %v", unknownHandle)
		}
		if wrongPassword.Error() != unknownHandle.Error() {
			t.Error("Failure modes must not be distinguishable")
		}
	})
}

func TestJWTManager(t *testing.T) {
	user := models.NewUser("erin", "some-hash")

	t.Run("Generate and Validate round trip", func(t *testing.T) {
		m := NewJWTManager("test-secret", time.Hour)

		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		claims, err := m.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != user.ID {
			t.Errorf("UserID mismatch: got %s, want %s", claims.UserID, user.ID)
		}
		if claims.Username != "erin" {
			t.Errorf("Username mismatch: got %s", claims.Username)
		}
	})

	t.Run("Validate rejects a token signed with another secret", func(t *testing.T) {
		m := NewJWTManager("test-secret", time.Hour)
		otherM := NewJWTManager("other-secret", time.Hour)

		token, err := otherM.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("Validate rejects an expired token", func(t *testing.T) {
		m := NewJWTManager("test-secret", -time.Hour)

		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})
}
