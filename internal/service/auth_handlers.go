package service

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/landob/landobooks/internal/auth"
	"github.com/landob/landobooks/internal/middleware"
)

// AuthService handles registration, login and logout.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	sessionTTL    time.Duration
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		sessionTTL:    sessionTTL,
		logger:        logger,
	}
}

// RegisterPage answers GET /register. Authenticated users are sent back
// to the catalogue, mirroring the original form pages.
func (s *AuthService) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if s.hasValidSession(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"page":   "register",
		"fields": []string{"username", "password", "confirm_password"},
	})
}

// Register answers POST /register and creates a new account.
func (s *AuthService) Register(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	if confirm := r.FormValue("confirm_password"); confirm != "" && confirm != password {
		writeNotice(w, http.StatusBadRequest, "warning", "Passwords do not match.")
		return
	}

	_, err := s.authenticator.Register(r.Context(), username, password)
	if err != nil {
		s.logger.Warn("registration failed", "username", username, "error", err)
		switch {
		case errors.Is(err, auth.ErrUsernameExists):
			writeNotice(w, http.StatusConflict, "warning", "Username already exists.")
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidUsername):
			writeNotice(w, http.StatusBadRequest, "warning", err.Error())
		default:
			writeNotice(w, http.StatusInternalServerError, "danger", "Could not create account.")
		}
		return
	}

	s.logger.Info("user registered", "username", username)
	writeNotice(w, http.StatusCreated, "success", "Account created! You can now log in.")
}

// LoginPage answers GET /login.
func (s *AuthService) LoginPage(w http.ResponseWriter, r *http.Request) {
	if s.hasValidSession(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"page":   "login",
		"fields": []string{"username", "password"},
	})
}

// Login answers POST /login, establishing a session cookie on success.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := s.authenticator.Authenticate(r.Context(), username, password)
	if err != nil {
		// Same notice for unknown handle and wrong password.
		s.logger.Warn("login failed", "username", username)
		writeNotice(w, http.StatusUnauthorized, "danger", "Invalid username or password.")
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("failed to generate session token", "user_id", user.ID, "error", err)
		writeNotice(w, http.StatusInternalServerError, "danger", "Could not log in.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout answers GET /logout, invalidating the session cookie.
func (s *AuthService) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.logger.Info("user logged out", "user_id", middleware.GetUserID(r.Context()))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// hasValidSession reports whether the request carries a valid session
// cookie. Used by the form pages, which sit outside RequireAuth.
func (s *AuthService) hasValidSession(r *http.Request) bool {
	cookie, err := r.Cookie(middleware.SessionCookie)
	if err != nil || cookie.Value == "" {
		return false
	}
	_, err = s.jwtManager.Validate(cookie.Value)
	return err == nil
}
