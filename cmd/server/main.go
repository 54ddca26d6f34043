package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/landob/landobooks/internal/auth"
	"github.com/landob/landobooks/internal/googlebooks"
	"github.com/landob/landobooks/internal/service"
	"github.com/landob/landobooks/internal/storage/sqlite"
	"github.com/landob/landobooks/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	port := getEnv("PORT", "8080")
	dbPath := getEnv("DB_PATH", "./data/books.db")
	jwtSecret := getEnv("JWT_SECRET", "")
	booksAPIURL := getEnv("BOOKS_API_URL", googlebooks.DefaultBaseURL)

	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		slog.Error("Invalid SESSION_TTL", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	// Wire services
	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(jwtSecret, sessionTTL)
	booksClient := googlebooks.NewClient(booksAPIURL)

	authSvc := service.NewAuthService(authenticator, jwtManager, sessionTTL, slog.Default())
	catalogueSvc := service.NewCatalogueService(store, booksClient, slog.Default())

	router := service.NewRouter(authSvc, catalogueSvc, jwtManager)

	addr := fmt.Sprintf(":%s", port)
	server := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// The external lookup alone may take its full 10s timeout.
		WriteTimeout: 15 * time.Second,
	}

	slog.Info("Server starting", "address", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
