package service

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/landob/landobooks/internal/auth"
	"github.com/landob/landobooks/internal/middleware"
)

// NewRouter wires the HTTP surface: public auth routes, the metrics
// and health endpoints, and the session-gated catalogue routes.
func NewRouter(authSvc *AuthService, catalogueSvc *CatalogueService, jwtManager *auth.JWTManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging, middleware.Metrics)

	// Public routes
	r.HandleFunc("/register", authSvc.RegisterPage).Methods(http.MethodGet)
	r.HandleFunc("/register", authSvc.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", authSvc.LoginPage).Methods(http.MethodGet)
	r.HandleFunc("/login", authSvc.Login).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// Protected routes
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(middleware.RequireAuth(jwtManager))
	protected.HandleFunc("/", catalogueSvc.ListBooks).Methods(http.MethodGet)
	protected.HandleFunc("/logout", authSvc.Logout).Methods(http.MethodGet)
	protected.HandleFunc("/search", catalogueSvc.Search).Methods(http.MethodPost)
	protected.HandleFunc("/add_book", catalogueSvc.AddBook).Methods(http.MethodPost)
	protected.HandleFunc("/add_book_from_selection", catalogueSvc.AddBookFromSelection).Methods(http.MethodPost)
	protected.HandleFunc("/delete_book/{id}", catalogueSvc.DeleteBook).Methods(http.MethodPost)

	return r
}
