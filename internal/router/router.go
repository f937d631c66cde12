package router

import (
	"database/sql"
	"net/http"
	"os"
	"strings"

	"nexusinvest/internal/config"
	"nexusinvest/internal/handlers"
	"nexusinvest/internal/middleware"
	"nexusinvest/internal/storage"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func SetupRouter(db *sql.DB, cfg config.Config, logger zerolog.Logger) *mux.Router {
	evidence, err := storage.NewEvidenceStore(cfg.UploadDir, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize evidence store")
	}

	authHandler := handlers.NewAuthHandler(db, logger)
	userHandler := handlers.NewUserHandler(db, logger)
	ledgerHandler := handlers.NewLedgerHandler(db, logger, evidence)
	planHandler := handlers.NewPlanHandler(logger)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		logger.Warn().Msg("JWT_SECRET not set, using default key")
	}

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(10), 20)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api/v1").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")

	api.HandleFunc("/plans", planHandler.GetPlans).Methods("GET")

	users := api.PathPrefix("/users").Subrouter()
	users.Use(middleware.Authentication(jwtSecret, logger))
	users.HandleFunc("/{id}", userHandler.GetUser).Methods("GET")

	ledger := api.PathPrefix("/ledger").Subrouter()
	ledger.Use(middleware.Authentication(jwtSecret, logger))
	ledger.HandleFunc("/deposit", ledgerHandler.Deposit).Methods("POST")
	ledger.HandleFunc("/withdraw", ledgerHandler.Withdraw).Methods("POST")
	ledger.HandleFunc("/subscribe", ledgerHandler.Subscribe).Methods("POST")
	ledger.HandleFunc("/transactions", ledgerHandler.GetTransactions).Methods("GET")

	// Stored proof files; references are high-entropy, never sequential, and
	// the directory index stays closed so references cannot be enumerated.
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", noListing(http.FileServer(http.Dir(evidence.Dir())))),
	).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

// noListing rejects bare directory requests: blobs are reachable only by
// their full reference, never by browsing.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
